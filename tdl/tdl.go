package tdl

import (
	"errors"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Sentinel errors returned by the parser. Emitters wrap these too where the
// violation is an authoring error rather than a dialect restriction.
var (
	ErrInvalidYAML  = errors.New("invalid yaml")
	ErrInvalidShape = errors.New("invalid document shape")
	ErrInvalidLabel = errors.New("invalid label")
	ErrTypeExpr     = errors.New("invalid type expression")
	ErrUnknownType  = errors.New("unknown type")
	ErrUnsupported  = errors.New("unsupported construct")
)

// PrimitiveKind names a TDL primitive type.
type PrimitiveKind string

// TDL primitive types. The media primitives (typedoc, image, audio, video)
// all lower to string schemas; never is the bottom type.
const (
	PrimitiveString  PrimitiveKind = "string"
	PrimitiveNumber  PrimitiveKind = "number"
	PrimitiveBoolean PrimitiveKind = "boolean"
	PrimitiveTypedoc PrimitiveKind = "typedoc"
	PrimitiveImage   PrimitiveKind = "image"
	PrimitiveAudio   PrimitiveKind = "audio"
	PrimitiveVideo   PrimitiveKind = "video"
	PrimitiveNever   PrimitiveKind = "never"
)

// Node is a parsed TDL type expression. The set of implementations is closed:
// [*Primitive], [*StringLit], [*NumberLit], [*BoolLit], [*Ref], [*Union],
// [*Intersection], and [*Object]. The emitters' node lowering handles all
// eight; helpers such as [LiteralKind] handle only the variants they apply to.
type Node interface {
	node()
}

// Primitive is a reserved primitive type word.
type Primitive struct {
	Kind PrimitiveKind
}

// StringLit is a quoted string literal, or an ALL_CAPS token treated as one.
type StringLit struct {
	Value string
}

// NumberLit is a numeric literal, stored as the parsed value.
type NumberLit struct {
	Value float64
}

// BoolLit is a true or false literal.
type BoolLit struct {
	Value bool
}

// Ref is a reference to a named type. It may be forward or self-referential;
// resolution happens against [Document.Type].
type Ref struct {
	Name string
}

// Union is a choice between two or more alternatives.
type Union struct {
	Members []Node
}

// Intersection combines two or more object-like operands.
type Intersection struct {
	Members []Node
}

// Prop is a declared property of an [Object]. IsArray means "array of Type";
// Type itself is not wrapped.
type Prop struct {
	Name     string
	Type     Node
	Optional bool
	IsArray  bool
}

// SigKind classifies an index signature's key domain.
type SigKind string

// Index signature key domains.
const (
	SigString SigKind = "string"
	SigEnum   SigKind = "enum"
)

// IndexSig is an index signature member of an [Object]. For [SigEnum], Keys
// holds the literal key values; for [SigString], Keys is nil.
type IndexSig struct {
	Kind     SigKind
	Keys     []Node
	Value    Node
	Optional bool
	IsArray  bool
}

// Object is an inline object body. Closed records that the closure sugar
// ([k: string]? never) was observed; the sugar itself is not retained in
// IndexSigs.
type Object struct {
	Props     []Prop
	IndexSigs []IndexSig
	Closed    bool
}

func (*Primitive) node()    {}
func (*StringLit) node()    {}
func (*NumberLit) node()    {}
func (*BoolLit) node()      {}
func (*Ref) node()          {}
func (*Union) node()        {}
func (*Intersection) node() {}
func (*Object) node()       {}

// TypeDef is a named top-level type definition.
type TypeDef struct {
	Name string
	Node Node
}

// Symbol is a lowercase-labeled top-level entry; it becomes a property of the
// emitted root object.
type Symbol struct {
	Name     string
	Type     Node
	Optional bool
	IsArray  bool
}

// Document is a parsed TDL document. It is constructed once by [Parse] and
// read-only afterwards. Types and Symbols preserve source declaration order;
// emitters rely on this for deterministic output.
type Document struct {
	Types   []TypeDef
	Symbols []Symbol

	// Meta holds underscore-prefixed top-level sections (_primitives,
	// _externals, _imports, _comments) decoded to plain Go values. The core
	// does not interpret them.
	Meta *orderedmap.OrderedMap[string, any]

	index map[string]int
}

// Type returns the node of the named type definition.
func (d *Document) Type(name string) (Node, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}

	return d.Types[i].Node, true
}

func (d *Document) addType(name string, node Node) {
	if d.index == nil {
		d.index = make(map[string]int)
	}

	d.index[name] = len(d.Types)
	d.Types = append(d.Types, TypeDef{Name: name, Node: node})
}
