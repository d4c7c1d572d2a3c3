package emit

import (
	"errors"
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"go.jacobcolvin.com/tdlschema/tdl"
)

var (
	// ErrDialect indicates a document that cannot be expressed in the
	// target schema dialect.
	ErrDialect = errors.New("dialect restriction")
	// ErrInvalidOption indicates an invalid configuration value.
	ErrInvalidOption = errors.New("invalid option")
	// ErrReadInput indicates the input could not be read.
	ErrReadInput = errors.New("read input")
	// ErrWriteOutput indicates the output could not be written.
	ErrWriteOutput = errors.New("write output")
)

// JSON is an insertion-ordered JSON object. It marshals keys in insertion
// order and empty objects as {}, which keeps emitted schemas byte-identical
// across runs and key presence independent of content.
type JSON = orderedmap.OrderedMap[string, any]

func newObj() *JSON {
	return orderedmap.New[string, any]()
}

// dialect captures what differs between the two targets: how objects encode
// closure and optionality, and the shape of the cycle-breaking placeholder.
type dialect interface {
	object(e *emitter, obj *tdl.Object) (*JSON, error)
	placeholder() *JSON
}

// emitter holds per-run state: the $defs table and the visitation stack.
// Both live on the call frame, so concurrent conversions cannot interfere.
type emitter struct {
	doc      *tdl.Document
	dialect  dialect
	defs     *JSON
	visiting map[string]bool
	done     map[string]bool
}

// emitRoot builds the root object schema from the document's symbols and
// attaches the fully populated $defs table. Named types are eagerly
// pre-registered in declaration order, whether or not any symbol references
// them.
func emitRoot(doc *tdl.Document, d dialect) (*JSON, error) {
	e := &emitter{
		doc:      doc,
		dialect:  d,
		defs:     newObj(),
		visiting: make(map[string]bool),
		done:     make(map[string]bool),
	}

	// Reserve declaration-ordered slots first: emission below fills them in
	// place even when a later type's body is reached first through a
	// reference.
	for _, td := range doc.Types {
		e.defs.Set(td.Name, newObj())
	}

	for _, td := range doc.Types {
		_, err := e.ref(td.Name)
		if err != nil {
			return nil, err
		}
	}

	root := &tdl.Object{Closed: true}
	for _, sym := range doc.Symbols {
		root.Props = append(root.Props, tdl.Prop{
			Name:     sym.Name,
			Type:     sym.Type,
			Optional: sym.Optional,
			IsArray:  sym.IsArray,
		})
	}

	body, err := d.object(e, root)
	if err != nil {
		return nil, err
	}

	body.Set("$defs", e.defs)

	return body, nil
}

// node lowers an IR node to its dialect schema. Primitive, literal, union,
// and reference lowerings are shared by both dialects; objects and merged
// intersections go through the dialect.
func (e *emitter) node(n tdl.Node) (*JSON, error) {
	switch n := n.(type) {
	case *tdl.Primitive:
		return primitiveSchema(n.Kind), nil

	case *tdl.StringLit, *tdl.NumberLit, *tdl.BoolLit:
		return literalSchema(n), nil

	case *tdl.Ref:
		return e.ref(n.Name)

	case *tdl.Union:
		if s, ok := literalEnum(n.Members); ok {
			return s, nil
		}

		alts := make([]any, 0, len(n.Members))

		for _, m := range n.Members {
			s, err := e.node(m)
			if err != nil {
				return nil, err
			}

			alts = append(alts, s)
		}

		s := newObj()
		s.Set("anyOf", alts)

		return s, nil

	case *tdl.Intersection:
		merged, err := e.doc.MergeIntersection(n.Members)
		if err != nil {
			return nil, err
		}

		return e.dialect.object(e, merged)

	case *tdl.Object:
		return e.dialect.object(e, n)
	}

	return nil, fmt.Errorf("unhandled node %T", n)
}

// ref returns a $ref to the named type, emitting its definition on first
// use. A name already on the visitation stack gets a placeholder installed
// so recursion terminates; the real schema overwrites it (in place) once the
// outer emission returns.
func (e *emitter) ref(name string) (*JSON, error) {
	if e.done[name] {
		return refSchema(name), nil
	}

	if e.visiting[name] {
		e.defs.Set(name, e.dialect.placeholder())
		e.done[name] = true

		return refSchema(name), nil
	}

	node, ok := e.doc.Type(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", tdl.ErrUnknownType, name)
	}

	e.visiting[name] = true
	s, err := e.node(node)
	delete(e.visiting, name)

	if err != nil {
		return nil, err
	}

	e.defs.Set(name, s)
	e.done[name] = true

	return refSchema(name), nil
}

func refSchema(name string) *JSON {
	s := newObj()
	s.Set("$ref", "#/$defs/"+name)

	return s
}

// primitiveSchema lowers a primitive. The media primitives are opaque
// strings at the schema level; never is encoded as an unsatisfiable numeric
// range since neither dialect has a bottom type.
func primitiveSchema(kind tdl.PrimitiveKind) *JSON {
	s := newObj()

	switch kind {
	case tdl.PrimitiveNumber:
		s.Set("type", "number")
	case tdl.PrimitiveBoolean:
		s.Set("type", "boolean")
	case tdl.PrimitiveNever:
		s.Set("type", "number")
		s.Set("minimum", 1)
		s.Set("maximum", 0)
	default:
		s.Set("type", "string")
	}

	return s
}

// literalSchema lowers a single literal to a one-value enum.
func literalSchema(n tdl.Node) *JSON {
	s := newObj()
	s.Set("type", tdl.LiteralKind(n))
	s.Set("enum", []any{literalValue(n)})

	return s
}

func literalValue(n tdl.Node) any {
	switch n := n.(type) {
	case *tdl.StringLit:
		return n.Value
	case *tdl.NumberLit:
		return n.Value
	case *tdl.BoolLit:
		return n.Value
	}

	return nil
}

// literalEnum compresses a union whose members are all literals of one JSON
// type into {type, enum}, preserving member order.
func literalEnum(members []tdl.Node) (*JSON, bool) {
	kind := tdl.LiteralKind(members[0])
	if kind == "" {
		return nil, false
	}

	values := make([]any, 0, len(members))

	for _, m := range members {
		if tdl.LiteralKind(m) != kind {
			return nil, false
		}

		values = append(values, literalValue(m))
	}

	s := newObj()
	s.Set("type", kind)
	s.Set("enum", values)

	return s, true
}

// keyName renders an enum-domain key literal as a property name.
func keyName(n tdl.Node) string {
	switch n := n.(type) {
	case *tdl.StringLit:
		return n.Value
	case *tdl.NumberLit:
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	case *tdl.BoolLit:
		return strconv.FormatBool(n.Value)
	}

	return ""
}

func arraySchema(items *JSON) *JSON {
	s := newObj()
	s.Set("type", "array")
	s.Set("items", items)

	return s
}
