package tdl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	extendsPattern  = regexp.MustCompile(`^([A-Z][A-Za-z0-9]*)\((.+)\)$`)
	symbolPattern   = regexp.MustCompile(`^([a-z][A-Za-z0-9_]*)([?\[\]]*)$`)
	propertyPattern = regexp.MustCompile(`^([a-z][A-Za-z0-9_]*)(.*)$`)
	indexSigPattern = regexp.MustCompile(`^\[\s*([a-z][A-Za-z0-9_]*)\s*:\s*(.+?)\s*\]([?\[\]]*)$`)
)

// Parse reads a TDL document into a [Document]. The YAML root must be a
// mapping; top-level keys are classified as metadata (underscore prefix),
// type definitions (capitalized), or symbols (lowercase).
func Parse(input []byte) (*Document, error) {
	file, err := parser.ParseBytes(input, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return nil, errNotMapping()
	}

	values, ok := mappingValues(unwrapNode(file.Docs[0].Body))
	if !ok {
		return nil, errNotMapping()
	}

	doc := &Document{Meta: orderedmap.New[string, any]()}

	for _, mvn := range values {
		key := keyString(mvn.Key)

		entryErr := parseEntry(doc, key, mvn.Value)
		if entryErr != nil {
			return nil, entryErr
		}
	}

	seen := make(map[string]bool, len(doc.Symbols))
	for _, sym := range doc.Symbols {
		if seen[sym.Name] {
			return nil, fmt.Errorf("%w: duplicate symbol %q", ErrInvalidLabel, sym.Name)
		}

		seen[sym.Name] = true
	}

	return doc, nil
}

func errNotMapping() error {
	return fmt.Errorf("%w: TDL document must be a YAML mapping at the top level", ErrInvalidShape)
}

// parseEntry classifies and parses one top-level key/value pair.
func parseEntry(doc *Document, key string, value ast.Node) error {
	if strings.HasPrefix(key, "_") {
		var v any

		err := yaml.NodeToValue(value, &v)
		if err != nil {
			return fmt.Errorf("%w: metadata section %s: %w", ErrInvalidYAML, key, err)
		}

		doc.Meta.Set(key, v)

		return nil
	}

	if m := extendsPattern.FindStringSubmatch(key); m != nil {
		node, err := parseExtends(m[1], m[2], value)
		if err != nil {
			return err
		}

		doc.addType(m[1], node)

		return nil
	}

	if typeNamePattern.MatchString(key) {
		node, err := parseValue(value)
		if err != nil {
			return fmt.Errorf("type %s: %w", key, err)
		}

		doc.addType(key, node)

		return nil
	}

	if m := symbolPattern.FindStringSubmatch(key); m != nil {
		optional, isArray, err := parseTail(m[2])
		if err != nil {
			return fmt.Errorf("symbol %s: %w", m[1], err)
		}

		node, err := parseValue(value)
		if err != nil {
			return fmt.Errorf("symbol %s: %w", m[1], err)
		}

		doc.Symbols = append(doc.Symbols, Symbol{
			Name:     m[1],
			Type:     node,
			Optional: optional,
			IsArray:  isArray,
		})

		return nil
	}

	return fmt.Errorf("%w: unrecognized top-level entry: %s", ErrInvalidShape, key)
}

// parseExtends handles the extends sugar Name(BaseExpr). The body must be a
// mapping; the result is Base & Body. BaseExpr goes through the scalar
// expression parser, so its rejections propagate.
func parseExtends(name, baseExpr string, value ast.Node) (Node, error) {
	base, err := parseTypeExpr(baseExpr)
	if err != nil {
		return nil, fmt.Errorf("type %s: base expression: %w", name, err)
	}

	values, ok := mappingValues(unwrapNode(value))
	if !ok {
		return nil, fmt.Errorf("%w: extends body for %s must be a mapping", ErrInvalidShape, name)
	}

	body, err := parseObjectBody(values)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", name, err)
	}

	return &Intersection{Members: []Node{base, body}}, nil
}

// parseValue parses a type definition or symbol value: mappings become inline
// object bodies, scalars go through the type-expression parser.
func parseValue(node ast.Node) (Node, error) {
	node = unwrapNode(node)

	if values, ok := mappingValues(node); ok {
		return parseObjectBody(values)
	}

	text, err := scalarText(node)
	if err != nil {
		return nil, err
	}

	return parseTypeExpr(text)
}

// parseObjectBody parses a YAML mapping into an [Object]: each entry is a
// property label or an index-signature label.
func parseObjectBody(values []*ast.MappingValueNode) (*Object, error) {
	obj := &Object{}
	seen := make(map[string]bool, len(values))

	for _, mvn := range values {
		label := keyString(mvn.Key)

		if strings.HasPrefix(label, "[") {
			sig, closed, err := parseIndexSig(label, mvn.Value)
			if err != nil {
				return nil, err
			}

			if closed {
				obj.Closed = true

				continue
			}

			obj.IndexSigs = append(obj.IndexSigs, *sig)

			continue
		}

		m := propertyPattern.FindStringSubmatch(label)
		if m == nil {
			return nil, fmt.Errorf("%w: malformed property label %q", ErrInvalidLabel, label)
		}

		optional, isArray, err := parseTail(m[2])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", label, err)
		}

		if seen[m[1]] {
			return nil, fmt.Errorf("%w: duplicate property %q", ErrInvalidLabel, m[1])
		}

		seen[m[1]] = true

		node, err := parseValue(mvn.Value)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", m[1], err)
		}

		obj.Props = append(obj.Props, Prop{
			Name:     m[1],
			Type:     node,
			Optional: optional,
			IsArray:  isArray,
		})
	}

	return obj, nil
}

// parseIndexSig parses an index-signature label and its value. The second
// return is true when the entry is the closure sugar [k: string]? never,
// which marks the enclosing object closed instead of producing a signature.
func parseIndexSig(label string, value ast.Node) (*IndexSig, bool, error) {
	m := indexSigPattern.FindStringSubmatch(label)
	if m == nil {
		return nil, false, fmt.Errorf("%w: malformed index signature %q", ErrInvalidLabel, label)
	}

	domain := m[2]

	optional, isArray, err := parseTail(m[3])
	if err != nil {
		return nil, false, fmt.Errorf("index signature %q: %w", label, err)
	}

	valueType, err := parseValue(value)
	if err != nil {
		return nil, false, fmt.Errorf("index signature %q: %w", label, err)
	}

	if domain == "string" {
		if p, ok := valueType.(*Primitive); ok && p.Kind == PrimitiveNever && optional {
			return nil, true, nil
		}

		return &IndexSig{
			Kind:     SigString,
			Value:    valueType,
			Optional: optional,
			IsArray:  isArray,
		}, false, nil
	}

	keys, err := parseEnumDomain(domain)
	if err != nil {
		return nil, false, fmt.Errorf("index signature %q: %w", label, err)
	}

	return &IndexSig{
		Kind:     SigEnum,
		Keys:     keys,
		Value:    valueType,
		Optional: optional,
		IsArray:  isArray,
	}, false, nil
}

// parseEnumDomain parses an enum-like key domain: a union of literals or
// ALL_CAPS tokens, all of one literal kind.
func parseEnumDomain(domain string) ([]Node, error) {
	parts := splitTop(domain, '|')
	keys := make([]Node, 0, len(parts))

	var kind string

	for _, part := range parts {
		part = strings.TrimSpace(part)

		n, err := parseEnumKey(part)
		if err != nil {
			return nil, err
		}

		k := LiteralKind(n)
		if kind == "" {
			kind = k
		} else if kind != k {
			return nil, fmt.Errorf("%w: enum-like keys must be literals of one kind", ErrInvalidLabel)
		}

		keys = append(keys, n)
	}

	return keys, nil
}

func parseEnumKey(part string) (Node, error) {
	if lit, ok := unquote(part); ok {
		return &StringLit{Value: lit}, nil
	}

	switch part {
	case "true":
		return &BoolLit{Value: true}, nil
	case "false":
		return &BoolLit{Value: false}, nil
	}

	if numberPattern.MatchString(part) {
		n, err := parseAtom(part)
		if err != nil {
			return nil, err
		}

		return n, nil
	}

	if allCapsPattern.MatchString(part) {
		return &StringLit{Value: part}, nil
	}

	return nil, fmt.Errorf("%w: enum-like expression must be literals or ALL_CAPS_TOKENs", ErrInvalidLabel)
}

// parseTail interprets a label suffix. The ? and [] markers may appear in
// either order.
func parseTail(tail string) (optional, isArray bool, err error) {
	switch tail {
	case "":
	case "?":
		optional = true
	case "[]":
		isArray = true
	case "?[]", "[]?":
		optional = true
		isArray = true
	default:
		err = fmt.Errorf("%w: bad label suffix %q", ErrInvalidLabel, tail)
	}

	return optional, isArray, err
}

// mappingValues returns the entries of a mapping node. Single-pair mappings
// arrive as a bare MappingValueNode.
func mappingValues(node ast.Node) ([]*ast.MappingValueNode, bool) {
	switch n := node.(type) {
	case *ast.MappingNode:
		return n.Values, true
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{n}, true
	}

	return nil, false
}

// scalarText returns the text of a scalar node for the expression parser.
func scalarText(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.StringNode:
		return n.Value, nil
	case *ast.LiteralNode:
		return n.Value.Value, nil
	case *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode:
		return n.GetToken().Value, nil
	case *ast.NullNode:
		return "", fmt.Errorf("%w: empty type expression", ErrTypeExpr)
	}

	return "", fmt.Errorf("%w: unsupported value shape %T", ErrInvalidShape, node)
}

// keyString returns a mapping key as plain text, without YAML quoting.
func keyString(key ast.MapKeyNode) string {
	if s, ok := key.(*ast.StringNode); ok {
		return s.Value
	}

	return key.String()
}

// unwrapNode resolves TagNode and AnchorNode wrappers to the underlying
// value node.
func unwrapNode(node ast.Node) ast.Node {
	for {
		switch n := node.(type) {
		case *ast.TagNode:
			node = n.Value
		case *ast.AnchorNode:
			node = n.Value
		default:
			return node
		}
	}
}
