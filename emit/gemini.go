package emit

import (
	"slices"

	"go.jacobcolvin.com/tdlschema/tdl"
)

// Gemini emits the jsonschema_gemini schema for a parsed document. Optional
// fields are omitted from required, object openness follows the source
// (string-domain index signatures become schema-valued additionalProperties),
// and the root is always closed.
func Gemini(doc *tdl.Document) (*JSON, error) {
	return emitRoot(doc, geminiDialect{})
}

type geminiDialect struct{}

func (geminiDialect) placeholder() *JSON {
	s := newObj()
	s.Set("type", "object")
	s.Set("properties", newObj())
	s.Set("required", []string{})
	s.Set("additionalProperties", true)

	return s
}

func (d geminiDialect) object(e *emitter, obj *tdl.Object) (*JSON, error) {
	props := newObj()
	required := []string{}

	for _, p := range obj.Props {
		s, err := e.node(p.Type)
		if err != nil {
			return nil, err
		}

		if p.IsArray {
			s = arraySchema(s)
		}

		props.Set(p.Name, s)

		if !p.Optional {
			required = append(required, p.Name)
		}
	}

	var addl any = !obj.Closed

	for _, sig := range obj.IndexSigs {
		switch sig.Kind {
		case tdl.SigEnum:
			for _, key := range sig.Keys {
				s, err := e.node(sig.Value)
				if err != nil {
					return nil, err
				}

				if sig.IsArray {
					s = arraySchema(s)
				}

				props.Set(keyName(key), s)

				if !sig.Optional && !slices.Contains(required, keyName(key)) {
					required = append(required, keyName(key))
				}
			}

		case tdl.SigString:
			// Maps lower to a schema-valued additionalProperties. With
			// several signatures (possible after intersection merging) the
			// last one wins.
			s, err := e.node(sig.Value)
			if err != nil {
				return nil, err
			}

			if sig.IsArray {
				s = arraySchema(s)
			}

			addl = s
		}
	}

	out := newObj()
	out.Set("type", "object")
	out.Set("properties", props)
	out.Set("required", required)
	out.Set("additionalProperties", addl)

	return out, nil
}
