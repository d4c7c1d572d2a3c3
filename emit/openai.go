package emit

import (
	"fmt"

	"go.jacobcolvin.com/tdlschema/tdl"
)

// OpenAI emits the Structured Outputs schema for a parsed document. Every
// object is closed, every property is listed in required, and optionality is
// encoded by making the property's schema nullable.
func OpenAI(doc *tdl.Document) (*JSON, error) {
	return emitRoot(doc, openaiDialect{})
}

type openaiDialect struct{}

func (openaiDialect) placeholder() *JSON {
	s := newObj()
	s.Set("type", "object")
	s.Set("properties", newObj())
	s.Set("required", []string{})
	s.Set("additionalProperties", false)

	return s
}

func (d openaiDialect) object(e *emitter, obj *tdl.Object) (*JSON, error) {
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

		if p.Optional {
			s = nullable(s)
		}

		props.Set(p.Name, s)
		required = append(required, p.Name)
	}

	for _, sig := range obj.IndexSigs {
		if sig.Kind == tdl.SigString {
			return nil, fmt.Errorf(
				"%w: OpenAI schema: string index signatures (maps) are not supported", ErrDialect)
		}

		// Enum-domain keys materialize as concrete properties, required
		// like any other.
		for _, key := range sig.Keys {
			s, err := e.node(sig.Value)
			if err != nil {
				return nil, err
			}

			if sig.IsArray {
				s = arraySchema(s)
			}

			if sig.Optional {
				s = nullable(s)
			}

			name := keyName(key)
			if _, exists := props.Get(name); !exists {
				required = append(required, name)
			}

			props.Set(name, s)
		}
	}

	out := newObj()
	out.Set("type", "object")
	out.Set("properties", props)
	out.Set("required", required)
	out.Set("additionalProperties", false)

	return out, nil
}

// nullable widens a schema to accept null. A string type becomes [t, null],
// an existing type array gains null idempotently, and schemas without a type
// key ($ref, anyOf) are wrapped in anyOf with a null alternative.
func nullable(s *JSON) *JSON {
	t, ok := s.Get("type")
	if ok {
		switch t := t.(type) {
		case string:
			s.Set("type", []any{t, "null"})
		case []any:
			for _, v := range t {
				if v == "null" {
					return s
				}
			}

			s.Set("type", append(t, "null"))
		}

		return s
	}

	null := newObj()
	null.Set("type", "null")

	wrapper := newObj()
	wrapper.Set("anyOf", []any{s, null})

	return wrapper
}
