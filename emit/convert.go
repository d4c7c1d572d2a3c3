package emit

import (
	"go.jacobcolvin.com/tdlschema/tdl"
)

// Result holds both emitted schemas for one document.
type Result struct {
	OpenAI *JSON
	Gemini *JSON
}

// Convert parses a TDL document and emits both dialect schemas. Each call
// builds a fresh document and fresh emitter state, so concurrent calls are
// independent.
func Convert(input []byte) (*Result, error) {
	doc, err := tdl.Parse(input)
	if err != nil {
		return nil, err
	}

	openai, err := OpenAI(doc)
	if err != nil {
		return nil, err
	}

	gemini, err := Gemini(doc)
	if err != nil {
		return nil, err
	}

	return &Result{OpenAI: openai, Gemini: gemini}, nil
}
