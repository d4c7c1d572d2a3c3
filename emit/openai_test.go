package emit_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/tdlschema/emit"
	"go.jacobcolvin.com/tdlschema/stringtest"
	"go.jacobcolvin.com/tdlschema/tdl"
)

// emitOpenAI parses input and returns the compact-marshaled OpenAI schema.
func emitOpenAI(t *testing.T, input string) string {
	t.Helper()

	doc, err := tdl.Parse([]byte(input))
	require.NoError(t, err)

	schema, err := emit.OpenAI(doc)
	require.NoError(t, err)

	out, err := json.Marshal(schema)
	require.NoError(t, err)

	return string(out)
}

func TestOpenAITrivialSymbol(t *testing.T) {
	t.Parallel()

	got := emitOpenAI(t, "foo: string")

	assert.Equal(t,
		`{"type":"object","properties":{"foo":{"type":"string"}},`+
			`"required":["foo"],"additionalProperties":false,"$defs":{}}`,
		got)
}

func TestOpenAIOptionalArrayEnum(t *testing.T) {
	t.Parallel()

	got := emitOpenAI(t, `tags?[]: "'a' | 'b' | 'c'"`)

	assert.Equal(t,
		`{"type":"object","properties":{"tags":{"type":["array","null"],`+
			`"items":{"type":"string","enum":["a","b","c"]}}},`+
			`"required":["tags"],"additionalProperties":false,"$defs":{}}`,
		got)
}

func TestOpenAIRecursiveType(t *testing.T) {
	t.Parallel()

	input := stringtest.JoinLF(
		"Tree:",
		"  value: number",
		"  children[]: Tree",
		"root: Tree",
	)

	got := emitOpenAI(t, input)

	assert.Equal(t,
		`{"type":"object","properties":{"root":{"$ref":"#/$defs/Tree"}},`+
			`"required":["root"],"additionalProperties":false,"$defs":{`+
			`"Tree":{"type":"object","properties":{"value":{"type":"number"},`+
			`"children":{"type":"array","items":{"$ref":"#/$defs/Tree"}}},`+
			`"required":["value","children"],"additionalProperties":false}}}`,
		got)
}

func TestOpenAIDefsDeclarationOrder(t *testing.T) {
	t.Parallel()

	// First is declared first but its body is only finished after Second has
	// been emitted through the reference; the $defs slot order must still
	// follow declaration order.
	input := stringtest.JoinLF(
		"First:",
		"  next: Second",
		"Second: string",
		"root: First",
	)

	got := emitOpenAI(t, input)

	assert.Equal(t,
		`{"type":"object","properties":{"root":{"$ref":"#/$defs/First"}},`+
			`"required":["root"],"additionalProperties":false,"$defs":{`+
			`"First":{"type":"object","properties":{"next":{"$ref":"#/$defs/Second"}},`+
			`"required":["next"],"additionalProperties":false},`+
			`"Second":{"type":"string"}}}`,
		got)
}

func TestOpenAIIntersectionOverride(t *testing.T) {
	t.Parallel()

	input := stringtest.JoinLF(
		"A:",
		"  x: string",
		"  y: string",
		"B:",
		"  x: number",
		"out: A & B",
	)

	got := emitOpenAI(t, input)

	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"out": {
				"type": "object",
				"properties": {
					"x": {"type": "number"},
					"y": {"type": "string"}
				},
				"required": ["x", "y"],
				"additionalProperties": false
			}
		},
		"required": ["out"],
		"additionalProperties": false,
		"$defs": {
			"A": {
				"type": "object",
				"properties": {"x": {"type": "string"}, "y": {"type": "string"}},
				"required": ["x", "y"],
				"additionalProperties": false
			},
			"B": {
				"type": "object",
				"properties": {"x": {"type": "number"}},
				"required": ["x"],
				"additionalProperties": false
			}
		}
	}`, got)
}

func TestOpenAILowerings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string // expected JSON for properties.v
	}{
		"typedoc lowers to string": {
			input: "v: typedoc",
			want:  `{"type":"string"}`,
		},
		"image lowers to string": {
			input: "v: image",
			want:  `{"type":"string"}`,
		},
		"never is unsatisfiable": {
			input: "v: never",
			want:  `{"type":"number","minimum":1,"maximum":0}`,
		},
		"ref form lowers to string": {
			input: "v: Ref<Agent>",
			want:  `{"type":"string"}`,
		},
		"string literal": {
			input: `v: "'on'"`,
			want:  `{"type":"string","enum":["on"]}`,
		},
		"number literal": {
			input: "v: 7",
			want:  `{"type":"number","enum":[7]}`,
		},
		"boolean literal union compresses": {
			input: `v: "true | false"`,
			want:  `{"type":"boolean","enum":[true,false]}`,
		},
		"number literal union compresses": {
			input: `v: "1 | 2 | 3"`,
			want:  `{"type":"number","enum":[1,2,3]}`,
		},
		"heterogeneous union uses anyOf": {
			input: `v: "string | 7"`,
			want:  `{"anyOf":[{"type":"string"},{"type":"number","enum":[7]}]}`,
		},
		"mixed literal kinds are not compressed": {
			input: `v: "'a' | 1"`,
			want:  `{"anyOf":[{"type":"string","enum":["a"]},{"type":"number","enum":[1]}]}`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := emitOpenAI(t, tc.input)
			assert.JSONEq(t, `{
				"type": "object",
				"properties": {"v": `+tc.want+`},
				"required": ["v"],
				"additionalProperties": false,
				"$defs": {}
			}`, got)
		})
	}
}

func TestOpenAINullability(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"optional primitive widens type": {
			input: "v?: string",
			want:  `{"type":["string","null"]}`,
		},
		"optional never keeps range fields": {
			input: "v?: never",
			want:  `{"type":["number","null"],"minimum":1,"maximum":0}`,
		},
		"optional enum keeps enum": {
			input: `v?: "'a' | 'b'"`,
			want:  `{"type":["string","null"],"enum":["a","b"]}`,
		},
		"optional anyOf wraps": {
			input: `v?: "string | 7"`,
			want: `{"anyOf":[` +
				`{"anyOf":[{"type":"string"},{"type":"number","enum":[7]}]},` +
				`{"type":"null"}]}`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := emitOpenAI(t, tc.input)
			assert.JSONEq(t, `{
				"type": "object",
				"properties": {"v": `+tc.want+`},
				"required": ["v"],
				"additionalProperties": false,
				"$defs": {}
			}`, got)
		})
	}
}

func TestOpenAIOptionalRefWraps(t *testing.T) {
	t.Parallel()

	input := stringtest.JoinLF(
		"User:",
		"  name: string",
		"owner?: User",
	)

	got := emitOpenAI(t, input)

	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"owner": {"anyOf": [{"$ref": "#/$defs/User"}, {"type": "null"}]}
		},
		"required": ["owner"],
		"additionalProperties": false,
		"$defs": {
			"User": {
				"type": "object",
				"properties": {"name": {"type": "string"}},
				"required": ["name"],
				"additionalProperties": false
			}
		}
	}`, got)
}

func TestOpenAIClosedObjectSugar(t *testing.T) {
	t.Parallel()

	input := stringtest.JoinLF(
		"user:",
		"  name: string",
		`  "[k: string]?": never`,
	)

	got := emitOpenAI(t, input)

	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"user": {
				"type": "object",
				"properties": {"name": {"type": "string"}},
				"required": ["name"],
				"additionalProperties": false
			}
		},
		"required": ["user"],
		"additionalProperties": false,
		"$defs": {}
	}`, got)
}

func TestOpenAIEnumDomainMaterializes(t *testing.T) {
	t.Parallel()

	input := stringtest.JoinLF(
		"flags:",
		`  "[k: 'a' | 'b']?": number`,
	)

	got := emitOpenAI(t, input)

	assert.JSONEq(t, `{
		"type": "object",
		"properties": {
			"flags": {
				"type": "object",
				"properties": {
					"a": {"type": ["number", "null"]},
					"b": {"type": ["number", "null"]}
				},
				"required": ["a", "b"],
				"additionalProperties": false
			}
		},
		"required": ["flags"],
		"additionalProperties": false,
		"$defs": {}
	}`, got)
}

func TestOpenAIStringMapRejected(t *testing.T) {
	t.Parallel()

	input := stringtest.JoinLF(
		"scores:",
		`  "[k: string]": number`,
	)

	doc, err := tdl.Parse([]byte(input))
	require.NoError(t, err)

	_, err = emit.OpenAI(doc)
	require.ErrorIs(t, err, emit.ErrDialect)
	assert.ErrorContains(t, err, "string index signatures (maps) are not supported")
}

func TestOpenAIUnknownReference(t *testing.T) {
	t.Parallel()

	doc, err := tdl.Parse([]byte("v: Missing"))
	require.NoError(t, err)

	_, err = emit.OpenAI(doc)
	require.ErrorIs(t, err, tdl.ErrUnknownType)
}

func TestOpenAIUnreferencedTypesStillEmitted(t *testing.T) {
	t.Parallel()

	input := stringtest.JoinLF(
		"Unused: string",
		"foo: number",
	)

	got := emitOpenAI(t, input)

	assert.JSONEq(t, `{
		"type": "object",
		"properties": {"foo": {"type": "number"}},
		"required": ["foo"],
		"additionalProperties": false,
		"$defs": {"Unused": {"type": "string"}}
	}`, got)
}
