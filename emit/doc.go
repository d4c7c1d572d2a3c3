// Package emit lowers parsed TDL documents to JSON Schema in two dialects:
// OpenAI Structured Outputs ([OpenAI]) and Gemini jsonschema_gemini
// ([Gemini]). [Convert] runs both from one input.
//
// The dialects share primitive, literal, union, and reference lowerings and
// the named-type resolution discipline: a per-run $defs table populated
// eagerly in declaration order, and a visitation stack that breaks reference
// cycles by installing a placeholder before recursing. They differ in how
// they encode closure and optionality:
//
//   - OpenAI: every object sets additionalProperties: false, every property
//     appears in required, and optional properties become nullable (type
//     widened with "null", or wrapped in anyOf for $ref/anyOf schemas).
//     String-domain index signatures (maps) cannot be expressed and are
//     rejected.
//   - Gemini: optional properties are simply omitted from required. Object
//     openness follows the source: open objects emit
//     additionalProperties: true, closed ones false, and string-domain index
//     signatures emit their value schema as additionalProperties. The root
//     object is always closed.
//
// Emitted schemas are insertion-ordered [JSON] objects; marshaling the same
// document twice yields byte-identical output, with $defs entries and
// properties in source declaration order.
package emit
