// Package tdl parses Typedoc Definition Language documents into a typed
// intermediate representation.
//
// TDL is a YAML-shaped schema authoring language for constraining large
// language model output. A document is a YAML mapping whose top-level keys
// fall into three classes:
//
//   - Underscore-prefixed keys (_primitives, _externals, _imports, _comments)
//     are opaque metadata, preserved on [Document.Meta] for downstream tools.
//   - Capitalized keys declare named types. The value is either a YAML
//     mapping (an inline object body) or a scalar type expression. The
//     extends sugar Name(Base) declares Name as the intersection of Base and
//     the mapping body.
//   - Lowercase keys declare symbols: fields of the root object the schema
//     emitters produce. The label may carry ? (optional) and [] (array)
//     suffixes, e.g. tags?[].
//
// Scalar values go through a small recursive-descent expression parser
// supporting unions (|), intersections (&), parentheses, quoted string
// literals, numeric and boolean literals, the primitive words (string,
// number, boolean, typedoc, image, audio, video, never), references to named
// types, all-caps string tokens, and the Ref<...> form, which lowers to a
// plain string. Function types, conditionals, qualified imports, and other
// generics are rejected with authoring errors.
//
// Inline object bodies accept property labels with ?/[] suffixes and index
// signatures like [k: string] or [k: 'a' | 'b']. The closure sugar
// [k: string]? never marks an object closed and is not retained as a
// signature.
//
// A [Document] is immutable after [Parse], and declaration order of types and
// symbols is preserved so that schema emission is deterministic.
package tdl
