// Package emit renders mapped declarations as type declarations of a
// target language.
//
// File layout (header, comments, declaration keywords) comes from
// text/template templates embedded per language; type expressions are
// rendered by a per-language dialect so that nesting and precedence stay
// in Go code.
package emit
