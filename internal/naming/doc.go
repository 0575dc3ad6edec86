// Package naming provides identifier tokenization, case conversion for
// generated field names, and Levenshtein-based "did you mean" suggestions.
//
// Key functions:
//   - TokenizeIdent: splits CamelCase and separated identifiers into tokens
//   - Case.Apply: renders a Go field name as snake_case or camelCase
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks known names close to a misspelled one
package naming
