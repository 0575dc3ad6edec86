// Package gen drives a generation run: it loads the inputs, maps the types,
// orders the declarations and renders one file per target language.
//
// Declaration order:
//   - alpha: by declared name (default)
//   - source: in the order types appear in the inputs
//   - dependency: referenced types before the types that use them,
//     falling back to alpha when the references form a cycle
package gen
