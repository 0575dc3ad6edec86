// Package diagnostic provides structured errors, warnings and notes
// collected while reading schemas and mapping them to target types.
//
// Key capabilities:
//   - Unsupported type warnings (channels, funcs, complex numbers)
//   - Unknown type references with "did you mean" suggestions
//   - Duplicate declaration names across packages
//   - Notes about opaque external types and ordering fallbacks
package diagnostic
