// Package analyze provides package loading and type graph extraction.
//
// It uses golang.org/x/tools/go/packages with AST and go/types
// to build a canonical in-memory model of the declared types, their
// fields, struct tags and comments.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/alias/pointer/slice/map/...)
//   - FieldInfo: describes field name, type, tags, comments and embedding
package analyze
