// Package typemap maps the analyzed type graph to language-neutral target
// constructs: scalars, arrays, mappings, nullable types, named references
// and records.
//
// The mapping follows encoding/json: field names come from json tags,
// embedded structs are flattened, pointers become nullable and []byte
// becomes a string. Struct tags of the form tw:"Type[,nullable]" override
// the mapped type of a field and tw:"-" drops it.
//
// Doc comment directives:
//   - @strict marks a record as exact (Flow {| |} objects)
//   - @ignore excludes the declaration from the output
package typemap
