// Package schema reads type declarations from YAML schema files into the
// same type graph the Go source reader produces.
//
// # Schema Overview
//
//	version: "1"
//	package: api
//	types:
//	  - name: Person
//	    doc: Person is a person.      # string or list of lines
//	    strict: false                 # exact record (Flow)
//	    fields:
//	      - name: name
//	        type: string
//	        comment: the name         # trailing comment
//	      - name: friends
//	        type: "[]*Person"
//	        optional: true
//	  - name: Names
//	    type: "[]string"
//
// # Type expressions
//
// Field and alias types are written in Go syntax and parsed with go/parser:
//
//   - Go basic types: string, int, int64, float64, bool, byte, ...
//   - any and interface{}
//   - *T, []T, [N]T, map[K]V
//   - struct{ Name string `json:"name"` } for inline records
//   - names declared in the same file
//   - qualified names such as time.Time, which are external types
//
// A type declares either fields (a record) or type (an alias). Unknown names
// are reported as unknown_type errors with suggestions.
package schema
