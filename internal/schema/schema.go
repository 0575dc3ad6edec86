package schema

// File is the root of a schema file.
type File struct {
	// Version of the schema format. Defaults to "1".
	Version string `yaml:"version"`
	// Package is used as the package path of the declared types.
	Package string `yaml:"package,omitempty"`
	// Types are the declarations, in output source order.
	Types []TypeDef `yaml:"types"`

	// Path is the file the schema was loaded from.
	Path string `yaml:"-"`
}

// TypeDef declares one named type.
type TypeDef struct {
	Name   string        `yaml:"name"`
	Doc    StringOrArray `yaml:"doc,omitempty"`
	Strict bool          `yaml:"strict,omitempty"`
	Fields []FieldDef    `yaml:"fields,omitempty"`
	// Type makes the declaration an alias of a type expression.
	Type string `yaml:"type,omitempty"`
}

// IsAlias reports whether the declaration is an alias.
func (t *TypeDef) IsAlias() bool {
	return t.Type != ""
}

// FieldDef declares one record field.
type FieldDef struct {
	// Name is the encoded field name.
	Name     string        `yaml:"name"`
	Type     string        `yaml:"type"`
	Doc      StringOrArray `yaml:"doc,omitempty"`
	Comment  string        `yaml:"comment,omitempty"`
	Optional bool          `yaml:"optional,omitempty"`
}

// StringOrArray is a YAML value that is either one string or a list of them.
type StringOrArray []string
