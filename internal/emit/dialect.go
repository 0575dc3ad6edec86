package emit

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"typewriter/internal/naming"
	"typewriter/internal/typemap"
)

// dialect renders type expressions of one language.
type dialect struct {
	scalars  map[typemap.Scalar]string
	opaque   string
	array    func(elem string) string
	mapping  func(key, val string) string
	nullable func(elem string) string
	// object renders an inline record from rendered "name: type" members.
	object func(members []string) string
	member func(name, expr string, optional bool) string
	// fieldName makes a field name legal in the language.
	fieldName func(name string) string
	// open and close delimit a declared record.
	open, close func(strict bool) string
}

var jsIdent = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func jsFieldName(name string) string {
	if jsIdent.MatchString(name) {
		return name
	}

	return jsQuote(name)
}

// jsQuote quotes s as a JSON string, which is also a valid JavaScript string
// literal.
func jsQuote(s string) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(s); err != nil {
		return `""`
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

var flowDialect = &dialect{
	scalars: map[typemap.Scalar]string{
		typemap.ScalarAny:    "any",
		typemap.ScalarString: "string",
		typemap.ScalarInt:    "number",
		typemap.ScalarFloat:  "number",
		typemap.ScalarBool:   "boolean",
	},
	opaque:   "Object",
	array:    func(elem string) string { return "Array<" + elem + ">" },
	mapping:  func(key, val string) string { return "{ [key: " + key + "]: " + val + " }" },
	nullable: func(elem string) string { return "?" + elem },
	object: func(members []string) string {
		if len(members) == 0 {
			return "{}"
		}
		return "{ " + strings.Join(members, ", ") + " }"
	},
	member:    jsMember,
	fieldName: jsFieldName,
	open: func(strict bool) string {
		if strict {
			return "{|"
		}
		return "{"
	},
	close: func(strict bool) string {
		if strict {
			return "|}"
		}
		return "}"
	},
}

var typeScriptDialect = &dialect{
	scalars: map[typemap.Scalar]string{
		typemap.ScalarAny:    "any",
		typemap.ScalarString: "string",
		typemap.ScalarInt:    "number",
		typemap.ScalarFloat:  "number",
		typemap.ScalarBool:   "boolean",
	},
	opaque:   "object",
	array:    func(elem string) string { return "Array<" + elem + ">" },
	mapping:  func(key, val string) string { return "{ [key: " + key + "]: " + val + " }" },
	nullable: func(elem string) string { return elem + " | null" },
	object: func(members []string) string {
		if len(members) == 0 {
			return "{}"
		}
		return "{ " + strings.Join(members, "; ") + " }"
	},
	member:    jsMember,
	fieldName: jsFieldName,
	open:      func(bool) string { return "{" },
	close:     func(bool) string { return "}" },
}

func jsMember(name, expr string, optional bool) string {
	if optional {
		return name + "?: " + expr
	}

	return name + ": " + expr
}

// elmReserved are Elm keywords that cannot be record field names.
var elmReserved = map[string]bool{
	"if": true, "then": true, "else": true, "case": true, "of": true,
	"let": true, "in": true, "type": true, "module": true, "where": true,
	"import": true, "exposing": true, "as": true, "port": true, "alias": true,
}

var elmInvalid = regexp.MustCompile(`[^A-Za-z0-9_]`)

func elmFieldName(name string) string {
	name = elmInvalid.ReplaceAllString(naming.LowerFirst(name), "_")
	if name == "" || name[0] == '_' || (name[0] >= '0' && name[0] <= '9') {
		name = "f" + name
	}

	if elmReserved[name] {
		return name + "_"
	}

	return name
}

// elmArg parenthesizes a type application used as an argument.
func elmArg(expr string) string {
	if !strings.Contains(expr, " ") || strings.HasPrefix(expr, "{") || strings.HasPrefix(expr, "(") {
		return expr
	}

	return "(" + expr + ")"
}

var elmDialect = &dialect{
	scalars: map[typemap.Scalar]string{
		typemap.ScalarAny:    "Json.Encode.Value",
		typemap.ScalarString: "String",
		typemap.ScalarInt:    "Int",
		typemap.ScalarFloat:  "Float",
		typemap.ScalarBool:   "Bool",
	},
	opaque:   "Json.Encode.Value",
	array:    func(elem string) string { return "List " + elmArg(elem) },
	mapping:  func(key, val string) string { return "Dict " + elmArg(key) + " " + elmArg(val) },
	nullable: func(elem string) string { return "Maybe " + elmArg(elem) },
	object: func(members []string) string {
		if len(members) == 0 {
			return "{}"
		}
		return "{ " + strings.Join(members, ", ") + " }"
	},
	member: func(name, expr string, optional bool) string {
		if optional {
			expr = "Maybe " + elmArg(expr)
		}
		return name + " : " + expr
	},
	fieldName: elmFieldName,
	open:      func(bool) string { return "{" },
	close:     func(bool) string { return "}" },
}

func dialectFor(l Language) *dialect {
	switch l {
	case Flow:
		return flowDialect
	case TypeScript:
		return typeScriptDialect
	case Elm:
		return elmDialect
	default:
		return nil
	}
}

// expr renders a type expression.
func (d *dialect) expr(t *typemap.Type) string {
	if t == nil {
		return d.scalars[typemap.ScalarAny]
	}

	switch t.Kind {
	case typemap.KindScalar:
		return d.scalars[t.Scalar]
	case typemap.KindRef, typemap.KindRaw:
		return t.Name
	case typemap.KindOpaque:
		return d.opaque
	case typemap.KindArray:
		return d.array(d.expr(t.Elem))
	case typemap.KindMap:
		return d.mapping(d.expr(t.Key), d.expr(t.Elem))
	case typemap.KindNullable:
		return d.nullable(d.expr(t.Elem))
	case typemap.KindObject:
		members := make([]string, 0, len(t.Fields))
		for _, f := range t.Fields {
			members = append(members, d.member(d.fieldName(f.Name), d.expr(f.Type), f.Optional))
		}
		return d.object(members)
	default:
		return d.scalars[typemap.ScalarAny]
	}
}
