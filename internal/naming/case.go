package naming

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Case selects how Go field names without a json tag are rendered.
type Case string

const (
	CaseGo    Case = "go"    // keep the Go field name (encoding/json behavior)
	CaseSnake Case = "snake" // order_id
	CaseCamel Case = "camel" // orderId
)

// ParseCase parses a case name. The empty string selects CaseGo.
func ParseCase(s string) (Case, error) {
	switch c := Case(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CaseGo, nil
	case CaseGo, CaseSnake, CaseCamel:
		return c, nil
	default:
		return "", fmt.Errorf("unknown field case %q (want go, snake or camel)", s)
	}
}

// Apply renders name in the receiver case.
func (c Case) Apply(name string) string {
	switch c {
	case CaseSnake:
		return ToSnake(name)
	case CaseCamel:
		return ToCamel(name)
	default:
		return name
	}
}

// ToSnake converts an identifier to snake_case: "OrderID" -> "order_id".
func ToSnake(s string) string {
	return strings.Join(TokenizeIdent(s), "_")
}

// ToCamel converts an identifier to lower camelCase: "OrderID" -> "orderId".
func ToCamel(s string) string {
	tokens := TokenizeIdent(s)

	var sb strings.Builder
	for i, tok := range tokens {
		if i == 0 {
			sb.WriteString(tok)
			continue
		}

		sb.WriteString(upperFirst(tok))
	}

	return sb.String()
}

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}
