package emit

import (
	"errors"
	"fmt"
	"strings"

	"typewriter/internal/naming"
)

// ErrUnknownLanguage is returned for unsupported target languages.
var ErrUnknownLanguage = errors.New("unknown language")

// Language is a target language.
type Language string

const (
	Flow       Language = "flow"
	TypeScript Language = "typescript"
	Elm        Language = "elm"
)

// Languages returns the supported languages.
func Languages() []Language {
	return []Language{Flow, TypeScript, Elm}
}

// ParseLanguage parses a language name. "ts" is accepted for TypeScript.
func ParseLanguage(s string) (Language, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "ts" {
		return TypeScript, nil
	}

	names := make([]string, 0, len(Languages()))
	for _, l := range Languages() {
		if string(l) == name {
			return l, nil
		}

		names = append(names, string(l))
	}

	if hint := naming.Suggest(name, names, 1); len(hint) > 0 {
		return "", fmt.Errorf("%w %q, did you mean %q?", ErrUnknownLanguage, s, hint[0])
	}

	return "", fmt.Errorf("%w %q (supported: %s)", ErrUnknownLanguage, s, strings.Join(names, ", "))
}

// Ext returns the file extension of generated files.
func (l Language) Ext() string {
	switch l {
	case Flow:
		return ".js"
	case TypeScript:
		return ".ts"
	case Elm:
		return ".elm"
	default:
		return ""
	}
}

// Filename returns the output file name for a base name such as "models".
// Elm module files are capitalized.
func (l Language) Filename(base string) string {
	if l == Elm {
		return ModuleName(base) + l.Ext()
	}

	return base + l.Ext()
}

// ModuleName returns the Elm module name for a base name: "api_models" -> "ApiModels".
func ModuleName(base string) string {
	var sb strings.Builder
	for _, tok := range naming.TokenizeIdent(base) {
		sb.WriteString(strings.ToUpper(tok[:1]) + tok[1:])
	}

	if sb.Len() == 0 {
		return "Models"
	}

	return sb.String()
}
