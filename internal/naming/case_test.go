package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCase_Apply(t *testing.T) {
	tests := []struct {
		name  string
		c     Case
		input string
		want  string
	}{
		{"go keeps name", CaseGo, "MapStringToInt", "MapStringToInt"},
		{"snake", CaseSnake, "MapStringToInt", "map_string_to_int"},
		{"snake acronym", CaseSnake, "OrderID", "order_id"},
		{"camel", CaseCamel, "MapStringToInt", "mapStringToInt"},
		{"camel acronym", CaseCamel, "URLParser", "urlParser"},
		{"camel single", CaseCamel, "ID", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Apply(tt.input))
		})
	}
}

func TestParseCase(t *testing.T) {
	c, err := ParseCase("")
	require.NoError(t, err)
	assert.Equal(t, CaseGo, c)

	c, err = ParseCase(" Snake ")
	require.NoError(t, err)
	assert.Equal(t, CaseSnake, c)

	_, err = ParseCase("kebab")
	assert.Error(t, err)
}

func TestLowerFirst(t *testing.T) {
	assert.Equal(t, "person", LowerFirst("Person"))
	assert.Equal(t, "", LowerFirst(""))
	assert.Equal(t, "éclair", LowerFirst("Éclair"))
}
