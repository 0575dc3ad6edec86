package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typewriter/internal/emit"
	"typewriter/internal/gen"
	"typewriter/internal/naming"
)

func TestLoad_File(t *testing.T) {
	c, err := Load(New(), filepath.Join("testdata", "typewriter.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"typewriter/examples/models"}, c.Packages)
	assert.Equal(t, []string{"api.yaml"}, c.Schemas)
	assert.Equal(t, "web/src/types", c.Out)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.True(t, c.Header, "defaults fill keys the file leaves out")

	g, err := c.Generator()
	require.NoError(t, err)

	assert.Equal(t, []emit.Language{emit.Flow, emit.TypeScript, emit.Elm}, g.Languages)
	assert.Equal(t, "api", g.BaseName)
	assert.Equal(t, gen.OrderDependency, g.Order)
	assert.True(t, g.Mapper.StrictAll)
	assert.True(t, g.Mapper.OptionalOmitEmpty)
	assert.Equal(t, naming.CaseCamel, g.Mapper.FieldCase)
	assert.Equal(t, map[string]string{
		"time.Time":                   "Date",
		"github.com/google/uuid.UUID": "string",
	}, g.Mapper.Overrides)

	assert.Equal(t, gen.Inputs{Packages: c.Packages, Schemas: c.Schemas}, c.Inputs())
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load(New(), "")
	require.NoError(t, err)

	g, err := c.Generator()
	require.NoError(t, err)

	def := gen.DefaultGeneratorConfig()
	assert.Equal(t, def.Languages, g.Languages)
	assert.Equal(t, def.OutputDir, g.OutputDir)
	assert.Equal(t, def.BaseName, g.BaseName)
	assert.Equal(t, def.Order, g.Order)
	assert.Equal(t, def.Header, g.Header)
	assert.Equal(t, naming.CaseGo, g.Mapper.FieldCase)
	assert.Empty(t, c.Packages)
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TYPEWRITER_OUT", "generated")
	t.Setenv("TYPEWRITER_LOG_LEVEL", "warn")
	t.Setenv("TYPEWRITER_LANGUAGES", "elm,typescript")

	c, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "generated", c.Out)
	assert.Equal(t, "warn", c.Log.Level)

	g, err := c.Generator()
	require.NoError(t, err)
	assert.Equal(t, []emit.Language{emit.Elm, emit.TypeScript}, g.Languages)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join("testdata", "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_GeneratorErrors(t *testing.T) {
	tests := []struct {
		name string
		c    Config
	}{
		{"language", Config{Languages: []string{"cobol"}}},
		{"order", Config{Order: "random"}},
		{"field case", Config{FieldCase: "kebab"}},
		{"override", Config{Overrides: []Override{{Type: "time.Time"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.c.Generator()
			assert.Error(t, err)
		})
	}
}
