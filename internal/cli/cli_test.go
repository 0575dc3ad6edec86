package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"typewriter/internal/gen"
)

const shopSchema = "testdata/shop.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--log-level", "error"))

	err := cmd.Execute()

	return out.String(), err
}

func TestLangs(t *testing.T) {
	out, err := run(t, "langs")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"flow", "models.js"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"typescript", "models.ts"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"elm", "Models.elm"}, strings.Fields(lines[2]))
}

func TestGen_Stdout(t *testing.T) {
	out, err := run(t, "gen", "-s", shopSchema, "-l", "ts", "--order", "dependency", "--header=false", "--stdout")
	require.NoError(t, err)

	want := `export type Item = {
	sku: string;
	qty: number;
};

// Order is a placed order.
// @strict
export type Order = {
	id: number;
	items: Array<Item>;
	note?: string | null; // free text
};
`
	assert.Equal(t, want, out)
}

func TestGen_WritesFiles(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "gen", "-s", shopSchema, "-l", "flow", "-l", "elm", "-o", dir, "--basename", "shop")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "shop.js")+"\n"+filepath.Join(dir, "Shop.elm")+"\n", out)

	flow, err := os.ReadFile(filepath.Join(dir, "shop.js"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(flow), "// @flow\n// Code generated by typewriter. DO NOT EDIT.\n"))
	assert.Contains(t, string(flow), "export type Order = {|")

	elm, err := os.ReadFile(filepath.Join(dir, "Shop.elm"))
	require.NoError(t, err)
	assert.Contains(t, string(elm), "module Shop exposing (..)")
}

func TestGen_Package(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "gen", "-p", "typewriter/examples/models", "-o", dir)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "models.js"))
	require.NoError(t, err)

	want, err := os.ReadFile(filepath.Join("..", "gen", "testdata", "models.js"))
	require.NoError(t, err)

	assert.Equal(t, string(want), string(got))
}

func TestGen_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	schema, err := filepath.Abs(shopSchema)
	require.NoError(t, err)

	config := filepath.Join(dir, "typewriter.yaml")
	require.NoError(t, os.WriteFile(config, []byte(
		"schemas:\n  - "+schema+"\nlanguages: [typescript]\nout: "+dir+"\nbasename: api\n"), 0o644))

	_, err = run(t, "gen", "--config", config)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "api.ts"))
	assert.NoFileExists(t, filepath.Join(dir, "api.js"))
}

func TestGen_Errors(t *testing.T) {
	_, err := run(t, "gen")
	require.ErrorIs(t, err, gen.ErrNoInput)

	_, err = run(t, "gen", "-s", shopSchema, "-l", "cobol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown language")

	_, err = run(t, "gen", "-s", shopSchema, "--order", "random")
	require.Error(t, err)

	_, err = run(t, "gen", "--config", filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
}

func TestInspect_YAML(t *testing.T) {
	out, err := run(t, "inspect", "-s", shopSchema, "-l", "ts")
	require.NoError(t, err)

	var view inspectView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))

	require.Len(t, view.Declarations, 2)
	assert.Empty(t, view.Diagnostics)

	item := view.Declarations[0]
	assert.Equal(t, "Item", item.Name)
	assert.Equal(t, "shop.Item", item.Source)

	order := view.Declarations[1]
	assert.Equal(t, "Order", order.Name)
	assert.True(t, order.Strict)
	assert.Equal(t, []string{"Item"}, order.Refs)
	require.Len(t, order.Fields, 3)
	assert.Equal(t, inspectField{Name: "note", Type: "string | null", Optional: true, Comment: "free text"}, order.Fields[2])
}

func TestInspect_Dump(t *testing.T) {
	out, err := run(t, "inspect", "-s", shopSchema, "--format", "dump")
	require.NoError(t, err)

	assert.Contains(t, out, "typemap.Decl")
	assert.Contains(t, out, `Name: (string) (len=5) "Order"`)
}

func TestInspect_UnknownFormat(t *testing.T) {
	_, err := run(t, "inspect", "-s", shopSchema, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
