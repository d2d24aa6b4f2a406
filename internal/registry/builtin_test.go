package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	reg, err := Builtin()
	require.NoError(t, err)

	for _, name := range []string{
		"orchard.data.File",
		"orchard.data.DataTable",
		"orchard.math.One",
		"orchard.math.Add",
		"orchard.visualize.ScatterPlot",
	} {
		require.True(t, reg.HasWidget(name), name)
	}

	var cats []string
	for _, c := range reg.Categories() {
		cats = append(cats, c.Name())
	}
	require.Equal(t, []string{"Data", "Transform", "Math", "Visualize", "Prototypes"}, cats)

	// Hidden categories stay out of search results.
	for _, w := range reg.Search(context.Background(), "") {
		require.NotEqual(t, "Prototypes", w.Category())
	}

	scale, err := reg.Widget("orchard.math.Scale")
	require.NoError(t, err)
	require.Equal(t, float64(2), scale.DefaultProperties()["factor"])
}

func TestLoad_ExtraPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "text.widgets.yaml"), []byte(`
categories:
  - name: Text
    priority: 5
widgets:
  - qualified_name: local.text.WordCloud
    name: Word Cloud
    category: Text
    inputs:
      - name: corpus
        type: Corpus
`), 0o600))
	single := filepath.Join(t.TempDir(), "extra.hcl")
	require.NoError(t, os.WriteFile(single, []byte(`
widget "local.text.Counter" {
  name     = "Counter"
  category = "Text"
}
`), 0o600))

	reg, err := Load([]string{dir, single}, false)
	require.NoError(t, err)
	require.True(t, reg.HasWidget("orchard.math.One"))
	require.True(t, reg.HasWidget("local.text.WordCloud"))
	require.True(t, reg.HasWidget("local.text.Counter"))

	_, err = Load([]string{dir}, true)
	require.NoError(t, err)

	_, err = Load([]string{filepath.Join(dir, "missing")}, false)
	require.Error(t, err)
}
