package document

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/orchard/internal/readwrite"
)

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "flows", "sum.orchard.yaml")

	c := newController(t)
	require.ErrorIs(t, c.Save(ctx, ""), ErrNoPath)

	one := create(t, c, "orchard.math.One")
	add := create(t, c, "orchard.math.Add")
	connect(t, c, one, "value", add, "left")
	require.NoError(t, c.SetTitle("Sum"))

	var saved []string
	c.Subscribe(func(ev Event) {
		if ev.Kind == EventSaved {
			saved = append(saved, ev.Path)
		}
	})
	require.True(t, c.IsModified())
	require.NoError(t, c.Save(ctx, path))
	require.False(t, c.IsModified())
	require.Equal(t, path, c.Path())
	require.Equal(t, []string{path}, saved)
	require.Empty(t, c.UnsavedChanges())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, c.MatchesSaved(data))
	require.False(t, c.MatchesSaved(append(data, '\n')))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left behind")

	other := newController(t)
	warnings, err := other.Load(ctx, path)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, "Sum", other.Scheme().Title())
	require.Equal(t, path, other.Path())
	require.Equal(t, []string{"One", "Add"}, titles(other.Scheme().Nodes()))
	require.Len(t, other.Scheme().Links(), 1)
	require.False(t, other.IsModified())
	require.False(t, other.Stack().CanUndo())

	require.NoError(t, other.RenameNode(other.Scheme().Nodes()[0], "Seed"))
	require.NoError(t, other.Save(ctx, ""))
	require.Equal(t, []string{path}, saved, "saves of another controller are not observed")
}

func TestLoad_SkipsUnknownWidgets(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.yaml")

	c := newController(t)
	one := create(t, c, "orchard.math.One")
	add := create(t, c, "orchard.math.Add")
	connect(t, c, one, "value", add, "left")
	require.NoError(t, c.Save(ctx, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data = []byte(strings.ReplaceAll(string(data), "orchard.math.Add", "orchard.math.Gone"))
	require.NoError(t, os.WriteFile(path, data, 0600))

	warnings, err := c.Load(ctx, path)
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
	require.ErrorIs(t, warnings[0], readwrite.ErrUnknownWidget)
	require.Equal(t, []string{"One"}, titles(c.Scheme().Nodes()))
	require.Empty(t, c.Scheme().Links())

	_, err = c.Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnsavedChanges(t *testing.T) {
	c := newController(t)
	require.Empty(t, c.UnsavedChanges())

	create(t, c, "orchard.math.One")
	diff := c.UnsavedChanges()
	require.Contains(t, diff, "+")
	require.Contains(t, diff, "title: One")
	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		require.True(t, strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-"), line)
	}

	require.NoError(t, c.Undo())
	require.Empty(t, c.UnsavedChanges())
}
