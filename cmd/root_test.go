package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/orchard/internal/document"
	"github.com/zjrosen/orchard/internal/infrastructure/sqlite"
	"github.com/zjrosen/orchard/internal/presentation"
	"github.com/zjrosen/orchard/internal/registry"
	"github.com/zjrosen/orchard/internal/scheme"
)

// execute runs the root command with a throwaway config and home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "statistics:\n  db_path: " + filepath.Join(dir, "usage.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))
	return executeWith(t, cfgPath, args...)
}

func executeWith(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	listCategory, listQuery, statsLimit = "", "", 0
	registryListCmd.Flags().Lookup("query").Changed = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

// saveDocument writes a two node document and returns its path.
func saveDocument(t *testing.T) string {
	t.Helper()
	doc := document.New(registry.MustBuiltin())
	t.Cleanup(doc.Close)
	one, err := doc.Registry().Widget("orchard.math.One")
	require.NoError(t, err)
	add, err := doc.Registry().Widget("orchard.math.Add")
	require.NoError(t, err)
	a, err := doc.CreateNewNode(one, "", &scheme.Point{X: 100, Y: 100})
	require.NoError(t, err)
	b, err := doc.CreateNewNode(add, "", &scheme.Point{X: 300, Y: 100})
	require.NoError(t, err)
	_, err = doc.Connect(a, "value", b, "left")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "flow.orchard.yaml")
	require.NoError(t, doc.Save(context.Background(), path))
	return path
}

func TestLoopPolicy(t *testing.T) {
	require.Equal(t, scheme.AllowLoops, loopPolicy("allow"))
	require.Equal(t, scheme.NoLoops, loopPolicy("forbid"))
	require.Equal(t, scheme.AllowLoops, loopPolicy(""))
}

func TestClipboardBackend_Memory(t *testing.T) {
	require.IsType(t, &document.MemoryClipboard{}, clipboardBackend("memory"))
}

func TestOpenDocument_NewFileBecomesSavePath(t *testing.T) {
	doc := document.New(registry.MustBuiltin())
	t.Cleanup(doc.Close)
	path := filepath.Join(t.TempDir(), "new.orchard.yaml")

	require.NoError(t, openDocument(context.Background(), doc, path))
	require.Equal(t, path, doc.Path())
	require.False(t, doc.IsModified())
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "nothing is written before save")
}

func TestOpenDocument_LoadsExisting(t *testing.T) {
	path := saveDocument(t)
	doc := document.New(registry.MustBuiltin())
	t.Cleanup(doc.Close)

	require.NoError(t, openDocument(context.Background(), doc, path))
	require.Len(t, doc.Scheme().Nodes(), 2)
	require.Len(t, doc.Scheme().Links(), 1)
}

func TestRegistryList_All(t *testing.T) {
	out, err := execute(t, "registry", "list")
	require.NoError(t, err)

	var widgets []presentation.WidgetDTO
	require.NoError(t, json.Unmarshal([]byte(out), &widgets))
	names := make([]string, 0, len(widgets))
	for _, w := range widgets {
		names = append(names, w.QualifiedName)
	}
	require.Contains(t, names, "orchard.math.Add")
	require.Contains(t, names, "orchard.data.File")
}

func TestRegistryList_Category(t *testing.T) {
	out, err := execute(t, "registry", "list", "--category", "Math")
	require.NoError(t, err)

	var widgets []presentation.WidgetDTO
	require.NoError(t, json.Unmarshal([]byte(out), &widgets))
	require.NotEmpty(t, widgets)
	for _, w := range widgets {
		require.Equal(t, "Math", w.Category)
	}
}

func TestRegistryList_UnknownCategory(t *testing.T) {
	_, err := execute(t, "registry", "list", "-C", "Nope")
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestRegistryList_Query(t *testing.T) {
	out, err := execute(t, "registry", "list", "--query", "plus")
	require.NoError(t, err)

	var widgets []presentation.WidgetDTO
	require.NoError(t, json.Unmarshal([]byte(out), &widgets))
	require.NotEmpty(t, widgets)
	require.Equal(t, "orchard.math.Add", widgets[0].QualifiedName)
	require.NotEmpty(t, widgets[0].Inputs)
}

func TestValidate_Clean(t *testing.T) {
	path := saveDocument(t)
	out, err := execute(t, "validate", path)
	require.NoError(t, err)

	var report presentation.ValidationDTO
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.True(t, report.Valid)
	require.Equal(t, 2, report.Nodes)
	require.Equal(t, 1, report.Links)
	require.Empty(t, report.Warnings)
}

func TestValidate_UnknownWidget(t *testing.T) {
	path := saveDocument(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	broken := strings.ReplaceAll(string(data), "orchard.math.One", "orchard.math.Missing")
	require.NoError(t, os.WriteFile(path, []byte(broken), 0o600))

	out, err := execute(t, "validate", path)
	require.ErrorIs(t, err, errInvalidDocument)

	var report presentation.ValidationDTO
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.False(t, report.Valid)
	require.Equal(t, 1, report.Nodes)
	require.Zero(t, report.Links)
	require.NotEmpty(t, report.Warnings)
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	require.True(t, os.IsNotExist(err))
}

func TestStats(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "usage.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("statistics:\n  db_path: "+dbPath+"\n"), 0o600))

	out, err := executeWith(t, cfgPath, "stats")
	require.NoError(t, err)
	var stats presentation.StatsDTO
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Zero(t, stats.Sessions)
	require.Empty(t, stats.Widgets)

	db, err := sqlite.NewDB(dbPath)
	require.NoError(t, err)
	repo := db.UsageRepository()
	ctx := context.Background()
	require.NoError(t, repo.StartSession(ctx, "flow.orchard.yaml"))
	require.NoError(t, repo.Record(ctx, sqlite.UsageEvent{QualifiedName: "orchard.math.Add", Action: sqlite.ActionCreated}))
	require.NoError(t, repo.Record(ctx, sqlite.UsageEvent{QualifiedName: "orchard.math.Add", Action: sqlite.ActionConnected}))
	require.NoError(t, repo.Record(ctx, sqlite.UsageEvent{QualifiedName: "orchard.math.One", Action: sqlite.ActionCreated}))
	require.NoError(t, repo.EndSession(ctx))
	require.NoError(t, db.Close())

	out, err = executeWith(t, cfgPath, "stats", "--limit", "1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	require.Equal(t, 1, stats.Sessions)
	require.Len(t, stats.Widgets, 1)
	require.Equal(t, "orchard.math.Add", stats.Widgets[0].QualifiedName)
	require.Equal(t, 1, stats.Widgets[0].Created)
	require.Equal(t, 2, stats.Widgets[0].Total)
}
