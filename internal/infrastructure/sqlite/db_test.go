package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDB_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "usage.db")

	db, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	}
}

func TestNewDB_RunsMigrations(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"usage_events", "editing_sessions"} {
		var name string
		err := db.conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}

	var version int
	require.NoError(t, db.conn.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	require.Equal(t, 2, version)
}

func TestNewDB_ReopenKeepsDataAndBacksUp(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "usage.db")

	db1, err := NewDB(dbPath)
	require.NoError(t, err)
	require.NoError(t, db1.UsageRepository().Record(context.Background(), UsageEvent{QualifiedName: "orchard.math.One", Action: ActionCreated}))
	require.NoError(t, db1.Close())

	db2, err := NewDB(dbPath)
	require.NoError(t, err)
	defer db2.Close()

	info, err := os.Stat(dbPath + ".bak")
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	var migrations int
	require.NoError(t, db2.conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&migrations))
	require.Equal(t, 2, migrations, "migrations are not reapplied")

	summary, err := db2.UsageRepository().Summary(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, summary, 1)
}

func TestNewDB_Pragmas(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	defer db.Close()

	var journal string
	require.NoError(t, db.conn.QueryRow("PRAGMA journal_mode").Scan(&journal))
	require.Equal(t, "wal", journal)

	var fk, busy int
	require.NoError(t, db.conn.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	require.Equal(t, 1, fk)
	require.NoError(t, db.conn.QueryRow("PRAGMA busy_timeout").Scan(&busy))
	require.Equal(t, 5000, busy)
}

func TestDB_Close(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "usage.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.Error(t, db.Connection().Ping())
}

func TestUsageRepository_Summary(t *testing.T) {
	db, err := NewMemoryDB()
	require.NoError(t, err)
	defer db.Close()
	repo := db.UsageRepository()
	ctx := context.Background()

	require.NoError(t, repo.StartSession(ctx, "/tmp/a.orchard.yaml"))
	base := time.UnixMilli(1_700_000_000_000)
	events := []UsageEvent{
		{QualifiedName: "orchard.math.Add", Action: ActionCreated, At: base},
		{QualifiedName: "orchard.math.One", Action: ActionCreated, At: base.Add(time.Second)},
		{QualifiedName: "orchard.math.One", Action: ActionCreated, At: base.Add(2 * time.Second)},
		{QualifiedName: "orchard.math.One", Action: ActionRemoved, At: base.Add(3 * time.Second)},
		{QualifiedName: "orchard.math.Add", Action: ActionConnected, At: base.Add(4 * time.Second)},
	}
	for _, e := range events {
		require.NoError(t, repo.Record(ctx, e))
	}
	require.NoError(t, repo.EndSession(ctx))
	require.NoError(t, repo.EndSession(ctx))

	summary, err := repo.Summary(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, []UsageCount{
		{QualifiedName: "orchard.math.One", Created: 2, Total: 3, LastUsed: base.Add(3 * time.Second)},
		{QualifiedName: "orchard.math.Add", Created: 1, Total: 2, LastUsed: base.Add(4 * time.Second)},
	}, summary)

	top, err := repo.Summary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)

	sessions, err := repo.Sessions(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, sessions)

	var linked int
	require.NoError(t, db.conn.QueryRow("SELECT COUNT(*) FROM usage_events WHERE session_id IS NOT NULL").Scan(&linked))
	require.Equal(t, len(events), linked)
}
