package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// UsageRepository records which widgets are used. It implements the document
// controller's usage recorder.
type UsageRepository struct {
	db *sql.DB

	mu      sync.Mutex
	session *int64
}

// StartSession opens an editing session; later events are tied to it.
func (r *UsageRepository) StartSession(ctx context.Context, document string) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO editing_sessions (document, started_at) VALUES (?, ?)`,
		document, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get session id: %w", err)
	}
	r.mu.Lock()
	r.session = &id
	r.mu.Unlock()
	return nil
}

// EndSession closes the open session, if any.
func (r *UsageRepository) EndSession(ctx context.Context) error {
	r.mu.Lock()
	id := r.session
	r.session = nil
	r.mu.Unlock()
	if id == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE editing_sessions SET ended_at = ? WHERE id = ?`, time.Now().UnixMilli(), *id); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// Record stores one usage event.
func (r *UsageRepository) Record(ctx context.Context, e UsageEvent) error {
	r.mu.Lock()
	m := toUsageModel(e, r.session)
	r.mu.Unlock()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO usage_events (qualified_name, action, document, created_at, session_id) VALUES (?, ?, ?, ?, ?)`,
		m.QualifiedName, m.Action, m.Document, m.CreatedAt, m.SessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// Summary returns per-widget counts, most created first. limit <= 0 returns
// every widget.
func (r *UsageRepository) Summary(ctx context.Context, limit int) ([]UsageCount, error) {
	query := `SELECT qualified_name,
			SUM(CASE WHEN action = ? THEN 1 ELSE 0 END) AS created,
			COUNT(*) AS total,
			MAX(created_at) AS last_used
		FROM usage_events
		GROUP BY qualified_name
		ORDER BY created DESC, total DESC, qualified_name ASC`
	args := []any{ActionCreated}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []UsageCount
	for rows.Next() {
		var (
			c    UsageCount
			last int64
		)
		if err := rows.Scan(&c.QualifiedName, &c.Created, &c.Total, &last); err != nil {
			return nil, fmt.Errorf("failed to scan usage: %w", err)
		}
		c.LastUsed = time.UnixMilli(last)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Sessions returns the number of recorded editing sessions.
func (r *UsageRepository) Sessions(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM editing_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}
