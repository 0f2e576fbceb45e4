package decisionrecorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS decisions (
	decision_id       TEXT PRIMARY KEY,
	recorded_at       TEXT NOT NULL,
	dominant_group    TEXT NOT NULL,
	observation_count INTEGER NOT NULL,
	window_size       INTEGER NOT NULL,
	context_tags      TEXT NOT NULL,
	ad_id             TEXT NOT NULL,
	display_ref       TEXT NOT NULL,
	reason            TEXT NOT NULL,
	tier              TEXT NOT NULL,
	transition        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS decisions_recorded_at ON decisions (recorded_at);
`

// recordedAtLayout has a fixed width so recorded_at sorts lexically.
const recordedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRecorder keeps decisions in a local sqlite file for kiosks without
// network analytics.
type SQLiteRecorder struct {
	db *sql.DB
}

func NewSQLiteRecorder(ctx context.Context, path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	slog.InfoContext(ctx, "decision recorder initialized",
		slog.String("type", "sqlite"),
		slog.String("path", path),
	)

	return &SQLiteRecorder{db: db}, nil
}

func (r *SQLiteRecorder) RecordDecision(ctx context.Context, record domain.DecisionRecord) error {
	tags := record.ContextTags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal context tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO decisions (decision_id, recorded_at, dominant_group, observation_count, window_size,
			context_tags, ad_id, display_ref, reason, tier, transition)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.DecisionID,
		record.RecordedAt.UTC().Format(recordedAtLayout),
		record.DominantGroup,
		record.ObservationCount,
		record.WindowSize,
		string(tagsJSON),
		record.AdID,
		record.DisplayRef,
		record.Reason,
		record.Tier,
		record.Transition,
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}

	return nil
}

// Recent returns up to limit decisions, newest first.
func (r *SQLiteRecorder) Recent(ctx context.Context, limit int) ([]domain.DecisionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT decision_id, recorded_at, dominant_group, observation_count, window_size,
			context_tags, ad_id, display_ref, reason, tier, transition
		 FROM decisions ORDER BY recorded_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []domain.DecisionRecord
	for rows.Next() {
		var (
			rec        domain.DecisionRecord
			recordedAt string
			tagsJSON   string
		)
		if err := rows.Scan(
			&rec.DecisionID, &recordedAt, &rec.DominantGroup, &rec.ObservationCount, &rec.WindowSize,
			&tagsJSON, &rec.AdID, &rec.DisplayRef, &rec.Reason, &rec.Tier, &rec.Transition,
		); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}

		rec.RecordedAt, err = time.Parse(recordedAtLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parse recorded_at: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &rec.ContextTags); err != nil {
			return nil, fmt.Errorf("unmarshal context tags: %w", err)
		}

		out = append(out, rec)
	}

	return out, rows.Err()
}

func (r *SQLiteRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
