package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driven"
)

// runStore implements driven.IndexRunStore.
type runStore struct {
	store *Store
}

var _ driven.IndexRunStore = (*runStore)(nil)

// RunStore returns an IndexRunStore interface backed by this store.
func (s *Store) RunStore() driven.IndexRunStore {
	return &runStore{store: s}
}

// RecordRun appends one completed build.
func (s *runStore) RecordRun(ctx context.Context, run domain.IndexRun) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO index_runs (started_at, ended_at, messages_seen, failed, records, vectors)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.StartedAt.UTC().Format(time.RFC3339),
		run.EndedAt.UTC().Format(time.RFC3339),
		run.Summary.MessagesSeen,
		run.Summary.Failed,
		run.Summary.Records,
		run.Summary.Vectors)

	if err != nil {
		return fmt.Errorf("recording index run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first, at most limit.
func (s *runStore) Runs(ctx context.Context, limit int) ([]domain.IndexRun, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT started_at, ended_at, messages_seen, failed, records, vectors
		FROM index_runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying index runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.IndexRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.IndexRun
		var startedAt, endedAt string
		if err := rows.Scan(&startedAt, &endedAt,
			&run.Summary.MessagesSeen, &run.Summary.Failed,
			&run.Summary.Records, &run.Summary.Vectors); err != nil {
			return nil, fmt.Errorf("scanning index run: %w", err)
		}

		if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
			run.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339, endedAt); err == nil {
			run.EndedAt = t
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating index runs: %w", err)
	}

	return runs, nil
}

// PruneRuns drops all but the most recent keep runs.
func (s *runStore) PruneRuns(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM index_runs
		WHERE id NOT IN (
			SELECT id FROM index_runs ORDER BY id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning index runs: %w", err)
	}
	return nil
}
