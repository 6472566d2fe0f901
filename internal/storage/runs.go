package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"stdsdb/internal/domain"

	"github.com/google/uuid"
)

// runTimeLayout is fixed width so started_at sorts lexically.
const runTimeLayout = "2006-01-02T15:04:05.000000000Z"

// RunStore persists the pipeline run log.
type RunStore struct {
	db *DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// ── Run Logs ───────────────────────────────────────────────

// Start records a new running run and fills in its id and start time.
func (s *RunStore) Start(ctx context.Context, run *domain.PipelineRun) error {
	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC()
	run.Status = domain.RunStatusRunning

	_, err := s.db.conn.ExecContext(ctx, s.rebind(
		`INSERT INTO pipeline_runs (id, kind, run_trigger, status, started_at)
		 VALUES (?, ?, ?, ?, ?)`),
		run.ID, string(run.Kind), run.Trigger, string(run.Status), run.StartedAt.Format(runTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("record run start: %w", err)
	}
	return nil
}

// Finish stores the outcome of run. A non-nil runErr marks it failed.
func (s *RunStore) Finish(ctx context.Context, run *domain.PipelineRun, runErr error) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Status = domain.RunStatusSuccess
	if runErr != nil {
		run.Status = domain.RunStatusFailed
		run.Error = runErr.Error()
	}

	_, err := s.db.conn.ExecContext(ctx, s.rebind(
		`UPDATE pipeline_runs SET status=?, finished_at=?, records_read=?, records_written=?,
		 records_rejected=?, files_written=?, error=? WHERE id=?`),
		string(run.Status), now.Format(runTimeLayout), run.RecordsRead, run.RecordsWritten,
		run.RecordsRejected, run.FilesWritten, run.Error, run.ID,
	)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *RunStore) List(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.conn.QueryContext(ctx, s.rebind(
		`SELECT id, kind, run_trigger, status, started_at, finished_at, records_read,
		 records_written, records_rejected, files_written, error
		 FROM pipeline_runs ORDER BY started_at DESC LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.PipelineRun
	for rows.Next() {
		var r domain.PipelineRun
		var kind, status, started string
		var finished, errMsg sql.NullString
		if err := rows.Scan(
			&r.ID, &kind, &r.Trigger, &status, &started, &finished,
			&r.RecordsRead, &r.RecordsWritten, &r.RecordsRejected, &r.FilesWritten, &errMsg,
		); err != nil {
			return nil, err
		}
		r.Kind = domain.RunKind(kind)
		r.Status = domain.RunStatus(status)
		r.StartedAt, _ = time.Parse(runTimeLayout, started)
		if finished.Valid {
			if t, err := time.Parse(runTimeLayout, finished.String); err == nil {
				r.FinishedAt = &t
			}
		}
		r.Error = errMsg.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// rebind rewrites ? markers into the dialect's placeholders.
func (s *RunStore) rebind(query string) string {
	d := s.db.dialect
	if d.Placeholder(1) == "?" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
