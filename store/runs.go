package store

import (
	"context"
	"time"
)

// RunRecord is the audit row for one batch run.
type RunRecord struct {
	RunID     string
	Started   time.Time
	Finished  time.Time
	DryRun    bool
	Total     int
	Processed int
	Failed    int
	Skipped   int
}

// RecordRun appends a batch run audit record.
func (s *Store) RecordRun(ctx context.Context, r RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, started, finished, dry_run, trades_total, processed, failed, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Started, r.Finished, r.DryRun, r.Total, r.Processed, r.Failed, r.Skipped,
	)
	return err
}

// ListRuns returns run audit records, most recent first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, started, finished, dry_run, trades_total, processed, failed, skipped
		FROM runs ORDER BY run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.Started, &r.Finished, &r.DryRun, &r.Total, &r.Processed, &r.Failed, &r.Skipped); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
