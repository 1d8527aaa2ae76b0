package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"solar_eda"

	"github.com/google/uuid"
)

// SQLite TIMESTAMP text layout; lexical order equals time order.
const timestampLayout = "2006-01-02 15:04:05"

const (
	insertRunSQL = `
		INSERT INTO analysis_runs (id, created_at, dataset, source, policy, rows_in, rows_out, duration_ms, summary, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRunColumns = `SELECT id, created_at, dataset, source, policy, rows_in, rows_out, duration_ms, summary`

	selectRunByIDSQL = selectRunColumns + `, report FROM analysis_runs WHERE id = ?`

	selectLatestRunSQL = selectRunColumns + `, report FROM analysis_runs ORDER BY created_at DESC, rowid DESC LIMIT 1`
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite { return &RunSQLite{db: db} }

var _ RunRepo = (*RunSQLite)(nil)

// Save inserts a run. Empty ID and zero CreatedAt are filled in.
func (r *RunSQLite) Save(ctx context.Context, run solar_eda.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary of run %s: %w", run.ID, err)
	}
	report, err := json.Marshal(run.Report)
	if err != nil {
		return fmt.Errorf("marshal report of run %s: %w", run.ID, err)
	}

	_, err = r.db.ExecContext(ctx, insertRunSQL,
		run.ID,
		run.CreatedAt.UTC().Format(timestampLayout),
		run.Dataset,
		run.Source,
		run.Policy,
		run.RowsIn,
		run.RowsOut,
		run.DurationMs,
		string(summary),
		string(report),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// List returns matching runs ordered by creation time.
func (r *RunSQLite) List(ctx context.Context, from, to time.Time, dataset string) ([]solar_eda.Run, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, from.UTC().Format(timestampLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, to.UTC().Format(timestampLayout))
	}
	if dataset = strings.TrimSpace(dataset); dataset != "" {
		conds = append(conds, "dataset = ?")
		args = append(args, dataset)
	}

	q := selectRunColumns + ` FROM analysis_runs`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := make([]solar_eda.Run, 0, 16)
	for rows.Next() {
		var (
			run     solar_eda.Run
			summary string
		)
		if err := rows.Scan(&run.ID, &run.CreatedAt, &run.Dataset, &run.Source, &run.Policy,
			&run.RowsIn, &run.RowsOut, &run.DurationMs, &summary); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
			return nil, fmt.Errorf("decode summary of run %s: %w", run.ID, err)
		}
		run.CreatedAt = run.CreatedAt.UTC()
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads a run with its report.
func (r *RunSQLite) Get(ctx context.Context, id string) (solar_eda.Run, error) {
	return r.scanFull(r.db.QueryRowContext(ctx, selectRunByIDSQL, id))
}

// Latest loads the most recently created run.
func (r *RunSQLite) Latest(ctx context.Context) (solar_eda.Run, error) {
	return r.scanFull(r.db.QueryRowContext(ctx, selectLatestRunSQL))
}

func (r *RunSQLite) scanFull(row *sql.Row) (solar_eda.Run, error) {
	var (
		run             solar_eda.Run
		summary, report string
	)
	err := row.Scan(&run.ID, &run.CreatedAt, &run.Dataset, &run.Source, &run.Policy,
		&run.RowsIn, &run.RowsOut, &run.DurationMs, &summary, &report)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return solar_eda.Run{}, ErrRunNotFound
		}
		return solar_eda.Run{}, fmt.Errorf("select run: %w", err)
	}
	if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
		return solar_eda.Run{}, fmt.Errorf("decode summary of run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(report), &run.Report); err != nil {
		return solar_eda.Run{}, fmt.Errorf("decode report of run %s: %w", run.ID, err)
	}
	run.CreatedAt = run.CreatedAt.UTC()
	return run, nil
}
