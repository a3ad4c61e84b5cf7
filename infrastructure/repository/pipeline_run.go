package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/vfg2006/oea-pipeline/infrastructure/database/postgres"
	"github.com/vfg2006/oea-pipeline/internal/domain"
)

const (
	pipelineRunsTable = "pipeline_runs"
	stepAttemptsTable = "pipeline_step_attempts"
)

type PipelineRunRepository interface {
	CreateRun(ctx context.Context, run *domain.PipelineRun) error
	FinishRun(ctx context.Context, run *domain.PipelineRun) error
	SaveAttempt(ctx context.Context, attempt *domain.StepAttempt) error
	GetLastRun(ctx context.Context) (*domain.PipelineRun, error)
	ListAttempts(ctx context.Context, runID string) ([]*domain.StepAttempt, error)
}

type pipelineRunRepository struct {
	conn postgres.Queryer
}

func NewPipelineRunRepository(conn postgres.Queryer) PipelineRunRepository {
	return &pipelineRunRepository{
		conn: conn,
	}
}

func (r *pipelineRunRepository) CreateRun(ctx context.Context, run *domain.PipelineRun) error {
	sqlQuery, args, err := createRunQuery(run)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, sqlQuery, args...); err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (r *pipelineRunRepository) FinishRun(ctx context.Context, run *domain.PipelineRun) error {
	sqlQuery, args, err := finishRunQuery(run)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, sqlQuery, args...); err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (r *pipelineRunRepository) SaveAttempt(ctx context.Context, attempt *domain.StepAttempt) error {
	sqlQuery, args, err := saveAttemptQuery(attempt)
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, sqlQuery, args...); err != nil {
		return wrapDBError(err)
	}
	return nil
}

// GetLastRun retorna a execução mais recente ou nil se não houver nenhuma
func (r *pipelineRunRepository) GetLastRun(ctx context.Context) (*domain.PipelineRun, error) {
	sqlQuery, args, err := lastRunQuery()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	run := &domain.PipelineRun{}
	var finishedAt sql.NullTime
	var runErr sql.NullString

	err = r.conn.QueryRowContext(ctx, sqlQuery, args...).Scan(
		&run.ID,
		&run.Trigger,
		&run.Status,
		&run.StartedAt,
		&finishedAt,
		&runErr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapDBError(err)
	}

	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	if runErr.Valid {
		run.Error = &runErr.String
	}

	return run, nil
}

func (r *pipelineRunRepository) ListAttempts(ctx context.Context, runID string) ([]*domain.StepAttempt, error) {
	sqlQuery, args, err := listAttemptsQuery(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	attempts := make([]*domain.StepAttempt, 0)
	for rows.Next() {
		a := &domain.StepAttempt{}
		var durationMs int64
		if err := rows.Scan(
			&a.RunID,
			&a.Step,
			&a.Attempt,
			&a.ExitCode,
			&a.LogFile,
			&a.StartedAt,
			&durationMs,
			&a.Succeeded,
		); err != nil {
			return nil, err
		}
		a.Duration = time.Duration(durationMs) * time.Millisecond
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}

func createRunQuery(run *domain.PipelineRun) (string, []interface{}, error) {
	return squirrel.StatementBuilder.
		Insert(pipelineRunsTable).
		Columns("id", "trigger", "status", "started_at").
		Values(run.ID, run.Trigger, run.Status, run.StartedAt).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func finishRunQuery(run *domain.PipelineRun) (string, []interface{}, error) {
	return squirrel.
		Update(pipelineRunsTable).
		Set("status", run.Status).
		Set("finished_at", run.FinishedAt).
		Set("error", run.Error).
		Where(squirrel.Eq{"id": run.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func saveAttemptQuery(a *domain.StepAttempt) (string, []interface{}, error) {
	return squirrel.StatementBuilder.
		Insert(stepAttemptsTable).
		Columns("run_id", "step", "attempt", "exit_code", "log_file", "started_at", "duration_ms", "succeeded").
		Values(a.RunID, a.Step, a.Attempt, a.ExitCode, a.LogFile, a.StartedAt, a.Duration.Milliseconds(), a.Succeeded).
		Suffix(`
			ON CONFLICT (run_id, step, attempt) DO UPDATE SET
				exit_code = EXCLUDED.exit_code,
				duration_ms = EXCLUDED.duration_ms,
				succeeded = EXCLUDED.succeeded
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func lastRunQuery() (string, []interface{}, error) {
	return squirrel.
		Select("id, trigger, status, started_at, finished_at, error").
		From(pipelineRunsTable).
		OrderBy("started_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func listAttemptsQuery(runID string) (string, []interface{}, error) {
	return squirrel.
		Select("run_id, step, attempt, exit_code, log_file, started_at, duration_ms, succeeded").
		From(stepAttemptsTable).
		Where(squirrel.Eq{"run_id": runID}).
		OrderBy("started_at ASC", "attempt ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func wrapDBError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
	}
	return fmt.Errorf("failed to execute query: %w", err)
}
