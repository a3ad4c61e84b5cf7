package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/oea-pipeline/internal/domain"
)

func TestCreateRunQuery(t *testing.T) {
	started := time.Date(2025, 3, 5, 6, 0, 0, 0, time.UTC)
	run := &domain.PipelineRun{ID: "abc", Trigger: "cron", Status: domain.RunStatusRunning, StartedAt: started}

	sqlQuery, args, err := createRunQuery(run)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO pipeline_runs (id,trigger,status,started_at) VALUES ($1,$2,$3,$4)", sqlQuery)
	assert.Equal(t, []interface{}{"abc", "cron", domain.RunStatusRunning, started}, args)
}

func TestFinishRunQuery(t *testing.T) {
	finished := time.Date(2025, 3, 5, 6, 10, 0, 0, time.UTC)
	msg := "compilar falhou"
	run := &domain.PipelineRun{ID: "abc", Status: domain.RunStatusFailed, FinishedAt: &finished, Error: &msg}

	sqlQuery, args, err := finishRunQuery(run)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE pipeline_runs SET status = $1, finished_at = $2, error = $3 WHERE id = $4", sqlQuery)
	assert.Equal(t, []interface{}{domain.RunStatusFailed, &finished, &msg, "abc"}, args)
}

func TestSaveAttemptQuery(t *testing.T) {
	started := time.Date(2025, 3, 5, 6, 0, 0, 0, time.UTC)
	attempt := &domain.StepAttempt{
		RunID:     "abc",
		Step:      domain.StepCompilar,
		Attempt:   2,
		ExitCode:  1,
		LogFile:   "logs/compilar_20250305_060000.log",
		StartedAt: started,
		Duration:  1500 * time.Millisecond,
	}

	sqlQuery, args, err := saveAttemptQuery(attempt)
	require.NoError(t, err)
	assert.Contains(t, sqlQuery, "INSERT INTO pipeline_step_attempts (run_id,step,attempt,exit_code,log_file,started_at,duration_ms,succeeded) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)")
	assert.Contains(t, sqlQuery, "ON CONFLICT (run_id, step, attempt) DO UPDATE SET")
	assert.Equal(t, int64(1500), args[6])
	assert.Equal(t, false, args[7])
}

func TestLastRunQuery(t *testing.T) {
	sqlQuery, args, err := lastRunQuery()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, trigger, status, started_at, finished_at, error FROM pipeline_runs ORDER BY started_at DESC LIMIT 1", sqlQuery)
	assert.Empty(t, args)
}

func TestListAttemptsQuery(t *testing.T) {
	sqlQuery, args, err := listAttemptsQuery("abc")
	require.NoError(t, err)
	assert.Equal(t, "SELECT run_id, step, attempt, exit_code, log_file, started_at, duration_ms, succeeded FROM pipeline_step_attempts WHERE run_id = $1 ORDER BY started_at ASC, attempt ASC", sqlQuery)
	assert.Equal(t, []interface{}{"abc"}, args)
}
