package domain

import "time"

type RunStatus string

const (
	RunStatusRunning     RunStatus = "running"
	RunStatusSucceeded   RunStatus = "succeeded"
	RunStatusFailed      RunStatus = "failed"
	RunStatusInterrupted RunStatus = "interrupted"
)

// Etapas do pipeline, na ordem de execução
const (
	StepCompilar        = "compilar"
	StepReplicarEsteira = "replicar-esteira"
	StepReplicarMensal  = "replicar-mensal"
)

// DefaultSteps é a sequência padrão de etapas
var DefaultSteps = []string{StepCompilar, StepReplicarEsteira, StepReplicarMensal}

// PipelineRun representa uma execução completa do pipeline
type PipelineRun struct {
	ID         string     `json:"id"`
	Trigger    string     `json:"trigger"`
	Status     RunStatus  `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	Error      *string    `json:"error"`
}

// StepAttempt é uma tentativa de execução de uma etapa
type StepAttempt struct {
	RunID     string        `json:"run_id"`
	Step      string        `json:"step"`
	Attempt   int           `json:"attempt"`
	ExitCode  int           `json:"exit_code"`
	LogFile   string        `json:"log_file"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Succeeded bool          `json:"succeeded"`
}

// PipelineStatus é o estado exposto pelo agendador
type PipelineStatus struct {
	Running  bool         `json:"running"`
	Enabled  bool         `json:"enabled"`
	Schedule string       `json:"schedule"`
	NextRun  *time.Time   `json:"next_run"`
	LastRun  *PipelineRun `json:"last_run"`
}
