package orchestrator

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrPreflight   = errors.New("verificação inicial falhou")
	ErrUnknownStep = errors.New("etapa desconhecida")
	ErrStepFailed  = errors.New("etapa falhou")
	ErrInterrupted = errors.New("interrompido pelo usuário")
)

// Códigos de saída do processo
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// StepError descreve a última tentativa que falhou em uma etapa
type StepError struct {
	Step     string
	Attempt  int
	ExitCode int
	LogFile  string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s falhou (rc=%d) na tentativa %d, log: %s", e.Step, e.ExitCode, e.Attempt, e.LogFile)
}

func (e *StepError) Unwrap() error {
	return ErrStepFailed
}

// ExitCode traduz o resultado do pipeline para o código de saída do processo
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInterrupted), errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitFailure
	}
}
