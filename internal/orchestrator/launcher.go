package orchestrator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Launcher cria o processo filho de uma etapa
type Launcher interface {
	Command(ctx context.Context, step string) *exec.Cmd
	// Path é o executável que será usado, verificado antes de iniciar o pipeline
	Path() string
}

// SelfLauncher reexecuta o próprio binário com o subcomando da etapa
type SelfLauncher struct {
	executable string
}

func NewSelfLauncher() (*SelfLauncher, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("não foi possível localizar o executável: %w", err)
	}
	return &SelfLauncher{executable: exe}, nil
}

func (l *SelfLauncher) Command(ctx context.Context, step string) *exec.Cmd {
	return exec.CommandContext(ctx, l.executable, step)
}

func (l *SelfLauncher) Path() string {
	return l.executable
}
