package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/googleauth"
	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/internal/domain"
	"github.com/vfg2006/oea-pipeline/pkg/log"
	"github.com/vfg2006/oea-pipeline/pkg/metrics"
	"github.com/vfg2006/oea-pipeline/pkg/retry"
	"github.com/vfg2006/oea-pipeline/pkg/utils"
)

// Tempo que o filho tem para encerrar depois do sinal de interrupção
const childWaitDelay = 10 * time.Second

// RunRecorder grava o histórico de execuções e tentativas
type RunRecorder interface {
	CreateRun(ctx context.Context, run *domain.PipelineRun) error
	FinishRun(ctx context.Context, run *domain.PipelineRun) error
	SaveAttempt(ctx context.Context, attempt *domain.StepAttempt) error
}

type Option func(*Orchestrator)

func WithRecorder(r RunRecorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

func WithConsole(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.console = w
	}
}

func WithSleep(s retry.SleepFunc) Option {
	return func(o *Orchestrator) {
		o.sleep = s
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// Orchestrator executa as etapas do pipeline em sequência, cada uma em um processo filho
type Orchestrator struct {
	cfg      *config.Config
	launcher Launcher
	recorder RunRecorder
	console  io.Writer
	sleep    retry.SleepFunc
	now      func() time.Time
}

func New(cfg *config.Config, launcher Launcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		launcher: launcher,
		console:  os.Stdout,
		sleep:    retry.ContextSleep,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Steps retorna as etapas configuradas, na ordem de execução
func (o *Orchestrator) Steps() []string {
	if len(o.cfg.Pipeline.Steps) == 0 {
		return domain.DefaultSteps
	}
	return o.cfg.Pipeline.Steps
}

// Preflight verifica etapas, executável, credenciais e diretório de logs antes de
// qualquer chamada remota
func (o *Orchestrator) Preflight() error {
	var problems []error

	for _, step := range o.Steps() {
		if !slices.Contains(domain.DefaultSteps, step) {
			problems = append(problems, fmt.Errorf("%w: %s", ErrUnknownStep, step))
		}
	}

	if info, err := os.Stat(o.launcher.Path()); err != nil || info.IsDir() {
		problems = append(problems, fmt.Errorf("executável não encontrado: %s", o.launcher.Path()))
	}

	if err := googleauth.CheckCredentials(o.cfg.Google.CredentialsFile); err != nil {
		problems = append(problems, err)
	}

	if err := os.MkdirAll(o.cfg.Pipeline.LogDir, 0o755); err != nil {
		problems = append(problems, fmt.Errorf("não foi possível criar %s: %w", o.cfg.Pipeline.LogDir, err))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrPreflight, errors.Join(problems...))
	}
	return nil
}

// Run executa o pipeline completo. O erro retornado pode ser convertido em código de
// saída com ExitCode.
func (o *Orchestrator) Run(ctx context.Context, trigger string) (*domain.PipelineRun, error) {
	if err := o.Preflight(); err != nil {
		logrus.WithError(err).Error("❌ Pipeline não iniciado")
		return nil, err
	}

	runID, err := utils.GenerateRunID()
	if err != nil {
		return nil, err
	}

	ctx = log.WithRunID(ctx, runID)
	ctx, correlationID := log.WithCorrelationID(ctx)
	logger := log.ForContext(ctx)

	run := &domain.PipelineRun{
		ID:        runID,
		Trigger:   trigger,
		Status:    domain.RunStatusRunning,
		StartedAt: o.now(),
	}

	fmt.Fprintf(o.console, "%s\n🚀 OEA Pipeline — %s\n%s\n", separator, run.StartedAt.Format(markerTimeLayout), separator)
	logger.WithField("etapas", strings.Join(o.Steps(), ", ")).Info("Iniciando pipeline")

	if o.recorder != nil {
		if err := o.recorder.CreateRun(ctx, run); err != nil {
			logger.WithError(err).Warn("Não foi possível registrar a execução no histórico")
		}
	}

	var runErr error
	for _, step := range o.Steps() {
		if runErr = o.runStep(ctx, runID, correlationID, step); runErr != nil {
			break
		}
	}

	o.finish(ctx, run, runErr)
	return run, runErr
}

func (o *Orchestrator) finish(ctx context.Context, run *domain.PipelineRun, runErr error) {
	finished := o.now()
	run.FinishedAt = &finished

	logger := log.ForContext(ctx)
	switch {
	case runErr == nil:
		run.Status = domain.RunStatusSucceeded
		logger.Infof("🎉 Pipeline concluído com sucesso! (%s)", finished.Format("15:04:05"))
	case ctx.Err() != nil || errors.Is(runErr, ErrInterrupted):
		run.Status = domain.RunStatusInterrupted
		logger.Warn("Interrompido pelo usuário.")
	default:
		run.Status = domain.RunStatusFailed
		logger.WithError(runErr).Error("Pipeline abortado")
	}

	if runErr != nil {
		msg := runErr.Error()
		run.Error = &msg
	}

	metrics.ObserveRun(string(run.Status), finished)

	if o.recorder != nil {
		if err := o.recorder.FinishRun(context.WithoutCancel(ctx), run); err != nil {
			logger.WithError(err).Warn("Não foi possível finalizar a execução no histórico")
		}
	}
}

// runStep executa uma etapa com até RetriesPerStep tentativas e espera linear entre elas
func (o *Orchestrator) runStep(ctx context.Context, runID, correlationID, step string) error {
	logFile := logFilePath(o.cfg.Pipeline.LogDir, step, o.now())
	maxAttempts := o.cfg.Pipeline.RetriesPerStep

	fmt.Fprintf(o.console, "\n%s\n▶️  Rodando: %s\n   • Executável: %s\n   • Log       : %s\n",
		separator, step, o.launcher.Path(), logFile)

	retrier := retry.New(
		retry.Policy{MaxAttempts: maxAttempts, BaseDelay: o.cfg.StepBaseSleep()},
		retry.WithSleep(o.sleep),
		retry.WithLogger(logrus.WithFields(logrus.Fields{"etapa": step, "run_id": runID})),
	)

	attempt := 0
	return retrier.Do(ctx, step, func(ctx context.Context) error {
		attempt++
		fmt.Fprintf(o.console, "   • Tentativa %d/%d …\n", attempt, maxAttempts)

		started := o.now()
		rc, lines := o.attempt(ctx, runID, correlationID, step, logFile)
		elapsed := o.now().Sub(started)

		o.observe(ctx, &domain.StepAttempt{
			RunID:     runID,
			Step:      step,
			Attempt:   attempt,
			ExitCode:  rc,
			LogFile:   logFile,
			StartedAt: started,
			Duration:  elapsed,
			Succeeded: rc == 0,
		})

		if rc == 0 {
			fmt.Fprintf(o.console, "✅ Sucesso: %s  (%.1fs)\n", step, elapsed.Seconds())
			return nil
		}

		if ctx.Err() != nil {
			return retry.Permanent(fmt.Errorf("%s: %w", step, ErrInterrupted))
		}

		o.reportFailure(step, rc, elapsed, logFile, lines)
		return &StepError{Step: step, Attempt: attempt, ExitCode: rc, LogFile: logFile}
	})
}

// attempt roda o processo filho uma vez e retorna o código de saída e quantas linhas
// ele escreveu
func (o *Orchestrator) attempt(ctx context.Context, runID, correlationID, step, logFile string) (int, int) {
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logrus.WithError(err).WithField("log", logFile).Error("Não foi possível abrir o arquivo de log")
		return ExitFailure, 0
	}
	defer f.Close()

	_, _ = io.WriteString(f, startMarker(o.now(), step))

	cmd := o.launcher.Command(ctx, step)
	cmd.Env = childEnv(cmd.Env, runID, correlationID)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = childWaitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		_, _ = io.WriteString(f, exceptionMarker(err))
		return ExitFailure, 0
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		_, _ = io.WriteString(f, exceptionMarker(err))
		return ExitFailure, 0
	}

	lines, err := tee(stdout, o.console, f)
	if err != nil {
		logrus.WithError(err).WithField("etapa", step).Warn("Falha ao copiar a saída da etapa")
	}

	rc := exitCode(cmd.Wait())
	_, _ = io.WriteString(f, endMarker(rc))
	return rc, lines
}

func (o *Orchestrator) observe(ctx context.Context, a *domain.StepAttempt) {
	metrics.ObserveStepAttempt(a.Step, a.ExitCode, a.Duration)

	if o.recorder == nil {
		return
	}
	if err := o.recorder.SaveAttempt(context.WithoutCancel(ctx), a); err != nil {
		log.ForContext(ctx).WithError(err).Warn("Não foi possível registrar a tentativa no histórico")
	}
}

// reportFailure mostra o final do log da etapa para diagnóstico rápido
func (o *Orchestrator) reportFailure(step string, rc int, elapsed time.Duration, logFile string, lines int) {
	fmt.Fprintf(o.console, "❌ %s falhou (rc=%d) em %.1fs.\n", step, rc, elapsed.Seconds())

	if lines == 0 {
		fmt.Fprintln(o.console, "⚠️  A etapa não gerou saída. Verifique dependências, caminhos e permissões.")
		return
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		logrus.WithError(err).WithField("log", logFile).Warn("Não foi possível ler o log da etapa")
		return
	}

	n := o.cfg.Pipeline.TailLines
	fmt.Fprintf(o.console, "---- Fim do log (últimas %d linhas) ----\n%s\n---- (arquivo completo: %s) ----\n",
		n, tailLines(string(content), n), logFile)
}

// childEnv herda o ambiente do pai e força UTF-8 e os ids da execução
func childEnv(base []string, runID, correlationID string) []string {
	if base == nil {
		base = os.Environ()
	}

	env := slices.Clone(base)
	env = append(env,
		"OEA_CHILD=1",
		log.EnvRunID+"="+runID,
		log.EnvCorrelationID+"="+correlationID,
	)

	if !hasEnv(env, "LANG") {
		env = append(env, "LANG=C.UTF-8")
	}
	return env
}

func hasEnv(env []string, key string) bool {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) && len(kv) > len(prefix) {
			return true
		}
	}
	return false
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode()
	}
	return ExitFailure
}
