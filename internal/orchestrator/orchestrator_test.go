package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/googleauth"
	"github.com/vfg2006/oea-pipeline/infrastructure/repository/mocks"
	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/internal/domain"
	"github.com/vfg2006/oea-pipeline/pkg/retry"
)

const helperEnv = "OEA_WANT_HELPER_PROCESS"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// TestHelperProcess é o processo filho usado pelos testes: "-- <etapa> <modo>"
func TestHelperProcess(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	step, mode := args[1], args[2]

	switch mode {
	case "silent":
		os.Exit(2)
	case "hang":
		fmt.Println("pronto")
		time.Sleep(time.Minute)
		os.Exit(0)
	}

	fmt.Printf("saída de %s\n", step)
	fmt.Fprintf(os.Stderr, "aviso em %s\n", step)
	fmt.Printf("OEA_CHILD=%s\n", os.Getenv("OEA_CHILD"))
	fmt.Printf("OEA_RUN_ID=%s\n", os.Getenv("OEA_RUN_ID"))

	code, _ := strconv.Atoi(mode)
	os.Exit(code)
}

// helperLauncher roda TestHelperProcess com o modo programado para cada tentativa
type helperLauncher struct {
	mu    sync.Mutex
	modes map[string][]string
	calls []string
}

func (h *helperLauncher) Command(ctx context.Context, step string) *exec.Cmd {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, c := range h.calls {
		if c == step {
			n++
		}
	}
	h.calls = append(h.calls, step)

	mode := "0"
	if modes := h.modes[step]; len(modes) > 0 {
		mode = modes[min(n, len(modes)-1)]
	}

	cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=^TestHelperProcess$", "--", step, mode)
	cmd.Env = append(os.Environ(), helperEnv+"=1")
	return cmd
}

func (h *helperLauncher) Path() string {
	return os.Args[0]
}

type recordedSleeps struct {
	waits []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	creds := filepath.Join(dir, "credenciais.json")
	require.NoError(t, os.WriteFile(creds, []byte("{}"), 0o600))

	return &config.Config{
		Google: config.Google{CredentialsFile: creds},
		Pipeline: config.Pipeline{
			Steps:            domain.DefaultSteps,
			RetriesPerStep:   3,
			BaseSleepSeconds: 5,
			LogDir:           filepath.Join(dir, "logs"),
			TailLines:        80,
		},
	}
}

func readStepLog(t *testing.T, cfg *config.Config, step string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(cfg.Pipeline.LogDir, step+"_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(content)
}

func TestRun_AllStepsSucceed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testConfig(t)
	launcher := &helperLauncher{}
	recorder := mocks.NewMockPipelineRunRepository(ctrl)
	sleeps := &recordedSleeps{}
	var console bytes.Buffer

	var finished *domain.PipelineRun
	recorder.EXPECT().CreateRun(gomock.Any(), gomock.Any()).Return(nil)
	recorder.EXPECT().SaveAttempt(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	recorder.EXPECT().FinishRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *domain.PipelineRun) error {
			finished = run
			return nil
		})

	o := New(cfg, launcher, WithRecorder(recorder), WithConsole(&console), WithSleep(sleeps.sleep))

	run, err := o.Run(context.Background(), "manual")
	require.NoError(t, err)
	assert.Equal(t, ExitOK, ExitCode(err))

	assert.Equal(t, domain.DefaultSteps, launcher.calls)
	assert.Equal(t, domain.RunStatusSucceeded, run.Status)
	assert.Equal(t, "manual", run.Trigger)
	assert.NotNil(t, run.FinishedAt)
	assert.Nil(t, run.Error)
	assert.Same(t, run, finished)
	assert.Empty(t, sleeps.waits)

	out := console.String()
	assert.Contains(t, out, "saída de compilar")
	assert.Contains(t, out, "aviso em replicar-mensal")
	assert.Contains(t, out, "✅ Sucesso: replicar-esteira")

	logText := readStepLog(t, cfg, domain.StepCompilar)
	assert.Contains(t, logText, ":: START compilar =====")
	assert.Contains(t, logText, "saída de compilar")
	assert.Contains(t, logText, "aviso em compilar")
	assert.Contains(t, logText, "OEA_CHILD=1")
	assert.Contains(t, logText, "OEA_RUN_ID="+run.ID)
	assert.Contains(t, logText, "===== END (rc=0) =====")
}

func TestRun_RetriesWithLinearBackoff(t *testing.T) {
	cfg := testConfig(t)
	launcher := &helperLauncher{modes: map[string][]string{
		domain.StepCompilar: {"1", "3", "0"},
	}}
	sleeps := &recordedSleeps{}
	var console bytes.Buffer

	o := New(cfg, launcher, WithConsole(&console), WithSleep(sleeps.sleep))

	run, err := o.Run(context.Background(), "manual")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusSucceeded, run.Status)

	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, sleeps.waits)
	assert.Equal(t, []string{"compilar", "compilar", "compilar", "replicar-esteira", "replicar-mensal"}, launcher.calls)

	// todas as tentativas vão para o mesmo arquivo
	logText := readStepLog(t, cfg, domain.StepCompilar)
	assert.Equal(t, 3, strings.Count(logText, ":: START compilar"))
	assert.Contains(t, logText, "===== END (rc=1) =====")
	assert.Contains(t, logText, "===== END (rc=3) =====")
	assert.Contains(t, logText, "===== END (rc=0) =====")

	out := console.String()
	assert.Contains(t, out, "❌ compilar falhou (rc=1)")
	assert.Contains(t, out, "---- Fim do log (últimas 80 linhas) ----")
	assert.Contains(t, out, "Tentativa 3/3")
}

func TestRun_AbortsAfterLastAttempt(t *testing.T) {
	cfg := testConfig(t)
	launcher := &helperLauncher{modes: map[string][]string{
		domain.StepReplicarEsteira: {"4"},
	}}
	sleeps := &recordedSleeps{}

	o := New(cfg, launcher, WithConsole(&bytes.Buffer{}), WithSleep(sleeps.sleep))

	run, err := o.Run(context.Background(), "cron")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStepFailed)
	assert.ErrorIs(t, err, retry.ErrRetryExhausted)
	assert.Equal(t, ExitFailure, ExitCode(err))

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, domain.StepReplicarEsteira, stepErr.Step)
	assert.Equal(t, 3, stepErr.Attempt)
	assert.Equal(t, 4, stepErr.ExitCode)

	assert.NotContains(t, launcher.calls, domain.StepReplicarMensal)
	assert.Equal(t, domain.RunStatusFailed, run.Status)
	require.NotNil(t, run.Error)
	assert.Contains(t, *run.Error, "replicar-esteira")
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, sleeps.waits)
}

func TestRun_SilentFailurePrintsHint(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.Steps = []string{domain.StepCompilar}
	launcher := &helperLauncher{modes: map[string][]string{
		domain.StepCompilar: {"silent", "0"},
	}}
	var console bytes.Buffer

	o := New(cfg, launcher, WithConsole(&console), WithSleep((&recordedSleeps{}).sleep))

	_, err := o.Run(context.Background(), "manual")
	require.NoError(t, err)
	assert.Contains(t, console.String(), "❌ compilar falhou (rc=2)")
	assert.Contains(t, console.String(), "A etapa não gerou saída")
}

// cancelOn cancela o contexto quando a saída do filho contém o texto esperado
type cancelOn struct {
	bytes.Buffer
	text   string
	cancel context.CancelFunc
}

func (c *cancelOn) Write(p []byte) (int, error) {
	n, err := c.Buffer.Write(p)
	if strings.Contains(c.Buffer.String(), c.text) {
		c.cancel()
	}
	return n, err
}

func TestRun_Interrupted(t *testing.T) {
	cfg := testConfig(t)
	launcher := &helperLauncher{modes: map[string][]string{
		domain.StepCompilar: {"hang"},
	}}
	sleeps := &recordedSleeps{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	console := &cancelOn{text: "pronto", cancel: cancel}

	o := New(cfg, launcher, WithConsole(console), WithSleep(sleeps.sleep))

	run, err := o.Run(ctx, "manual")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, ExitInterrupted, ExitCode(err))
	assert.Equal(t, domain.RunStatusInterrupted, run.Status)
	assert.Equal(t, []string{domain.StepCompilar}, launcher.calls)
	assert.Empty(t, sleeps.waits)
}

func TestPreflight(t *testing.T) {
	t.Run("credenciais ausentes", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Google.CredentialsFile = filepath.Join(t.TempDir(), "nao-existe.json")
		launcher := &helperLauncher{}

		_, err := New(cfg, launcher, WithConsole(&bytes.Buffer{})).Run(context.Background(), "manual")
		assert.ErrorIs(t, err, ErrPreflight)
		assert.ErrorIs(t, err, googleauth.ErrCredentialsNotFound)
		assert.Equal(t, ExitFailure, ExitCode(err))
		assert.Empty(t, launcher.calls)
	})

	t.Run("etapa desconhecida", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Pipeline.Steps = []string{domain.StepCompilar, "publicar"}

		err := New(cfg, &helperLauncher{}).Preflight()
		assert.ErrorIs(t, err, ErrUnknownStep)
	})

	t.Run("ok cria o diretório de logs", func(t *testing.T) {
		cfg := testConfig(t)

		require.NoError(t, New(cfg, &helperLauncher{}).Preflight())
		assert.DirExists(t, cfg.Pipeline.LogDir)
	})
}

func TestChildEnv(t *testing.T) {
	env := childEnv([]string{"PATH=/bin", "LANG="}, "run1", "corr1")
	assert.Contains(t, env, "PATH=/bin")
	assert.Contains(t, env, "OEA_CHILD=1")
	assert.Contains(t, env, "OEA_RUN_ID=run1")
	assert.Contains(t, env, "OEA_CORRELATION_ID=corr1")
	assert.Contains(t, env, "LANG=C.UTF-8")

	env = childEnv([]string{"LANG=pt_BR.UTF-8"}, "run1", "corr1")
	assert.NotContains(t, env, "LANG=C.UTF-8")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 130, ExitCode(context.Canceled))
	assert.Equal(t, 130, ExitCode(fmt.Errorf("compilar: %w", ErrInterrupted)))
	assert.Equal(t, 1, ExitCode(&StepError{Step: "compilar", ExitCode: 2}))
}
