package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vfg2006/oea-pipeline/infrastructure/database/postgres"
	"github.com/vfg2006/oea-pipeline/infrastructure/repository"
	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/internal/orchestrator"
	"github.com/vfg2006/oea-pipeline/internal/scheduler"
	"github.com/vfg2006/oea-pipeline/pkg/log"
)

func main() {
	configureLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	os.Exit(orchestrator.ExitCode(err))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oea",
		Short:         "Pipeline de réplica OEA: compilar, replicar-esteira e replicar-mensal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPipeline,
	}

	root.AddCommand(
		newStepCmd(compilarStep),
		newStepCmd(esteiraStep),
		newStepCmd(mensalStep),
		newServeCmd(),
		newMigrateCmd(),
	)

	return root
}

// runPipeline executa as três etapas em sequência, cada uma em um processo filho
func runPipeline(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	orch, closeLedger, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLedger()

	_, err = orch.Run(ctx, scheduler.TriggerManual)
	return err
}

func newOrchestrator(ctx context.Context, cfg *config.Config) (*orchestrator.Orchestrator, func(), error) {
	launcher, err := orchestrator.NewSelfLauncher()
	if err != nil {
		logrus.WithError(err).Error("❌ Pipeline não iniciado")
		return nil, nil, err
	}

	opts := []orchestrator.Option{}
	closeLedger := func() {}

	if conn := ledgerConn(ctx, cfg); conn != nil {
		opts = append(opts, orchestrator.WithRecorder(repository.NewPipelineRunRepository(conn)))
		closeLedger = func() { _ = conn.Close() }
	}

	return orchestrator.New(cfg, launcher, opts...), closeLedger, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Error("Configuração inválida")
		return nil, err
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Debugf("Nível de log configurado para: %s", logLevel)

	if cfg.App.WorkDir != "" {
		if err := os.Chdir(cfg.App.WorkDir); err != nil {
			logrus.WithError(err).Errorf("Não foi possível usar o diretório de trabalho %s", cfg.App.WorkDir)
			return nil, err
		}
	}

	return cfg, nil
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		// a saída das etapas é redirecionada para arquivo pelo orquestrador
		DisableColors: os.Getenv("OEA_CHILD") != "",
	})
}

// ledgerConn abre a conexão do histórico de execuções. Sem DATABASE_URL, ou se o
// banco estiver fora do ar, o pipeline segue sem histórico.
func ledgerConn(ctx context.Context, cfg *config.Config) *postgres.Connection {
	if !cfg.LedgerEnabled() {
		return nil
	}

	conn, err := pgconn(ctx, cfg.Database)
	if err != nil {
		log.ForContext(ctx).WithError(err).Warn("Histórico de execuções indisponível, seguindo sem registrar")
		return nil
	}
	return conn
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) (*postgres.Connection, error) {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn, nil
}
