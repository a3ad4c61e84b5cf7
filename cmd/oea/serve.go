package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/oea-pipeline/infrastructure/database/postgres"
	"github.com/vfg2006/oea-pipeline/infrastructure/migration/script"
	"github.com/vfg2006/oea-pipeline/infrastructure/repository"
	"github.com/vfg2006/oea-pipeline/internal/api"
	"github.com/vfg2006/oea-pipeline/internal/orchestrator"
	"github.com/vfg2006/oea-pipeline/internal/scheduler"
	"github.com/vfg2006/oea-pipeline/internal/usecases/authenticating"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Agenda o pipeline via cron e expõe a API de disparo e status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			launcher, err := orchestrator.NewSelfLauncher()
			if err != nil {
				return err
			}

			var (
				runRepo repository.PipelineRunRepository
				opts    []orchestrator.Option
			)
			if conn := ledgerConn(ctx, cfg); conn != nil {
				defer conn.Close()
				runRepo = repository.NewPipelineRunRepository(conn)
				opts = append(opts, orchestrator.WithRecorder(runRepo))
			}

			orch := orchestrator.New(cfg, launcher, opts...)
			if err := orch.Preflight(); err != nil {
				logrus.WithError(err).Warn("Verificação inicial falhou; as execuções vão falhar até que seja corrigida")
			}

			// servidor e agendador param juntos: se um falhar o outro é encerrado
			g, gctx := errgroup.WithContext(ctx)

			pipelineSync := scheduler.NewPipelineSyncService(orch, runRepo, cfg)
			if err := pipelineSync.Start(gctx); err != nil {
				logrus.WithError(err).Error("Erro ao iniciar o agendador do pipeline")
				return err
			}

			authenticator := authenticating.NewService(cfg)

			server, err := api.New(cfg, authenticator, pipelineSync)
			if err != nil {
				return err
			}

			g.Go(func() error {
				return server.Run(gctx)
			})
			g.Go(func() error {
				<-gctx.Done()
				logrus.Info("Aguardando a execução em andamento terminar")
				pipelineSync.Wait()
				return nil
			})

			return g.Wait()
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Cria as tabelas do histórico de execuções no PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if !cfg.LedgerEnabled() {
				logrus.Error("DATABASE_URL não configurada")
				return postgres.ErrNoDSN
			}

			conn, err := pgconn(cmd.Context(), cfg.Database)
			if err != nil {
				logrus.WithError(err).Error("Erro ao conectar ao PostgreSQL")
				return err
			}
			defer conn.Close()

			return script.Run(cmd.Context(), conn)
		},
	}
}
