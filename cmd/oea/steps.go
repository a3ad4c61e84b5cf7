package main

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/drive"
	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/drive/driveclient"
	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/sheets"
	"github.com/vfg2006/oea-pipeline/infrastructure/integrator/sheets/sheetsclient"
	"github.com/vfg2006/oea-pipeline/infrastructure/storage/gcs"
	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/internal/domain"
	"github.com/vfg2006/oea-pipeline/internal/usecases/compiling"
	"github.com/vfg2006/oea-pipeline/internal/usecases/replicating"
	"github.com/vfg2006/oea-pipeline/pkg/log"
)

type step struct {
	name  string
	short string
	run   func(ctx context.Context, cfg *config.Config) error
}

var (
	compilarStep = step{
		name:  domain.StepCompilar,
		short: "Gera Historico_Diario.csv e Historico_Mensal.csv a partir dos arquivos MM-YYYY",
		run:   runCompilar,
	}
	esteiraStep = step{
		name:  domain.StepReplicarEsteira,
		short: "Copia A:AN de BD_Carteira para Base_Esteira",
		run:   runEsteira,
	}
	mensalStep = step{
		name:  domain.StepReplicarMensal,
		short: "Cola Historico_Mensal.csv em BD_Mensal e atualiza o RESUMO",
		run:   runMensal,
	}
)

func newStepCmd(s step) *cobra.Command {
	return &cobra.Command{
		Use:   s.name,
		Short: s.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := log.FromEnv(cmd.Context())
			logger := log.ForContext(ctx).WithField("etapa", s.name)

			start := time.Now()
			if err := s.run(ctx, cfg); err != nil {
				logger.WithError(err).Error("❌ Etapa falhou")
				return err
			}

			logger.WithField("duracao", time.Since(start).Round(time.Millisecond).String()).Info("✅ Etapa concluída")
			return nil
		},
	}
}

func newDrive(ctx context.Context, cfg *config.Config) (drive.DriveIntegrator, error) {
	client, err := driveclient.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return drive.New(cfg, client), nil
}

func newSheets(ctx context.Context, cfg *config.Config) (sheets.SheetsIntegrator, error) {
	client, err := sheetsclient.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return sheets.New(cfg, client), nil
}

func runCompilar(ctx context.Context, cfg *config.Config) error {
	driveService, err := newDrive(ctx, cfg)
	if err != nil {
		return err
	}

	sheetsService, err := newSheets(ctx, cfg)
	if err != nil {
		return err
	}

	service := compiling.NewService(cfg, driveService, sheetsService)

	if cfg.Archive.Bucket != "" {
		archiver, err := gcs.NewArchiver(ctx, cfg)
		if err != nil {
			// o arquivo no bucket é uma cópia; sem ele a etapa continua
			logrus.WithError(err).Warn("Arquivamento no GCS desativado")
		} else {
			defer archiver.Close()
			service = service.WithArchiver(archiver)
		}
	}

	result, err := service.Run(ctx)
	if err != nil {
		return err
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"arquivos_mes":      result.MonthFiles,
		"arquivos_lidos":    result.LoadedFiles,
		"linhas_diario":     result.DailyRows,
		"linhas_mensal":     result.MonthlyRows,
		"arquivos_enviados": strings.Join(result.Published, ", "),
	}).Info("Compilação finalizada")

	return nil
}

func runEsteira(ctx context.Context, cfg *config.Config) error {
	sheetsService, err := newSheets(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := replicating.NewEsteiraReplicator(cfg, sheetsService).Run(ctx)
	if err != nil {
		return err
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"linhas":  result.Rows,
		"colunas": result.Columns,
		"blocos":  result.Chunks,
		"duracao": result.Duration.Round(time.Millisecond).String(),
	}).Info("Réplica da esteira finalizada")

	return nil
}

func runMensal(ctx context.Context, cfg *config.Config) error {
	driveService, err := newDrive(ctx, cfg)
	if err != nil {
		return err
	}

	sheetsService, err := newSheets(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := replicating.NewMensalReplicator(cfg, driveService, sheetsService).Run(ctx)
	if err != nil {
		return err
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"arquivo":        result.FileID,
		"linhas":         result.Rows,
		"colunas":        result.Columns,
		"colunas_data":   result.DateColumns,
		"colunas_numero": result.NumberColumns,
		"resumo_gravado": result.SummaryWritten,
	}).Info("Réplica do BD mensal finalizada")

	return nil
}
