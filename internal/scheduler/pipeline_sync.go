package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/oea-pipeline/infrastructure/repository"
	"github.com/vfg2006/oea-pipeline/internal/config"
	"github.com/vfg2006/oea-pipeline/internal/domain"
)

const (
	TriggerCron   = "cron"
	TriggerManual = "manual"
)

// PipelineRunner executa o pipeline completo
type PipelineRunner interface {
	Run(ctx context.Context, trigger string) (*domain.PipelineRun, error)
}

// PipelineSyncService agenda o pipeline e impede execuções sobrepostas
type PipelineSyncService struct {
	scheduler *gocron.Scheduler
	job       *gocron.Job
	config    config.Schedule
	runner    PipelineRunner
	runRepo   repository.PipelineRunRepository
	baseCtx   context.Context

	syncRunning bool
	syncMutex   sync.Mutex
	lastRun     *domain.PipelineRun
	wg          sync.WaitGroup
}

// NewPipelineSyncService cria o agendador. runRepo pode ser nil quando o histórico está desligado.
func NewPipelineSyncService(
	runner PipelineRunner,
	runRepo repository.PipelineRunRepository,
	appConfig *config.Config,
) *PipelineSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": appConfig.Schedule.CronSchedule,
		"sync_enabled":  appConfig.Schedule.Enabled,
	}).Info("Configuração do agendador do pipeline carregada")

	return &PipelineSyncService{
		scheduler: gocron.NewScheduler(appConfig.Location()),
		config:    appConfig.Schedule,
		runner:    runner,
		runRepo:   runRepo,
		baseCtx:   context.Background(),
	}
}

// Start inicia o agendador
func (s *PipelineSyncService) Start(ctx context.Context) error {
	s.baseCtx = ctx

	if !s.config.Enabled {
		logrus.Info("Execução agendada do pipeline desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador do pipeline")

	job, err := s.scheduler.Cron(s.config.CronSchedule).Do(s.runScheduled, ctx)
	if err != nil {
		return fmt.Errorf("erro ao agendar o pipeline: %w", err)
	}
	s.job = job

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador do pipeline")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync inicia o pipeline em background. Retorna false se já houver uma
// execução em andamento.
func (s *PipelineSyncService) TriggerManualSync() bool {
	if !s.tryAcquire() {
		logrus.Info("Pipeline já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando execução manual do pipeline")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runPipeline(s.baseCtx, TriggerManual)
	}()
	return true
}

// runScheduled é o corpo do job do cron
func (s *PipelineSyncService) runScheduled(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()

	if !s.tryAcquire() {
		logrus.Info("Pipeline já em andamento, ignorando execução agendada")
		return
	}
	s.runPipeline(ctx, TriggerCron)
}

// Wait para o agendador e aguarda as execuções em andamento, agendadas ou manuais
func (s *PipelineSyncService) Wait() {
	if s.job != nil {
		s.scheduler.Stop()
	}
	s.wg.Wait()
}

// GetStatus retorna o estado atual do agendador e a última execução conhecida
func (s *PipelineSyncService) GetStatus(ctx context.Context) domain.PipelineStatus {
	s.syncMutex.Lock()
	status := domain.PipelineStatus{
		Running:  s.syncRunning,
		Enabled:  s.config.Enabled,
		Schedule: s.config.CronSchedule,
		LastRun:  s.lastRun,
	}
	s.syncMutex.Unlock()

	if s.job != nil {
		next := s.job.NextRun()
		if !next.IsZero() {
			status.NextRun = &next
		}
	}

	if s.runRepo != nil {
		last, err := s.runRepo.GetLastRun(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Erro ao consultar a última execução do pipeline")
		} else if last != nil {
			status.LastRun = last
		}
	}

	return status
}

func (s *PipelineSyncService) tryAcquire() bool {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		return false
	}
	s.syncRunning = true
	return true
}

// runPipeline executa o pipeline e libera a trava ao final
func (s *PipelineSyncService) runPipeline(ctx context.Context, trigger string) {
	startTime := time.Now()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	run, err := s.runner.Run(ctx, trigger)

	s.syncMutex.Lock()
	if run != nil {
		s.lastRun = run
	}
	s.syncMutex.Unlock()

	fields := logrus.Fields{
		"trigger":  trigger,
		"duration": time.Since(startTime).String(),
	}
	if err != nil {
		logrus.WithFields(fields).WithError(err).Error("Execução do pipeline falhou")
		return
	}
	logrus.WithFields(fields).Info("Execução do pipeline concluída")
}
