package handler

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/oea-pipeline/internal/domain"
	"github.com/vfg2006/oea-pipeline/pkg/apiErrors"
	"github.com/vfg2006/oea-pipeline/pkg/log"
	"github.com/vfg2006/oea-pipeline/pkg/middleware"
)

// PipelineScheduler é o que a API precisa do agendador do pipeline
type PipelineScheduler interface {
	TriggerManualSync() bool
	GetStatus(ctx context.Context) domain.PipelineStatus
}

type RunPipelineResponse struct {
	Message string `json:"message"`
}

// RunPipeline dispara uma execução manual do pipeline
func RunPipeline(scheduler PipelineScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		if claims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims); ok {
			logger = logger.WithField("user", claims.UserName)
		}

		if !scheduler.TriggerManualSync() {
			logger.Warn("Execução manual recusada: pipeline já em andamento")
			apiErrors.WriteError(w, apiErrors.ErrPipelineRunning, "O pipeline já está em execução", nil)
			return
		}

		logger.Info("Execução manual do pipeline iniciada")
		writeJSON(w, http.StatusAccepted, RunPipelineResponse{Message: "Execução do pipeline iniciada"})
	}
}

// GetCronStatus retorna o estado do agendador e a última execução
func GetCronStatus(scheduler PipelineScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Debug("INIT - GetCronStatus")
		writeJSON(w, http.StatusOK, scheduler.GetStatus(r.Context()))
	}
}
