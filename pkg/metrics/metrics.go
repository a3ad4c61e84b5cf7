// Package metrics expõe os contadores do pipeline no registro padrão do prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "oea"

var (
	// stepAttempts conta tentativas por etapa e resultado (ok, falha)
	stepAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "step_attempts_total",
		Help:      "Tentativas de execução por etapa do pipeline",
	}, []string{"step", "result"})

	stepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "step_duration_seconds",
		Help:      "Duração de cada tentativa de etapa em segundos",
		Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1200, 1800},
	}, []string{"step"})

	stepExitCodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "step_exit_codes_total",
		Help:      "Códigos de saída dos processos filhos",
	}, []string{"step", "code"})

	runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Execuções do pipeline por status final",
	}, []string{"status"})

	lastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "last_success_timestamp_seconds",
		Help:      "Horário da última execução concluída com sucesso",
	})
)

// ObserveStepAttempt registra uma tentativa de etapa
func ObserveStepAttempt(step string, exitCode int, d time.Duration) {
	result := "ok"
	if exitCode != 0 {
		result = "falha"
	}

	stepAttempts.WithLabelValues(step, result).Inc()
	stepExitCodes.WithLabelValues(step, strconv.Itoa(exitCode)).Inc()
	stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

// ObserveRun registra o status final de uma execução
func ObserveRun(status string, finishedAt time.Time) {
	runs.WithLabelValues(status).Inc()
	if status == "succeeded" {
		lastSuccess.Set(float64(finishedAt.Unix()))
	}
}
