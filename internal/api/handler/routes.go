package handler

import (
	"net/http"

	"github.com/vfg2006/oea-pipeline/internal/api/handler/router"
	"github.com/vfg2006/oea-pipeline/internal/usecases/authenticating"
	"github.com/vfg2006/oea-pipeline/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: MetricsHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

func CronJobs(scheduler PipelineScheduler) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/pipeline/run",
			Method:      http.MethodPost,
			Handler:     RunPipeline(scheduler),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(scheduler),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}
