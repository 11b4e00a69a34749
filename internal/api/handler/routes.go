package handler

import (
	"net/http"

	"github.com/vfg2006/affiliate-serving-api/internal/api/handler/router"
	"github.com/vfg2006/affiliate-serving-api/pkg/metrics"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metrics.Handler(),
		},
	}
}

func Serving(serve http.Handler) []router.Route {
	return []router.Route{
		{
			Path:    "/api/v1/serve",
			Method:  http.MethodGet,
			Handler: serve,
		},
	}
}

// Clicks recebe middlewares extras, como o limite por cliente
func Clicks(recorder ClickRecorder, middlewares ...func(http.Handler) http.Handler) []router.Route {
	return []router.Route{
		{
			Path:        "/api/v1/click/:id",
			Method:      http.MethodGet,
			Handler:     Click(recorder),
			Middlewares: middlewares,
		},
	}
}

// Internal são as rotas do painel, protegidas pelo token de serviço
func Internal(invalidators CacheInvalidators, services CronJobServices, serviceAuth func(http.Handler) http.Handler) []router.Route {
	auth := []func(http.Handler) http.Handler{serviceAuth}

	return []router.Route{
		{
			Path:        "/internal/v1/cache/invalidate",
			Method:      http.MethodPost,
			Handler:     InvalidateCache(invalidators),
			Middlewares: auth,
		},
		{
			Path:        "/internal/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: auth,
		},
		{
			Path:        "/internal/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: auth,
		},
	}
}
