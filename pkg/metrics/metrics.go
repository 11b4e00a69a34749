package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "affiliate"

// Resultados de uma requisição de serving
const (
	OutcomeServed           = "served"
	OutcomeFallbackCreative = "fallback_creative"
	OutcomeFallbackURL      = "fallback_url"
	OutcomeFallbackNone     = "fallback_none"
	OutcomeCredentialError  = "credential_error"
	OutcomePlacementError   = "placement_error"
	OutcomeBadRequest       = "bad_request"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de requisições HTTP",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duração das requisições HTTP em segundos",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	ServeDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "serve_decisions_total",
			Help:      "Decisões do endpoint de serving por resultado",
		},
		[]string{"outcome"},
	)

	CredentialValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credential_validations_total",
			Help:      "Validações de credencial por resultado",
		},
		[]string{"result"},
	)

	AnalyticsWriteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_write_errors_total",
			Help:      "Falhas ao gravar impressões e cliques",
		},
		[]string{"kind"},
	)

	ClicksRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_rate_limited_total",
			Help:      "Cliques recusados pelo limite por cliente",
		},
	)

	DailyStatsRollupRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daily_stats_rollup_runs_total",
			Help:      "Execuções do rollup diário por status",
		},
		[]string{"status"},
	)
)

// Handler expõe as métricas no formato do Prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}
