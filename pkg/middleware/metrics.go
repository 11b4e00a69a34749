package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vfg2006/affiliate-serving-api/pkg/metrics"
)

// Metrics registra contagem e duração das requisições de uma rota.
// route é o padrão da rota, não o path, para não explodir a cardinalidade.
func Metrics(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			start := time.Now()

			next.ServeHTTP(sw, r)

			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.statusCode)).Inc()
		})
	}
}
