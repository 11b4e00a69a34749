package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/vfg2006/affiliate-serving-api/pkg/apiErrors"
	"github.com/vfg2006/affiliate-serving-api/pkg/cache"
	"github.com/vfg2006/affiliate-serving-api/pkg/metrics"
	"golang.org/x/time/rate"
)

// ClientLimiter mantém um token bucket por IP de cliente
type ClientLimiter struct {
	limiters       *cache.LRU[*rate.Limiter]
	limit          rate.Limit
	burst          int
	trustedProxies int
}

type LimiterOption func(*ClientLimiter)

// WithTrustedProxies informa quantos proxies confiáveis ficam na frente do servidor.
// Com zero (padrão) o X-Forwarded-For é ignorado.
func WithTrustedProxies(n int) LimiterOption {
	return func(l *ClientLimiter) {
		if n > 0 {
			l.trustedProxies = n
		}
	}
}

func NewClientLimiter(rps float64, burst int, limiters *cache.LRU[*rate.Limiter], opts ...LimiterOption) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}

	l := &ClientLimiter{
		limiters: limiters,
		limit:    rate.Limit(rps),
		burst:    burst,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Allow consome um token do bucket do cliente
func (l *ClientLimiter) Allow(clientIP string) bool {
	limiter, ok := l.limiters.Get(clientIP)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters.Set(clientIP, limiter)
	}

	return limiter.Allow()
}

// RateLimit responde 429 quando o cliente excede o limite
func RateLimit(limiter *ClientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(ClientIP(r, limiter.trustedProxies)) {
				metrics.ClicksRateLimitedTotal.Inc()
				w.Header().Set("Retry-After", "1")
				apiErrors.WriteError(w, apiErrors.ErrRateLimited, "", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP identifica o cliente. Sem proxies confiáveis usa o RemoteAddr.
// Com n proxies usa a n-ésima entrada do X-Forwarded-For contando da direita,
// que foi escrita pelo primeiro proxy confiável; entradas à esquerda vêm do cliente.
func ClientIP(r *http.Request, trustedProxies int) string {
	if trustedProxies > 0 {
		if ip := forwardedFor(r.Header.Values("X-Forwarded-For"), trustedProxies); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func forwardedFor(headers []string, trustedProxies int) string {
	var entries []string
	for _, h := range headers {
		for _, part := range strings.Split(h, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				entries = append(entries, ip)
			}
		}
	}

	if len(entries) == 0 {
		return ""
	}
	if trustedProxies > len(entries) {
		return entries[0]
	}
	return entries[len(entries)-trustedProxies]
}
