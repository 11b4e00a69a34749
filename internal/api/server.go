package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-serving-api/internal/api/handler"
	"github.com/vfg2006/affiliate-serving-api/internal/api/handler/router"
	"github.com/vfg2006/affiliate-serving-api/internal/config"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/credentialing"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/geo"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/selecting"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/tracking"
	"github.com/vfg2006/affiliate-serving-api/pkg/middleware"
)

const (
	shutdownTimeout = 15 * time.Second

	// valor de exemplo do .env, nunca aceito como segredo real
	placeholderServiceSecret = "your_secret_key"
)

// ErrInsecureServiceSecret impede subir as rotas internas sem um segredo real
var ErrInsecureServiceSecret = errors.New("SERVICE_TOKEN_SECRET ausente ou com valor de exemplo")

// Drainer é um serviço com trabalho em background a concluir antes do desligamento
type Drainer interface {
	Wait(ctx context.Context) error
}

// Services agrupa as dependências do servidor
type Services struct {
	Credentials  *credentialing.Service
	Selector     selecting.Selector
	Geo          *geo.Resolver
	Recorder     *tracking.Recorder
	ClickLimiter *middleware.ClientLimiter // nil desabilita o limite de cliques
	Invalidators handler.CacheInvalidators
	CronJobs     handler.CronJobServices
}

type Server struct {
	httpServer *http.Server
	drainers   []Drainer
	onStop     []func()
}

func New(cfg *config.Config, services Services) (*Server, error) {
	secret := strings.TrimSpace(cfg.Auth.ServiceTokenSecret)
	if secret == "" || secret == placeholderServiceSecret {
		return nil, ErrInsecureServiceSecret
	}

	serve := handler.Serve(
		services.Credentials,
		services.Selector,
		services.Geo,
		services.Recorder,
		handler.ServeConfig{
			PublicBaseURL:        cfg.Server.PublicBaseURL,
			CacheMaxAge:          cfg.Serving.CacheMaxAge,
			StaleWhileRevalidate: cfg.Serving.StaleWhileRevalidate,
		},
	)

	var clickMiddlewares []func(http.Handler) http.Handler
	if services.ClickLimiter != nil {
		clickMiddlewares = append(clickMiddlewares, middleware.RateLimit(services.ClickLimiter))
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Metrics()...),
		router.WithRoutes(handler.Serving(serve)...),
		router.WithRoutes(handler.Clicks(services.Recorder, clickMiddlewares...)...),
		router.WithRoutes(handler.Internal(
			services.Invalidators,
			services.CronJobs,
			middleware.ServiceAuth(secret),
		)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	// serviços ausentes não entram como drainers
	if services.Recorder != nil {
		srv.drainers = append(srv.drainers, services.Recorder)
	}
	if services.Credentials != nil {
		srv.drainers = append(srv.drainers, services.Credentials)
	}

	return srv, nil
}

// OnStop registra funções executadas depois que o servidor e os drainers terminam,
// na ordem de registro
func (s *Server) OnStop(fn func()) {
	s.onStop = append(s.onStop, fn)
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": shutdownTimeout.String(),
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

// Shutdown para de aceitar requisições, aguarda as gravações em background
// e então executa as funções de OnStop. Drainers e OnStop rodam mesmo quando
// o servidor HTTP não desliga a tempo; retorna o primeiro erro.
func (s *Server) Shutdown(ctx context.Context) error {
	firstErr := s.httpServer.Shutdown(ctx)
	if firstErr != nil {
		logrus.WithError(firstErr).Error("Servidor HTTP não desligou a tempo")
	} else {
		logrus.Info("Servidor HTTP desligado com sucesso")
	}

	for _, d := range s.drainers {
		if err := d.Wait(ctx); err != nil {
			logrus.WithError(err).Warn("Gravações em background não terminaram a tempo")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	for _, fn := range s.onStop {
		fn()
	}

	return firstErr
}
