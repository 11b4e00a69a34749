package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/database/postgres"
	"github.com/vfg2006/affiliate-serving-api/infrastructure/repository"
	"github.com/vfg2006/affiliate-serving-api/internal/api"
	"github.com/vfg2006/affiliate-serving-api/internal/api/handler"
	"github.com/vfg2006/affiliate-serving-api/internal/config"
	"github.com/vfg2006/affiliate-serving-api/internal/domain"
	"github.com/vfg2006/affiliate-serving-api/internal/scheduler"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/credentialing"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/geo"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/selecting"
	"github.com/vfg2006/affiliate-serving-api/internal/usecases/tracking"
	"github.com/vfg2006/affiliate-serving-api/pkg/cache"
	"github.com/vfg2006/affiliate-serving-api/pkg/log"
	"github.com/vfg2006/affiliate-serving-api/pkg/middleware"
	"golang.org/x/time/rate"
)

func main() {
	// O .env é procurado a partir do diretório do binário
	_, file, _, _ := runtime.Caller(0)
	_ = os.Chdir(path.Dir(file))

	log.Setup("info")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)

	credentialRepo := repository.NewCredentialRepository(pgConn)
	var placementRepo repository.PlacementRepository = repository.NewPlacementRepository(pgConn)
	var ruleRepo repository.RuleRepository = repository.NewRuleRepository(pgConn)
	creativeRepo := repository.NewCreativeRepository(pgConn)
	impressionRepo := repository.NewImpressionRepository(pgConn)
	clickRepo := repository.NewClickRepository(pgConn)
	dailyStatRepo := repository.NewDailyStatRepository(pgConn)

	credentialOpts := []credentialing.Option{
		credentialing.WithTouchTimeout(cfg.Serving.LastUsedUpdateTimeout),
	}

	var invalidators handler.CacheInvalidators

	if cfg.Cache.Enabled {
		credentialOpts = append(credentialOpts, credentialing.WithCache(cache.New[domain.CredentialMetadata](
			cache.WithMaxSize(cfg.Cache.CredentialMaxSize),
			cache.WithTTL(cfg.Cache.CredentialTTL),
		)))

		cachedPlacements := repository.NewCachedPlacementRepository(placementRepo, cache.New[*domain.Placement](
			cache.WithMaxSize(cfg.Cache.PlacementMaxSize),
			cache.WithTTL(cfg.Cache.PlacementTTL),
		))
		cachedRules := repository.NewCachedRuleRepository(ruleRepo, cache.New[[]*domain.TargetingRule](
			cache.WithMaxSize(cfg.Cache.RulesMaxSize),
			cache.WithTTL(cfg.Cache.RulesTTL),
		))

		placementRepo = cachedPlacements
		ruleRepo = cachedRules
		invalidators.Placements = cachedPlacements
		invalidators.Rules = cachedRules

		logrus.Info("Caches em memória habilitados")
	}

	credentialService := credentialing.NewService(credentialRepo, credentialOpts...)
	invalidators.Credentials = credentialService

	selector := selecting.NewService(
		placementRepo,
		ruleRepo,
		creativeRepo,
		selecting.WithMaxLimit(cfg.Serving.MaxLimit),
	)

	recorder := tracking.NewRecorder(
		impressionRepo,
		clickRepo,
		tracking.WithWriteTimeout(cfg.Serving.AnalyticsWriteTimeout),
	)

	var clickLimiter *middleware.ClientLimiter
	if cfg.ClickRateLimit.Enabled {
		clickLimiter = middleware.NewClientLimiter(
			cfg.ClickRateLimit.RPS,
			cfg.ClickRateLimit.Burst,
			cache.New[*rate.Limiter](
				cache.WithMaxSize(cfg.Cache.ClickLimiterMaxLen),
				cache.WithTTL(cfg.Cache.ClickLimiterTTL),
			),
			middleware.WithTrustedProxies(cfg.ClickRateLimit.TrustedProxies),
		)
	}

	dailyStatsRollupService := scheduler.NewDailyStatsRollupService(dailyStatRepo, cfg)
	if err := dailyStatsRollupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador do rollup diário")
	}

	server, err := api.New(cfg, api.Services{
		Credentials:  credentialService,
		Selector:     selector,
		Geo:          geo.NewResolver(cfg.Serving.GeoPrimaryHeader, cfg.Serving.GeoSecondaryHeader),
		Recorder:     recorder,
		ClickLimiter: clickLimiter,
		Invalidators: invalidators,
		CronJobs: handler.CronJobServices{
			DailyStatsRollupService: dailyStatsRollupService,
		},
	})
	if err != nil {
		logrus.Fatal(err)
	}

	server.OnStop(dailyStatsRollupService.Stop)
	server.OnStop(func() {
		if err := pgConn.Close(); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar conexão com PostgreSQL")
		}
	})

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
