package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App              App              `mapstructure:",squash"`
	Server           Server           `mapstructure:",squash"`
	Database         Database         `mapstructure:",squash"`
	Cache            Cache            `mapstructure:",squash"`
	Serving          Serving          `mapstructure:",squash"`
	ClickRateLimit   ClickRateLimit   `mapstructure:",squash"`
	Auth             Auth             `mapstructure:",squash"`
	DailyStatsRollup DailyStatsRollup `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host          string `mapstructure:"host"`
	Port          string `mapstructure:"port"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Cache struct {
	Enabled            bool          `mapstructure:"cache_enabled"`
	CredentialTTL      time.Duration `mapstructure:"credential_cache_ttl"`
	CredentialMaxSize  int           `mapstructure:"credential_cache_size"`
	PlacementTTL       time.Duration `mapstructure:"placement_cache_ttl"`
	PlacementMaxSize   int           `mapstructure:"placement_cache_size"`
	RulesTTL           time.Duration `mapstructure:"rules_cache_ttl"`
	RulesMaxSize       int           `mapstructure:"rules_cache_size"`
	ClickLimiterTTL    time.Duration `mapstructure:"click_limiter_cache_ttl"`
	ClickLimiterMaxLen int           `mapstructure:"click_limiter_cache_size"`
}

type Serving struct {
	CacheMaxAge           int           `mapstructure:"serve_cache_max_age"`
	StaleWhileRevalidate  int           `mapstructure:"serve_stale_while_revalidate"`
	MaxLimit              int           `mapstructure:"serve_max_limit"`
	AnalyticsWriteTimeout time.Duration `mapstructure:"analytics_write_timeout"`
	LastUsedUpdateTimeout time.Duration `mapstructure:"last_used_update_timeout"`
	GeoPrimaryHeader      string        `mapstructure:"geo_primary_header"`
	GeoSecondaryHeader    string        `mapstructure:"geo_secondary_header"`
}

type ClickRateLimit struct {
	Enabled        bool    `mapstructure:"click_rate_limit_enabled"`
	RPS            float64 `mapstructure:"click_rate_limit_rps"`
	Burst          int     `mapstructure:"click_rate_limit_burst"`
	TrustedProxies int     `mapstructure:"click_rate_limit_trusted_proxies"`
}

type Auth struct {
	ServiceTokenSecret string `mapstructure:"service_token_secret"`
}

type DailyStatsRollup struct {
	CronSchedule string `mapstructure:"daily_stats_rollup_cron"`
	LookbackDays int    `mapstructure:"daily_stats_rollup_lookback_days"`
	Enabled      bool   `mapstructure:"daily_stats_rollup_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/affiliate")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	// Caches em memória
	viper.SetDefault("CACHE_ENABLED", true)
	viper.SetDefault("CREDENTIAL_CACHE_TTL", "2m") // janela máxima de uma credencial revogada
	viper.SetDefault("CREDENTIAL_CACHE_SIZE", 500)
	viper.SetDefault("PLACEMENT_CACHE_TTL", "5m")
	viper.SetDefault("PLACEMENT_CACHE_SIZE", 200)
	viper.SetDefault("RULES_CACHE_TTL", "5m")
	viper.SetDefault("RULES_CACHE_SIZE", 200)
	viper.SetDefault("CLICK_LIMITER_CACHE_TTL", "10m")
	viper.SetDefault("CLICK_LIMITER_CACHE_SIZE", 10000)

	viper.SetDefault("SERVE_CACHE_MAX_AGE", 60)
	viper.SetDefault("SERVE_STALE_WHILE_REVALIDATE", 300)
	viper.SetDefault("SERVE_MAX_LIMIT", 10)
	viper.SetDefault("ANALYTICS_WRITE_TIMEOUT", "5s")
	viper.SetDefault("LAST_USED_UPDATE_TIMEOUT", "3s")
	viper.SetDefault("GEO_PRIMARY_HEADER", "X-Vercel-IP-Country")
	viper.SetDefault("GEO_SECONDARY_HEADER", "CF-IPCountry")

	viper.SetDefault("CLICK_RATE_LIMIT_ENABLED", true)
	viper.SetDefault("CLICK_RATE_LIMIT_RPS", 5)
	viper.SetDefault("CLICK_RATE_LIMIT_BURST", 20)
	viper.SetDefault("CLICK_RATE_LIMIT_TRUSTED_PROXIES", 0) // 0 = chave pelo RemoteAddr

	viper.SetDefault("SERVICE_TOKEN_SECRET", "") // obrigatório, o servidor não sobe sem ele

	viper.SetDefault("DAILY_STATS_ROLLUP_CRON", "15 0 * * *") // Todos os dias às 00:15
	viper.SetDefault("DAILY_STATS_ROLLUP_LOOKBACK_DAYS", 2)
	viper.SetDefault("DAILY_STATS_ROLLUP_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
