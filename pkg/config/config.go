package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SAVEPLATE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "SAVEPLATE_APP_ENV"
	EnvPort       = "SAVEPLATE_APP_PORT"
	EnvDBDSN      = "SAVEPLATE_DB_DSN"
	EnvDBHost     = "SAVEPLATE_DB_HOST"
	EnvDBUser     = "SAVEPLATE_DB_USER"
	EnvDBName     = "SAVEPLATE_DB_NAME"
	EnvRedisURL   = "SAVEPLATE_REDIS_URL"
	EnvJWTSecret  = "SAVEPLATE_JWT_SECRET"
	EnvJWTIssuer  = "SAVEPLATE_JWT_ISSUER"
	EnvJWTExpMins = "SAVEPLATE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Checkout     CheckoutConfig
	Cron         CronConfig
	Store        StoreConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SAVEPLATE_APP_ENV" required:"true"`
	Port         string `envconfig:"SAVEPLATE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SAVEPLATE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SAVEPLATE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SAVEPLATE_DB_DSN"`
	Driver string `envconfig:"SAVEPLATE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SAVEPLATE_DB_HOST"`
	LegacyPort     int    `envconfig:"SAVEPLATE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SAVEPLATE_DB_USER"`
	LegacyPassword string `envconfig:"SAVEPLATE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SAVEPLATE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SAVEPLATE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SAVEPLATE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SAVEPLATE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SAVEPLATE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SAVEPLATE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SAVEPLATE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SAVEPLATE_REDIS_ADDR"`
	Password     string        `envconfig:"SAVEPLATE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SAVEPLATE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SAVEPLATE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SAVEPLATE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SAVEPLATE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SAVEPLATE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SAVEPLATE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SAVEPLATE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SAVEPLATE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SAVEPLATE_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SAVEPLATE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SAVEPLATE_AUTO_MIGRATE" default:"false"`
}

type CheckoutConfig struct {
	IdempotencyTTL time.Duration `envconfig:"SAVEPLATE_CHECKOUT_IDEMPOTENCY_TTL" default:"168h"`
}

type CronConfig struct {
	Interval         time.Duration `envconfig:"SAVEPLATE_CRON_INTERVAL" default:"1h"`
	LockTTL          time.Duration `envconfig:"SAVEPLATE_CRON_LOCK_TTL" default:"55m"`
	OrderExpiryAfter time.Duration `envconfig:"SAVEPLATE_ORDER_EXPIRY_AFTER" default:"24h"`
	MetricsPort      string        `envconfig:"SAVEPLATE_CRON_METRICS_PORT" default:"9090"`
}

type StoreConfig struct {
	DefaultClosingTime string `envconfig:"SAVEPLATE_STORE_DEFAULT_CLOSING_TIME" default:"20:00"`
	DefaultOrderType   string `envconfig:"SAVEPLATE_STORE_DEFAULT_ORDER_TYPE" default:"pickup"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
