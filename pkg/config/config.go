package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Orders       OrdersConfig
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
	Env          string `envconfig:"GLOWORA_APP_ENV" required:"true"`
	Port         string `envconfig:"GLOWORA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GLOWORA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GLOWORA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"GLOWORA_DB_DSN"`

	LegacyHost     string `envconfig:"GLOWORA_DB_HOST"`
	LegacyPort     int    `envconfig:"GLOWORA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GLOWORA_DB_USER"`
	LegacyPassword string `envconfig:"GLOWORA_DB_PASSWORD"`
	LegacyName     string `envconfig:"GLOWORA_DB_NAME"`
	LegacySSLMode  string `envconfig:"GLOWORA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GLOWORA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GLOWORA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GLOWORA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GLOWORA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a postgres DSN from the legacy host/user fields when no
// explicit DSN was provided.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("either GLOWORA_DB_DSN or GLOWORA_DB_HOST/USER/NAME must be set")
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   "/" + d.LegacyName,
	}
	if d.LegacyPassword != "" {
		u.User = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	} else {
		u.User = url.User(d.LegacyUser)
	}
	q := u.Query()
	q.Set("sslmode", d.LegacySSLMode)
	u.RawQuery = q.Encode()

	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"GLOWORA_REDIS_URL" required:"true"`
	Password     string        `envconfig:"GLOWORA_REDIS_PASSWORD"`
	DB           int           `envconfig:"GLOWORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GLOWORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GLOWORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GLOWORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GLOWORA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GLOWORA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GLOWORA_FEATURE_AUTO_MIGRATE" default:"true"`
}

type OrdersConfig struct {
	NotificationChannel string        `envconfig:"GLOWORA_ORDERS_NOTIFICATION_CHANNEL" default:"glowora.orders"`
	IdempotencyTTL      time.Duration `envconfig:"GLOWORA_ORDERS_IDEMPOTENCY_TTL" default:"168h"`
}
