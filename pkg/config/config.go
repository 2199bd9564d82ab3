package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Checkout     CheckoutConfig
	Orders       OrdersConfig
	Pagination   PaginationConfig
	Events       EventsConfig
	Outbox       OutboxConfig
	Cron         CronConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BARBACHLI_APP_ENV" required:"true"`
	Port         string `envconfig:"BARBACHLI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BARBACHLI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BARBACHLI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BARBACHLI_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BARBACHLI_DB_DSN"`
	Driver string `envconfig:"BARBACHLI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BARBACHLI_DB_HOST"`
	LegacyPort     int    `envconfig:"BARBACHLI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BARBACHLI_DB_USER"`
	LegacyPassword string `envconfig:"BARBACHLI_DB_PASSWORD"`
	LegacyName     string `envconfig:"BARBACHLI_DB_NAME"`
	LegacySSLMode  string `envconfig:"BARBACHLI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BARBACHLI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BARBACHLI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BARBACHLI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BARBACHLI_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"BARBACHLI_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

// IsSQLite reports whether the sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"BARBACHLI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BARBACHLI_REDIS_ADDR"`
	Password     string        `envconfig:"BARBACHLI_REDIS_PASSWORD"`
	DB           int           `envconfig:"BARBACHLI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BARBACHLI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BARBACHLI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BARBACHLI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BARBACHLI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BARBACHLI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BARBACHLI_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BARBACHLI_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BARBACHLI_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BARBACHLI_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BARBACHLI_AUTO_MIGRATE" default:"false"`
}

type CheckoutConfig struct {
	Timeout         time.Duration `envconfig:"BARBACHLI_CHECKOUT_TIMEOUT" default:"10s"`
	RateLimitWindow time.Duration `envconfig:"BARBACHLI_CHECKOUT_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitMax    int           `envconfig:"BARBACHLI_CHECKOUT_RATE_LIMIT_MAX" default:"10"`
}

type OrdersConfig struct {
	// StrictStatusTransitions routes admin status changes through the
	// transition table instead of the override path.
	StrictStatusTransitions bool `envconfig:"BARBACHLI_ORDERS_STRICT_STATUS" default:"false"`
	RestockOnCancel         bool `envconfig:"BARBACHLI_ORDERS_RESTOCK_ON_CANCEL" default:"false"`
}

type PaginationConfig struct {
	DefaultLimit int `envconfig:"BARBACHLI_PAGINATION_DEFAULT_LIMIT" default:"10"`
	MaxLimit     int `envconfig:"BARBACHLI_PAGINATION_MAX_LIMIT" default:"100"`
}

type EventsConfig struct {
	Brokers      []string      `envconfig:"BARBACHLI_EVENTS_BROKERS"`
	OrdersTopic  string        `envconfig:"BARBACHLI_EVENTS_ORDERS_TOPIC" default:"orders.events"`
	WriteTimeout time.Duration `envconfig:"BARBACHLI_EVENTS_WRITE_TIMEOUT" default:"10s"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BARBACHLI_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BARBACHLI_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BARBACHLI_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionDays  int `envconfig:"BARBACHLI_OUTBOX_RETENTION_DAYS" default:"30"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"BARBACHLI_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"BARBACHLI_CRON_LOCK_TTL" default:"55m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BARBACHLI_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
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
