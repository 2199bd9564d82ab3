package config

const (
	EnvPrefix = "BARBACHLI"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "BARBACHLI_APP_ENV"
	EnvPort     = "BARBACHLI_APP_PORT"
	EnvLogLevel = "BARBACHLI_LOG_LEVEL"

	EnvDBDSN     = "BARBACHLI_DB_DSN"
	EnvDBDriver  = "BARBACHLI_DB_DRIVER"
	EnvDBHost    = "BARBACHLI_DB_HOST"
	EnvDBPort    = "BARBACHLI_DB_PORT"
	EnvDBUser    = "BARBACHLI_DB_USER"
	EnvDBPass    = "BARBACHLI_DB_PASSWORD"
	EnvDBName    = "BARBACHLI_DB_NAME"
	EnvDBSSLMode = "BARBACHLI_DB_SSLMODE"
	EnvUseSQLite = "BARBACHLI_USE_SQLITE"

	EnvRedisURL = "BARBACHLI_REDIS_URL"

	EnvJWTSecret  = "BARBACHLI_JWT_SECRET"
	EnvJWTIssuer  = "BARBACHLI_JWT_ISSUER"
	EnvJWTExpMins = "BARBACHLI_JWT_EXPIRATION_MINUTES"

	EnvCheckoutTimeout   = "BARBACHLI_CHECKOUT_TIMEOUT"
	EnvOrdersStrict      = "BARBACHLI_ORDERS_STRICT_STATUS"
	EnvOrdersRestock     = "BARBACHLI_ORDERS_RESTOCK_ON_CANCEL"
	EnvEventsBrokers     = "BARBACHLI_EVENTS_BROKERS"
	EnvCORSAllowedOrigin = "BARBACHLI_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
