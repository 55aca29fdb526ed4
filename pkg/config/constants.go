package config

const (
	EnvPrefix = "SHOPPULSE"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Environment variable names referenced outside struct tags (tests, error
// messages).
const (
	EnvAppEnv    = "SHOPPULSE_APP_ENV"
	EnvPort      = "SHOPPULSE_APP_PORT"
	EnvDBDSN     = "SHOPPULSE_DB_DSN"
	EnvDBHost    = "SHOPPULSE_DB_HOST"
	EnvDBUser    = "SHOPPULSE_DB_USER"
	EnvDBName    = "SHOPPULSE_DB_NAME"
	EnvRedisURL  = "SHOPPULSE_REDIS_URL"
	EnvJWTSecret = "SHOPPULSE_JWT_SECRET"
	EnvJWTIssuer = "SHOPPULSE_JWT_ISSUER"
)
