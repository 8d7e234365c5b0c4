package config

// EnvPrefix is the envconfig prefix shared by every FLEXBNB_* variable.
const EnvPrefix = "FLEXBNB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "FLEXBNB_APP_ENV"
	EnvPort      = "FLEXBNB_APP_PORT"
	EnvDBDSN     = "FLEXBNB_DB_DSN"
	EnvDBHost    = "FLEXBNB_DB_HOST"
	EnvDBUser    = "FLEXBNB_DB_USER"
	EnvDBName    = "FLEXBNB_DB_NAME"
	EnvRedisURL  = "FLEXBNB_REDIS_URL"
	EnvJWTSecret = "FLEXBNB_JWT_SECRET"
	EnvJWTIssuer = "FLEXBNB_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
