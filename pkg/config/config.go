package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App             AppConfig
	DB              DBConfig
	Redis           RedisConfig
	JWT             JWTConfig
	Pooling         PoolingConfig
	Booking         BookingConfig
	Recommendations RecommendationsConfig
	RateLimit       RateLimitConfig
	FeatureFlags    FeatureFlagsConfig
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
	Env          string `envconfig:"FLEXBNB_APP_ENV" required:"true"`
	Port         string `envconfig:"FLEXBNB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FLEXBNB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLEXBNB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FLEXBNB_DB_DSN"`
	Driver string `envconfig:"FLEXBNB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FLEXBNB_DB_HOST"`
	LegacyPort     int    `envconfig:"FLEXBNB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FLEXBNB_DB_USER"`
	LegacyPassword string `envconfig:"FLEXBNB_DB_PASSWORD"`
	LegacyName     string `envconfig:"FLEXBNB_DB_NAME"`
	LegacySSLMode  string `envconfig:"FLEXBNB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLEXBNB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLEXBNB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLEXBNB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLEXBNB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FLEXBNB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FLEXBNB_REDIS_ADDR"`
	Password     string        `envconfig:"FLEXBNB_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLEXBNB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLEXBNB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLEXBNB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLEXBNB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLEXBNB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLEXBNB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig covers tokens minted by the upstream identity provider.
// The API only verifies; it never issues tokens itself.
type JWTConfig struct {
	Secret string `envconfig:"FLEXBNB_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"FLEXBNB_JWT_ISSUER" required:"true"`
}

type PoolingConfig struct {
	BookingFeePercent     int           `envconfig:"FLEXBNB_POOL_BOOKING_FEE_PERCENT" default:"10"`
	DefaultMinMatchScore  int           `envconfig:"FLEXBNB_POOL_DEFAULT_MIN_MATCH_SCORE" default:"50"`
	InvitationTTL         time.Duration `envconfig:"FLEXBNB_POOL_INVITATION_TTL" default:"168h"`
	RoommateMatchCutoff   int           `envconfig:"FLEXBNB_ROOMMATE_MATCH_CUTOFF" default:"40"`
	RoommateMatchLimit    int           `envconfig:"FLEXBNB_ROOMMATE_MATCH_LIMIT" default:"20"`
	PaymentDueBeforeStart time.Duration `envconfig:"FLEXBNB_POOL_PAYMENT_DUE_BEFORE_START" default:"168h"`
}

type BookingConfig struct {
	PlatformFeePercent int `envconfig:"FLEXBNB_BOOKING_PLATFORM_FEE_PERCENT" default:"10"`
}

type RecommendationsConfig struct {
	TrendingWindow   time.Duration `envconfig:"FLEXBNB_RECS_TRENDING_WINDOW" default:"168h"`
	TrendingCacheTTL time.Duration `envconfig:"FLEXBNB_RECS_TRENDING_CACHE_TTL" default:"10m"`
	DefaultLimit     int           `envconfig:"FLEXBNB_RECS_DEFAULT_LIMIT" default:"10"`
	MatchExpiry      time.Duration `envconfig:"FLEXBNB_RECS_MATCH_EXPIRY" default:"168h"`
}

type RateLimitConfig struct {
	JoinWindow    time.Duration `envconfig:"FLEXBNB_RATE_LIMIT_JOIN_WINDOW" default:"1m"`
	JoinLimit     int           `envconfig:"FLEXBNB_RATE_LIMIT_JOIN_LIMIT" default:"10"`
	ChatbotWindow time.Duration `envconfig:"FLEXBNB_RATE_LIMIT_CHATBOT_WINDOW" default:"1m"`
	ChatbotLimit  int           `envconfig:"FLEXBNB_RATE_LIMIT_CHATBOT_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FLEXBNB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FLEXBNB_AUTO_MIGRATE" default:"false"`
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
