package config

import (
	"fmt"
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
	Pipeline     PipelineConfig
	Augment      AugmentConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"SHOPPULSE_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPPULSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPPULSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPPULSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SHOPPULSE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPPULSE_DB_DSN"`
	Driver string `envconfig:"SHOPPULSE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SHOPPULSE_DB_HOST"`
	Port     int    `envconfig:"SHOPPULSE_DB_PORT" default:"5432"`
	User     string `envconfig:"SHOPPULSE_DB_USER"`
	Password string `envconfig:"SHOPPULSE_DB_PASSWORD"`
	Name     string `envconfig:"SHOPPULSE_DB_NAME"`
	SSLMode  string `envconfig:"SHOPPULSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPPULSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPPULSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPPULSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPPULSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if strings.EqualFold(d.Driver, DriverSQLite) {
		d.DSN = "file:shoppulse.db?cache=shared"
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("db dsn or host/user/name are required")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPPULSE_REDIS_URL"`
	Address      string        `envconfig:"SHOPPULSE_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPPULSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPPULSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPPULSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPPULSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPPULSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPPULSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPPULSE_REDIS_WRITE_TIMEOUT" default:"5s"`
	SnapshotTTL  time.Duration `envconfig:"SHOPPULSE_REDIS_SNAPSHOT_TTL" default:"1h"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHOPPULSE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHOPPULSE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SHOPPULSE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// PipelineConfig carries the default analysis thresholds. Every threshold is
// still an explicit request parameter; these only provide the fallbacks.
type PipelineConfig struct {
	ClusterCount  int     `envconfig:"SHOPPULSE_PIPELINE_CLUSTER_COUNT" default:"4"`
	MinSupport    float64 `envconfig:"SHOPPULSE_PIPELINE_MIN_SUPPORT" default:"0.05"`
	MinConfidence float64 `envconfig:"SHOPPULSE_PIPELINE_MIN_CONFIDENCE" default:"0.3"`
	MinLift       float64 `envconfig:"SHOPPULSE_PIPELINE_MIN_LIFT" default:"1.5"`
	BundleMinLift float64 `envconfig:"SHOPPULSE_PIPELINE_BUNDLE_MIN_LIFT" default:"2.0"`
	MaxItemsetLen int     `envconfig:"SHOPPULSE_PIPELINE_MAX_ITEMSET_LEN" default:"2"`
	RandomSeed    int64   `envconfig:"SHOPPULSE_PIPELINE_RANDOM_SEED" default:"42"`
}

type AugmentConfig struct {
	BaseURL string        `envconfig:"SHOPPULSE_AUGMENT_BASE_URL"`
	APIKey  string        `envconfig:"SHOPPULSE_AUGMENT_API_KEY"`
	Model   string        `envconfig:"SHOPPULSE_AUGMENT_MODEL" default:"gemini-2.5-flash"`
	Timeout time.Duration `envconfig:"SHOPPULSE_AUGMENT_TIMEOUT" default:"8s"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SHOPPULSE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SHOPPULSE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SHOPPULSE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	ImportsSubscription string `envconfig:"SHOPPULSE_PUBSUB_IMPORTS_SUBSCRIPTION"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SHOPPULSE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SHOPPULSE_AUTO_MIGRATE" default:"false"`
}
