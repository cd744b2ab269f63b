package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ITSEATS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv         = "ITSEATS_APP_ENV"
	EnvPort           = "ITSEATS_APP_PORT"
	EnvStorageDriver  = "ITSEATS_STORAGE_DRIVER"
	EnvDBDSN          = "ITSEATS_DB_DSN"
	EnvDBHost         = "ITSEATS_DB_HOST"
	EnvDBUser         = "ITSEATS_DB_USER"
	EnvDBName         = "ITSEATS_DB_NAME"
	EnvRedisURL       = "ITSEATS_REDIS_URL"
	EnvBackendBaseURL = "ITSEATS_BACKEND_BASE_URL"
	EnvRoundingUnit   = "ITSEATS_PRICING_ROUNDING_UNIT"

	EnvDefaultDeliveryFee = "ITSEATS_STORES_DEFAULT_DELIVERY_FEE"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverRedis    = "redis"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	DB       DBConfig
	Redis    RedisConfig
	Pricing  PricingConfig
	Backend  BackendConfig
	Coupons  CouponsConfig
	Stores   StoresConfig
	Sessions SessionsConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.UsesSQL() {
		cfg.DB.Driver = cfg.Storage.Driver
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.Storage.Driver == StorageDriverRedis && !cfg.Redis.Configured() {
		return nil, fmt.Errorf("%s is required when storage driver is redis", EnvRedisURL)
	}
	if cfg.Pricing.RoundingUnit <= 0 {
		return nil, fmt.Errorf("%s must be positive", EnvRoundingUnit)
	}
	if cfg.Stores.DefaultDeliveryFee < 0 {
		return nil, fmt.Errorf("%s must not be negative", EnvDefaultDeliveryFee)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ITSEATS_APP_ENV" required:"true"`
	Port         string `envconfig:"ITSEATS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ITSEATS_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"ITSEATS_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"ITSEATS_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"ITSEATS_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the durable key-value backend used for cart state.
type StorageConfig struct {
	Driver    string `envconfig:"ITSEATS_STORAGE_DRIVER" default:"memory"`
	KeyPrefix string `envconfig:"ITSEATS_STORAGE_KEY_PREFIX" default:"itseats"`
}

// UsesSQL reports whether the storage driver is backed by a SQL database.
func (s StorageConfig) UsesSQL() bool {
	return s.Driver == StorageDriverSQLite || s.Driver == StorageDriverPostgres
}

func (s *StorageConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case StorageDriverMemory, StorageDriverRedis, StorageDriverSQLite, StorageDriverPostgres:
		return nil
	}
	return fmt.Errorf("unsupported %s %q", EnvStorageDriver, s.Driver)
}

type DBConfig struct {
	DSN    string `envconfig:"ITSEATS_DB_DSN"`
	Driver string `envconfig:"ITSEATS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ITSEATS_DB_HOST"`
	LegacyPort     int    `envconfig:"ITSEATS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ITSEATS_DB_USER"`
	LegacyPassword string `envconfig:"ITSEATS_DB_PASSWORD"`
	LegacyName     string `envconfig:"ITSEATS_DB_NAME"`
	LegacySSLMode  string `envconfig:"ITSEATS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ITSEATS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"ITSEATS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"ITSEATS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ITSEATS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ITSEATS_REDIS_URL"`
	Address      string        `envconfig:"ITSEATS_REDIS_ADDR"`
	Password     string        `envconfig:"ITSEATS_REDIS_PASSWORD"`
	DB           int           `envconfig:"ITSEATS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ITSEATS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ITSEATS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ITSEATS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ITSEATS_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"ITSEATS_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Configured reports whether a redis endpoint was provided. Redis then also backs the cron
// lock and checkout idempotency, whatever the storage driver.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

// PricingConfig holds the currency rounding policy and cart bounds.
type PricingConfig struct {
	RoundingUnit int `envconfig:"ITSEATS_PRICING_ROUNDING_UNIT" default:"100"`
	MaxQuantity  int `envconfig:"ITSEATS_CART_MAX_QUANTITY" default:"99"`
}

// BackendConfig points at the remote API that owns coupons and stores.
type BackendConfig struct {
	BaseURL string        `envconfig:"ITSEATS_BACKEND_BASE_URL"`
	Timeout time.Duration `envconfig:"ITSEATS_BACKEND_TIMEOUT" default:"10s"`
}

// CouponsConfig controls where coupons come from and how often the catalog refreshes.
// SeedFile is used when no backend URL is configured.
type CouponsConfig struct {
	RefreshInterval time.Duration `envconfig:"ITSEATS_COUPONS_REFRESH_INTERVAL" default:"5m"`
	LockKey         string        `envconfig:"ITSEATS_COUPONS_LOCK_KEY" default:"coupon_refresh"`
	LockTTL         time.Duration `envconfig:"ITSEATS_COUPONS_LOCK_TTL" default:"4m"`
	SeedFile        string        `envconfig:"ITSEATS_COUPONS_SEED_FILE"`
}

type StoresConfig struct {
	DefaultDeliveryFee int `envconfig:"ITSEATS_STORES_DEFAULT_DELIVERY_FEE" default:"3000"`
}

// SessionsConfig bounds the per-session carts and coupon selections held in memory.
type SessionsConfig struct {
	MaxCached int           `envconfig:"ITSEATS_SESSIONS_MAX_CACHED" default:"10000"`
	IdleTTL   time.Duration `envconfig:"ITSEATS_SESSIONS_IDLE_TTL" default:"30m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ITSEATS_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Driver == StorageDriverSQLite {
		db.DSN = "file:itseats.db?cache=shared"
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
