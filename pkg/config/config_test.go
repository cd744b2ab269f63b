package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Storage.Driver != StorageDriverMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.Storage.Driver)
	}
	if cfg.Pricing.RoundingUnit != 100 {
		t.Fatalf("expected rounding unit 100, got %d", cfg.Pricing.RoundingUnit)
	}
	if cfg.Pricing.MaxQuantity != 99 {
		t.Fatalf("expected max quantity 99, got %d", cfg.Pricing.MaxQuantity)
	}
	if got := cfg.Coupons.RefreshInterval; got != 5*time.Minute {
		t.Fatalf("expected refresh interval 5m, got %v", got)
	}
	if cfg.Stores.DefaultDeliveryFee != 3000 {
		t.Fatalf("expected default delivery fee 3000, got %d", cfg.Stores.DefaultDeliveryFee)
	}
	if cfg.Coupons.LockKey != "coupon_refresh" {
		t.Fatalf("unexpected lock key %q", cfg.Coupons.LockKey)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("expected two default origins, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Sessions.MaxCached != 10000 || cfg.Sessions.IdleTTL != 30*time.Minute {
		t.Fatalf("unexpected session limits %+v", cfg.Sessions)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsUnknownStorageDriver(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "localstorage")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown storage driver to fail")
	}
}

func TestLoad_RedisDriverRequiresURL(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected redis driver without url to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
}

func TestLoad_SQLiteDefaultsDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "SQLite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DB.Driver != StorageDriverSQLite {
		t.Fatalf("expected sqlite db driver, got %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		t.Fatal("expected sqlite dsn default")
	}
}

func TestLoad_PostgresBuildsLegacyDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "postgres")
	t.Setenv(EnvDBHost, "db.internal")
	t.Setenv(EnvDBUser, "itseats")
	t.Setenv(EnvDBName, "carts")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "postgres://itseats@db.internal:5432/carts?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("expected dsn %q, got %q", want, cfg.DB.DSN)
	}
}

func TestLoad_RejectsNonPositiveRoundingUnit(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvRoundingUnit, "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected zero rounding unit to fail")
	}
}

func TestLoad_RejectsNegativeDeliveryFee(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDefaultDeliveryFee, "-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected negative delivery fee to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{EnvStorageDriver, EnvDBDSN, EnvDBHost, EnvDBUser, EnvDBName, EnvRedisURL, EnvRoundingUnit, EnvDefaultDeliveryFee} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}
