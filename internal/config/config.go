package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	StoreBackend string // postgres / sqlite / memory（起動時に一度だけ選ぶ）

	DatabaseURL      string // あればPOSTGRES_*より優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	SQLitePath string // sqliteのファイル（":memory:"も可）
	DemoSeed   bool   // memoryのときデモデータを入れる

	JWTSecret string // JWT署名シークレット（発行は外部、ここでは検証のみ）

	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error

	Timezone      *time.Location // 月初の計算に使う
	PricingStrict bool           // 価格が見つからない商品をエラーにする

	RedisURL       string        // 空なら冪等キーは無効
	IdempotencyTTL time.Duration // 冪等キーの保持期間
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port:         os.Getenv("PORT"),
		StoreBackend: strings.ToLower(getenv("STORE_BACKEND", StorePostgres)),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		SQLitePath: getenv("SQLITE_PATH", "lotte-crm.db"),
		DemoSeed:   getenvBool("DEMO_SEED", false),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:    os.Getenv("GO_ENV"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		PricingStrict: getenvBool("PRICING_STRICT", false),
		RedisURL:      os.Getenv("REDIS_URL"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}

	switch cfg.StoreBackend {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			if err := cfg.requirePostgres(); err != nil {
				return Config{}, err
			}
		}
	case StoreSQLite, StoreMemory:
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND must be one of postgres, sqlite, memory: %q", cfg.StoreBackend)
	}

	loc, err := time.LoadLocation(getenv("TIMEZONE", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	cfg.Timezone = loc

	ttl, err := time.ParseDuration(getenv("IDEMPOTENCY_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("IDEMPOTENCY_TTL must be duration: %w", err)
	}
	cfg.IdempotencyTTL = ttl

	return cfg, nil
}

func (c *Config) requirePostgres() error {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return err
	}
	c.PostgresPort = pgPort

	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if c.PostgresPassword == "" {
		return fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	return nil
}

// postgres用のDSN
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

// ":8080" の形にする
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
