package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Configはアプリ全体の設定
type Config struct {
	Port string `envconfig:"PORT" default:"8080"` // サーバーポート

	DatabaseURL      string `envconfig:"DATABASE_URL"` // あれば最優先（"sqlite:" も可）
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"postgres"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"pickleshop"`
	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"` // identityトークン署名

	GoEnv     string `envconfig:"GO_ENV" default:"dev"` // dev/prod
	PublicURL string `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`
	FEURL     string `envconfig:"FE_URL" default:"http://localhost:5173"` // CORS

	// 最初の管理者になるメールアドレス
	BootstrapAdminEmail string `envconfig:"BOOTSTRAP_ADMIN_EMAIL" default:"admin@pickleball.com"`

	// email/passwordログインを許可するか
	PasswordSignInEnabled bool `envconfig:"PASSWORD_SIGNIN_ENABLED" default:"true"`

	RedisAddr     string `envconfig:"REDIS_ADDR"` // 空ならメモリ
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	AMQPURL      string `envconfig:"AMQP_URL"` // 空ならイベント送信しない
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"pickleshop.events"`

	GoogleClientID       string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `envconfig:"GOOGLE_CLIENT_SECRET"`
	FacebookClientID     string `envconfig:"FACEBOOK_CLIENT_ID"`
	FacebookClientSecret string `envconfig:"FACEBOOK_CLIENT_SECRET"`

	SessionIdleTTL  time.Duration `envconfig:"SESSION_IDLE_TTL" default:"2h"`
	CatalogCacheTTL time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"1m"`
}

// Loadは.envと環境変数を読む
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		// .envは無くてもよい
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}

	//必須チェック
	if strings.TrimSpace(cfg.BootstrapAdminEmail) == "" {
		return Config{}, fmt.Errorf("BOOTSTRAP_ADMIN_EMAIL is required")
	}
	if cfg.IsProduction() && len(cfg.JWTSecret) < 32 {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least 32 bytes in production")
	}
	cfg.BootstrapAdminEmail = strings.ToLower(strings.TrimSpace(cfg.BootstrapAdminEmail))

	return cfg, nil
}

func (c Config) IsProduction() bool {
	switch c.GoEnv {
	case "prod", "production":
		return true
	}
	return false
}

// ":8080" 形式のアドレス
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
