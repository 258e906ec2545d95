package db

import (
	"fmt"
	"strings"

	"pickleshop/internal/config"
	"pickleshop/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// Connect はDBに接続して *gorm.DB を返す。
// DATABASE_URLが "sqlite:" で始まるときはローカル用にsqliteを使う。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel(cfg)),
	}

	// DATABASE_URL があれば最優先で使う
	if dsn := cfg.DatabaseURL; dsn != "" {
		if strings.HasPrefix(dsn, sqlitePrefix) {
			return gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), gcfg)
		}
		return gorm.Open(postgres.Open(dsn), gcfg)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)

	return gorm.Open(postgres.Open(dsn), gcfg)
}

// OpenSQLite はテストやseed用のsqlite接続。":memory:" も可。
func OpenSQLite(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
}

// Migrate はアプリで使うテーブルを作る
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.Credential{},
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.AuditLog{},
	)
}

func logLevel(cfg config.Config) logger.LogLevel {
	if cfg.IsProduction() {
		return logger.Error
	}
	return logger.Warn
}
