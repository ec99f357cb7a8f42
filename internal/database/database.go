// Package database は gorm によるデータベース接続とマイグレーションを扱います。
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"task-manager/internal/config"
	"task-manager/internal/models"
)

// GetDSN は設定から各ドライバ用の接続文字列 (DSN) を構築します。
func GetDSN(cfg config.DBConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	switch cfg.Driver {
	case config.DriverMySQL:
		port := cfg.Port
		if port == "" {
			port = "3306"
		}
		// 例: user:pass@tcp(db:3306)/dbname?parseTime=true
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			cfg.User, cfg.Pass, cfg.Host, port, cfg.Name)
	case config.DriverPostgres:
		port := cfg.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.Host, port, cfg.User, cfg.Pass, cfg.Name)
	default:
		name := cfg.Name
		if !strings.HasSuffix(name, ".db") {
			name += ".db"
		}
		// 外部キー制約は SQLite ではコネクションごとに有効化が必要
		return fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000", name)
	}
}

func dialector(cfg config.DBConfig) (gorm.Dialector, error) {
	dsn := GetDSN(cfg)
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// Open はデータベース接続を初期化し、疎通確認とマイグレーションを行います。
// 返される *gorm.DB はプロセス全体で共有し、終了時に Close してください。
func Open(cfg config.DBConfig, logger *zap.Logger) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		// 一意制約・外部キー違反を gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated に変換する
		TranslateError: true,
		Logger:         newGormLogger(logger, gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("could not open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get sql.DB: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// SQLite は単一ライタなので 1 本に絞る
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Info("Successfully connected to database", zap.String("driver", cfg.Driver))
	return db, nil
}

// Migrate は users / tasks テーブルを作成・更新します。users を先に作成する必要があります。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return fmt.Errorf("could not migrate schema: %w", err)
	}
	return nil
}

// Ping はコネクションプールの疎通確認を行います。
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close はコネクションプールを解放します。
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
