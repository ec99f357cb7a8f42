// seed はローカル開発用のサンプルユーザーを投入します。既に存在する email はスキップします。
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"task-manager/internal/config"
	"task-manager/internal/database"
	"task-manager/internal/logger"
	"task-manager/internal/models"
	"task-manager/internal/repositories"
)

var sampleUsers = []models.User{
	{Email: "ada@example.com", Name: "Ada"},
	{Email: "linus@example.com", Name: "Linus"},
	{Email: "grace@example.com", Name: "Grace"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, database.Close(db))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repositories.NewUserRepository(db)
	// CreateIgnoringDuplicates は渡したスライスに ID を書き戻すのでコピーを渡す
	inserted, err := users.CreateIgnoringDuplicates(ctx, append([]models.User(nil), sampleUsers...))
	if err != nil {
		return err
	}
	total, err := users.Count(ctx)
	if err != nil {
		return err
	}

	log.Info("Seed complete", zap.Int64("inserted", inserted), zap.Int64("users", total))
	return nil
}
