//cmd/seeder/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/unclebandit/churn-predictor/internal/config"
	"github.com/unclebandit/churn-predictor/internal/db"
	"github.com/unclebandit/churn-predictor/internal/logger"
)

// seedFiles run in order. Each must be safe to run more than once.
var seedFiles = []string{
	"migrations/001_create_telco_customers.sql",
	"seed/telco_customers.sql",
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func main() {
	config.LoadDotEnv()
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer log.Sync()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	defer database.Close()

	if err := seed(ctx, database, ".", log); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	log.Info("database seeding completed")
}

// seed executes every file in seedFiles, resolved against root.
func seed(ctx context.Context, conn execer, root string, log *zap.Logger) error {
	for _, file := range seedFiles {
		content, err := os.ReadFile(filepath.Join(root, file))
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute %s: %w", file, err)
		}
		log.Info("seeded", zap.String("file", file))
	}
	return nil
}
