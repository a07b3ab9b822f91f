// cmd/seeder/main.go
package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/unclebandit/leadreach-backend/internal/config"
	"github.com/unclebandit/leadreach-backend/internal/db"
)

// Usage: seeder [file.sql ...]. Without arguments seed/demo.sql is applied.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatal(err)
	}
	defer zap.L().Sync() //nolint:errcheck

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		zap.L().Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn); err != nil {
		zap.L().Fatal("migrate", zap.Error(err))
	}

	seedFiles := os.Args[1:]
	if len(seedFiles) == 0 {
		seedFiles = []string{"seed/demo.sql"}
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			zap.L().Fatal("read seed file", zap.String("file", file), zap.Error(err))
		}
		if _, err := conn.ExecContext(ctx, string(content)); err != nil {
			zap.L().Fatal("execute seed file", zap.String("file", file), zap.Error(err))
		}
		zap.L().Info("seeded", zap.String("file", file))
	}

	zap.L().Info("database seeding completed")
}
