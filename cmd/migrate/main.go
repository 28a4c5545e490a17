package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fekuna/orderflow-service/config"
	"github.com/fekuna/orderflow-service/migrations"
	"github.com/fekuna/orderflow-service/pkg/database/postgres"
	"github.com/fekuna/orderflow-service/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger := logger.NewZapLogger(&logger.ZapLoggerConfig{
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     true,
		DisableStacktrace: true,
	})
	defer appLogger.Sync()

	db, err := postgres.NewPostgres(&postgres.Config{
		DSN:             cfg.Postgres.DSN(),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	applied, err := migrations.Apply(ctx, db)
	for _, name := range applied {
		appLogger.Info("applied migration", zap.String("name", name))
	}
	if err != nil {
		appLogger.Fatal("migration failed", zap.Error(err))
	}
	appLogger.Info("database is up to date", zap.Int("applied", len(applied)), zap.String("db_name", cfg.Postgres.DBName))
}
