package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/lunarealm/luna-backend/config"
	"github.com/lunarealm/luna-backend/database"
	"github.com/lunarealm/luna-backend/logger"
	"github.com/lunarealm/luna-backend/migration"
)

// Exports the bot's Mongo store into the Postgres archive tables.
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	batchSize := flag.Int("batch-size", 1000, "rows per insert batch")
	flag.Parse()

	slog.SetDefault(slog.New(logger.NewHandler("Luna-Export")))

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	mongo, err := database.New(ctx, database.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		slog.Error("Failed to connect to mongo", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer mongo.Close(context.Background())

	pg, err := migration.NewPostgresDB(ctx, cfg.Postgres)
	if err != nil {
		slog.Error("Failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize archive schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	exporter := migration.NewExporter(mongo, pg)
	exporter.SetBatchSize(*batchSize)

	if err := exporter.ExportAll(ctx); err != nil {
		slog.Error("Export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
