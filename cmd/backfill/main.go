package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/lunarealm/luna-backend/config"
	"github.com/lunarealm/luna-backend/database"
	dbmodels "github.com/lunarealm/luna-backend/database/models"
	"github.com/lunarealm/luna-backend/database/repositories"
	"github.com/lunarealm/luna-backend/games"
	"github.com/lunarealm/luna-backend/logger"
)

// Backfills the game field on every card_catalog document from the catalog
// classifier rules. Rewrites every document, so re-running after a rule
// change converges the whole catalog. With -seed, catalog cards missing from
// the store are inserted from a JSON file first.
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	seedPath := flag.String("seed", "", "optional JSON file of catalog cards to seed before classifying")
	flag.Parse()

	slog.SetDefault(slog.New(logger.NewHandler("Luna-Backfill")))

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		slog.Error("Failed to connect to mongo", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close(context.Background())

	if err := run(ctx, repositories.NewCatalogRepository(db), *seedPath); err != nil {
		slog.Error("Backfill failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, catalog repositories.CatalogRepository, seedPath string) error {
	if seedPath != "" {
		if err := seed(ctx, catalog, seedPath); err != nil {
			return err
		}
	}

	cards, err := catalog.GetAll(ctx)
	if err != nil {
		return err
	}
	slog.Info("Loaded card catalog", slog.Int("cards", len(cards)))

	classifier := games.CatalogClassifier{}
	counts := make(map[games.Bucket]int, len(games.Buckets))

	for _, card := range cards {
		bucket := classifier.Classify(card.DisplayName())
		if err := catalog.SetGame(ctx, card.DocID, bucket); err != nil {
			return err
		}
		counts[bucket]++
	}

	for _, bucket := range games.Buckets {
		slog.Info("Assigned bucket",
			slog.String("game", bucket.String()),
			slog.Int("cards", counts[bucket]))
	}

	if err := catalog.EnsureIndexes(ctx); err != nil {
		return err
	}
	catalog.Invalidate()

	// Verify the writes landed by counting from the store, not from memory.
	for _, bucket := range games.Buckets {
		stored, err := catalog.CountByGame(ctx, bucket)
		if err != nil {
			return err
		}
		if stored != int64(counts[bucket]) {
			slog.Warn("Stored count differs from assigned count",
				slog.String("game", bucket.String()),
				slog.Int("assigned", counts[bucket]),
				slog.Int64("stored", stored))
			continue
		}
		slog.Info("Verified bucket count",
			slog.String("game", bucket.String()),
			slog.Int64("stored", stored))
	}

	slog.Info("Backfill complete", slog.Int("cards", len(cards)))
	return nil
}

// seed inserts catalog cards from a JSON file, skipping ids already present.
func seed(ctx context.Context, catalog repositories.CatalogRepository, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var cards []dbmodels.CatalogCard
	if err := json.Unmarshal(raw, &cards); err != nil {
		return err
	}

	inserted, err := catalog.SeedMissing(ctx, cards)
	if err != nil {
		return err
	}
	slog.Info("Seeded catalog",
		slog.Int("file_cards", len(cards)),
		slog.Int("inserted", inserted))
	return nil
}
