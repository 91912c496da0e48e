package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/lunarealm/luna-backend/config"
	"github.com/lunarealm/luna-backend/database"
	dbmodels "github.com/lunarealm/luna-backend/database/models"
	"github.com/lunarealm/luna-backend/games"
	"github.com/lunarealm/luna-backend/logger"
)

// Reporting tool: scans every user's owned cards, buckets the distinct card
// names with the prefix rule, and cross-references them against the catalog.
// Read-only; the output is the input for curating the classifier tables.
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	slog.SetDefault(slog.New(logger.NewHandler("Luna-MapGames")))

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

	if err := run(ctx, db); err != nil {
		slog.Error("Scan failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, db *database.DB) error {
	ownedNames, users, err := scanOwnedNames(ctx, db)
	if err != nil {
		return err
	}
	slog.Info("Scanned owned collections",
		slog.Int("users", users),
		slog.Int("distinct_names", len(ownedNames)))

	classifier := games.PrefixClassifier{}
	byBucket := make(map[games.Bucket][]string, len(games.Buckets))
	for name := range ownedNames {
		bucket := classifier.Classify(name)
		byBucket[bucket] = append(byBucket[bucket], name)
	}

	for _, bucket := range games.Buckets {
		names := byBucket[bucket]
		sort.Strings(names)
		slog.Info("Bucket report",
			slog.String("game", bucket.String()),
			slog.Int("distinct_names", len(names)))
		for _, name := range names {
			slog.Info("  card", slog.String("name", name))
		}
	}

	return crossReference(ctx, db, ownedNames)
}

func scanOwnedNames(ctx context.Context, db *database.DB) (map[string]struct{}, int, error) {
	cur, err := db.Collection(database.CollCards).Find(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	names := make(map[string]struct{})
	users := 0
	for cur.Next(ctx) {
		var doc struct {
			ID   string `bson:"_id"`
			Data string `bson:"data"`
		}
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		users++

		var cards []dbmodels.UserCard
		if err := json.Unmarshal([]byte(doc.Data), &cards); err != nil {
			slog.Warn("Skipping malformed card blob", slog.String("user_id", doc.ID))
			continue
		}
		for _, card := range cards {
			names[card.Name] = struct{}{}
		}
	}
	return names, users, cur.Err()
}

// crossReference reports owned names with no catalog counterpart, trying the
// raw name and then the name without its "Luna " prefix.
func crossReference(ctx context.Context, db *database.DB, ownedNames map[string]struct{}) error {
	cur, err := db.Collection(database.CollCardCatalog).Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	catalogNames := make(map[string]struct{})
	for cur.Next(ctx) {
		var card dbmodels.CatalogCard
		if err := cur.Decode(&card); err != nil {
			continue
		}
		catalogNames[card.DisplayName()] = struct{}{}
	}
	if err := cur.Err(); err != nil {
		return err
	}

	var unmatched []string
	for name := range ownedNames {
		if _, ok := catalogNames[name]; ok {
			continue
		}
		if base, ok := games.LunaBaseName(name); ok {
			if _, ok := catalogNames[base]; ok {
				continue
			}
		}
		unmatched = append(unmatched, name)
	}
	sort.Strings(unmatched)

	slog.Info("Cross-reference complete",
		slog.Int("catalog_names", len(catalogNames)),
		slog.Int("unmatched_owned_names", len(unmatched)))
	for _, name := range unmatched {
		slog.Warn("Owned card missing from catalog", slog.String("name", name))
	}
	return nil
}
