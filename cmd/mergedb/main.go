package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lunarealm/luna-backend/config"
	"github.com/lunarealm/luna-backend/database"
	"github.com/lunarealm/luna-backend/logger"
)

// Copies named collections from a secondary Mongo deployment into the
// primary, document by document with upserts. The source is never written.
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	sourceURI := flag.String("source-uri", "", "connection string of the deployment to copy from")
	sourceDB := flag.String("source-db", "", "database name on the source deployment")
	collections := flag.String("collections", "levels,cooldowns,system", "comma-separated collections to copy")
	flag.Parse()

	slog.SetDefault(slog.New(logger.NewHandler("Luna-MergeDB")))

	if *sourceURI == "" || *sourceDB == "" {
		slog.Error("Both -source-uri and -source-db are required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	target, err := database.New(ctx, database.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		slog.Error("Failed to connect to target mongo", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer target.Close(context.Background())

	source, err := database.New(ctx, database.Config{
		URI:      *sourceURI,
		Database: *sourceDB,
	})
	if err != nil {
		slog.Error("Failed to connect to source mongo", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer source.Close(context.Background())

	for _, coll := range strings.Split(*collections, ",") {
		coll = strings.TrimSpace(coll)
		if coll == "" {
			continue
		}
		if err := mergeCollection(ctx, source, target, coll); err != nil {
			slog.Error("Merge failed",
				slog.String("collection", coll),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	slog.Info("Merge complete")
}

func mergeCollection(ctx context.Context, source, target *database.DB, coll string) error {
	slog.Info("Merging collection", slog.String("collection", coll))

	cur, err := source.Collection(coll).Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	var upserted, modified, matched int64
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return err
		}

		res, err := target.Collection(coll).ReplaceOne(ctx,
			bson.M{"_id": doc["_id"]},
			doc,
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return err
		}
		upserted += res.UpsertedCount
		modified += res.ModifiedCount
		matched += res.MatchedCount
	}
	if err := cur.Err(); err != nil {
		return err
	}

	slog.Info("Collection merged",
		slog.String("collection", coll),
		slog.Int64("upserted", upserted),
		slog.Int64("modified", modified),
		slog.Int64("matched", matched))
	return nil
}
