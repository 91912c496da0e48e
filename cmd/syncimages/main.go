package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/lunarealm/luna-backend/config"
	"github.com/lunarealm/luna-backend/database"
	dbmodels "github.com/lunarealm/luna-backend/database/models"
	"github.com/lunarealm/luna-backend/games"
	"github.com/lunarealm/luna-backend/logger"
	"github.com/lunarealm/luna-backend/services"
)

// ownedToCatalogAliases covers owned card names whose catalog counterpart is
// spelled differently and is not reachable by stripping the "Luna " prefix.
var ownedToCatalogAliases = map[string]string{
	"Silverbird":   "Silver Bird",
	"Battlemage":   "Battle Mage",
	"Dragonslayer": "Dragon Slayer",
	"Twins":        "Luneth & Cavor",
}

// Rewrites every owned card's image URL to the CDN copy of its catalog
// image. Only documents whose serialized blob actually changed are written
// back.
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	verify := flag.Bool("verify", false, "HEAD each CDN object before rewriting to it")
	dryRun := flag.Bool("dry-run", false, "report without writing")
	flag.Parse()

	slog.SetDefault(slog.New(logger.NewHandler("Luna-SyncImages")))

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
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

	spaces, err := services.NewSpacesService(cfg.Spaces)
	if err != nil {
		slog.Error("Failed to initialize spaces client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sync := &imageSync{
		db:     db,
		spaces: spaces,
		verify: *verify,
		dryRun: *dryRun,
	}
	if err := sync.run(ctx); err != nil {
		slog.Error("Image sync failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type imageSync struct {
	db     *database.DB
	spaces *services.SpacesService
	verify bool
	dryRun bool

	updated    int
	alreadyCDN int
	skipped    int
}

func (s *imageSync) run(ctx context.Context) error {
	catalogURLs, err := s.loadCatalogURLs(ctx)
	if err != nil {
		return err
	}
	slog.Info("Loaded catalog image map", slog.Int("names", len(catalogURLs)))

	cur, err := s.db.Collection(database.CollCards).Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc struct {
			ID   string `bson:"_id"`
			Data string `bson:"data"`
		}
		if err := cur.Decode(&doc); err != nil {
			continue
		}

		var cards []dbmodels.UserCard
		if err := json.Unmarshal([]byte(doc.Data), &cards); err != nil {
			slog.Warn("Skipping malformed card blob", slog.String("user_id", doc.ID))
			continue
		}

		changed := false
		for i := range cards {
			target, ok := s.resolveURL(ctx, catalogURLs, cards[i].Name)
			if !ok {
				s.skipped++
				continue
			}
			if cards[i].ImageURL == target {
				s.alreadyCDN++
				continue
			}
			cards[i].ImageURL = target
			s.updated++
			changed = true
		}
		if !changed || s.dryRun {
			continue
		}

		data, err := json.Marshal(cards)
		if err != nil {
			return err
		}
		_, err = s.db.Collection(database.CollCards).UpdateOne(ctx,
			bson.M{"_id": doc.ID},
			bson.M{"$set": bson.M{"data": string(data)}},
		)
		if err != nil {
			return err
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}

	slog.Info("Image sync complete",
		slog.Int("updated", s.updated),
		slog.Int("already_cdn", s.alreadyCDN),
		slog.Int("skipped", s.skipped),
		slog.Bool("dry_run", s.dryRun))
	return nil
}

// loadCatalogURLs maps catalog display names to the CDN URL of their image
// file.
func (s *imageSync) loadCatalogURLs(ctx context.Context) (map[string]string, error) {
	cur, err := s.db.Collection(database.CollCardCatalog).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	urls := make(map[string]string)
	for cur.Next(ctx) {
		var card dbmodels.CatalogCard
		if err := cur.Decode(&card); err != nil {
			continue
		}
		fileName := path.Base(card.ImageURL)
		if fileName == "" || fileName == "." || fileName == "/" {
			continue
		}
		urls[card.DisplayName()] = s.spaces.ImageURL(s.spaces.CardImageKey(fileName))
	}
	return urls, cur.Err()
}

// resolveURL finds the CDN URL for an owned card name: exact catalog match,
// then the name without its "Luna " prefix, then the manual alias table.
func (s *imageSync) resolveURL(ctx context.Context, catalogURLs map[string]string, name string) (string, bool) {
	candidates := []string{name}
	if base, ok := games.LunaBaseName(name); ok {
		candidates = append(candidates, base)
	}
	if alias, ok := ownedToCatalogAliases[name]; ok {
		candidates = append(candidates, alias)
	}
	if base, ok := games.LunaBaseName(name); ok {
		if alias, ok := ownedToCatalogAliases[base]; ok {
			candidates = append(candidates, alias)
		}
	}

	for _, candidate := range candidates {
		url, ok := catalogURLs[candidate]
		if !ok {
			continue
		}
		if s.verify && !s.objectReachable(ctx, url) {
			continue
		}
		return url, true
	}
	return "", false
}

func (s *imageSync) objectReachable(ctx context.Context, url string) bool {
	idx := strings.LastIndex(url, "/")
	if idx < 0 {
		return false
	}
	ok, err := s.spaces.ObjectExists(ctx, s.spaces.CardImageKey(url[idx+1:]))
	return err == nil && ok
}
