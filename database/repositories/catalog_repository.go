package repositories

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lunarealm/luna-backend/config"
	"github.com/lunarealm/luna-backend/database"
	"github.com/lunarealm/luna-backend/database/models"
	"github.com/lunarealm/luna-backend/games"
)

// CatalogRepository reads the canonical card catalog and owns the only write
// path into it (the backfilled game field). Reads are cached per filter value
// for the life of the process; the catalog is quasi-static and a restart (or
// an explicit Invalidate after a backfill) is the refresh mechanism.
type CatalogRepository interface {
	GetAll(ctx context.Context) ([]models.CatalogCard, error)
	GetByGame(ctx context.Context, game games.Bucket) ([]models.CatalogCard, error)
	SetGame(ctx context.Context, docID primitive.ObjectID, game games.Bucket) error
	CountByGame(ctx context.Context, game games.Bucket) (int64, error)
	SeedMissing(ctx context.Context, cards []models.CatalogCard) (int, error)
	EnsureIndexes(ctx context.Context) error
	Invalidate()
}

type catalogRepository struct {
	coll  *mongo.Collection
	cache *lru.Cache
}

func NewCatalogRepository(db *database.DB) CatalogRepository {
	cache, _ := lru.New(config.CatalogCacheSize)
	return &catalogRepository{
		coll:  db.Collection(database.CollCardCatalog),
		cache: cache,
	}
}

func (r *catalogRepository) GetAll(ctx context.Context) ([]models.CatalogCard, error) {
	return r.find(ctx, "all", bson.M{})
}

func (r *catalogRepository) GetByGame(ctx context.Context, game games.Bucket) ([]models.CatalogCard, error) {
	return r.find(ctx, game.String(), bson.M{"game": game.String()})
}

func (r *catalogRepository) find(ctx context.Context, cacheKey string, filter bson.M) ([]models.CatalogCard, error) {
	if cached, ok := r.cache.Get(cacheKey); ok {
		return cached.([]models.CatalogCard), nil
	}

	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("catalog find failed: %w", err)
	}
	defer cur.Close(ctx)

	var cards []models.CatalogCard
	if err := cur.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("catalog decode failed: %w", err)
	}

	r.cache.Add(cacheKey, cards)
	return cards, nil
}

func (r *catalogRepository) SetGame(ctx context.Context, docID primitive.ObjectID, game games.Bucket) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": docID},
		bson.M{"$set": bson.M{"game": game.String()}},
	)
	if err != nil {
		return fmt.Errorf("failed to set game on %s: %w", docID.Hex(), err)
	}
	return nil
}

func (r *catalogRepository) CountByGame(ctx context.Context, game games.Bucket) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	return r.coll.CountDocuments(ctx, bson.M{"game": game.String()})
}

// SeedMissing inserts any card whose id is not yet present. Existing
// documents are left untouched; cards added directly to the store survive.
func (r *catalogRepository) SeedMissing(ctx context.Context, cards []models.CatalogCard) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"id": 1}))
	if err != nil {
		return 0, fmt.Errorf("catalog id scan failed: %w", err)
	}
	var existing []struct {
		ID string `bson:"id"`
	}
	if err := cur.All(ctx, &existing); err != nil {
		return 0, fmt.Errorf("catalog id decode failed: %w", err)
	}

	existingIDs := make(map[string]struct{}, len(existing))
	for _, doc := range existing {
		existingIDs[doc.ID] = struct{}{}
	}

	var missing []interface{}
	for _, card := range cards {
		if _, ok := existingIDs[card.ID]; !ok {
			card.DocID = primitive.NilObjectID
			missing = append(missing, card)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	res, err := r.coll.InsertMany(ctx, missing)
	if err != nil {
		return 0, fmt.Errorf("catalog seed insert failed: %w", err)
	}
	r.Invalidate()
	return len(res.InsertedIDs), nil
}

func (r *catalogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "rarity", Value: 1}}},
		{Keys: bson.D{{Key: "game", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create catalog indexes: %w", err)
	}
	return nil
}

// Invalidate drops every cached filter result. Called after backfill runs so
// a long-lived server picks up new game assignments without a restart.
func (r *catalogRepository) Invalidate() {
	r.cache.Purge()
}
