package services

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	dbmodels "github.com/lunarealm/luna-backend/database/models"
	"github.com/lunarealm/luna-backend/database/repositories"
	"github.com/lunarealm/luna-backend/games"
	"github.com/lunarealm/luna-backend/models"
)

// catalogSearchItems implements fuzzy.Source over flattened catalog entries.
type catalogSearchItems []models.CatalogCardDTO

func (items catalogSearchItems) Len() int { return len(items) }

func (items catalogSearchItems) String(i int) string {
	return normalizeCardName(items[i].Name)
}

// CatalogService serves the public card catalog: bucket listing, rarity
// filtering and fuzzy name search. All reads go through the repository's
// cache.
type CatalogService struct {
	catalog repositories.CatalogRepository
}

func NewCatalogService(catalog repositories.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// GetCards returns the flattened catalog, restricted to one bucket when game
// is non-nil.
func (s *CatalogService) GetCards(ctx context.Context, game *games.Bucket) ([]models.CatalogCardDTO, error) {
	var (
		fetched []dbmodels.CatalogCard
		err     error
	)
	if game != nil {
		fetched, err = s.catalog.GetByGame(ctx, *game)
	} else {
		fetched, err = s.catalog.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]models.CatalogCardDTO, len(fetched))
	for i, card := range fetched {
		dtos[i] = models.NewCatalogCardDTO(card)
	}
	return dtos, nil
}

// SearchCards fuzzy-matches the query against card names and returns matches
// in relevance order. An empty query returns the input unchanged.
func (s *CatalogService) SearchCards(cards []models.CatalogCardDTO, query string) []models.CatalogCardDTO {
	query = normalizeCardName(query)
	if query == "" {
		return cards
	}

	items := catalogSearchItems(cards)
	matches := fuzzy.FindFrom(query, items)

	results := make([]models.CatalogCardDTO, len(matches))
	for i, match := range matches {
		results[i] = cards[match.Index]
	}
	return results
}

// FilterByRarity keeps cards of one rarity, case-insensitively. Empty rarity
// means no filtering.
func (s *CatalogService) FilterByRarity(cards []models.CatalogCardDTO, rarity string) []models.CatalogCardDTO {
	if rarity == "" {
		return cards
	}
	filtered := make([]models.CatalogCardDTO, 0, len(cards))
	for _, c := range cards {
		if strings.EqualFold(c.Rarity, rarity) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// BucketCounts returns the catalog size per game bucket.
func (s *CatalogService) BucketCounts(ctx context.Context) (map[games.Bucket]int64, error) {
	counts := make(map[games.Bucket]int64, len(games.Buckets))
	for _, bucket := range games.Buckets {
		n, err := s.catalog.CountByGame(ctx, bucket)
		if err != nil {
			return nil, err
		}
		counts[bucket] = n
	}
	return counts, nil
}

// Invalidate drops the repository's cached catalog reads. Exposed so an
// admin can pick up fresh backfill results without a restart.
func (s *CatalogService) Invalidate() {
	s.catalog.Invalidate()
}

// normalizeCardName lowercases and collapses whitespace so fuzzy matching is
// insensitive to casing and stray spaces.
func normalizeCardName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
