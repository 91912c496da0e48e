package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	dbmodels "github.com/lunarealm/luna-backend/database/models"
	"github.com/lunarealm/luna-backend/database/repositories"
	"github.com/lunarealm/luna-backend/games"
	"github.com/lunarealm/luna-backend/models"
)

const (
	// CardsPerPage is one book page of the collection view; CardsPerSpread is
	// the two-page desktop layout.
	CardsPerPage   = 9
	CardsPerSpread = 18
)

// ProfileService composes the per-user game-data aggregate out of the bot's
// store. It is a pure projection: the only writes in the whole system happen
// in the offline tools.
type ProfileService struct {
	profiles   repositories.ProfileRepository
	catalog    repositories.CatalogRepository
	classifier games.Classifier
	now        func() time.Time
}

func NewProfileService(profiles repositories.ProfileRepository, catalog repositories.CatalogRepository) *ProfileService {
	return &ProfileService{
		profiles:   profiles,
		catalog:    catalog,
		classifier: games.PrefixClassifier{},
		now:        time.Now,
	}
}

// BuildGameData fans out the independent reads backing the profile page and
// joins them into one response. There is no ordering between the reads; any
// transport failure fails the whole request (no partial results, no retry).
func (s *ProfileService) BuildGameData(ctx context.Context, discordID string) (*models.GameDataResponse, error) {
	var (
		ownedCards []dbmodels.UserCard
		stones     []dbmodels.UserStone
		lunari     int
		level      *dbmodels.LevelData
		gameWins   *dbmodels.GameWins
		pvp        dbmodels.PvpRecord
		inventory  []dbmodels.InventoryItem
		tickets    int
		chat       dbmodels.ChatActivity
		catalog    []dbmodels.CatalogCard
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ownedCards, err = s.profiles.GetOwnedCards(gctx, discordID)
		return err
	})
	g.Go(func() (err error) {
		stones, err = s.profiles.GetStones(gctx, discordID)
		return err
	})
	g.Go(func() (err error) {
		lunari, err = s.profiles.GetLunari(gctx, discordID)
		return err
	})
	g.Go(func() (err error) {
		level, err = s.profiles.GetLevel(gctx, discordID)
		return err
	})
	g.Go(func() (err error) {
		gameWins, err = s.profiles.GetGameWins(gctx, discordID)
		return err
	})
	g.Go(func() (err error) {
		pvp, err = s.profiles.GetPvpRecord(gctx, discordID)
		return err
	})
	g.Go(func() (err error) {
		inventory, err = s.profiles.GetInventory(gctx, discordID)
		return err
	})
	g.Go(func() (err error) {
		tickets, err = s.profiles.GetTickets(gctx, discordID)
		return err
	})
	g.Go(func() (err error) {
		chat, err = s.profiles.GetChatActivity(gctx, discordID, s.now())
		return err
	})
	g.Go(func() (err error) {
		catalog, err = s.catalog.GetAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("game data aggregate failed: %w", err)
	}

	catalogDTOs := make([]models.CatalogCardDTO, len(catalog))
	for i, card := range catalog {
		catalogDTOs[i] = models.NewCatalogCardDTO(card)
	}

	return &models.GameDataResponse{
		CardsByGame:  s.GroupCards(ownedCards),
		TotalCards:   len(ownedCards),
		Stones:       stones,
		Lunari:       lunari,
		Level:        level,
		GameWins:     gameWins,
		Pvp:          pvp,
		Inventory:    inventory,
		Tickets:      tickets,
		ChatActivity: chat,
		CardCatalog:  catalogDTOs,
	}, nil
}

// GroupCards partitions owned cards into buckets using the live prefix rule.
func (s *ProfileService) GroupCards(cards []dbmodels.UserCard) models.CardsByGame {
	grouped := models.CardsByGame{
		LunaFantasy:  []dbmodels.UserCard{},
		GrandFantasy: []dbmodels.UserCard{},
		Bumper:       []dbmodels.UserCard{},
	}
	for _, card := range cards {
		switch s.classifier.Classify(card.Name) {
		case games.BucketLunaFantasy:
			grouped.LunaFantasy = append(grouped.LunaFantasy, card)
		case games.BucketBumper:
			grouped.Bumper = append(grouped.Bumper, card)
		default:
			grouped.GrandFantasy = append(grouped.GrandFantasy, card)
		}
	}
	return grouped
}

// MergeWithCatalog builds the collection-book view. With a catalog of N
// cards the result always has N entries, each flagged with ownership and
// surfacing the owned copy's image/attack when present. With no catalog the
// owned cards are shown directly as all-owned entries (degraded mode).
// Matching is by display name only; the bot's owned cards carry no catalog
// key.
func MergeWithCatalog(owned []dbmodels.UserCard, catalog []models.CatalogCardDTO) []models.MergedCard {
	if len(catalog) == 0 {
		merged := make([]models.MergedCard, len(owned))
		for i, c := range owned {
			id := c.ID
			if id == "" {
				id = fmt.Sprintf("owned-%d", i)
			}
			merged[i] = models.MergedCard{
				ID:       id,
				Name:     c.Name,
				Rarity:   c.Rarity,
				ImageURL: c.ImageURL,
				Attack:   c.Attack,
				Owned:    true,
			}
		}
		sortMerged(merged)
		return merged
	}

	ownedByName := make(map[string]dbmodels.UserCard, len(owned))
	for _, c := range owned {
		if _, ok := ownedByName[c.Name]; !ok {
			ownedByName[c.Name] = c
		}
	}

	merged := make([]models.MergedCard, len(catalog))
	for i, cat := range catalog {
		entry := models.MergedCard{
			ID:       cat.ID,
			Name:     cat.Name,
			Rarity:   cat.Rarity,
			ImageURL: cat.ImageURL,
			Attack:   cat.Attack,
		}
		if ownedCard, ok := ownedByName[cat.Name]; ok {
			entry.Owned = true
			if ownedCard.ImageURL != "" {
				entry.ImageURL = ownedCard.ImageURL
			}
			entry.Attack = ownedCard.Attack
		}
		merged[i] = entry
	}
	sortMerged(merged)
	return merged
}

// sortMerged orders by rarity (ascending display order), then attack
// descending, stable on the incoming order for ties.
func sortMerged(cards []models.MergedCard) {
	sort.SliceStable(cards, func(i, j int) bool {
		ri, rj := games.RarityIndex(cards[i].Rarity), games.RarityIndex(cards[j].Rarity)
		if ri != rj {
			return ri < rj
		}
		return cards[i].Attack > cards[j].Attack
	})
}

// FilterMerged applies the collection-book filters: an exact rarity
// (case-insensitive, empty means all) and an owned-only toggle.
func FilterMerged(cards []models.MergedCard, rarity string, ownedOnly bool) []models.MergedCard {
	out := cards
	if rarity != "" {
		filtered := make([]models.MergedCard, 0, len(out))
		for _, c := range out {
			if strings.EqualFold(c.Rarity, rarity) {
				filtered = append(filtered, c)
			}
		}
		out = filtered
	}
	if ownedOnly {
		filtered := make([]models.MergedCard, 0, len(out))
		for _, c := range out {
			if c.Owned {
				filtered = append(filtered, c)
			}
		}
		out = filtered
	}
	return out
}

// RarityDistribution counts owned cards per lowercase rarity label.
func RarityDistribution(cards []dbmodels.UserCard) map[string]int {
	counts := make(map[string]int)
	for _, card := range cards {
		counts[strings.ToLower(card.Rarity)]++
	}
	return counts
}

// CompletionPercent is the rounded share of merged entries that are owned;
// 0 for an empty view, never above 100.
func CompletionPercent(merged []models.MergedCard) int {
	if len(merged) == 0 {
		return 0
	}
	owned := 0
	for _, c := range merged {
		if c.Owned {
			owned++
		}
	}
	return int(math.Round(float64(owned) / float64(len(merged)) * 100))
}

// XPForLevel is the closed-form XP requirement to finish a level.
func XPForLevel(level int) int {
	return level * level * 100
}

// XPProgress returns the XP needed for the next level and the capped
// progress percentage toward it.
func XPProgress(level *dbmodels.LevelData) (needed int, percent float64) {
	if level == nil {
		return XPForLevel(1), 0
	}
	needed = XPForLevel(level.Level + 1)
	if needed <= 0 {
		return needed, 0
	}
	percent = math.Min(float64(level.XP)/float64(needed)*100, 100)
	return needed, percent
}

// WinRate is the rounded PvP win percentage; 0 with no matches played.
func WinRate(pvp dbmodels.PvpRecord) int {
	total := pvp.Wins + pvp.Losses
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(pvp.Wins) / float64(total) * 100))
}

// TotalPages returns the page count for a filtered set, never below one so
// an empty set still renders a single empty page.
func TotalPages(count, perView int) int {
	if perView <= 0 {
		perView = CardsPerPage
	}
	pages := (count + perView - 1) / perView
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ClampPage pins a client-held page index into [0, totalPages-1] so a
// shrinking filtered set never renders out of range.
func ClampPage(page, totalPages int) int {
	if page < 0 {
		return 0
	}
	if page > totalPages-1 {
		return totalPages - 1
	}
	return page
}

// Paginate slices one page (or spread) out of the filtered set, clamping the
// requested page first. Returns the visible cards, the effective page index
// and the page count.
func Paginate(cards []models.MergedCard, page, perView int) ([]models.MergedCard, int, int) {
	if perView <= 0 {
		perView = CardsPerPage
	}
	totalPages := TotalPages(len(cards), perView)
	safePage := ClampPage(page, totalPages)

	start := safePage * perView
	if start >= len(cards) {
		return []models.MergedCard{}, safePage, totalPages
	}
	end := start + perView
	if end > len(cards) {
		end = len(cards)
	}
	return cards[start:end], safePage, totalPages
}
