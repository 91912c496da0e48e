package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/lunarealm/luna-backend/games"
	"github.com/lunarealm/luna-backend/models"
	"github.com/lunarealm/luna-backend/services"
	"github.com/lunarealm/luna-backend/utils"
)

// CatalogCards serves the public card catalog with optional game, rarity and
// fuzzy name filters, paginated.
func CatalogCards(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var game *games.Bucket
		if raw := c.Query("game"); raw != "" {
			bucket := games.Bucket(raw)
			if !bucket.Valid() {
				return utils.SendBadRequest(c, "Unknown game", map[string]string{"game": raw})
			}
			game = &bucket
		}

		cards, err := webApp.CatalogService.GetCards(c.Context(), game)
		if err != nil {
			slog.Error("Failed to load catalog",
				slog.String("type", "error"),
				slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to load catalog")
		}

		cards = webApp.CatalogService.FilterByRarity(cards, c.Query("rarity"))
		cards = webApp.CatalogService.SearchCards(cards, c.Query("search"))

		page, _ := strconv.Atoi(c.Query("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		if limit < 1 || limit > 200 {
			limit = 50
		}

		total := int64(len(cards))
		start := (page - 1) * limit
		if start > len(cards) {
			start = len(cards)
		}
		end := start + limit
		if end > len(cards) {
			end = len(cards)
		}

		pagination := models.NewPaginationInfo(page, limit, total)
		return utils.SendPaginated(c, cards[start:end], pagination, "Catalog loaded")
	}
}

// CollectionBook serves the merged collection-book view for the
// authenticated user: every catalog card flagged with ownership, filtered,
// sorted and sliced into book pages.
func CollectionBook(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		data, err := webApp.ProfileService.BuildGameData(c.Context(), session.DiscordID)
		if err != nil {
			slog.Error("Failed to build collection book",
				slog.String("type", "error"),
				slog.String("user_id", session.DiscordID),
				slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to load collection")
		}

		merged := services.MergeWithCatalog(allOwnedCards(data.CardsByGame), data.CardCatalog)
		merged = services.FilterMerged(merged, c.Query("rarity"), c.QueryBool("owned"))

		perView := services.CardsPerPage
		if c.Query("view") == "spread" {
			perView = services.CardsPerSpread
		}

		page, _ := strconv.Atoi(c.Query("page", "0"))
		pageCards, safePage, totalPages := services.Paginate(merged, page, perView)

		return utils.SendSuccess(c, fiber.Map{
			"cards":             pageCards,
			"page":              safePage,
			"totalPages":        totalPages,
			"totalCards":        len(merged),
			"completionPercent": services.CompletionPercent(merged),
		}, "Collection loaded")
	}
}
