package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	dbmodels "github.com/lunarealm/luna-backend/database/models"
	"github.com/lunarealm/luna-backend/models"
	"github.com/lunarealm/luna-backend/services"
	"github.com/lunarealm/luna-backend/utils"
)

// allOwnedCards flattens the grouped buckets back into one slice.
func allOwnedCards(grouped models.CardsByGame) []dbmodels.UserCard {
	owned := make([]dbmodels.UserCard, 0,
		len(grouped.LunaFantasy)+len(grouped.GrandFantasy)+len(grouped.Bumper))
	owned = append(owned, grouped.LunaFantasy...)
	owned = append(owned, grouped.GrandFantasy...)
	owned = append(owned, grouped.Bumper...)
	return owned
}

// GameData returns the full profile aggregate for the authenticated user.
// Storage failures surface as a generic 500; the client gets no partial
// aggregate.
func GameData(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		data, err := webApp.ProfileService.BuildGameData(c.Context(), session.DiscordID)
		if err != nil {
			slog.Error("Failed to build game data",
				slog.String("type", "error"),
				slog.String("user_id", session.DiscordID),
				slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to load profile data")
		}

		return utils.SendSuccess(c, data, "Game data loaded")
	}
}

// ProfileStats returns the derived header stats (collection completion, XP
// progress, win rate) for the authenticated user.
func ProfileStats(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		data, err := webApp.ProfileService.BuildGameData(c.Context(), session.DiscordID)
		if err != nil {
			slog.Error("Failed to build profile stats",
				slog.String("type", "error"),
				slog.String("user_id", session.DiscordID),
				slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to load profile data")
		}

		owned := allOwnedCards(data.CardsByGame)
		merged := services.MergeWithCatalog(owned, data.CardCatalog)
		xpNeeded, xpPercent := services.XPProgress(data.Level)

		stats := models.ProfileStats{
			CompletionPercent: services.CompletionPercent(merged),
			RarityCounts:      services.RarityDistribution(owned),
			XPNeeded:          xpNeeded,
			XPPercent:         xpPercent,
			WinRatePercent:    services.WinRate(data.Pvp),
		}

		return utils.SendSuccess(c, stats, "Profile stats loaded")
	}
}

// ShareCard renders the shareable profile PNG for the authenticated user.
func ShareCard(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		data, err := webApp.ProfileService.BuildGameData(c.Context(), session.DiscordID)
		if err != nil {
			return utils.SendInternalServerError(c, "Failed to load profile data")
		}

		merged := services.MergeWithCatalog(allOwnedCards(data.CardsByGame), data.CardCatalog)

		level := 0
		if data.Level != nil {
			level = data.Level.Level
		}

		image, err := webApp.ShareImageService.GenerateShareCard(c.Context(), services.ShareCardData{
			Username:          session.Username,
			CardCount:         data.TotalCards,
			CompletionPercent: services.CompletionPercent(merged),
			Level:             level,
			WinRatePercent:    services.WinRate(data.Pvp),
			Lunari:            data.Lunari,
		})
		if err != nil {
			slog.Error("Failed to render share card",
				slog.String("type", "error"),
				slog.String("user_id", session.DiscordID),
				slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to render share card")
		}

		c.Set("Content-Type", "image/png")
		return c.Send(image)
	}
}
