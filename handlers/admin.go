package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/lunarealm/luna-backend/utils"
)

// AdminCatalogStats reports the stored catalog size per game bucket.
func AdminCatalogStats(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		counts, err := webApp.CatalogService.BucketCounts(c.Context())
		if err != nil {
			slog.Error("Failed to count catalog buckets",
				slog.String("type", "error"),
				slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to load catalog stats")
		}

		stats := make(fiber.Map, len(counts))
		for bucket, n := range counts {
			stats[bucket.String()] = n
		}
		return utils.SendSuccess(c, stats, "Catalog stats loaded")
	}
}

// AdminCatalogInvalidate drops the catalog cache so the server picks up a
// fresh backfill without a restart.
func AdminCatalogInvalidate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		webApp.CatalogService.Invalidate()

		session, _ := utils.ExtractUserSession(c)
		if session != nil {
			slog.Info("Catalog cache invalidated",
				slog.String("user_id", session.DiscordID),
				slog.String("username", session.Username))
		}
		return utils.SendSuccess(c, nil, "Catalog cache invalidated")
	}
}
