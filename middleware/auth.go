package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/lunarealm/luna-backend/handlers"
	"github.com/lunarealm/luna-backend/utils"
)

// AuthRequired middleware ensures the user is authenticated. The API is
// consumed by a separate frontend, so unauthenticated requests get a 401
// rather than a redirect.
func AuthRequired(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := webApp.GetSession(c)
		if err != nil {
			slog.Debug("Auth required: no valid session", slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Authentication required")
		}

		if session == nil || session.DiscordID == "" {
			slog.Debug("Auth required: invalid session")
			return utils.SendUnauthorized(c, "Authentication required")
		}

		c.Locals("user", session)
		return c.Next()
	}
}

// AdminRequired middleware ensures the user has admin privileges. Must run
// after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := utils.ExtractUserSession(c)
		if !ok {
			slog.Warn("Admin required: no user in context")
			return utils.SendForbidden(c, "Access denied")
		}

		if !session.IsAdmin {
			slog.Warn("Admin required: user lacks admin privileges",
				slog.String("discord_id", session.DiscordID),
				slog.String("username", session.Username))
			return utils.SendForbidden(c, "Admin access required")
		}

		return c.Next()
	}
}

// OptionalAuth middleware adds user info to context if authenticated, but
// doesn't require it.
func OptionalAuth(webApp *handlers.WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := webApp.GetSession(c)
		if err == nil && session != nil && session.DiscordID != "" {
			c.Locals("user", session)
		}
		return c.Next()
	}
}
