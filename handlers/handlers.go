package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lunarealm/luna-backend/config"
	"github.com/lunarealm/luna-backend/database"
	"github.com/lunarealm/luna-backend/models"
	"github.com/lunarealm/luna-backend/services"
	"github.com/lunarealm/luna-backend/utils"
)

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config            *config.Config
	DB                *database.DB
	ProfileService    *services.ProfileService
	CatalogService    *services.CatalogService
	ShareImageService *services.ShareImageService
	OAuthService      *services.OAuthService
	SessionService    *services.SessionService
	Version           string
	Commit            string
}

// GetSession gets the current user session
func (w *WebApp) GetSession(c *fiber.Ctx) (*models.UserSession, error) {
	return w.SessionService.GetSession(c)
}

// FrontendURL is the base URL OAuth redirects land on. The first CORS origin
// doubles as the frontend address.
func (w *WebApp) FrontendURL() string {
	if len(w.Config.Web.CORSOrigins) > 0 {
		return w.Config.Web.CORSOrigins[0]
	}
	return "http://localhost:3000"
}

func HealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, fiber.Map{
			"status":  "healthy",
			"version": webApp.Version,
			"commit":  webApp.Commit,
		}, "Health check successful")
	}
}
