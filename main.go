package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lunarealm/luna-backend/config"
	"github.com/lunarealm/luna-backend/database"
	"github.com/lunarealm/luna-backend/database/repositories"
	"github.com/lunarealm/luna-backend/handlers"
	"github.com/lunarealm/luna-backend/logger"
	"github.com/lunarealm/luna-backend/middleware"
	"github.com/lunarealm/luna-backend/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	customHandler := logger.NewHandler("Luna-Backend")
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Luna Backend API",
		slog.String("version", version),
		slog.String("commit", commit))

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Info("Connecting to mongo...")
	db, err := database.New(ctx, database.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		slog.Error("Failed to connect to mongo", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("Mongo connected successfully")

	catalogRepo := repositories.NewCatalogRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	profileService := services.NewProfileService(profileRepo, catalogRepo)
	catalogService := services.NewCatalogService(catalogRepo)
	shareImageService := services.NewShareImageService()
	oauthService := services.NewOAuthService(cfg)
	sessionService := services.NewSessionService(&cfg.Session)

	app := fiber.New(fiber.Config{
		AppName:      "Luna Backend API",
		ServerHeader: "Luna-Backend",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Web.CORSOrigins, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With,Cookie",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware())

	webApp := &handlers.WebApp{
		Config:            cfg,
		DB:                db,
		ProfileService:    profileService,
		CatalogService:    catalogService,
		ShareImageService: shareImageService,
		OAuthService:      oauthService,
		SessionService:    sessionService,
		Version:           version,
		Commit:            commit,
	}

	setupRoutes(app, webApp)

	address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	slog.Info("Starting backend server", slog.String("address", address))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := app.Listen(address); err != nil {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-c
	slog.Info("Shutting down backend server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	if err := db.Close(shutdownCtx); err != nil {
		slog.Error("Mongo disconnect error", slog.String("error", err.Error()))
	}

	slog.Info("Backend server shutdown complete")
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	app.Get("/health", handlers.HealthCheck(webApp))

	auth := app.Group("/auth")
	auth.Get("/discord", handlers.DiscordOAuth(webApp))
	auth.Get("/callback", handlers.OAuthCallback(webApp))
	auth.Post("/logout", handlers.Logout(webApp))

	app.Get("/api/auth/validate", handlers.ValidateSession(webApp))

	// Public catalog browsing, no session needed.
	app.Get("/api/cards", handlers.CatalogCards(webApp))

	profile := app.Group("/api/profile")
	profile.Use(middleware.AuthRequired(webApp))
	profile.Get("/game-data", handlers.GameData(webApp))
	profile.Get("/stats", handlers.ProfileStats(webApp))
	profile.Get("/share-card", handlers.ShareCard(webApp))

	collection := app.Group("/api/collection")
	collection.Use(middleware.AuthRequired(webApp))
	collection.Get("/", handlers.CollectionBook(webApp))

	admin := app.Group("/api/admin")
	admin.Use(middleware.AuthRequired(webApp))
	admin.Use(middleware.AdminRequired())
	admin.Get("/catalog/stats", handlers.AdminCatalogStats(webApp))
	admin.Post("/catalog/invalidate", handlers.AdminCatalogInvalidate(webApp))

	app.Use(func(c *fiber.Ctx) error {
		slog.Warn("No route matched for request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
		)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"code":    "NOT_FOUND",
				"message": "The requested endpoint does not exist",
			},
		})
	})
}
