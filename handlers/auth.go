package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lunarealm/luna-backend/utils"
)

func DiscordOAuth(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := webApp.OAuthService.GenerateState()
		if err != nil {
			slog.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to initiate authentication")
		}

		if err := webApp.SessionService.SetState(c, state); err != nil {
			slog.Error("Failed to set OAuth state", slog.String("error", err.Error()))
			return utils.SendInternalServerError(c, "Failed to initiate authentication")
		}

		return c.Redirect(webApp.OAuthService.GenerateAuthURL(state))
	}
}

func OAuthCallback(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()
		frontend := webApp.FrontendURL()

		expectedState, err := webApp.SessionService.GetAndClearState(c)
		if err != nil {
			slog.Warn("OAuth callback: invalid or missing state", slog.String("error", err.Error()))
			return c.Redirect(frontend + "/login?error=invalid_state")
		}

		if receivedState := c.Query("state"); receivedState != expectedState {
			slog.Warn("OAuth callback: state mismatch")
			return c.Redirect(frontend + "/login?error=state_mismatch")
		}

		if errorParam := c.Query("error"); errorParam != "" {
			slog.Warn("OAuth callback: Discord returned error",
				slog.String("error", errorParam),
				slog.String("description", c.Query("error_description")))
			return c.Redirect(frontend + "/login?error=oauth_error")
		}

		code := c.Query("code")
		if code == "" {
			slog.Warn("OAuth callback: missing authorization code")
			return c.Redirect(frontend + "/login?error=missing_code")
		}

		accessToken, err := webApp.OAuthService.ExchangeCodeForToken(ctx, code)
		if err != nil {
			slog.Error("OAuth callback: failed to exchange code for token",
				slog.String("error", err.Error()))
			return c.Redirect(frontend + "/login?error=token_exchange_failed")
		}

		user, err := webApp.OAuthService.GetUserInfo(ctx, accessToken)
		if err != nil {
			slog.Error("OAuth callback: failed to get user info",
				slog.String("error", err.Error()))
			return c.Redirect(frontend + "/login?error=user_info_failed")
		}

		userSession := webApp.OAuthService.CreateUserSession(user)

		if err := webApp.SessionService.CreateSession(c, userSession); err != nil {
			slog.Error("OAuth callback: failed to create session cookie",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()))
			return c.Redirect(frontend + "/login?error=session_cookie_failed")
		}

		slog.Info("OAuth callback: user authenticated successfully",
			slog.String("user_id", user.ID),
			slog.String("username", user.Username),
			slog.Bool("is_admin", userSession.IsAdmin))

		return c.Redirect(frontend + "/profile")
	}
}

func Logout(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		webApp.SessionService.DestroySession(c)
		return utils.SendSuccess(c, nil, "Logged out successfully")
	}
}

func ValidateSession(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := webApp.GetSession(c)
		if err != nil {
			return utils.SendUnauthorized(c, "Invalid session")
		}

		if session.ExpiresAt.Before(time.Now()) {
			return utils.SendUnauthorized(c, "Session expired")
		}

		return utils.SendSuccess(c, fiber.Map{
			"user":       session,
			"valid":      true,
			"expires_at": session.ExpiresAt,
			"is_admin":   session.IsAdmin,
		}, "Session valid")
	}
}
