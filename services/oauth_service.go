package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lunarealm/luna-backend/config"
	"github.com/lunarealm/luna-backend/models"
)

// DiscordUser is the Discord API /users/@me payload, trimmed to the fields
// the session needs.
type DiscordUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Avatar     string `json:"avatar"`
	Email      string `json:"email"`
}

// OAuthService handles the Discord OAuth2 code flow.
type OAuthService struct {
	config     *config.Config
	httpClient *http.Client
}

func NewOAuthService(cfg *config.Config) *OAuthService {
	return &OAuthService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GenerateAuthURL builds the Discord authorization URL carrying the state.
func (o *OAuthService) GenerateAuthURL(state string) string {
	params := url.Values{}
	params.Set("client_id", o.config.Web.OAuth.ClientID)
	params.Set("redirect_uri", o.config.Web.OAuth.RedirectURL)
	params.Set("response_type", "code")
	params.Set("scope", strings.Join(o.config.Web.OAuth.Scopes, " "))
	params.Set("state", state)

	return "https://discord.com/api/oauth2/authorize?" + params.Encode()
}

// ExchangeCodeForToken exchanges an authorization code for an access token.
func (o *OAuthService) ExchangeCodeForToken(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Set("client_id", o.config.Web.OAuth.ClientID)
	data.Set("client_secret", o.config.Web.OAuth.ClientSecret)
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", o.config.Web.OAuth.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://discord.com/api/oauth2/token",
		strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code for token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("discord API error: %s", string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
		Scope       string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	return tokenResp.AccessToken, nil
}

// GetUserInfo fetches the authenticated user's Discord profile.
func (o *OAuthService) GetUserInfo(ctx context.Context, accessToken string) (*DiscordUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://discord.com/api/users/@me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("discord API error: %s", string(body))
	}

	var user DiscordUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &user, nil
}

// CreateUserSession turns Discord user info into a session payload.
func (o *OAuthService) CreateUserSession(user *DiscordUser) *models.UserSession {
	session := &models.UserSession{
		DiscordID:  user.ID,
		Username:   user.Username,
		GlobalName: user.GlobalName,
		Avatar:     user.Avatar,
		Email:      user.Email,
		IsAdmin:    o.config.Web.IsAdmin(user.ID),
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}

	slog.Info("User session created",
		slog.String("user_id", session.DiscordID),
		slog.String("username", session.Username),
		slog.Bool("is_admin", session.IsAdmin))

	return session
}

// GenerateState generates a random state parameter for the OAuth2 flow.
func (o *OAuthService) GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
