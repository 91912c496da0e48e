package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

// LoadConfig reads the TOML configuration file at path.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log      LogConfig      `toml:"log"`
	Web      WebConfig      `toml:"web"`
	Mongo    MongoConfig    `toml:"mongo"`
	Postgres PostgresConfig `toml:"postgres"`
	Session  SessionConfig  `toml:"session"`
	Spaces   SpacesConfig   `toml:"spaces"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type WebConfig struct {
	Host        string         `toml:"host"`
	Port        int            `toml:"port"`
	CORSOrigins []string       `toml:"cors_origins"`
	AdminUsers  []snowflake.ID `toml:"admin_users"`
	OAuth       OAuthConfig    `toml:"oauth"`
}

type OAuthConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	RedirectURL  string   `toml:"redirect_url"`
	Scopes       []string `toml:"scopes"`
}

// MongoConfig points at the Discord bot's data store. The web layer reads
// every collection except card_catalog, which it also backfills offline.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// PostgresConfig is only used by the archival export tool.
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

type SessionConfig struct {
	Secret string `toml:"secret"`
	// Environment toggles Secure cookies; "production" or "development".
	Environment string `toml:"environment"`
}

type SpacesConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	CardRoot string `toml:"cardroot"`
	// CDNDomain is the public asset domain card image URLs are rewritten to.
	CDNDomain string `toml:"cdn_domain"`
}

// IsAdmin reports whether a Discord user ID is in the admin list.
func (c WebConfig) IsAdmin(discordID string) bool {
	for _, id := range c.AdminUsers {
		if id.String() == discordID {
			return true
		}
	}
	return false
}
