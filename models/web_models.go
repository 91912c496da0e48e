package models

import (
	"time"

	dbmodels "github.com/lunarealm/luna-backend/database/models"
	"github.com/lunarealm/luna-backend/games"
)

// UserSession is the signed-cookie session payload for an authenticated
// Discord user.
type UserSession struct {
	DiscordID  string    `json:"discord_id"`
	Username   string    `json:"username"`
	GlobalName string    `json:"global_name"`
	Avatar     string    `json:"avatar"`
	Email      string    `json:"email"`
	IsAdmin    bool      `json:"is_admin"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// CardsByGame partitions a user's owned cards into the three game buckets.
// JSON keys match the bucket wire values consumed by the frontend.
type CardsByGame struct {
	LunaFantasy  []dbmodels.UserCard `json:"lunaFantasy"`
	GrandFantasy []dbmodels.UserCard `json:"grandFantasy"`
	Bumper       []dbmodels.UserCard `json:"bumper"`
}

// Bucket returns the slice for one game bucket.
func (c *CardsByGame) Bucket(game games.Bucket) []dbmodels.UserCard {
	switch game {
	case games.BucketLunaFantasy:
		return c.LunaFantasy
	case games.BucketBumper:
		return c.Bumper
	default:
		return c.GrandFantasy
	}
}

// CatalogCardDTO is the flattened catalog entry the API exposes: the
// bilingual name is collapsed to its English form.
type CatalogCardDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Rarity   string `json:"rarity"`
	ImageURL string `json:"imageUrl"`
	Attack   int    `json:"attack,omitempty"`
	Game     string `json:"game,omitempty"`
}

// NewCatalogCardDTO flattens a persisted catalog card.
func NewCatalogCardDTO(card dbmodels.CatalogCard) CatalogCardDTO {
	return CatalogCardDTO{
		ID:       card.ID,
		Name:     card.DisplayName(),
		Rarity:   card.Rarity,
		ImageURL: card.ImageURL,
		Attack:   card.Attack,
		Game:     card.Game,
	}
}

// MergedCard is one entry of the per-request merged view: a catalog card
// annotated with whether the user owns it. Owned entries surface the owned
// copy's image and attack.
type MergedCard struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Rarity   string `json:"rarity"`
	ImageURL string `json:"imageUrl"`
	Attack   int    `json:"attack,omitempty"`
	Owned    bool   `json:"owned"`
}

// GameDataResponse is the aggregate profile payload.
type GameDataResponse struct {
	CardsByGame  CardsByGame              `json:"cardsByGame"`
	TotalCards   int                      `json:"totalCards"`
	Stones       []dbmodels.UserStone     `json:"stones"`
	Lunari       int                      `json:"lunari"`
	Level        *dbmodels.LevelData      `json:"level"`
	GameWins     *dbmodels.GameWins       `json:"gameWins"`
	Pvp          dbmodels.PvpRecord       `json:"pvp"`
	Inventory    []dbmodels.InventoryItem `json:"inventory"`
	Tickets      int                      `json:"tickets"`
	ChatActivity dbmodels.ChatActivity    `json:"chatActivity"`
	CardCatalog  []CatalogCardDTO         `json:"cardCatalog"`
}

// ProfileStats are the derived aggregates for the profile header.
type ProfileStats struct {
	CompletionPercent int            `json:"completionPercent"`
	RarityCounts      map[string]int `json:"rarityCounts"`
	XPNeeded          int            `json:"xpNeeded"`
	XPPercent         float64        `json:"xpPercent"`
	WinRatePercent    int            `json:"winRatePercent"`
}
