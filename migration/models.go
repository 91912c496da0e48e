package migration

import (
	"time"

	"github.com/uptrace/bun"
)

// ArchivedCatalogCard is one row of the exported card catalog.
type ArchivedCatalogCard struct {
	bun.BaseModel `bun:"table:archived_catalog_cards"`

	ID         string    `bun:"id,pk"`
	NameEn     string    `bun:"name_en,notnull"`
	NameAr     string    `bun:"name_ar"`
	Rarity     string    `bun:"rarity"`
	Game       string    `bun:"game"`
	ImageURL   string    `bun:"image_url"`
	Attack     int       `bun:"attack"`
	ExportedAt time.Time `bun:"exported_at,notnull"`
}

// ArchivedUserCard is one owned card copy exported from the bot's store.
type ArchivedUserCard struct {
	bun.BaseModel `bun:"table:archived_user_cards"`

	ID           int64     `bun:"id,pk,autoincrement"`
	UserID       string    `bun:"user_id,notnull"`
	Name         string    `bun:"name,notnull"`
	Rarity       string    `bun:"rarity"`
	Attack       int       `bun:"attack"`
	ImageURL     string    `bun:"image_url"`
	Source       string    `bun:"source"`
	ObtainedDate string    `bun:"obtained_date"`
	ExportedAt   time.Time `bun:"exported_at,notnull"`
}

// ArchivedBalance is a user's currency snapshot.
type ArchivedBalance struct {
	bun.BaseModel `bun:"table:archived_balances"`

	UserID     string    `bun:"user_id,pk"`
	Lunari     int       `bun:"lunari"`
	Tickets    int       `bun:"tickets"`
	ExportedAt time.Time `bun:"exported_at,notnull"`
}

// ArchivedLevel is a user's XP snapshot.
type ArchivedLevel struct {
	bun.BaseModel `bun:"table:archived_levels"`

	UserID     string    `bun:"user_id,pk"`
	XP         int       `bun:"xp"`
	Level      int       `bun:"level"`
	Messages   int       `bun:"messages"`
	VoiceTime  int       `bun:"voice_time"`
	ExportedAt time.Time `bun:"exported_at,notnull"`
}

// ArchivedPvpTally is one direction of a nemesis pairing: how many times
// UserID has beaten OpponentID.
type ArchivedPvpTally struct {
	bun.BaseModel `bun:"table:archived_pvp_tallies"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     string    `bun:"user_id,notnull"`
	OpponentID string    `bun:"opponent_id,notnull"`
	Wins       int       `bun:"wins"`
	ExportedAt time.Time `bun:"exported_at,notnull"`
}
