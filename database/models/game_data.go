package models

// The types below mirror the JSON blobs the Discord bot serializes into the
// per-user data field of its collections. This layer only reads them.

// UserCard is one card instance credited to a user. Owned cards are matched
// against the catalog by name only; there is no shared primary key.
type UserCard struct {
	Name         string  `json:"name"`
	Attack       int     `json:"attack"`
	ImageURL     string  `json:"imageUrl"`
	Rarity       string  `json:"rarity"`
	Source       string  `json:"source"`
	ObtainedDate string  `json:"obtainedDate"`
	ID           string  `json:"id"`
	Weight       float64 `json:"weight,omitempty"`
	IsDuplicate  bool    `json:"isDuplicate,omitempty"`
}

type UserStone struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"imageUrl"`
	AcquiredAt string `json:"acquiredAt"`
}

type LevelData struct {
	XP        int `json:"xp"`
	Level     int `json:"level"`
	Messages  int `json:"messages"`
	VoiceTime int `json:"voiceTime"`
}

// GameWins tracks per-minigame win counters; absent games stay zero.
type GameWins struct {
	MagicCards   int `json:"magic_cards,omitempty"`
	LunaPairs    int `json:"luna_pairs,omitempty"`
	GrandFantasy int `json:"grand_fantasy,omitempty"`
	MagicBot     int `json:"magic_bot,omitempty"`
}

// PvpRecord is the aggregate of a user's pairwise nemesis tallies.
type PvpRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

type InventoryItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        int    `json:"price"`
	RoleID       string `json:"roleId"`
	Description  string `json:"description"`
	ShopID       string `json:"shopId"`
	PurchaseDate string `json:"purchaseDate"`
}

// ChatActivity holds today's rolling counters from the shared chat_stats
// documents.
type ChatActivity struct {
	MessagesToday     int `json:"messagesToday"`
	VoiceMinutesToday int `json:"voiceMinutesToday"`
}
