package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lunarealm/luna-backend/config"
	"github.com/lunarealm/luna-backend/database"
	"github.com/lunarealm/luna-backend/database/models"
)

// ProfileRepository reads the per-user documents the Discord bot maintains.
// Every document is {_id: <key>, data: <string>} where data is a JSON blob or
// a stringified integer; the bot owns all writes. A missing document and a
// malformed blob both read as empty — only transport failures surface.
type ProfileRepository interface {
	GetOwnedCards(ctx context.Context, discordID string) ([]models.UserCard, error)
	GetStones(ctx context.Context, discordID string) ([]models.UserStone, error)
	GetLunari(ctx context.Context, discordID string) (int, error)
	GetLevel(ctx context.Context, discordID string) (*models.LevelData, error)
	GetGameWins(ctx context.Context, discordID string) (*models.GameWins, error)
	GetPvpRecord(ctx context.Context, discordID string) (models.PvpRecord, error)
	GetInventory(ctx context.Context, discordID string) ([]models.InventoryItem, error)
	GetTickets(ctx context.Context, discordID string) (int, error)
	GetChatActivity(ctx context.Context, discordID string, day time.Time) (models.ChatActivity, error)
}

type blobDoc struct {
	ID   string `bson:"_id"`
	Data string `bson:"data"`
}

type profileRepository struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// findBlob fetches one blob document. Missing documents return an empty blob
// and no error.
func (r *profileRepository) findBlob(ctx context.Context, coll, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	var doc blobDoc
	err := r.db.Collection(coll).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s lookup failed: %w", coll, err)
	}
	return doc.Data, nil
}

func (r *profileRepository) GetOwnedCards(ctx context.Context, discordID string) ([]models.UserCard, error) {
	data, err := r.findBlob(ctx, database.CollCards, discordID)
	if err != nil {
		return nil, err
	}
	return decodeOwnedCards(data), nil
}

func (r *profileRepository) GetStones(ctx context.Context, discordID string) ([]models.UserStone, error) {
	data, err := r.findBlob(ctx, database.CollStones, discordID)
	if err != nil {
		return nil, err
	}
	return decodeStones(data), nil
}

func (r *profileRepository) GetLunari(ctx context.Context, discordID string) (int, error) {
	data, err := r.findBlob(ctx, database.CollPoints, discordID)
	if err != nil {
		return 0, err
	}
	return decodeIntBlob(data), nil
}

func (r *profileRepository) GetLevel(ctx context.Context, discordID string) (*models.LevelData, error) {
	data, err := r.findBlob(ctx, database.CollLevels, discordID)
	if err != nil {
		return nil, err
	}
	return decodeLevel(data), nil
}

func (r *profileRepository) GetGameWins(ctx context.Context, discordID string) (*models.GameWins, error) {
	data, err := r.findBlob(ctx, database.CollMagicWins, discordID)
	if err != nil {
		return nil, err
	}
	return decodeGameWins(data), nil
}

// GetPvpRecord sums every nemesis tally involving the user. Documents are
// keyed "<idA>_<idB>" and store {"<idA>": wins, "<idB>": wins}.
func (r *profileRepository) GetPvpRecord(ctx context.Context, discordID string) (models.PvpRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	cur, err := r.db.Collection(database.CollNemesis).Find(ctx, bson.M{
		"_id": bson.M{"$regex": discordID},
	})
	if err != nil {
		return models.PvpRecord{}, fmt.Errorf("nemesis lookup failed: %w", err)
	}
	defer cur.Close(ctx)

	var docs []blobDoc
	if err := cur.All(ctx, &docs); err != nil {
		return models.PvpRecord{}, fmt.Errorf("nemesis decode failed: %w", err)
	}

	return accumulatePvp(docs, discordID), nil
}

func (r *profileRepository) GetInventory(ctx context.Context, discordID string) ([]models.InventoryItem, error) {
	data, err := r.findBlob(ctx, database.CollInventory, discordID)
	if err != nil {
		return nil, err
	}
	return decodeInventory(data), nil
}

func (r *profileRepository) GetTickets(ctx context.Context, discordID string) (int, error) {
	data, err := r.findBlob(ctx, database.CollTickets, discordID)
	if err != nil {
		return 0, err
	}
	return decodeIntBlob(data), nil
}

// GetChatActivity reads today's two shared counter documents
// (universal_chat_<day> and universal_voice_<day>, day in UTC) and extracts
// the user's entries.
func (r *profileRepository) GetChatActivity(ctx context.Context, discordID string, day time.Time) (models.ChatActivity, error) {
	key := UTCDayKey(day)

	msgData, err := r.findBlob(ctx, database.CollChatStats, "universal_chat_"+key)
	if err != nil {
		return models.ChatActivity{}, err
	}
	voiceData, err := r.findBlob(ctx, database.CollChatStats, "universal_voice_"+key)
	if err != nil {
		return models.ChatActivity{}, err
	}

	return models.ChatActivity{
		MessagesToday:     decodeCounter(msgData, discordID),
		VoiceMinutesToday: decodeCounter(voiceData, discordID),
	}, nil
}

// UTCDayKey formats the date key used by the bot's daily counters.
func UTCDayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func decodeOwnedCards(data string) []models.UserCard {
	if data == "" {
		return nil
	}
	var cards []models.UserCard
	if err := json.Unmarshal([]byte(data), &cards); err != nil {
		return nil
	}
	return cards
}

// decodeStones accepts both blob shapes the bot has used over time: a nested
// {"stones": [...]} document and a bare array.
func decodeStones(data string) []models.UserStone {
	if data == "" {
		return nil
	}
	var nested struct {
		Stones []models.UserStone `json:"stones"`
	}
	if err := json.Unmarshal([]byte(data), &nested); err == nil && nested.Stones != nil {
		return nested.Stones
	}
	var bare []models.UserStone
	if err := json.Unmarshal([]byte(data), &bare); err != nil {
		return nil
	}
	return bare
}

func decodeIntBlob(data string) int {
	n, err := strconv.Atoi(strings.TrimSpace(data))
	if err != nil {
		return 0
	}
	return n
}

func decodeLevel(data string) *models.LevelData {
	if data == "" {
		return nil
	}
	var level models.LevelData
	if err := json.Unmarshal([]byte(data), &level); err != nil {
		return nil
	}
	return &level
}

func decodeGameWins(data string) *models.GameWins {
	if data == "" {
		return nil
	}
	var wins models.GameWins
	if err := json.Unmarshal([]byte(data), &wins); err != nil {
		return nil
	}
	return &wins
}

func decodeInventory(data string) []models.InventoryItem {
	if data == "" {
		return nil
	}
	var items []models.InventoryItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil
	}
	return items
}

func decodeCounter(data, discordID string) int {
	if data == "" {
		return 0
	}
	var counters map[string]float64
	if err := json.Unmarshal([]byte(data), &counters); err != nil {
		return 0
	}
	return int(counters[discordID])
}

// accumulatePvp folds the user's nemesis documents into a win/loss record.
// Tallies with unparsable blobs or keys that don't contain the user are
// skipped, matching the read-only tolerance of the rest of the blob decoding.
func accumulatePvp(docs []blobDoc, discordID string) models.PvpRecord {
	var record models.PvpRecord
	for _, doc := range docs {
		var tally map[string]float64
		if err := json.Unmarshal([]byte(doc.Data), &tally); err != nil {
			continue
		}

		parts := strings.Split(doc.ID, "_")
		myIndex := -1
		for i, part := range parts {
			if part == discordID {
				myIndex = i
				break
			}
		}
		if myIndex == -1 || len(parts) != 2 {
			continue
		}
		opponentID := parts[1-myIndex]

		record.Wins += int(tally[discordID])
		record.Losses += int(tally[opponentID])
	}
	return record
}
