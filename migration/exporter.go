package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/lunarealm/luna-backend/database"
	dbmodels "github.com/lunarealm/luna-backend/database/models"
)

// ExportStats tracks export progress per table.
type ExportStats struct {
	Tables    map[string]*TableStats `json:"tables"`
	StartTime time.Time              `json:"start_time"`
	EndTime   time.Time              `json:"end_time"`
}

// TableStats tracks stats for one archive table.
type TableStats struct {
	TableName string `json:"table_name"`
	Processed int    `json:"processed"`
	Exported  int    `json:"exported"`
	Skipped   int    `json:"skipped"`
}

// Exporter copies the bot's Mongo blob store into relational archive tables.
// The export is read-only on the Mongo side and upsert-free on the Postgres
// side: archive tables are expected to be empty or truncated beforehand.
type Exporter struct {
	mongo     *database.DB
	pg        *PostgresDB
	batchSize int
	stats     ExportStats
}

func NewExporter(mongo *database.DB, pg *PostgresDB) *Exporter {
	return &Exporter{
		mongo:     mongo,
		pg:        pg,
		batchSize: 1000,
		stats: ExportStats{
			Tables: make(map[string]*TableStats),
		},
	}
}

// SetBatchSize overrides the default insert batch size.
func (e *Exporter) SetBatchSize(size int) {
	if size > 0 {
		e.batchSize = size
	}
}

// Stats returns the collected export statistics.
func (e *Exporter) Stats() ExportStats {
	return e.stats
}

// ExportAll runs every export step in order.
func (e *Exporter) ExportAll(ctx context.Context) error {
	e.stats.StartTime = time.Now()

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"catalog_cards", e.ExportCatalog},
		{"user_cards", e.ExportUserCards},
		{"balances", e.ExportBalances},
		{"levels", e.ExportLevels},
		{"pvp_tallies", e.ExportPvpTallies},
	}

	for _, step := range steps {
		slog.Info("Starting export step", slog.String("step", step.name))
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("export failed at step %s: %w", step.name, err)
		}
		slog.Info("Completed export step", slog.String("step", step.name))
	}

	e.stats.EndTime = time.Now()
	e.logFinalStats()
	return nil
}

type exportBlobDoc struct {
	ID   string `bson:"_id"`
	Data string `bson:"data"`
}

func (e *Exporter) tableStats(name string) *TableStats {
	ts, ok := e.stats.Tables[name]
	if !ok {
		ts = &TableStats{TableName: name}
		e.stats.Tables[name] = ts
	}
	return ts
}

// ExportCatalog copies the card catalog.
func (e *Exporter) ExportCatalog(ctx context.Context) error {
	ts := e.tableStats("archived_catalog_cards")
	now := time.Now()

	cur, err := e.mongo.Collection(database.CollCardCatalog).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to query card catalog: %w", err)
	}
	defer cur.Close(ctx)

	var batch []*ArchivedCatalogCard
	for cur.Next(ctx) {
		var card dbmodels.CatalogCard
		ts.Processed++
		if err := cur.Decode(&card); err != nil {
			ts.Skipped++
			continue
		}
		batch = append(batch, &ArchivedCatalogCard{
			ID:         card.ID,
			NameEn:     card.Name.En,
			NameAr:     card.Name.Ar,
			Rarity:     card.Rarity,
			Game:       card.Game,
			ImageURL:   card.ImageURL,
			Attack:     card.Attack,
			ExportedAt: now,
		})
		if len(batch) >= e.batchSize {
			if err := e.insertCatalogBatch(ctx, ts, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return e.insertCatalogBatch(ctx, ts, batch)
	}
	return nil
}

func (e *Exporter) insertCatalogBatch(ctx context.Context, ts *TableStats, batch []*ArchivedCatalogCard) error {
	_, err := e.pg.BunDB().NewInsert().
		Model(&batch).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("catalog batch insert failed: %w", err)
	}
	ts.Exported += len(batch)
	return nil
}

// ExportUserCards unpacks every user's owned-cards blob into one row per
// copy. Malformed blobs are skipped, matching the web layer's tolerance.
func (e *Exporter) ExportUserCards(ctx context.Context) error {
	ts := e.tableStats("archived_user_cards")
	now := time.Now()

	cur, err := e.mongo.Collection(database.CollCards).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to query user cards: %w", err)
	}
	defer cur.Close(ctx)

	var batch []*ArchivedUserCard
	for cur.Next(ctx) {
		var doc exportBlobDoc
		ts.Processed++
		if err := cur.Decode(&doc); err != nil {
			ts.Skipped++
			continue
		}

		var cards []dbmodels.UserCard
		if err := json.Unmarshal([]byte(doc.Data), &cards); err != nil {
			ts.Skipped++
			continue
		}

		for _, card := range cards {
			batch = append(batch, &ArchivedUserCard{
				UserID:       doc.ID,
				Name:         card.Name,
				Rarity:       card.Rarity,
				Attack:       card.Attack,
				ImageURL:     card.ImageURL,
				Source:       card.Source,
				ObtainedDate: card.ObtainedDate,
				ExportedAt:   now,
			})
		}
		if len(batch) >= e.batchSize {
			if err := e.insertUserCardBatch(ctx, ts, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return e.insertUserCardBatch(ctx, ts, batch)
	}
	return nil
}

func (e *Exporter) insertUserCardBatch(ctx context.Context, ts *TableStats, batch []*ArchivedUserCard) error {
	_, err := e.pg.BunDB().NewInsert().Model(&batch).Exec(ctx)
	if err != nil {
		return fmt.Errorf("user card batch insert failed: %w", err)
	}
	ts.Exported += len(batch)
	return nil
}

// ExportBalances joins the points and tickets collections into one snapshot
// row per user.
func (e *Exporter) ExportBalances(ctx context.Context) error {
	ts := e.tableStats("archived_balances")
	now := time.Now()

	lunari, err := e.readIntCollection(ctx, database.CollPoints)
	if err != nil {
		return err
	}
	tickets, err := e.readIntCollection(ctx, database.CollTickets)
	if err != nil {
		return err
	}

	userIDs := make(map[string]struct{}, len(lunari)+len(tickets))
	for id := range lunari {
		userIDs[id] = struct{}{}
	}
	for id := range tickets {
		userIDs[id] = struct{}{}
	}

	var batch []*ArchivedBalance
	for id := range userIDs {
		ts.Processed++
		batch = append(batch, &ArchivedBalance{
			UserID:     id,
			Lunari:     lunari[id],
			Tickets:    tickets[id],
			ExportedAt: now,
		})
		if len(batch) >= e.batchSize {
			if err := e.insertBalanceBatch(ctx, ts, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		return e.insertBalanceBatch(ctx, ts, batch)
	}
	return nil
}

func (e *Exporter) insertBalanceBatch(ctx context.Context, ts *TableStats, batch []*ArchivedBalance) error {
	_, err := e.pg.BunDB().NewInsert().
		Model(&batch).
		On("CONFLICT (user_id) DO UPDATE").
		Set("lunari = EXCLUDED.lunari").
		Set("tickets = EXCLUDED.tickets").
		Set("exported_at = EXCLUDED.exported_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("balance batch insert failed: %w", err)
	}
	ts.Exported += len(batch)
	return nil
}

// readIntCollection reads a whole stringified-int blob collection into a map.
func (e *Exporter) readIntCollection(ctx context.Context, coll string) (map[string]int, error) {
	cur, err := e.mongo.Collection(coll).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll, err)
	}
	defer cur.Close(ctx)

	out := make(map[string]int)
	for cur.Next(ctx) {
		var doc exportBlobDoc
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(doc.Data))
		if err != nil {
			continue
		}
		out[doc.ID] = n
	}
	return out, cur.Err()
}

// ExportLevels copies every user's XP blob.
func (e *Exporter) ExportLevels(ctx context.Context) error {
	ts := e.tableStats("archived_levels")
	now := time.Now()

	cur, err := e.mongo.Collection(database.CollLevels).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to query levels: %w", err)
	}
	defer cur.Close(ctx)

	var batch []*ArchivedLevel
	for cur.Next(ctx) {
		var doc exportBlobDoc
		ts.Processed++
		if err := cur.Decode(&doc); err != nil {
			ts.Skipped++
			continue
		}

		var level dbmodels.LevelData
		if err := json.Unmarshal([]byte(doc.Data), &level); err != nil {
			ts.Skipped++
			continue
		}

		batch = append(batch, &ArchivedLevel{
			UserID:     doc.ID,
			XP:         level.XP,
			Level:      level.Level,
			Messages:   level.Messages,
			VoiceTime:  level.VoiceTime,
			ExportedAt: now,
		})
		if len(batch) >= e.batchSize {
			if err := e.insertLevelBatch(ctx, ts, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return e.insertLevelBatch(ctx, ts, batch)
	}
	return nil
}

func (e *Exporter) insertLevelBatch(ctx context.Context, ts *TableStats, batch []*ArchivedLevel) error {
	_, err := e.pg.BunDB().NewInsert().
		Model(&batch).
		On("CONFLICT (user_id) DO UPDATE").
		Set("xp = EXCLUDED.xp").
		Set("level = EXCLUDED.level").
		Set("messages = EXCLUDED.messages").
		Set("voice_time = EXCLUDED.voice_time").
		Set("exported_at = EXCLUDED.exported_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("level batch insert failed: %w", err)
	}
	ts.Exported += len(batch)
	return nil
}

// ExportPvpTallies flattens each nemesis pairing document into two
// directional rows. Documents whose key is not "<idA>_<idB>" are skipped.
func (e *Exporter) ExportPvpTallies(ctx context.Context) error {
	ts := e.tableStats("archived_pvp_tallies")
	now := time.Now()

	cur, err := e.mongo.Collection(database.CollNemesis).Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to query nemesis: %w", err)
	}
	defer cur.Close(ctx)

	var batch []*ArchivedPvpTally
	for cur.Next(ctx) {
		var doc exportBlobDoc
		ts.Processed++
		if err := cur.Decode(&doc); err != nil {
			ts.Skipped++
			continue
		}

		parts := strings.Split(doc.ID, "_")
		if len(parts) != 2 {
			ts.Skipped++
			continue
		}

		var tally map[string]float64
		if err := json.Unmarshal([]byte(doc.Data), &tally); err != nil {
			ts.Skipped++
			continue
		}

		batch = append(batch,
			&ArchivedPvpTally{
				UserID:     parts[0],
				OpponentID: parts[1],
				Wins:       int(tally[parts[0]]),
				ExportedAt: now,
			},
			&ArchivedPvpTally{
				UserID:     parts[1],
				OpponentID: parts[0],
				Wins:       int(tally[parts[1]]),
				ExportedAt: now,
			},
		)
		if len(batch) >= e.batchSize {
			if err := e.insertPvpBatch(ctx, ts, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return e.insertPvpBatch(ctx, ts, batch)
	}
	return nil
}

func (e *Exporter) insertPvpBatch(ctx context.Context, ts *TableStats, batch []*ArchivedPvpTally) error {
	_, err := e.pg.BunDB().NewInsert().Model(&batch).Exec(ctx)
	if err != nil {
		return fmt.Errorf("pvp batch insert failed: %w", err)
	}
	ts.Exported += len(batch)
	return nil
}

func (e *Exporter) logFinalStats() {
	for name, ts := range e.stats.Tables {
		slog.Info("Export table summary",
			slog.String("table", name),
			slog.Int("processed", ts.Processed),
			slog.Int("exported", ts.Exported),
			slog.Int("skipped", ts.Skipped))
	}
	slog.Info("Export completed",
		slog.Duration("took", e.stats.EndTime.Sub(e.stats.StartTime)))
}
