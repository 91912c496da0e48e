package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

// Collection names in the bot's data store. Every per-user collection holds
// documents shaped {_id: <discordID>, data: <string blob>}; card_catalog and
// chat_stats are the exceptions (regular documents, shared daily counters).
const (
	CollCards       = "cards"
	CollStones      = "stones"
	CollPoints      = "points"
	CollLevels      = "levels"
	CollMagicWins   = "magic_wins"
	CollNemesis     = "nemesis"
	CollInventory   = "inventory"
	CollTickets     = "tickets"
	CollChatStats   = "chat_stats"
	CollCardCatalog = "card_catalog"
)

type Config struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// DB wraps the mongo client plus the bot database handle.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to the bot's Mongo deployment and verifies reachability with
// a retried ping before returning.
func New(ctx context.Context, cfg Config) (*DB, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(defaultConnTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	var pingErr error
	for i := 0; i < defaultMaxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
		pingErr = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if pingErr == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if pingErr != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo unreachable after %d attempts: %w", defaultMaxRetries, pingErr)
	}

	return &DB{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Collection returns a handle to a named collection.
func (db *DB) Collection(name string) *mongo.Collection {
	return db.db.Collection(name)
}

// Database returns the underlying database handle.
func (db *DB) Database() *mongo.Database {
	return db.db
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}
