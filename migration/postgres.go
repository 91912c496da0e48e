package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/lunarealm/luna-backend/config"
)

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

// PostgresDB wraps the archive database: a pgx pool for raw work and a bun
// instance for model-driven inserts.
type PostgresDB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func NewPostgresDB(ctx context.Context, cfg config.PostgresConfig) (*PostgresDB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?connect_timeout=5",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	var pingErr error
	for i := 0; i < defaultMaxRetries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
		pingErr = pool.Ping(pingCtx)
		cancel()
		if pingErr == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres unreachable after %d attempts: %w", defaultMaxRetries, pingErr)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn + "&sslmode=disable")))
	bunDB := bun.NewDB(sqldb, pgdialect.New())

	return &PostgresDB{pool: pool, bunDB: bunDB}, nil
}

func (db *PostgresDB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *PostgresDB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *PostgresDB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// InitializeSchema creates the archive tables and indexes.
func (db *PostgresDB) InitializeSchema(ctx context.Context) error {
	tables := []interface{}{
		(*ArchivedCatalogCard)(nil),
		(*ArchivedUserCard)(nil),
		(*ArchivedBalance)(nil),
		(*ArchivedLevel)(nil),
		(*ArchivedPvpTally)(nil),
	}

	for _, model := range tables {
		_, err := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_archived_user_cards_user_id ON archived_user_cards(user_id);",
		"CREATE INDEX IF NOT EXISTS idx_archived_user_cards_name ON archived_user_cards(name);",
		"CREATE INDEX IF NOT EXISTS idx_archived_catalog_cards_game ON archived_catalog_cards(game);",
		"CREATE INDEX IF NOT EXISTS idx_archived_pvp_tallies_user_id ON archived_pvp_tallies(user_id);",
	}
	for _, idx := range indexes {
		if err := db.execWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (db *PostgresDB) execWithLog(ctx context.Context, query string, args ...interface{}) error {
	start := time.Now()
	_, err := db.pool.Exec(ctx, query, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", query),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return err
	}

	slog.Info("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", query),
		slog.Duration("took", duration),
	)
	return nil
}
