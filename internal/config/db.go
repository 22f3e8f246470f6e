package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/baechuer/company-registry/internal/domain"
	"github.com/baechuer/company-registry/internal/logger"
)

const dbPingTimeout = 3 * time.Second

var errEmptyDSN = errors.New("config: empty DB_ADDR")

// PoolOptions sizes the database/sql pool.
type PoolOptions struct {
	MaxOpen     int
	MaxIdle     int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

var DefaultPool = PoolOptions{
	MaxOpen:     20,
	MaxIdle:     10,
	MaxIdleTime: 5 * time.Minute,
	MaxLifetime: time.Hour,
}

// NewDB opens a pgx-backed pool with DefaultPool and checks connectivity.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	return OpenDB(context.Background(), dsn, DefaultPool, debug)
}

// OpenDB fails with db_unavailable when the server does not answer a ping within dbPingTimeout.
// With debug set, the connected role, database and server version are logged.
func OpenDB(ctx context.Context, dsn string, pool PoolOptions, debug bool) (*sql.DB, error) {
	if dsn == "" {
		return nil, errEmptyDSN
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	applyPool(db, pool)

	ctx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, domain.ErrDBUnavailable(err)
	}

	if debug {
		logServerIdentity(ctx, db)
	}
	return db, nil
}

func applyPool(db *sql.DB, p PoolOptions) {
	db.SetMaxOpenConns(p.MaxOpen)
	db.SetMaxIdleConns(p.MaxIdle)
	db.SetConnMaxIdleTime(p.MaxIdleTime)
	db.SetConnMaxLifetime(p.MaxLifetime)
}

func logServerIdentity(ctx context.Context, db *sql.DB) {
	var role, name, version string
	err := db.QueryRowContext(ctx,
		"SELECT current_user, current_database(), current_setting('server_version')",
	).Scan(&role, &name, &version)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("db connected; identity query failed")
		return
	}
	logger.Logger.Info().
		Str("role", role).
		Str("database", name).
		Str("server_version", version).
		Msg("db connected")
}
