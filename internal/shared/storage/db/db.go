package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx as database/sql driver

	"idea-analyzer/internal/shared/telemetry"
)

// ErrNoDatabaseURL is returned when no connection string is configured.
var ErrNoDatabaseURL = errors.New("db: DATABASE_URL is empty")

// Profile names the kind of process that owns the pool.
type Profile string

const (
	ProfileServer  Profile = "server"
	ProfileLambda  Profile = "lambda"
	ProfileMigrate Profile = "migrate"
)

// Pool holds connection pool limits for the run ledger database.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
	PingTimeout time.Duration
}

var profiles = map[Profile]Pool{
	ProfileServer:  {MaxOpen: 10, MaxIdle: 5, MaxLifetime: time.Hour, MaxIdleTime: 2 * time.Minute, PingTimeout: 5 * time.Second},
	ProfileLambda:  {MaxOpen: 2, MaxIdle: 1, MaxLifetime: 15 * time.Minute, MaxIdleTime: 30 * time.Second, PingTimeout: 3 * time.Second},
	ProfileMigrate: {MaxOpen: 1, MaxIdle: 1, MaxLifetime: time.Hour, MaxIdleTime: 2 * time.Minute, PingTimeout: 5 * time.Second},
}

// PoolFor returns the defaults for p with DB_* environment overrides applied.
// Unknown profiles fall back to the server pool.
func PoolFor(p Profile) Pool {
	pool, ok := profiles[p]
	if !ok {
		pool = profiles[ProfileServer]
	}
	envInt("DB_MAX_OPEN_CONNS", &pool.MaxOpen)
	envInt("DB_MAX_IDLE_CONNS", &pool.MaxIdle)
	envDuration("DB_CONN_MAX_LIFETIME", &pool.MaxLifetime)
	envDuration("DB_CONN_MAX_IDLE_TIME", &pool.MaxIdleTime)
	envDuration("DB_PING_TIMEOUT", &pool.PingTimeout)
	return pool
}

// CurrentProfile picks the lambda pool inside AWS Lambda and the server pool elsewhere.
func CurrentProfile() Profile {
	if strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != "" {
		return ProfileLambda
	}
	return ProfileServer
}

var openDB = sql.Open

// Open connects to databaseURL, sizes the pool and pings before returning.
func Open(ctx context.Context, databaseURL string, pool Pool) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, ErrNoDatabaseURL
	}
	conn, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	pool.apply(conn)

	timeout := pool.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	stats := conn.Stats()
	telemetry.Info("db.opened", map[string]any{
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return conn, nil
}

func (p Pool) apply(conn *sql.DB) {
	if p.MaxOpen <= 0 {
		p.MaxOpen = 10
	}
	if p.MaxIdle <= 0 {
		p.MaxIdle = 5
	}
	if p.MaxLifetime <= 0 {
		p.MaxLifetime = time.Hour
	}
	conn.SetMaxOpenConns(p.MaxOpen)
	conn.SetMaxIdleConns(p.MaxIdle)
	conn.SetConnMaxLifetime(p.MaxLifetime)
	if p.MaxIdleTime > 0 {
		conn.SetConnMaxIdleTime(p.MaxIdleTime)
	}
}

// shared is the process-wide handle reused across warm Lambda invocations.
var shared struct {
	mu   sync.Mutex
	conn *sql.DB
}

// Shared returns one *sql.DB per process. A failed open is not cached, so the
// next caller tries again.
func Shared(ctx context.Context, databaseURL string, pool Pool) (*sql.DB, error) {
	shared.mu.Lock()
	defer shared.mu.Unlock()
	if shared.conn != nil {
		return shared.conn, nil
	}
	conn, err := Open(ctx, databaseURL, pool)
	if err != nil {
		telemetry.Warn("db.shared_open_failed", map[string]any{"error": err.Error()})
		return nil, err
	}
	shared.conn = conn
	return conn, nil
}

func envInt(key string, dst *int) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		telemetry.Warn("db.env_invalid", map[string]any{"key": key, "error": err.Error()})
		return
	}
	*dst = v
}

func envDuration(key string, dst *time.Duration) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		telemetry.Warn("db.env_invalid", map[string]any{"key": key, "error": err.Error()})
		return
	}
	*dst = v
}
