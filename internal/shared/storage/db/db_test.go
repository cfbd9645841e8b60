package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// mockOpen routes Open through a sqlmock connection registered under dsn.
func mockOpen(t *testing.T, dsn string) sqlmock.Sqlmock {
	t.Helper()
	base, mock, err := sqlmock.NewWithDSN(dsn, sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { base.Close() })

	prev := openDB
	openDB = func(_, name string) (*sql.DB, error) {
		return sql.Open("sqlmock", name)
	}
	t.Cleanup(func() { openDB = prev })
	return mock
}

func resetShared(t *testing.T) {
	t.Helper()
	shared.mu.Lock()
	shared.conn = nil
	shared.mu.Unlock()
	t.Cleanup(func() {
		shared.mu.Lock()
		shared.conn = nil
		shared.mu.Unlock()
	})
}

func TestOpenRejectsEmptyURL(t *testing.T) {
	if _, err := Open(context.Background(), "  ", PoolFor(ProfileServer)); !errors.Is(err, ErrNoDatabaseURL) {
		t.Fatalf("expected ErrNoDatabaseURL, got %v", err)
	}
}

func TestOpenAppliesPool(t *testing.T) {
	mock := mockOpen(t, "open-applies-pool")
	mock.ExpectPing()

	conn, err := Open(context.Background(), "open-applies-pool", Pool{MaxOpen: 3, MaxIdle: 1})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()
	if got := conn.Stats().MaxOpenConnections; got != 3 {
		t.Fatalf("MaxOpenConnections = %d, want 3", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestOpenFailsWhenPingFails(t *testing.T) {
	mock := mockOpen(t, "open-ping-fails")
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	if _, err := Open(context.Background(), "open-ping-fails", PoolFor(ProfileMigrate)); err == nil {
		t.Fatalf("expected ping error")
	}
}

func TestPoolForProfiles(t *testing.T) {
	tests := []struct {
		profile Profile
		maxOpen int
	}{
		{ProfileServer, 10},
		{ProfileLambda, 2},
		{ProfileMigrate, 1},
		{Profile("unknown"), 10},
	}
	for _, tt := range tests {
		if got := PoolFor(tt.profile).MaxOpen; got != tt.maxOpen {
			t.Fatalf("%s: MaxOpen = %d, want %d", tt.profile, got, tt.maxOpen)
		}
	}
}

func TestPoolForEnvOverrides(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "not-a-duration")

	pool := PoolFor(ProfileLambda)
	want := Pool{
		MaxOpen:     7,
		MaxIdle:     3,
		MaxLifetime: 20 * time.Minute,
		MaxIdleTime: 45 * time.Second,
		PingTimeout: 3 * time.Second,
	}
	if pool != want {
		t.Fatalf("pool = %+v, want %+v", pool, want)
	}
}

func TestCurrentProfile(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")
	if got := CurrentProfile(); got != ProfileServer {
		t.Fatalf("outside lambda: %s", got)
	}
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "idea-analyzer-api")
	if got := CurrentProfile(); got != ProfileLambda {
		t.Fatalf("inside lambda: %s", got)
	}
}

func TestSharedReusesConnection(t *testing.T) {
	resetShared(t)
	mock := mockOpen(t, "shared-reuse")
	mock.ExpectPing()

	first, err := Shared(context.Background(), "shared-reuse", PoolFor(ProfileLambda))
	if err != nil {
		t.Fatalf("first Shared: %v", err)
	}
	second, err := Shared(context.Background(), "shared-reuse", PoolFor(ProfileLambda))
	if err != nil {
		t.Fatalf("second Shared: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same handle")
	}
}

func TestSharedRetriesAfterFailure(t *testing.T) {
	resetShared(t)
	mock := mockOpen(t, "shared-retry")
	mock.ExpectPing().WillReturnError(errors.New("cold start"))
	mock.ExpectPing()

	if _, err := Shared(context.Background(), "shared-retry", PoolFor(ProfileLambda)); err == nil {
		t.Fatalf("expected first call to fail")
	}
	conn, err := Shared(context.Background(), "shared-retry", PoolFor(ProfileLambda))
	if err != nil {
		t.Fatalf("second Shared: %v", err)
	}
	if conn == nil {
		t.Fatalf("expected a handle after retry")
	}
}
