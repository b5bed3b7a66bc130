package session

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/daurulang/daurulang/internal/clock"
	"github.com/daurulang/daurulang/pkg/db"
)

func newTestStore(t *testing.T) (*Store, *clock.FakeClock, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	fakeClock := clock.NewFakeClock(time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC))

	store := NewStore(StoreParams{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fakeClock,
	})
	return store, fakeClock, node
}

func TestResolveIssuedToken(t *testing.T) {
	store, _, node := newTestStore(t)
	userID := node.Generate()

	token, err := store.Issue(context.Background(), userID, "admin", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	identity, err := store.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.UserID != userID {
		t.Fatalf("user = %s, want %s", identity.UserID, userID)
	}
	if !identity.IsAdmin() {
		t.Fatalf("role = %s, want admin", identity.Role)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	store, _, _ := newTestStore(t)

	if _, err := store.Resolve(context.Background(), "nonsense"); err != ErrInvalidSession {
		t.Fatalf("err = %v, want %v", err, ErrInvalidSession)
	}
	if _, err := store.Resolve(context.Background(), ""); err != ErrInvalidSession {
		t.Fatalf("empty token err = %v, want %v", err, ErrInvalidSession)
	}
}

func TestResolveExpiredToken(t *testing.T) {
	store, fakeClock, node := newTestStore(t)

	token, err := store.Issue(context.Background(), node.Generate(), "user", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	fakeClock.Advance(2 * time.Hour)
	if _, err := store.Resolve(context.Background(), token); err != ErrSessionExpired {
		t.Fatalf("err = %v, want %v", err, ErrSessionExpired)
	}
}

func TestResolveRevokedToken(t *testing.T) {
	store, _, node := newTestStore(t)

	token, err := store.Issue(context.Background(), node.Generate(), "user", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := store.Revoke(context.Background(), token); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if _, err := store.Resolve(context.Background(), token); err != ErrSessionRevoked {
		t.Fatalf("err = %v, want %v", err, ErrSessionRevoked)
	}
}
