package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/daurulang/daurulang/internal/clock"
)

const sessionTokenBytes = 32

type StoreParams struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

// Store resolves raw session tokens to identities.
type Store struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewStore(p StoreParams) *Store {
	return &Store{
		db:    p.DB,
		log:   p.Log.Named("session.store"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

// Resolve looks up the session for a raw token and returns the caller's
// identity. Expired and revoked sessions are rejected.
func (s *Store) Resolve(ctx context.Context, rawToken string) (*Identity, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, ErrInvalidSession
	}

	var sess Session
	err := s.db.WithContext(ctx).
		Where("session_token_hash = ?", hashToken(token)).
		First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	now := s.clock.Now()
	if sess.RevokedAt != nil {
		return nil, ErrSessionRevoked
	}
	if now.After(sess.ExpiresAt) {
		return nil, ErrSessionExpired
	}

	// Touching last_seen_at is best effort; a failed touch never blocks
	// the request.
	if err := s.db.WithContext(ctx).
		Model(&Session{}).
		Where("id = ?", sess.ID).
		Update("last_seen_at", now).Error; err != nil {
		s.log.Warn("failed to touch session", zap.Error(err))
	}

	return &Identity{UserID: sess.UserID, Role: sess.Role}, nil
}

// Issue mints a session for a user and returns the raw token. Used by the
// platform's provisioning hooks and by tests.
func (s *Store) Issue(ctx context.Context, userID snowflake.ID, role string, ttl time.Duration) (string, error) {
	rawToken, err := newSessionToken()
	if err != nil {
		return "", err
	}
	if role == "" {
		role = "user"
	}

	now := s.clock.Now()
	sess := &Session{
		ID:               s.genID.Generate(),
		UserID:           userID,
		Role:             role,
		SessionTokenHash: hashToken(rawToken),
		ExpiresAt:        now.Add(ttl),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return "", err
	}
	return rawToken, nil
}

// Revoke marks the session for a raw token as revoked.
func (s *Store) Revoke(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return ErrInvalidSession
	}
	return s.db.WithContext(ctx).
		Model(&Session{}).
		Where("session_token_hash = ? AND revoked_at IS NULL", hashToken(token)).
		Update("revoked_at", s.clock.Now()).Error
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
