package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository is the read-only view over the pickup ledger. The driver
// workflow writes it; this engine never mutates a pickup.
type Repository interface {
	// ListCompletedInRange returns COMPLETED pickups for the user with
	// pickup_at in [from, to).
	ListCompletedInRange(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) ([]PickupRecord, error)
	// ListCompletedByUser returns every COMPLETED pickup for the user.
	ListCompletedByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]PickupRecord, error)
}
