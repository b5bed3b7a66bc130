package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/daurulang/daurulang/pkg/db/pagination"
)

// Repository provides persistence for the reward catalog and redemption
// claims.
type Repository interface {
	// ListAvailable returns active catalog entries ordered by required
	// credit ascending, cheapest first.
	ListAvailable(ctx context.Context, db *gorm.DB) ([]Reward, error)

	// FindReward returns the reward or nil when no row matches.
	FindReward(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Reward, error)

	// CreateClaim inserts a new redemption claim.
	CreateClaim(ctx context.Context, db *gorm.DB, claim *RedemptionClaim) error

	// FindClaim returns the claim or nil when no row matches.
	FindClaim(ctx context.Context, db *gorm.DB, id snowflake.ID) (*RedemptionClaim, error)

	// UpdateClaim persists a status transition on an existing claim.
	UpdateClaim(ctx context.Context, db *gorm.DB, claim *RedemptionClaim) error

	// ListClaimsByUser returns the user's claims joined with reward
	// display fields, newest first.
	ListClaimsByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]ClaimWithReward, error)

	// ListClaimsByStatus returns up to limit claims in the given status
	// joined with reward display fields, oldest first so admins review in
	// arrival order. A non-nil cursor resumes after that position.
	ListClaimsByStatus(ctx context.Context, db *gorm.DB, status ClaimStatus, cursor *pagination.Cursor, limit int) ([]ClaimWithReward, error)
}
