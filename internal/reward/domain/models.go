package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Reward is a catalog entry a user can exchange plastic credits for.
// Administrators manage the catalog; this engine only reads it.
type Reward struct {
	ID             snowflake.ID `json:"id" gorm:"primaryKey"`
	Slug           string       `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Name           string       `json:"name" gorm:"type:text;not null"`
	Description    string       `json:"description" gorm:"type:text"`
	RequiredCredit float64      `json:"required_credit" gorm:"not null"`
	Available      bool         `json:"available" gorm:"not null;default:true"`
	CreatedAt      time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Reward) TableName() string { return "rewards" }

// ClaimStatus enumerates the redemption lifecycle. This engine only creates
// pending claims; approval and rejection are administrative transitions.
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimPending, ClaimApproved, ClaimRejected:
		return true
	}
	return false
}

// RedemptionClaim is a user's request to exchange credit for a reward.
// Credit is never escrowed at claim time; the balance is recomputed live
// from pickups on every check.
type RedemptionClaim struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID      snowflake.ID `json:"user_id" gorm:"column:user_id;not null;index"`
	RewardID    snowflake.ID `json:"reward_id" gorm:"column:reward_id;not null;index"`
	Status      ClaimStatus  `json:"status" gorm:"type:text;not null;index"`
	RequestedAt time.Time    `json:"requested_at" gorm:"not null"`
	DecidedAt   *time.Time   `json:"decided_at"`
	VoucherCode *string      `json:"voucher_code" gorm:"column:voucher_code"`
	ExpiresAt   *time.Time   `json:"expires_at"`
}

// TableName sets the database table name.
func (RedemptionClaim) TableName() string { return "redemption_claims" }

// ClaimWithReward joins a claim with its reward's display fields for
// history listings.
type ClaimWithReward struct {
	RedemptionClaim
	RewardName string  `gorm:"column:reward_name"`
	RewardSlug string  `gorm:"column:reward_slug"`
	Required   float64 `gorm:"column:required_credit"`
}
