package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/daurulang/daurulang/pkg/db/pagination"
)

var (
	ErrInvalidUser        = errors.New("invalid_user")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrRewardUnavailable  = errors.New("reward_unavailable")
	ErrInsufficientCredit = errors.New("insufficient_credit")
	ErrClaimNotPending    = errors.New("claim_not_pending")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidPageToken   = errors.New("invalid_page_token")
)

// Service exposes the reward catalog and the redemption lifecycle.
type Service interface {
	// ListRewards returns available catalog entries ordered by required
	// credit ascending.
	ListRewards(ctx context.Context) ([]RewardResponse, error)

	// Redeem files a pending claim after checking, in order, that the
	// reward exists and is available, then that the user's live credit
	// balance covers the required credit.
	Redeem(ctx context.Context, req RedeemRequest) (*ClaimResponse, error)

	// History returns the user's claims, newest first.
	History(ctx context.Context, userID string) ([]ClaimResponse, error)

	// ListClaims returns a page of claims in the given status for
	// administrative review, oldest first. An empty status defaults to
	// pending.
	ListClaims(ctx context.Context, req ListClaimsRequest) (*ClaimListResponse, error)

	// Approve transitions a pending claim to approved and issues a
	// voucher code with an expiry.
	Approve(ctx context.Context, claimID string) (*ClaimResponse, error)

	// Reject transitions a pending claim to rejected.
	Reject(ctx context.Context, claimID string) (*ClaimResponse, error)
}

type RedeemRequest struct {
	UserID   string `json:"-"`
	RewardID string `json:"-"`
}

type ListClaimsRequest struct {
	Status    string
	PageToken string
	PageSize  int
}

type ClaimListResponse struct {
	Claims   []ClaimResponse      `json:"claims"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

type RewardResponse struct {
	ID             snowflake.ID `json:"id"`
	Slug           string       `json:"slug"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	RequiredCredit float64      `json:"required_credit"`
}

type ClaimResponse struct {
	ID             snowflake.ID `json:"id"`
	UserID         snowflake.ID `json:"user_id"`
	RewardID       snowflake.ID `json:"reward_id"`
	RewardName     string       `json:"reward_name,omitempty"`
	RewardSlug     string       `json:"reward_slug,omitempty"`
	RequiredCredit float64      `json:"required_credit,omitempty"`
	Status         ClaimStatus  `json:"status"`
	RequestedAt    time.Time    `json:"requested_at"`
	DecidedAt      *time.Time   `json:"decided_at,omitempty"`
	VoucherCode    *string      `json:"voucher_code,omitempty"`
	ExpiresAt      *time.Time   `json:"expires_at,omitempty"`
}

// ParseID parses a snowflake identifier from its string form.
func ParseID(s string) (snowflake.ID, error) {
	if s == "" {
		return 0, ErrInvalidID
	}
	id, err := snowflake.ParseString(s)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}
