package domain

import (
	"context"
	"errors"
)

// Service derives the spendable plastic-credit balance. The balance is
// always recomputed from completed pickups, never cached, so it can never
// drift from the pickup ledger. Stored report snapshots are reporting
// artifacts and play no part here.
type Service interface {
	Balance(ctx context.Context, userID string) (*Response, error)
}

type Response struct {
	Balance float64 `json:"balance"`
}

var ErrInvalidUser = errors.New("invalid_user")
