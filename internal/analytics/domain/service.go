package domain

import (
	"context"
	"errors"
)

// Service composes stored report snapshots into dashboard views. Pure read;
// safe to call repeatedly and concurrently.
type Service interface {
	Dashboard(ctx context.Context, userID string) (*DashboardResponse, error)
	AdminStats(ctx context.Context) (*AdminStatsResponse, error)
}

// PeriodSummary is one calendar month of a user's recycling activity. Every
// field defaults to zero when no snapshot was generated for the period.
type PeriodSummary struct {
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	TotalPickups   int     `json:"total_pickups"`
	TotalWeightKg  float64 `json:"total_weight_kg"`
	RecycledKg     float64 `json:"recycled_kg"`
	RecyclingRate  float64 `json:"recycling_rate"`
	PlasticCredits float64 `json:"plastic_credits"`
	CostSavings    float64 `json:"cost_savings"`
}

// Growth holds month-over-month percentage changes. When the previous value
// is zero the growth is 100 for any increase and 0 otherwise.
type Growth struct {
	TotalPickups   float64 `json:"total_pickups"`
	TotalWeightKg  float64 `json:"total_weight_kg"`
	RecycledKg     float64 `json:"recycled_kg"`
	PlasticCredits float64 `json:"plastic_credits"`
}

// YearToDate sums every monthly snapshot of the current calendar year.
type YearToDate struct {
	Year           int     `json:"year"`
	TotalPickups   int     `json:"total_pickups"`
	TotalWeightKg  float64 `json:"total_weight_kg"`
	RecycledKg     float64 `json:"recycled_kg"`
	PlasticCredits float64 `json:"plastic_credits"`
	CostSavings    float64 `json:"cost_savings"`
}

type DashboardResponse struct {
	CurrentMonth  PeriodSummary `json:"current_month"`
	PreviousMonth PeriodSummary `json:"previous_month"`
	YearToDate    YearToDate    `json:"year_to_date"`
	Growth        Growth        `json:"growth"`
}

// AdminStatsResponse is the platform-wide aggregate for the admin dashboard.
type AdminStatsResponse struct {
	ActiveReporters     int64   `json:"active_reporters"`
	CompletedPickups    int64   `json:"completed_pickups"`
	CompletedWeightKg   float64 `json:"completed_weight_kg"`
	PendingRedemptions  int64   `json:"pending_redemptions"`
	ApprovedRedemptions int64   `json:"approved_redemptions"`
}

var ErrInvalidUser = errors.New("invalid_user")
