package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	GetByID(ctx context.Context, userID, id string) (*Response, error)
}

type GenerateRequest struct {
	UserID string `json:"-"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Type   string `json:"type"`
}

type ListRequest struct {
	UserID string
	Year   int
	Month  int
	Type   string
}

type Response struct {
	ID             string             `json:"id"`
	Year           int                `json:"year"`
	Month          int                `json:"month"`
	Type           ReportType         `json:"type"`
	TotalPickups   int                `json:"total_pickups"`
	TotalWeightKg  float64            `json:"total_weight_kg"`
	Breakdown      map[string]float64 `json:"breakdown"`
	RecycledKg     float64            `json:"recycled_kg"`
	RecyclingRate  float64            `json:"recycling_rate"`
	PlasticCredits float64            `json:"plastic_credits"`
	CostSavings    float64            `json:"cost_savings"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

var (
	ErrInvalidUser   = errors.New("invalid_user")
	ErrInvalidPeriod = errors.New("invalid_period")
	ErrInvalidType   = errors.New("invalid_report_type")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
