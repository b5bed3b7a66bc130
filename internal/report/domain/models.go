package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	pickupdomain "github.com/daurulang/daurulang/internal/pickup/domain"
	"gorm.io/datatypes"
)

// ReportType enumerates the aggregation windows a snapshot can cover.
type ReportType string

const (
	TypeMonthly   ReportType = "monthly"
	TypeQuarterly ReportType = "quarterly"
	TypeAnnual    ReportType = "annual"
)

func (t ReportType) Valid() bool {
	switch t {
	case TypeMonthly, TypeQuarterly, TypeAnnual:
		return true
	}
	return false
}

func ParseReportType(value string) (ReportType, bool) {
	t := ReportType(strings.ToLower(strings.TrimSpace(value)))
	return t, t.Valid()
}

// Breakdown maps each waste type to its accumulated weight in kilograms.
// Keys are restricted to the waste-type enumeration and values are
// non-negative; NewBreakdown enforces both.
type Breakdown map[pickupdomain.WasteType]float64

func NewBreakdown(weights map[pickupdomain.WasteType]float64) (Breakdown, error) {
	b := make(Breakdown, len(weights))
	for wasteType, weight := range weights {
		if !wasteType.Valid() {
			return nil, fmt.Errorf("unknown waste type %q", wasteType)
		}
		if weight < 0 {
			return nil, fmt.Errorf("negative weight for waste type %q", wasteType)
		}
		b[wasteType] = weight
	}
	return b, nil
}

// Add accumulates weight into the bucket for the given waste type.
func (b Breakdown) Add(wasteType pickupdomain.WasteType, weight float64) {
	b[wasteType] += weight
}

// Weight returns the accumulated weight for the waste type, 0 if absent.
func (b Breakdown) Weight(wasteType pickupdomain.WasteType) float64 {
	return b[wasteType]
}

// ReportSnapshot is a persisted point-in-time aggregate of one user's
// completed pickups for one calendar period. One row per
// (user_id, year, month, type); regeneration overwrites in place.
type ReportSnapshot struct {
	ID             snowflake.ID                  `json:"id" gorm:"primaryKey"`
	UserID         snowflake.ID                  `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:ux_reports_period,priority:1"`
	Year           int                           `json:"year" gorm:"not null;uniqueIndex:ux_reports_period,priority:2"`
	Month          int                           `json:"month" gorm:"not null;uniqueIndex:ux_reports_period,priority:3"`
	Type           ReportType                    `json:"type" gorm:"type:text;not null;uniqueIndex:ux_reports_period,priority:4"`
	TotalPickups   int                           `json:"total_pickups" gorm:"not null"`
	TotalWeightKg  float64                       `json:"total_weight_kg" gorm:"column:total_weight_kg;not null"`
	Breakdown      datatypes.JSONType[Breakdown] `json:"breakdown" gorm:"column:breakdown"`
	RecycledKg     float64                       `json:"recycled_kg" gorm:"column:recycled_kg;not null"`
	RecyclingRate  float64                       `json:"recycling_rate" gorm:"not null"`
	PlasticCredits float64                       `json:"plastic_credits" gorm:"not null"`
	CostSavings    float64                       `json:"cost_savings" gorm:"not null"`
	GeneratedAt    time.Time                     `json:"generated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (ReportSnapshot) TableName() string { return "report_snapshots" }
