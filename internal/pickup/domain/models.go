package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// WasteType enumerates the waste categories a pickup can carry.
type WasteType string

const (
	WastePlastic WasteType = "plastic"
	WasteOrganic WasteType = "organic"
	WastePaper   WasteType = "paper"
	WasteMetal   WasteType = "metal"
	WasteGlass   WasteType = "glass"
	WasteMixed   WasteType = "mixed"
)

func (w WasteType) Valid() bool {
	switch w {
	case WastePlastic, WasteOrganic, WastePaper, WasteMetal, WasteGlass, WasteMixed:
		return true
	}
	return false
}

// AllWasteTypes lists every waste category in catalog order.
func AllWasteTypes() []WasteType {
	return []WasteType{WastePlastic, WasteOrganic, WastePaper, WasteMetal, WasteGlass, WasteMixed}
}

func ParseWasteType(value string) (WasteType, bool) {
	w := WasteType(strings.ToLower(strings.TrimSpace(value)))
	return w, w.Valid()
}

// Status enumerates the pickup lifecycle. Only StatusCompleted pickups feed
// analytics and credit computation.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusScheduled  Status = "scheduled"
	StatusOnTheWay   Status = "on_the_way"
	StatusArrived    Status = "arrived"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusMissed     Status = "missed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusScheduled, StatusOnTheWay,
		StatusArrived, StatusInProgress, StatusCompleted, StatusMissed, StatusCancelled:
		return true
	}
	return false
}

// PickupRecord is a waste collection event. The pickup workflow owns these
// rows; this engine only ever reads them.
type PickupRecord struct {
	ID                snowflake.ID                    `json:"id" gorm:"primaryKey"`
	UserID            snowflake.ID                    `json:"user_id" gorm:"column:user_id;not null;index:ix_pickups_user_status,priority:1"`
	Status            Status                          `json:"status" gorm:"type:text;not null;index:ix_pickups_user_status,priority:2"`
	PickupAt          time.Time                       `json:"pickup_at" gorm:"column:pickup_at;not null;index"`
	WasteTypes        datatypes.JSONSlice[WasteType]  `json:"waste_types" gorm:"column:waste_types;not null"`
	EstimatedWeightKg *float64                        `json:"estimated_weight_kg" gorm:"column:estimated_weight_kg"`
	ActualWeightKg    *float64                        `json:"actual_weight_kg" gorm:"column:actual_weight_kg"`
	CreatedAt         time.Time                       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time                       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PickupRecord) TableName() string { return "pickup_records" }

// Weight returns the customer estimate, treating a missing value as zero.
// All accounting runs on the estimate; the measured actual weight is kept
// for the pickup workflow but never feeds aggregation.
func (p *PickupRecord) Weight() float64 {
	if p.EstimatedWeightKg == nil {
		return 0
	}
	return *p.EstimatedWeightKg
}

// HasWasteType reports whether the pickup carries the given tag.
func (p *PickupRecord) HasWasteType(w WasteType) bool {
	for _, tag := range p.WasteTypes {
		if tag == w {
			return true
		}
	}
	return false
}
