package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	pickupdomain "github.com/daurulang/daurulang/internal/pickup/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() pickupdomain.Repository {
	return &repo{}
}

func (r *repo) ListCompletedInRange(ctx context.Context, db *gorm.DB, userID snowflake.ID, from, to time.Time) ([]pickupdomain.PickupRecord, error) {
	var records []pickupdomain.PickupRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, status, pickup_at, waste_types, estimated_weight_kg, actual_weight_kg, created_at, updated_at
		 FROM pickup_records
		 WHERE user_id = ? AND status = ? AND pickup_at >= ? AND pickup_at < ?
		 ORDER BY pickup_at ASC`,
		userID,
		pickupdomain.StatusCompleted,
		from,
		to,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) ListCompletedByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]pickupdomain.PickupRecord, error) {
	var records []pickupdomain.PickupRecord
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, status, pickup_at, waste_types, estimated_weight_kg, actual_weight_kg, created_at, updated_at
		 FROM pickup_records
		 WHERE user_id = ? AND status = ?
		 ORDER BY pickup_at ASC`,
		userID,
		pickupdomain.StatusCompleted,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
