package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	reportdomain "github.com/daurulang/daurulang/internal/report/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() reportdomain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, snapshot *reportdomain.ReportSnapshot) error {
	// Single conditional insert-or-update on the period key, so concurrent
	// regeneration of the same period cannot produce duplicate rows.
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "year"},
			{Name: "month"},
			{Name: "type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_pickups",
			"total_weight_kg",
			"breakdown",
			"recycled_kg",
			"recycling_rate",
			"plastic_credits",
			"cost_savings",
			"generated_at",
		}),
	}).Create(snapshot).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*reportdomain.ReportSnapshot, error) {
	var snapshot reportdomain.ReportSnapshot
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM report_snapshots WHERE user_id = ? AND id = ?`,
		userID,
		id,
	).Scan(&snapshot).Error
	if err != nil {
		return nil, err
	}
	if snapshot.ID == 0 {
		return nil, nil
	}
	return &snapshot, nil
}

func (r *repo) FindByPeriod(ctx context.Context, db *gorm.DB, userID snowflake.ID, year, month int, reportType reportdomain.ReportType) (*reportdomain.ReportSnapshot, error) {
	var snapshot reportdomain.ReportSnapshot
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM report_snapshots
		 WHERE user_id = ? AND year = ? AND month = ? AND type = ?`,
		userID,
		year,
		month,
		reportType,
	).Scan(&snapshot).Error
	if err != nil {
		return nil, err
	}
	if snapshot.ID == 0 {
		return nil, nil
	}
	return &snapshot, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, userID snowflake.ID, filter reportdomain.ListFilter) ([]reportdomain.ReportSnapshot, error) {
	query := `SELECT * FROM report_snapshots WHERE user_id = ?`
	args := []interface{}{userID}

	if filter.Year != 0 {
		query += ` AND year = ?`
		args = append(args, filter.Year)
	}
	if filter.Month != 0 {
		query += ` AND month = ?`
		args = append(args, filter.Month)
	}
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, filter.Type)
	}
	query += ` ORDER BY year DESC, month DESC`

	var snapshots []reportdomain.ReportSnapshot
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *repo) ListByYear(ctx context.Context, db *gorm.DB, userID snowflake.ID, year int, reportType reportdomain.ReportType) ([]reportdomain.ReportSnapshot, error) {
	var snapshots []reportdomain.ReportSnapshot
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM report_snapshots
		 WHERE user_id = ? AND year = ? AND type = ?
		 ORDER BY month ASC`,
		userID,
		year,
		reportType,
	).Scan(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
