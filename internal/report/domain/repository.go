package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListFilter narrows a snapshot listing. Zero values mean "no filter".
type ListFilter struct {
	Year  int
	Month int
	Type  ReportType
}

type Repository interface {
	// Upsert inserts the snapshot or, when a row already exists for the
	// same (user, year, month, type), overwrites its derived fields in a
	// single atomic statement.
	Upsert(ctx context.Context, db *gorm.DB, snapshot *ReportSnapshot) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*ReportSnapshot, error)
	FindByPeriod(ctx context.Context, db *gorm.DB, userID snowflake.ID, year, month int, reportType ReportType) (*ReportSnapshot, error)
	List(ctx context.Context, db *gorm.DB, userID snowflake.ID, filter ListFilter) ([]ReportSnapshot, error)
	ListByYear(ctx context.Context, db *gorm.DB, userID snowflake.ID, year int, reportType ReportType) ([]ReportSnapshot, error)
}
