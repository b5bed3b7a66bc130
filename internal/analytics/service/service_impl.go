package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	analyticsdomain "github.com/daurulang/daurulang/internal/analytics/domain"
	"github.com/daurulang/daurulang/internal/clock"
	pickupdomain "github.com/daurulang/daurulang/internal/pickup/domain"
	reportdomain "github.com/daurulang/daurulang/internal/report/domain"
	rewarddomain "github.com/daurulang/daurulang/internal/reward/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Reports reportdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	reports reportdomain.Repository
}

func New(p Params) analyticsdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("analytics.service"),
		clock:   p.Clock,
		reports: p.Reports,
	}
}

func (s *Service) Dashboard(ctx context.Context, userID string) (*analyticsdomain.DashboardResponse, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	curYear, curMonth := now.Year(), int(now.Month())
	prevYear, prevMonth := previousPeriod(curYear, curMonth)

	current, err := s.periodSummary(ctx, uid, curYear, curMonth)
	if err != nil {
		return nil, err
	}
	previous, err := s.periodSummary(ctx, uid, prevYear, prevMonth)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.reports.ListByYear(ctx, s.db, uid, curYear, reportdomain.TypeMonthly)
	if err != nil {
		return nil, err
	}
	ytd := analyticsdomain.YearToDate{Year: curYear}
	for i := range snapshots {
		snapshot := &snapshots[i]
		ytd.TotalPickups += snapshot.TotalPickups
		ytd.TotalWeightKg += snapshot.TotalWeightKg
		ytd.RecycledKg += snapshot.RecycledKg
		ytd.PlasticCredits += snapshot.PlasticCredits
		ytd.CostSavings += snapshot.CostSavings
	}

	return &analyticsdomain.DashboardResponse{
		CurrentMonth:  *current,
		PreviousMonth: *previous,
		YearToDate:    ytd,
		Growth: analyticsdomain.Growth{
			TotalPickups:   growthPercent(float64(previous.TotalPickups), float64(current.TotalPickups)),
			TotalWeightKg:  growthPercent(previous.TotalWeightKg, current.TotalWeightKg),
			RecycledKg:     growthPercent(previous.RecycledKg, current.RecycledKg),
			PlasticCredits: growthPercent(previous.PlasticCredits, current.PlasticCredits),
		},
	}, nil
}

func (s *Service) AdminStats(ctx context.Context) (*analyticsdomain.AdminStatsResponse, error) {
	var stats analyticsdomain.AdminStatsResponse

	err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(DISTINCT user_id) FROM report_snapshots`,
	).Scan(&stats.ActiveReporters).Error
	if err != nil {
		return nil, err
	}

	var pickupTotals struct {
		Count  int64
		Weight float64
	}
	err = s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS count,
		        COALESCE(SUM(estimated_weight_kg), 0) AS weight
		 FROM pickup_records WHERE status = ?`,
		pickupdomain.StatusCompleted,
	).Scan(&pickupTotals).Error
	if err != nil {
		return nil, err
	}
	stats.CompletedPickups = pickupTotals.Count
	stats.CompletedWeightKg = pickupTotals.Weight

	err = s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM redemption_claims WHERE status = ?`,
		rewarddomain.ClaimPending,
	).Scan(&stats.PendingRedemptions).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM redemption_claims WHERE status = ?`,
		rewarddomain.ClaimApproved,
	).Scan(&stats.ApprovedRedemptions).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (s *Service) periodSummary(ctx context.Context, userID snowflake.ID, year, month int) (*analyticsdomain.PeriodSummary, error) {
	summary := &analyticsdomain.PeriodSummary{Year: year, Month: month}

	snapshot, err := s.reports.FindByPeriod(ctx, s.db, userID, year, month, reportdomain.TypeMonthly)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		// A snapshot only exists after explicit generation, so a missing
		// period is a legitimate all-zero month, not an error.
		return summary, nil
	}

	summary.TotalPickups = snapshot.TotalPickups
	summary.TotalWeightKg = snapshot.TotalWeightKg
	summary.RecycledKg = snapshot.RecycledKg
	summary.RecyclingRate = snapshot.RecyclingRate
	summary.PlasticCredits = snapshot.PlasticCredits
	summary.CostSavings = snapshot.CostSavings
	return summary, nil
}

func parseUserID(value string) (snowflake.ID, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || userID == 0 {
		return 0, analyticsdomain.ErrInvalidUser
	}
	return userID, nil
}

func previousPeriod(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// growthPercent applies the dashboard growth convention: with no previous
// activity the change is 100 for any increase and 0 otherwise.
func growthPercent(previous, current float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}
