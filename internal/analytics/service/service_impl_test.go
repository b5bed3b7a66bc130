package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	analyticsdomain "github.com/daurulang/daurulang/internal/analytics/domain"
	"github.com/daurulang/daurulang/internal/clock"
	pickupdomain "github.com/daurulang/daurulang/internal/pickup/domain"
	reportdomain "github.com/daurulang/daurulang/internal/report/domain"
	reportrepo "github.com/daurulang/daurulang/internal/report/repository"
	rewarddomain "github.com/daurulang/daurulang/internal/reward/domain"
	"github.com/daurulang/daurulang/pkg/db"
)

func newTestService(t *testing.T, now time.Time) (analyticsdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = conn.AutoMigrate(
		&pickupdomain.PickupRecord{},
		&reportdomain.ReportSnapshot{},
		&rewarddomain.Reward{},
		&rewarddomain.RedemptionClaim{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	svc := New(Params{
		DB:      conn,
		Log:     zap.NewNop(),
		Clock:   clock.NewFakeClock(now),
		Reports: reportrepo.Provide(),
	})
	return svc, conn, node
}

func seedSnapshot(t *testing.T, conn *gorm.DB, node *snowflake.Node, userID snowflake.ID, year, month int, pickups int, weight float64, credits float64) {
	t.Helper()
	snapshot := reportdomain.ReportSnapshot{
		ID:             node.Generate(),
		UserID:         userID,
		Year:           year,
		Month:          month,
		Type:           reportdomain.TypeMonthly,
		TotalPickups:   pickups,
		TotalWeightKg:  weight,
		RecycledKg:     weight * 0.7,
		RecyclingRate:  70,
		PlasticCredits: credits,
		CostSavings:    weight * 2000,
		GeneratedAt:    time.Date(year, time.Month(month), 28, 0, 0, 0, 0, time.UTC),
	}
	if err := conn.Create(&snapshot).Error; err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
}

func TestDashboardGrowthAndYearToDate(t *testing.T) {
	now := time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC)
	svc, conn, node := newTestService(t, now)
	userID := node.Generate()

	seedSnapshot(t, conn, node, userID, 2025, 2, 2, 10, 4)
	seedSnapshot(t, conn, node, userID, 2025, 3, 4, 20, 10)
	seedSnapshot(t, conn, node, userID, 2025, 4, 6, 30, 15)

	resp, err := svc.Dashboard(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if resp.CurrentMonth.Month != 4 || resp.CurrentMonth.TotalPickups != 6 {
		t.Fatalf("current month = %+v", resp.CurrentMonth)
	}
	if resp.PreviousMonth.Month != 3 || resp.PreviousMonth.TotalPickups != 4 {
		t.Fatalf("previous month = %+v", resp.PreviousMonth)
	}

	if math.Abs(resp.Growth.TotalPickups-50) > 1e-9 {
		t.Fatalf("pickup growth = %v, want 50", resp.Growth.TotalPickups)
	}
	if math.Abs(resp.Growth.TotalWeightKg-50) > 1e-9 {
		t.Fatalf("weight growth = %v, want 50", resp.Growth.TotalWeightKg)
	}
	if math.Abs(resp.Growth.PlasticCredits-50) > 1e-9 {
		t.Fatalf("credit growth = %v, want 50", resp.Growth.PlasticCredits)
	}

	if resp.YearToDate.TotalPickups != 12 {
		t.Fatalf("ytd pickups = %d, want 12", resp.YearToDate.TotalPickups)
	}
	if resp.YearToDate.TotalWeightKg != 60 {
		t.Fatalf("ytd weight = %v, want 60", resp.YearToDate.TotalWeightKg)
	}
	if resp.YearToDate.PlasticCredits != 29 {
		t.Fatalf("ytd credits = %v, want 29", resp.YearToDate.PlasticCredits)
	}
}

func TestDashboardZeroPreviousMonth(t *testing.T) {
	now := time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC)
	svc, conn, node := newTestService(t, now)
	userID := node.Generate()

	seedSnapshot(t, conn, node, userID, 2025, 4, 3, 12, 5)

	resp, err := svc.Dashboard(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if resp.PreviousMonth.TotalPickups != 0 {
		t.Fatalf("previous month should be zero, got %+v", resp.PreviousMonth)
	}
	if resp.Growth.TotalPickups != 100 {
		t.Fatalf("growth from zero = %v, want 100", resp.Growth.TotalPickups)
	}
	if resp.Growth.RecycledKg != 100 {
		t.Fatalf("recycled growth from zero = %v, want 100", resp.Growth.RecycledKg)
	}
}

func TestDashboardNoActivityGrowthIsZero(t *testing.T) {
	now := time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC)
	svc, _, node := newTestService(t, now)
	userID := node.Generate()

	resp, err := svc.Dashboard(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if resp.CurrentMonth.TotalPickups != 0 || resp.PreviousMonth.TotalPickups != 0 {
		t.Fatalf("expected empty months, got current=%+v previous=%+v", resp.CurrentMonth, resp.PreviousMonth)
	}
	if resp.Growth.TotalPickups != 0 {
		t.Fatalf("pickup growth = %v, want 0", resp.Growth.TotalPickups)
	}
	if resp.Growth.TotalWeightKg != 0 {
		t.Fatalf("weight growth = %v, want 0", resp.Growth.TotalWeightKg)
	}
	if resp.Growth.RecycledKg != 0 {
		t.Fatalf("recycled growth = %v, want 0", resp.Growth.RecycledKg)
	}
	if resp.Growth.PlasticCredits != 0 {
		t.Fatalf("credit growth = %v, want 0", resp.Growth.PlasticCredits)
	}
}

func TestDashboardJanuaryRollsToPreviousYear(t *testing.T) {
	now := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	svc, conn, node := newTestService(t, now)
	userID := node.Generate()

	seedSnapshot(t, conn, node, userID, 2024, 12, 5, 25, 8)
	seedSnapshot(t, conn, node, userID, 2025, 1, 2, 10, 3)

	resp, err := svc.Dashboard(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if resp.PreviousMonth.Year != 2024 || resp.PreviousMonth.Month != 12 {
		t.Fatalf("previous period = %d-%d, want 2024-12", resp.PreviousMonth.Year, resp.PreviousMonth.Month)
	}
	if resp.PreviousMonth.TotalPickups != 5 {
		t.Fatalf("previous pickups = %d, want 5", resp.PreviousMonth.TotalPickups)
	}
	// December of last year must not leak into this year's totals.
	if resp.YearToDate.TotalPickups != 2 {
		t.Fatalf("ytd pickups = %d, want 2", resp.YearToDate.TotalPickups)
	}
}

func TestDashboardRejectsInvalidUser(t *testing.T) {
	svc, _, _ := newTestService(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC))

	if _, err := svc.Dashboard(context.Background(), "not-a-user"); err != analyticsdomain.ErrInvalidUser {
		t.Fatalf("err = %v, want %v", err, analyticsdomain.ErrInvalidUser)
	}
}

func TestAdminStats(t *testing.T) {
	now := time.Date(2025, 4, 15, 10, 0, 0, 0, time.UTC)
	svc, conn, node := newTestService(t, now)

	userA := node.Generate()
	userB := node.Generate()
	seedSnapshot(t, conn, node, userA, 2025, 3, 2, 10, 4)
	seedSnapshot(t, conn, node, userB, 2025, 3, 1, 5, 2)

	weight := 12.5
	record := pickupdomain.PickupRecord{
		ID:                node.Generate(),
		UserID:            userA,
		Status:            pickupdomain.StatusCompleted,
		PickupAt:          now,
		EstimatedWeightKg: &weight,
	}
	if err := conn.Create(&record).Error; err != nil {
		t.Fatalf("seed pickup: %v", err)
	}

	reward := rewarddomain.Reward{
		ID:             node.Generate(),
		Slug:           "tumbler",
		Name:           "Tumbler",
		RequiredCredit: 10,
		Available:      true,
	}
	if err := conn.Create(&reward).Error; err != nil {
		t.Fatalf("seed reward: %v", err)
	}
	for _, status := range []rewarddomain.ClaimStatus{rewarddomain.ClaimPending, rewarddomain.ClaimPending, rewarddomain.ClaimApproved} {
		claim := rewarddomain.RedemptionClaim{
			ID:          node.Generate(),
			UserID:      userA,
			RewardID:    reward.ID,
			Status:      status,
			RequestedAt: now,
		}
		if err := conn.Create(&claim).Error; err != nil {
			t.Fatalf("seed claim: %v", err)
		}
	}

	stats, err := svc.AdminStats(context.Background())
	if err != nil {
		t.Fatalf("admin stats: %v", err)
	}

	if stats.ActiveReporters != 2 {
		t.Fatalf("active reporters = %d, want 2", stats.ActiveReporters)
	}
	if stats.CompletedPickups != 1 || stats.CompletedWeightKg != 12.5 {
		t.Fatalf("completed = %d / %v, want 1 / 12.5", stats.CompletedPickups, stats.CompletedWeightKg)
	}
	if stats.PendingRedemptions != 2 || stats.ApprovedRedemptions != 1 {
		t.Fatalf("redemptions = %d pending %d approved, want 2 and 1", stats.PendingRedemptions, stats.ApprovedRedemptions)
	}
}
