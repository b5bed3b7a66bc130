package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/daurulang/daurulang/internal/config"
	creditdomain "github.com/daurulang/daurulang/internal/credit/domain"
	pickupdomain "github.com/daurulang/daurulang/internal/pickup/domain"
	pickuprepo "github.com/daurulang/daurulang/internal/pickup/repository"
	"github.com/daurulang/daurulang/pkg/db"
)

func newTestService(t *testing.T) (creditdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&pickupdomain.PickupRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	svc := New(Params{
		DB:      conn,
		Log:     zap.NewNop(),
		Policy:  config.NewStaticPolicyHolder(config.DefaultPolicyConfig()),
		Pickups: pickuprepo.Provide(),
	})
	return svc, conn, node
}

func seedPickup(t *testing.T, conn *gorm.DB, node *snowflake.Node, userID snowflake.ID, status pickupdomain.Status, weight float64, tags ...pickupdomain.WasteType) {
	t.Helper()
	record := pickupdomain.PickupRecord{
		ID:                node.Generate(),
		UserID:            userID,
		Status:            status,
		PickupAt:          time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		WasteTypes:        datatypes.JSONSlice[pickupdomain.WasteType](tags),
		EstimatedWeightKg: &weight,
	}
	if err := conn.Create(&record).Error; err != nil {
		t.Fatalf("seed pickup: %v", err)
	}
}

func TestBalanceSumsPlasticTaggedCompletedPickups(t *testing.T) {
	svc, conn, node := newTestService(t)
	userID := node.Generate()

	seedPickup(t, conn, node, userID, pickupdomain.StatusCompleted, 5, pickupdomain.WastePlastic)
	seedPickup(t, conn, node, userID, pickupdomain.StatusCompleted, 3, pickupdomain.WastePlastic, pickupdomain.WasteOrganic)
	seedPickup(t, conn, node, userID, pickupdomain.StatusCompleted, 2, pickupdomain.WastePlastic)
	// Cancelled and non-plastic pickups never earn credit.
	seedPickup(t, conn, node, userID, pickupdomain.StatusCancelled, 100, pickupdomain.WastePlastic)
	seedPickup(t, conn, node, userID, pickupdomain.StatusCompleted, 50, pickupdomain.WasteOrganic)

	resp, err := svc.Balance(context.Background(), userID.String())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if resp.Balance != 10 {
		t.Fatalf("balance = %v, want 10", resp.Balance)
	}
}

func TestBalanceIsolatedPerUser(t *testing.T) {
	svc, conn, node := newTestService(t)
	userA := node.Generate()
	userB := node.Generate()

	seedPickup(t, conn, node, userA, pickupdomain.StatusCompleted, 5, pickupdomain.WastePlastic)
	seedPickup(t, conn, node, userB, pickupdomain.StatusCompleted, 9, pickupdomain.WastePlastic)

	resp, err := svc.Balance(context.Background(), userA.String())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if resp.Balance != 5 {
		t.Fatalf("balance = %v, want 5", resp.Balance)
	}
}

func TestBalanceEmptyLedger(t *testing.T) {
	svc, _, node := newTestService(t)

	resp, err := svc.Balance(context.Background(), node.Generate().String())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if resp.Balance != 0 {
		t.Fatalf("balance = %v, want 0", resp.Balance)
	}
}

func TestBalanceRejectsInvalidUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Balance(context.Background(), ""); err != creditdomain.ErrInvalidUser {
		t.Fatalf("err = %v, want %v", err, creditdomain.ErrInvalidUser)
	}
}
