package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	rewarddomain "github.com/daurulang/daurulang/internal/reward/domain"
)

type fakeRewardService struct {
	redeemErr    error
	redeemCalls  int
	lastUserID   string
	lastRewardID string
}

func (f *fakeRewardService) ListRewards(ctx context.Context) ([]rewarddomain.RewardResponse, error) {
	_ = ctx
	return nil, nil
}

func (f *fakeRewardService) Redeem(ctx context.Context, req rewarddomain.RedeemRequest) (*rewarddomain.ClaimResponse, error) {
	f.redeemCalls++
	f.lastUserID = req.UserID
	f.lastRewardID = req.RewardID
	_ = ctx
	if f.redeemErr != nil {
		return nil, f.redeemErr
	}
	return &rewarddomain.ClaimResponse{Status: rewarddomain.ClaimPending}, nil
}

func (f *fakeRewardService) History(ctx context.Context, userID string) ([]rewarddomain.ClaimResponse, error) {
	_ = ctx
	_ = userID
	return nil, nil
}

func (f *fakeRewardService) ListClaims(ctx context.Context, req rewarddomain.ListClaimsRequest) (*rewarddomain.ClaimListResponse, error) {
	_ = ctx
	_ = req
	return &rewarddomain.ClaimListResponse{}, nil
}

func (f *fakeRewardService) Approve(ctx context.Context, claimID string) (*rewarddomain.ClaimResponse, error) {
	_ = ctx
	_ = claimID
	return nil, nil
}

func (f *fakeRewardService) Reject(ctx context.Context, claimID string) (*rewarddomain.ClaimResponse, error) {
	_ = ctx
	_ = claimID
	return nil, nil
}

func newRedeemRouter(svc rewarddomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	srv := &Server{rewardSvc: svc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/v1/rewards/:id/redeem", func(c *gin.Context) {
		c.Set(contextUserIDKey, "42")
		srv.RedeemReward(c)
	})
	return router
}

func decodeErrorPayload(t *testing.T, resp *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestRedeemHandlerInsufficientCredit(t *testing.T) {
	svc := &fakeRewardService{redeemErr: rewarddomain.ErrInsufficientCredit}
	router := newRedeemRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rewards/7/redeem", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	payload := decodeErrorPayload(t, resp)
	if payload.Type != "insufficient_credit" {
		t.Fatalf("error type = %s, want insufficient_credit", payload.Type)
	}
	if payload.Message != "kredit tidak cukup" {
		t.Fatalf("message = %q", payload.Message)
	}
}

func TestRedeemHandlerRewardUnavailable(t *testing.T) {
	svc := &fakeRewardService{redeemErr: rewarddomain.ErrRewardUnavailable}
	router := newRedeemRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rewards/7/redeem", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	payload := decodeErrorPayload(t, resp)
	if payload.Type != "reward_unavailable" {
		t.Fatalf("error type = %s, want reward_unavailable", payload.Type)
	}
	if payload.Message != "hadiah tidak tersedia" {
		t.Fatalf("message = %q", payload.Message)
	}
}

func TestRedeemHandlerPassesIdentity(t *testing.T) {
	svc := &fakeRewardService{}
	router := newRedeemRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rewards/7/redeem", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}
	if svc.redeemCalls != 1 {
		t.Fatalf("redeem calls = %d, want 1", svc.redeemCalls)
	}
	if svc.lastUserID != "42" || svc.lastRewardID != "7" {
		t.Fatalf("identity = user %s reward %s", svc.lastUserID, svc.lastRewardID)
	}
}

func TestRequireAdminRejectsUserRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &Server{}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.GET("/api/v1/admin/stats",
		func(c *gin.Context) {
			c.Set(contextRoleKey, "user")
			c.Next()
		},
		srv.RequireAdmin(),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.Code)
	}
}
