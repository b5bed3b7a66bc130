package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	reportdomain "github.com/daurulang/daurulang/internal/report/domain"
)

type fakeReportService struct {
	generateErr error
	lastReq     reportdomain.GenerateRequest
	getErr      error
}

func (f *fakeReportService) Generate(ctx context.Context, req reportdomain.GenerateRequest) (*reportdomain.Response, error) {
	f.lastReq = req
	_ = ctx
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return &reportdomain.Response{Year: req.Year, Month: req.Month}, nil
}

func (f *fakeReportService) List(ctx context.Context, req reportdomain.ListRequest) ([]reportdomain.Response, error) {
	_ = ctx
	_ = req
	return nil, nil
}

func (f *fakeReportService) GetByID(ctx context.Context, userID, id string) (*reportdomain.Response, error) {
	_ = ctx
	_ = userID
	_ = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &reportdomain.Response{}, nil
}

func newReportRouter(svc reportdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	srv := &Server{reportSvc: svc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	auth := func(c *gin.Context) {
		c.Set(contextUserIDKey, "42")
		c.Next()
	}
	router.POST("/api/v1/reports/generate", auth, srv.GenerateReport)
	router.GET("/api/v1/reports/:id", auth, srv.GetReportByID)
	return router
}

func TestGenerateReportHandler(t *testing.T) {
	svc := &fakeReportService{}
	router := newReportRouter(svc)

	body := bytes.NewBufferString(`{"year":2025,"month":3,"type":"monthly"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/generate", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}
	if svc.lastReq.UserID != "42" || svc.lastReq.Year != 2025 || svc.lastReq.Month != 3 {
		t.Fatalf("request = %+v", svc.lastReq)
	}
}

func TestGenerateReportHandlerBadJSON(t *testing.T) {
	router := newReportRouter(&fakeReportService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/generate", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestGenerateReportHandlerInvalidPeriod(t *testing.T) {
	svc := &fakeReportService{generateErr: reportdomain.ErrInvalidPeriod}
	router := newReportRouter(svc)

	body := bytes.NewBufferString(`{"year":2025,"month":13,"type":"monthly"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/generate", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	payload := decodeErrorPayload(t, resp)
	if payload.Type != "validation_error" {
		t.Fatalf("error type = %s, want validation_error", payload.Type)
	}
}

func TestGetReportHandlerNotFound(t *testing.T) {
	svc := &fakeReportService{getErr: reportdomain.ErrNotFound}
	router := newReportRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/123", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.Code)
	}
}
