package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	reportdomain "github.com/daurulang/daurulang/internal/report/domain"
)

type generateReportRequest struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Type  string `json:"type"`
}

func (s *Server) GenerateReport(c *gin.Context) {
	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reportSvc.Generate(c.Request.Context(), reportdomain.GenerateRequest{
		UserID: c.GetString(contextUserIDKey),
		Year:   req.Year,
		Month:  req.Month,
		Type:   strings.TrimSpace(req.Type),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListReports(c *gin.Context) {
	year, err := parseOptionalInt(c.Query("year"))
	if err != nil {
		AbortWithError(c, newValidationError("year", "invalid_number", "invalid value"))
		return
	}
	month, err := parseOptionalInt(c.Query("month"))
	if err != nil {
		AbortWithError(c, newValidationError("month", "invalid_number", "invalid value"))
		return
	}

	resp, err := s.reportSvc.List(c.Request.Context(), reportdomain.ListRequest{
		UserID: c.GetString(contextUserIDKey),
		Year:   year,
		Month:  month,
		Type:   strings.TrimSpace(c.Query("type")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetReportByID(c *gin.Context) {
	resp, err := s.reportSvc.GetByID(c.Request.Context(), c.GetString(contextUserIDKey), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
