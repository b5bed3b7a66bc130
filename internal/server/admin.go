package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	rewarddomain "github.com/daurulang/daurulang/internal/reward/domain"
)

func (s *Server) ListRedemptionClaims(c *gin.Context) {
	pageSize, err := parseOptionalInt(c.Query("page_size"))
	if err != nil {
		AbortWithError(c, newValidationError("page_size", "invalid_number", "invalid value"))
		return
	}

	resp, err := s.rewardSvc.ListClaims(c.Request.Context(), rewarddomain.ListClaimsRequest{
		Status:    strings.TrimSpace(c.Query("status")),
		PageToken: strings.TrimSpace(c.Query("page_token")),
		PageSize:  pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ApproveRedemption(c *gin.Context) {
	resp, err := s.rewardSvc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RejectRedemption(c *gin.Context) {
	resp, err := s.rewardSvc.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
