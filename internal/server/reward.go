package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	rewarddomain "github.com/daurulang/daurulang/internal/reward/domain"
)

func (s *Server) ListRewards(c *gin.Context) {
	resp, err := s.rewardSvc.ListRewards(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RedeemReward(c *gin.Context) {
	resp, err := s.rewardSvc.Redeem(c.Request.Context(), rewarddomain.RedeemRequest{
		UserID:   c.GetString(contextUserIDKey),
		RewardID: c.Param("id"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRedemptionHistory(c *gin.Context) {
	resp, err := s.rewardSvc.History(c.Request.Context(), c.GetString(contextUserIDKey))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
