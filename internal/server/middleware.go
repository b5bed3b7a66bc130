package server

import (
	"github.com/gin-gonic/gin"

	obscontext "github.com/daurulang/daurulang/internal/observability/context"
)

const (
	contextUserIDKey = "user_id"
	contextRoleKey   = "role"
)

// AuthRequired resolves the session cookie or bearer token to a user
// identity and injects it into the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		identity, err := s.sessionStore.Resolve(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, identity.UserID.String())
		c.Set(contextRoleKey, identity.Role)

		ctx := obscontext.WithUser(c.Request.Context(), identity.UserID.String(), identity.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func (s *Server) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(contextRoleKey) != "admin" {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// RedeemRateLimit throttles redemption attempts per user. Requests pass
// through untouched when no limiter is configured.
func (s *Server) RedeemRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.redeemLimiter.Enabled() {
			c.Next()
			return
		}

		userID := c.GetString(contextUserIDKey)
		allowed, err := s.redeemLimiter.AllowUser(c.Request.Context(), userID)
		if err != nil {
			// Redis being down should not take redemptions down with it.
			allowed = true
		}
		if !allowed {
			if s.obsMetrics != nil {
				s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "rewards.redeem", "rate_limited")
			}
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		if s.obsMetrics != nil {
			s.obsMetrics.RecordRateLimitAllowed(c.Request.Context(), "rewards.redeem")
		}
		c.Next()
	}
}
