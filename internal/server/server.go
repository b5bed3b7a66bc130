package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/daurulang/daurulang/internal/analytics"
	analyticsdomain "github.com/daurulang/daurulang/internal/analytics/domain"
	"github.com/daurulang/daurulang/internal/config"
	"github.com/daurulang/daurulang/internal/credit"
	creditdomain "github.com/daurulang/daurulang/internal/credit/domain"
	"github.com/daurulang/daurulang/internal/observability"
	obslogger "github.com/daurulang/daurulang/internal/observability/logger"
	obsmetrics "github.com/daurulang/daurulang/internal/observability/metrics"
	obstracing "github.com/daurulang/daurulang/internal/observability/tracing"
	"github.com/daurulang/daurulang/internal/pickup"
	"github.com/daurulang/daurulang/internal/ratelimit"
	"github.com/daurulang/daurulang/internal/report"
	reportdomain "github.com/daurulang/daurulang/internal/report/domain"
	"github.com/daurulang/daurulang/internal/reward"
	rewarddomain "github.com/daurulang/daurulang/internal/reward/domain"
	"github.com/daurulang/daurulang/internal/session"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	session.Module,
	pickup.Module,
	report.Module,
	analytics.Module,
	credit.Module,
	reward.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	sessions      *session.Manager
	sessionStore  *session.Store
	reportSvc     reportdomain.Service
	analyticsSvc  analyticsdomain.Service
	creditSvc     creditdomain.Service
	rewardSvc     rewarddomain.Service
	redeemLimiter *ratelimit.RedeemLimiter
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Sessions     *session.Manager
	SessionStore *session.Store
	ReportSvc    reportdomain.Service
	AnalyticsSvc analyticsdomain.Service
	CreditSvc    creditdomain.Service
	RewardSvc    rewarddomain.Service

	RedeemLimiter *ratelimit.RedeemLimiter `optional:"true"`
	ObsMetrics    *obsmetrics.Metrics      `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		sessions:      p.Sessions,
		sessionStore:  p.SessionStore,
		reportSvc:     p.ReportSvc,
		analyticsSvc:  p.AnalyticsSvc,
		creditSvc:     p.CreditSvc,
		rewardSvc:     p.RewardSvc,
		redeemLimiter: p.RedeemLimiter,
		obsMetrics:    p.ObsMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1", s.AuthRequired())

	// -------- Reports --------
	api.POST("/reports/generate", s.GenerateReport)
	api.GET("/reports", s.ListReports)
	api.GET("/reports/:id", s.GetReportByID)

	// -------- Analytics --------
	api.GET("/analytics/dashboard", s.GetDashboard)

	// -------- Credits --------
	api.GET("/credits/balance", s.GetCreditBalance)

	// -------- Rewards --------
	api.GET("/rewards", s.ListRewards)
	api.POST("/rewards/:id/redeem", s.RedeemRateLimit(), s.RedeemReward)
	api.GET("/rewards/history", s.GetRedemptionHistory)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/v1/admin", s.AuthRequired(), s.RequireAdmin())

	admin.GET("/redemptions", s.ListRedemptionClaims)
	admin.POST("/redemptions/:id/approve", s.ApproveRedemption)
	admin.POST("/redemptions/:id/reject", s.RejectRedemption)
	admin.GET("/stats", s.GetAdminStats)
}
