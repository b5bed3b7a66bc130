package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/daurulang/daurulang/internal/config"
	creditdomain "github.com/daurulang/daurulang/internal/credit/domain"
	obsmetrics "github.com/daurulang/daurulang/internal/observability/metrics"
	pickupdomain "github.com/daurulang/daurulang/internal/pickup/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Policy  *config.PolicyHolder
	Pickups pickupdomain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	policy  *config.PolicyHolder
	pickups pickupdomain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) creditdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("credit.service"),
		policy:  p.Policy,
		pickups: p.Pickups,
		metrics: p.Metrics,
	}
}

func (s *Service) Balance(ctx context.Context, userID string) (*creditdomain.Response, error) {
	uid, err := snowflake.ParseString(strings.TrimSpace(userID))
	if err != nil || uid == 0 {
		return nil, creditdomain.ErrInvalidUser
	}

	records, err := s.pickups.ListCompletedByUser(ctx, s.db, uid)
	if err != nil {
		// Never degrade a failed lookup to a zero balance; redemption
		// decisions depend on this number.
		return nil, err
	}

	total := 0.0
	for i := range records {
		record := &records[i]
		if !record.HasWasteType(pickupdomain.WastePlastic) {
			continue
		}
		total += record.Weight()
	}

	s.metrics.RecordCreditLookup(ctx)

	return &creditdomain.Response{
		Balance: total * s.policy.Get().CreditPerKg,
	}, nil
}
