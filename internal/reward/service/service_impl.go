package service

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/daurulang/daurulang/internal/clock"
	creditdomain "github.com/daurulang/daurulang/internal/credit/domain"
	obsmetrics "github.com/daurulang/daurulang/internal/observability/metrics"
	"github.com/daurulang/daurulang/internal/ratelimit"
	"github.com/daurulang/daurulang/internal/reward/domain"
	"github.com/daurulang/daurulang/pkg/db/pagination"
)

// voucherValidity is how long an approved voucher stays redeemable at a
// partner outlet.
const voucherValidity = 30 * 24 * time.Hour

const (
	defaultClaimPageSize = 50
	maxClaimPageSize     = 250
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Credits creditdomain.Service
	Repo    domain.Repository
	Limiter *ratelimit.RedeemLimiter `optional:"true"`
	Metrics *obsmetrics.Metrics      `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	credits creditdomain.Service
	repo    domain.Repository
	limiter *ratelimit.RedeemLimiter
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("reward.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		credits: p.Credits,
		repo:    p.Repo,
		limiter: p.Limiter,
		metrics: p.Metrics,
	}
}

func (s *Service) ListRewards(ctx context.Context) ([]domain.RewardResponse, error) {
	rewards, err := s.repo.ListAvailable(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RewardResponse, 0, len(rewards))
	for _, r := range rewards {
		out = append(out, domain.RewardResponse{
			ID:             r.ID,
			Slug:           r.Slug,
			Name:           r.Name,
			Description:    r.Description,
			RequiredCredit: r.RequiredCredit,
		})
	}
	return out, nil
}

func (s *Service) Redeem(ctx context.Context, req domain.RedeemRequest) (*domain.ClaimResponse, error) {
	userID, err := domain.ParseID(req.UserID)
	if err != nil {
		return nil, domain.ErrInvalidUser
	}
	rewardID, err := domain.ParseID(req.RewardID)
	if err != nil {
		return nil, err
	}

	// Claims for the same user are serialized so two concurrent requests
	// cannot both pass the balance check on the same credit.
	token, ok, err := s.limiter.TryLockUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.recordClaim(ctx, "contended")
		return nil, domain.ErrClaimNotPending
	}
	defer func() {
		if releaseErr := s.limiter.ReleaseUser(ctx, req.UserID, token); releaseErr != nil {
			s.log.Warn("failed to release redeem lock",
				zap.String("user_id", req.UserID),
				zap.Error(releaseErr),
			)
		}
	}()

	reward, err := s.repo.FindReward(ctx, s.db, rewardID)
	if err != nil {
		return nil, err
	}
	if reward == nil || !reward.Available {
		s.recordClaim(ctx, "unavailable")
		return nil, domain.ErrRewardUnavailable
	}

	balance, err := s.credits.Balance(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if balance.Balance < reward.RequiredCredit {
		s.recordClaim(ctx, "insufficient_credit")
		return nil, domain.ErrInsufficientCredit
	}

	claim := &domain.RedemptionClaim{
		ID:          s.genID.Generate(),
		UserID:      userID,
		RewardID:    reward.ID,
		Status:      domain.ClaimPending,
		RequestedAt: s.clock.Now(),
	}
	if err := s.repo.CreateClaim(ctx, s.db, claim); err != nil {
		return nil, err
	}

	s.recordClaim(ctx, "pending")
	s.log.Info("redemption claim filed",
		zap.String("claim_id", claim.ID.String()),
		zap.String("user_id", req.UserID),
		zap.String("reward_slug", reward.Slug),
		zap.Float64("required_credit", reward.RequiredCredit),
		zap.Float64("balance", balance.Balance),
	)

	resp := toClaimResponse(*claim)
	resp.RewardName = reward.Name
	resp.RewardSlug = reward.Slug
	resp.RequiredCredit = reward.RequiredCredit
	return &resp, nil
}

func (s *Service) History(ctx context.Context, userID string) ([]domain.ClaimResponse, error) {
	id, err := domain.ParseID(userID)
	if err != nil {
		return nil, domain.ErrInvalidUser
	}
	claims, err := s.repo.ListClaimsByUser(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return toClaimResponses(claims), nil
}

func (s *Service) ListClaims(ctx context.Context, req domain.ListClaimsRequest) (*domain.ClaimListResponse, error) {
	claimStatus := domain.ClaimStatus(req.Status)
	if req.Status == "" {
		claimStatus = domain.ClaimPending
	}
	if !claimStatus.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultClaimPageSize
	}
	if pageSize > maxClaimPageSize {
		pageSize = maxClaimPageSize
	}

	var cursor *pagination.Cursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		// A token that decodes but carries garbage is just as invalid.
		if _, err := domain.ParseID(decoded.ID); err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		if _, err := time.Parse(time.RFC3339Nano, decoded.CreatedAt); err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		cursor = decoded
	}

	// Fetch one extra row to learn whether another page exists.
	claims, err := s.repo.ListClaimsByStatus(ctx, s.db, claimStatus, cursor, pageSize+1)
	if err != nil {
		return nil, err
	}

	refs := make([]*domain.ClaimWithReward, len(claims))
	for i := range claims {
		refs[i] = &claims[i]
	}
	pageInfo := pagination.BuildCursorPageInfo(refs, int32(pageSize), func(c *domain.ClaimWithReward) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        c.ID.String(),
			CreatedAt: c.RequestedAt.Format(time.RFC3339Nano),
		})
		return token
	})
	if len(claims) > pageSize {
		claims = claims[:pageSize]
	}

	return &domain.ClaimListResponse{
		Claims:   toClaimResponses(claims),
		PageInfo: pageInfo,
	}, nil
}

func (s *Service) Approve(ctx context.Context, claimID string) (*domain.ClaimResponse, error) {
	claim, err := s.pendingClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	code := ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
	expires := now.Add(voucherValidity)

	claim.Status = domain.ClaimApproved
	claim.DecidedAt = &now
	claim.VoucherCode = &code
	claim.ExpiresAt = &expires
	if err := s.repo.UpdateClaim(ctx, s.db, claim); err != nil {
		return nil, err
	}

	s.recordClaim(ctx, "approved")
	s.log.Info("redemption claim approved",
		zap.String("claim_id", claim.ID.String()),
		zap.String("user_id", claim.UserID.String()),
	)

	resp := toClaimResponse(*claim)
	return &resp, nil
}

func (s *Service) Reject(ctx context.Context, claimID string) (*domain.ClaimResponse, error) {
	claim, err := s.pendingClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	claim.Status = domain.ClaimRejected
	claim.DecidedAt = &now
	if err := s.repo.UpdateClaim(ctx, s.db, claim); err != nil {
		return nil, err
	}

	s.recordClaim(ctx, "rejected")
	s.log.Info("redemption claim rejected",
		zap.String("claim_id", claim.ID.String()),
		zap.String("user_id", claim.UserID.String()),
	)

	resp := toClaimResponse(*claim)
	return &resp, nil
}

func (s *Service) pendingClaim(ctx context.Context, claimID string) (*domain.RedemptionClaim, error) {
	id, err := domain.ParseID(claimID)
	if err != nil {
		return nil, err
	}
	claim, err := s.repo.FindClaim(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, domain.ErrNotFound
	}
	if claim.Status != domain.ClaimPending {
		return nil, domain.ErrClaimNotPending
	}
	return claim, nil
}

func (s *Service) recordClaim(ctx context.Context, result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordRedemptionClaim(ctx, result)
}

func toClaimResponse(c domain.RedemptionClaim) domain.ClaimResponse {
	return domain.ClaimResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		RewardID:    c.RewardID,
		Status:      c.Status,
		RequestedAt: c.RequestedAt,
		DecidedAt:   c.DecidedAt,
		VoucherCode: c.VoucherCode,
		ExpiresAt:   c.ExpiresAt,
	}
}

func toClaimResponses(claims []domain.ClaimWithReward) []domain.ClaimResponse {
	out := make([]domain.ClaimResponse, 0, len(claims))
	for _, c := range claims {
		resp := toClaimResponse(c.RedemptionClaim)
		resp.RewardName = c.RewardName
		resp.RewardSlug = c.RewardSlug
		resp.RequiredCredit = c.Required
		out = append(out, resp)
	}
	return out
}
