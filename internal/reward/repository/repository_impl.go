package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/daurulang/daurulang/internal/reward/domain"
	"github.com/daurulang/daurulang/pkg/db/pagination"
)

type rewardRepository struct{}

// Provide constructs the reward repository.
func Provide() domain.Repository {
	return &rewardRepository{}
}

func (r *rewardRepository) ListAvailable(ctx context.Context, db *gorm.DB) ([]domain.Reward, error) {
	var rewards []domain.Reward
	err := db.WithContext(ctx).Raw(`
		SELECT id, slug, name, description, required_credit, available, created_at, updated_at
		FROM rewards
		WHERE available = ?
		ORDER BY required_credit ASC
	`, true).Scan(&rewards).Error
	if err != nil {
		return nil, err
	}
	return rewards, nil
}

func (r *rewardRepository) FindReward(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Reward, error) {
	var reward domain.Reward
	err := db.WithContext(ctx).Raw(`
		SELECT id, slug, name, description, required_credit, available, created_at, updated_at
		FROM rewards
		WHERE id = ?
	`, id).Scan(&reward).Error
	if err != nil {
		return nil, err
	}
	if reward.ID == 0 {
		return nil, nil
	}
	return &reward, nil
}

func (r *rewardRepository) CreateClaim(ctx context.Context, db *gorm.DB, claim *domain.RedemptionClaim) error {
	return db.WithContext(ctx).Create(claim).Error
}

func (r *rewardRepository) FindClaim(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.RedemptionClaim, error) {
	var claim domain.RedemptionClaim
	err := db.WithContext(ctx).Raw(`
		SELECT id, user_id, reward_id, status, requested_at, decided_at, voucher_code, expires_at
		FROM redemption_claims
		WHERE id = ?
	`, id).Scan(&claim).Error
	if err != nil {
		return nil, err
	}
	if claim.ID == 0 {
		return nil, nil
	}
	return &claim, nil
}

func (r *rewardRepository) UpdateClaim(ctx context.Context, db *gorm.DB, claim *domain.RedemptionClaim) error {
	return db.WithContext(ctx).Exec(`
		UPDATE redemption_claims
		SET status = ?, decided_at = ?, voucher_code = ?, expires_at = ?
		WHERE id = ?
	`, claim.Status, claim.DecidedAt, claim.VoucherCode, claim.ExpiresAt, claim.ID).Error
}

func (r *rewardRepository) ListClaimsByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]domain.ClaimWithReward, error) {
	var claims []domain.ClaimWithReward
	err := db.WithContext(ctx).Raw(`
		SELECT c.id, c.user_id, c.reward_id, c.status, c.requested_at, c.decided_at,
		       c.voucher_code, c.expires_at,
		       r.name AS reward_name, r.slug AS reward_slug, r.required_credit
		FROM redemption_claims c
		JOIN rewards r ON r.id = c.reward_id
		WHERE c.user_id = ?
		ORDER BY c.requested_at DESC
	`, userID).Scan(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *rewardRepository) ListClaimsByStatus(ctx context.Context, db *gorm.DB, status domain.ClaimStatus, cursor *pagination.Cursor, limit int) ([]domain.ClaimWithReward, error) {
	query := `
		SELECT c.id, c.user_id, c.reward_id, c.status, c.requested_at, c.decided_at,
		       c.voucher_code, c.expires_at,
		       r.name AS reward_name, r.slug AS reward_slug, r.required_credit
		FROM redemption_claims c
		JOIN rewards r ON r.id = c.reward_id
		WHERE c.status = ?`
	args := []interface{}{status}

	if cursor != nil {
		after, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		afterID, err := domain.ParseID(cursor.ID)
		if err != nil {
			return nil, err
		}
		query += ` AND (c.requested_at > ? OR (c.requested_at = ? AND c.id > ?))`
		args = append(args, after, after, afterID)
	}
	query += ` ORDER BY c.requested_at ASC, c.id ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var claims []domain.ClaimWithReward
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}
