package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	gosslug "github.com/gosimple/slug"
	"gorm.io/gorm"

	rewarddomain "github.com/daurulang/daurulang/internal/reward/domain"
	"github.com/daurulang/daurulang/pkg/db"
)

type catalogEntry struct {
	name           string
	description    string
	requiredCredit float64
}

// Default reward catalog for a fresh deployment. Administrators manage the
// live catalog afterwards; seeding never overwrites existing rows.
var defaultCatalog = []catalogEntry{
	{"Voucher Belanja 25K", "Voucher belanja senilai Rp25.000 di merchant partner.", 25},
	{"Voucher Belanja 50K", "Voucher belanja senilai Rp50.000 di merchant partner.", 50},
	{"Tumbler Stainless", "Tumbler stainless steel 500ml.", 80},
	{"Tas Belanja Daur Ulang", "Tas belanja dari plastik daur ulang.", 15},
	{"Diskon Pickup Bulanan", "Potongan biaya layanan pickup untuk satu bulan.", 120},
}

// EnsureRewardCatalog seeds the default reward catalog for startup bootstrap.
func EnsureRewardCatalog(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range defaultCatalog {
			if err := ensureRewardTx(ctx, tx, node, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureRewardTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, entry catalogEntry) error {
	slug := gosslug.Make(entry.name)

	var existing rewarddomain.Reward
	err := tx.WithContext(ctx).Where("slug = ?", slug).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	reward := rewarddomain.Reward{
		ID:             node.Generate(),
		Slug:           slug,
		Name:           entry.name,
		Description:    entry.description,
		RequiredCredit: entry.requiredCredit,
		Available:      true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := tx.WithContext(ctx).Create(&reward).Error; err != nil {
		// Another instance seeded the same slug first.
		if db.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}
	return nil
}
