package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyConfig(t *testing.T) {
	cfg := DefaultPolicyConfig()

	assert.Equal(t, 0.70, cfg.RecycledRatio)
	assert.Equal(t, 2000.0, cfg.CostSavingPerKg)
	assert.Equal(t, 1.0, cfg.CreditPerKg)
	require.NoError(t, validatePolicyConfig(cfg))
}

func TestValidatePolicyConfig(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*PolicyConfig)
		wantErr bool
	}{
		{"defaults are valid", func(cfg *PolicyConfig) {}, false},
		{"full recycling allowed", func(cfg *PolicyConfig) { cfg.RecycledRatio = 1 }, false},
		{"zero recycling allowed", func(cfg *PolicyConfig) { cfg.RecycledRatio = 0 }, false},
		{"ratio above one", func(cfg *PolicyConfig) { cfg.RecycledRatio = 1.5 }, true},
		{"negative ratio", func(cfg *PolicyConfig) { cfg.RecycledRatio = -0.1 }, true},
		{"negative savings", func(cfg *PolicyConfig) { cfg.CostSavingPerKg = -1 }, true},
		{"zero credit rate", func(cfg *PolicyConfig) { cfg.CreditPerKg = 0 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultPolicyConfig()
			tc.mutate(&cfg)
			err := validatePolicyConfig(cfg)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStaticPolicyHolder(t *testing.T) {
	custom := PolicyConfig{
		RecycledRatio:   0.5,
		CostSavingPerKg: 1500,
		CreditPerKg:     2,
	}

	holder := NewStaticPolicyHolder(custom)
	require.NotNil(t, holder)
	assert.Equal(t, custom, holder.Get())
}
