package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PolicyConfig holds the accounting policy constants. They are deployment
// configuration, never code literals, so a tenant can run a different
// recycled ratio or savings rate without a rebuild.
type PolicyConfig struct {
	// RecycledRatio is the fraction of collected weight treated as recycled.
	RecycledRatio float64 `mapstructure:"recycledRatio"`
	// CostSavingPerKg is the currency amount (IDR) saved per collected kg.
	CostSavingPerKg float64 `mapstructure:"costSavingPerKg"`
	// CreditPerKg converts completed plastic kilograms into plastic credits.
	CreditPerKg float64 `mapstructure:"creditPerKg"`
}

func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		RecycledRatio:   0.70,
		CostSavingPerKg: 2000,
		CreditPerKg:     1,
	}
}

type PolicyHolder struct {
	current atomic.Value // holds PolicyConfig
}

func NewPolicyHolder() (*PolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("policy")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/daurulang/config") // Volume-mounted config
	v.AddConfigPath("/etc/daurulang")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("DAURULANG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPolicyConfig()
		v.SetDefault("policy.recycledRatio", defaults.RecycledRatio)
		v.SetDefault("policy.costSavingPerKg", defaults.CostSavingPerKg)
		v.SetDefault("policy.creditPerKg", defaults.CreditPerKg)
	}

	var cfg PolicyConfig
	if err := v.UnmarshalKey("policy", &cfg); err != nil {
		return nil, err
	}
	if err := validatePolicyConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PolicyHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PolicyConfig
		if err := v.UnmarshalKey("policy", &updated); err != nil {
			log.Printf("[policy-config] reload failed: %v", err)
			return
		}
		if err := validatePolicyConfig(updated); err != nil {
			log.Printf("[policy-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[policy-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticPolicyHolder returns a holder pinned to cfg. Tests use it to avoid
// touching the filesystem.
func NewStaticPolicyHolder(cfg PolicyConfig) *PolicyHolder {
	holder := &PolicyHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PolicyHolder) Get() PolicyConfig {
	return h.current.Load().(PolicyConfig)
}

func validatePolicyConfig(cfg PolicyConfig) error {
	if cfg.RecycledRatio < 0 || cfg.RecycledRatio > 1 {
		return errors.New("policy.recycledRatio must be between 0 and 1")
	}
	if cfg.CostSavingPerKg < 0 {
		return errors.New("policy.costSavingPerKg cannot be negative")
	}
	if cfg.CreditPerKg <= 0 {
		return errors.New("policy.creditPerKg must be positive")
	}
	return nil
}
