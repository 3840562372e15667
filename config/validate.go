package config

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-dog/internal/log"
)

// Validate checks config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	switch cfg.Ledger.Backend {
	case BackendMemory, BackendBadger:
	default:
		return fmt.Errorf("ledger.backend must be %q or %q", BackendMemory, BackendBadger)
	}
	if cfg.Executor.MaxCost == 0 {
		return fmt.Errorf("executor.maxcost must be positive")
	}
	if cfg.Cache.Puzzles < 0 {
		return fmt.Errorf("cache.puzzles must not be negative")
	}
	if _, err := cfg.AggSigMeData(); err != nil {
		return err
	}
	if cfg.Log.Level != "" && !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not a known level", cfg.Log.Level)
	}
	return nil
}
