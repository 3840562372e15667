package config

import (
	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/crypto"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
)

// DefaultAggSigMeData returns the hex AGG_SIG_ME extra data of a network.
func DefaultAggSigMeData(network NetworkType) string {
	return crypto.Sha256([]byte("klingnet-dog/" + string(network))).String()
}

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Executor: ExecutorConfig{
			MaxCost: clvm.DefaultMaxCost,
		},
		Ledger: LedgerConfig{
			Backend: BackendBadger,
		},
		AggSigMe: DefaultAggSigMeData(Mainnet),
		Cache: CacheConfig{
			Puzzles: spend.DefaultModCacheSize,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// DefaultTestnet returns the default configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.AggSigMe = DefaultAggSigMeData(Testnet)
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}
