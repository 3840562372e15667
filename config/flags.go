package config

import (
	"fmt"
	"os"
	"strings"
)

// Flags holds command-line overrides. The CLI binds these to its
// persistent flags; zero values leave the file or default value in place.
type Flags struct {
	// Core
	Network string
	DataDir string
	Config  string

	// Ledger
	Backend    string
	LedgerPath string

	// Execution
	MaxCost uint64

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Explicitly-set bool flags (for true/false overrides).
	SetLogJSON bool
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	// Core
	if f.Network != "" {
		cfg.Network = NetworkType(strings.ToLower(f.Network))
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// Ledger
	if f.Backend != "" {
		cfg.Ledger.Backend = strings.ToLower(f.Backend)
	}
	if f.LedgerPath != "" {
		cfg.Ledger.Path = f.LedgerPath
	}

	// Execution
	if f.MaxCost != 0 {
		cfg.Executor.MaxCost = f.MaxCost
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// Load builds the effective configuration:
// 1. Network defaults
// 2. Config file (flags.Config, or dogctl.conf in the data directory)
// 3. Command-line flags
//
// Unlike EnsureDataDirs, Load never touches the filesystem beyond reading
// the config file.
func Load(f *Flags) (*Config, error) {
	if f == nil {
		f = &Flags{}
	}

	// Determine network first (needed for defaults)
	network := Mainnet
	if strings.ToLower(f.Network) == string(Testnet) {
		network = Testnet
	}
	cfg := Default(network)
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	configPath := f.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}
	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}
	ApplyFlags(cfg, f)

	// The network may have been switched by the file or a flag; follow it
	// unless the signing data was set explicitly.
	if _, ok := fileValues["agg_sig_me.data"]; !ok && cfg.Network != network {
		cfg.AggSigMe = DefaultAggSigMeData(cfg.Network)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. It is idempotent.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.ChainDataDir(),
		cfg.LogsDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}
