// Package config handles dogctl configuration.
//
// Settings come from three layers, later ones winning: network defaults,
// the config file in the data directory, and command-line flags.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Ledger backends.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Config holds driver and local ledger settings.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Puzzle execution
	Executor ExecutorConfig

	// Local ledger
	Ledger LedgerConfig

	// Hex extra data bound into every AGG_SIG_ME digest. Differs per
	// network so signatures cannot be replayed across networks.
	AggSigMe string `conf:"agg_sig_me.data"`

	Cache CacheConfig

	// Logging
	Log LogConfig
}

// ExecutorConfig bounds program execution.
type ExecutorConfig struct {
	MaxCost uint64 `conf:"executor.maxcost"`
}

// LedgerConfig selects where the local ledger keeps coin records.
type LedgerConfig struct {
	Backend string `conf:"ledger.backend"` // memory or badger
	Path    string `conf:"ledger.path"`    // badger directory (default: <datadir>/<network>/ledger)
}

// CacheConfig sizes in-memory caches.
type CacheConfig struct {
	Puzzles int `conf:"cache.puzzles"` // deserialized mods kept per spend context
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingnet-dog
//	macOS:   ~/Library/Application Support/KlingnetDog
//	Windows: %APPDATA%\KlingnetDog
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingnet-dog"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KlingnetDog")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "KlingnetDog")
		}
		return filepath.Join(home, "AppData", "Roaming", "KlingnetDog")
	default:
		return filepath.Join(home, ".klingnet-dog")
	}
}

// ChainDataDir returns the network-specific data directory.
func (c *Config) ChainDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// LedgerDir returns the badger directory of the local ledger.
func (c *Config) LedgerDir() string {
	if c.Ledger.Path != "" {
		return c.Ledger.Path
	}
	return filepath.Join(c.ChainDataDir(), "ledger")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "dogctl.conf")
}

// AggSigMeData decodes the configured AGG_SIG_ME extra data.
func (c *Config) AggSigMeData() ([]byte, error) {
	b, err := hex.DecodeString(c.AggSigMe)
	if err != nil {
		return nil, fmt.Errorf("agg_sig_me.data: %w", err)
	}
	return b, nil
}
