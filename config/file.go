package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
)

// LoadFile loads configuration from a .conf file. A missing file yields no
// values.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(value)
	case "datadir":
		cfg.DataDir = value

	// Execution
	case "executor.maxcost":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Executor.MaxCost = n

	// Ledger
	case "ledger.backend":
		cfg.Ledger.Backend = strings.ToLower(value)
	case "ledger.path":
		cfg.Ledger.Path = value

	// Signing
	case "agg_sig_me.data":
		cfg.AggSigMe = strings.ToLower(strings.TrimPrefix(value, "0x"))

	// Caches
	case "cache.puzzles":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Cache.Puzzles = n

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	content := `# Klingnet DOG driver configuration

# Network: mainnet or testnet
network = ` + string(network) + `

# Data directory (default: ~/.klingnet-dog)
# datadir = ~/.klingnet-dog

# ============================================================================
# Puzzle execution
# ============================================================================

# Cost limit for a single puzzle run
executor.maxcost = ` + strconv.FormatUint(clvm.DefaultMaxCost, 10) + `

# Deserialized puzzle mods cached per spend context
cache.puzzles = ` + strconv.Itoa(spend.DefaultModCacheSize) + `

# ============================================================================
# Local ledger
# ============================================================================

# Backend: memory (lost on exit) or badger
ledger.backend = badger
# ledger.path = ~/.klingnet-dog/` + string(network) + `/ledger

# Hex extra data bound into AGG_SIG_ME signatures (per network)
agg_sig_me.data = ` + DefaultAggSigMeData(network) + `

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
