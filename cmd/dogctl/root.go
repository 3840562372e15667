package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/klingnet-dog/config"
	"github.com/Klingon-tech/klingnet-dog/internal/log"
	"github.com/Klingon-tech/klingnet-dog/pkg/clvm"
	"github.com/Klingon-tech/klingnet-dog/pkg/spend"
)

// app carries the state shared by every command.
type app struct {
	flags config.Flags
	cfg   *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "dogctl",
		Short:         "Drive DOG restricted-supply tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.flags.Network, "network", "", "Network type (mainnet or testnet)")
	f.StringVar(&a.flags.DataDir, "datadir", "", "Data directory path")
	f.StringVar(&a.flags.Config, "config", "", "Config file path (default: <datadir>/dogctl.conf)")
	f.StringVar(&a.flags.Backend, "ledger", "", "Ledger backend (memory or badger)")
	f.StringVar(&a.flags.LedgerPath, "ledger-path", "", "Badger ledger directory")
	f.Uint64Var(&a.flags.MaxCost, "max-cost", 0, "Cost limit for a single puzzle run")
	f.StringVar(&a.flags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	f.StringVar(&a.flags.LogFile, "log-file", "", "Also write JSON logs to this file")
	f.BoolVar(&a.flags.LogJSON, "log-json", false, "Log JSON to stderr")

	root.AddCommand(
		newAssetIDCmd(),
		newPuzzleHashCmd(),
		newInspectCmd(),
		newChildrenCmd(a),
		newDemoCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	a.flags.SetLogJSON = cmd.Flags().Changed("log-json")
	cfg, err := config.Load(&a.flags)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log.CLI.Debug().
		Str("network", string(cfg.Network)).
		Str("command", cmd.Name()).
		Msg("Config loaded")
	return nil
}

func (a *app) spendContext() *spend.Context {
	return spend.NewContext(spend.Options{
		MaxCost:      a.cfg.Executor.MaxCost,
		ModCacheSize: a.cfg.Cache.Puzzles,
	})
}

func (a *app) runner() *clvm.Runner {
	return clvm.NewRunner(a.cfg.Executor.MaxCost)
}

func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
