package main

import (
	"github.com/spf13/cobra"

	"github.com/Klingon-tech/klingnet-dog/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the dogctl configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Create the data directory and a default config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.EnsureDataDirs(a.cfg); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "config: %s\n", a.cfg.ConfigFile())
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				w := cmd.OutOrStdout()
				c := a.cfg
				printf(w, "network = %s\n", c.Network)
				printf(w, "datadir = %s\n", c.DataDir)
				printf(w, "executor.maxcost = %d\n", c.Executor.MaxCost)
				printf(w, "ledger.backend = %s\n", c.Ledger.Backend)
				printf(w, "ledger.path = %s\n", c.LedgerDir())
				printf(w, "agg_sig_me.data = %s\n", c.AggSigMe)
				printf(w, "cache.puzzles = %d\n", c.Cache.Puzzles)
				printf(w, "log.level = %s\n", c.Log.Level)
				printf(w, "log.file = %s\n", c.Log.File)
				printf(w, "log.json = %t\n", c.Log.JSON)
				return nil
			},
		},
	)
	return cmd
}
