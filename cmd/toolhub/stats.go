package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newStatsCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-tool usage counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, err := openApp(ctx, logger, opts)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			stats := application.Ledger.GetAll()
			if opts.jsonOutput {
				return writeJSON(stats)
			}
			for _, stat := range stats {
				fmt.Printf("%-28s views=%-5d downloads=%-5d lastUsed=%s\n",
					stat.ToolID, stat.Views, stat.Downloads, stat.LastUsed.Format("2006-01-02 15:04:05"))
			}
			fmt.Printf("%d tracked tool(s)\n", len(stats))
			return nil
		},
	}
}
