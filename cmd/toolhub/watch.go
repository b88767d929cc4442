package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow registry redeploys until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, err := openApp(ctx, logger, opts)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			state := application.Registry().Snapshot()
			fmt.Printf("watching registry, revision %d (%d tools)\n",
				state.Revision, len(state.Index.Tools))

			updates := application.Registry().Watch(ctx)
			for {
				select {
				case <-ctx.Done():
					return nil
				case update := <-updates:
					if opts.jsonOutput {
						if err := writeJSON(update.State); err != nil {
							return err
						}
						continue
					}
					fmt.Printf("registry revision %d (%d tools, source %s)\n",
						update.State.Revision, len(update.State.Index.Tools), update.Source)
				}
			}
		},
	}
}
