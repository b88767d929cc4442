package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolhub/internal/domain"
)

func newDeleteCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, err := openApp(ctx, logger, opts)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			id := args[0]
			if _, ok := application.Registry().Store().GetByID(id); ok {
				return domain.E(domain.CodeInvalidArgument, "delete", "registry tools cannot be deleted", nil)
			}
			if err := application.Users.Delete(id); err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(map[string]string{"deleted": id})
			}
			fmt.Printf("deleted %s\n", id)
			return nil
		},
	}
}
