package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolhub/internal/infra/config"
)

func newInitCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(logger).Load(opts.configPath, config.Options{AllowCreate: true})
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cfg)
			}
			fmt.Printf("config ready at %s\n", opts.configPath)
			return nil
		},
	}
}
