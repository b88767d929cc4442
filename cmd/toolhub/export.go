package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolhub/internal/infra/export"
)

func newExportCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a tool's HTML payload and record a download",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, err := openApp(ctx, logger, opts)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			tool, err := application.Resolver.Resolve(args[0])
			if err != nil {
				return err
			}
			html, err := application.Resolver.LoadHTML(ctx, tool)
			if err != nil {
				return err
			}

			writer := export.NewWriter(outDir, logger)
			path, err := writer.Write(export.Filename(tool), html)
			if err != nil {
				return err
			}
			if err := application.Ledger.RecordDownload(tool.Base().ID); err != nil {
				logger.Warn("recording download failed", zap.Error(err))
			}

			if opts.jsonOutput {
				return writeJSON(map[string]string{"path": path})
			}
			fmt.Println(path)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	return cmd
}
