package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"toolhub/internal/app"
	"toolhub/internal/infra/config"
	"toolhub/internal/infra/telemetry"
)

type rootOptions struct {
	configPath string
	jsonOutput bool
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	opts := rootOptions{
		configPath: "toolhub.yaml",
	}

	root := &cobra.Command{
		Use:   "toolhub",
		Short: "Catalog and authoring workbench for self-contained HTML tools",
	}
	root.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ToLower(name))
	})

	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "path to config file")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")

	root.AddCommand(
		newInitCmd(logger, &opts),
		newListCmd(logger, &opts),
		newSearchCmd(logger, &opts),
		newShowCmd(logger, &opts),
		newRelatedCmd(logger, &opts),
		newExportCmd(logger, &opts),
		newCreateCmd(logger, &opts),
		newDeleteCmd(logger, &opts),
		newStatsCmd(logger, &opts),
		newWatchCmd(logger, &opts),
	)

	return root
}

// openApp loads the config and wires the application for one command.
func openApp(ctx context.Context, logger *zap.Logger, opts *rootOptions) (*app.Application, error) {
	cfg, err := config.NewLoader(logger).Load(opts.configPath, config.Options{})
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger, app.Options{
		Metrics: telemetry.NewPrometheusMetrics(nil),
	})
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
