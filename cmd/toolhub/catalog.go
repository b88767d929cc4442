package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolhub/internal/domain"
)

func newListCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	var (
		category string
		featured bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the merged tool catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, err := openApp(ctx, logger, opts)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			var tools []domain.Tool
			if featured {
				for _, tool := range application.Registry().Store().Featured() {
					tools = append(tools, tool)
				}
			} else {
				tools = application.Resolver.All()
			}

			if category != "" {
				parsed, ok := domain.ParseCategory(category)
				if !ok {
					return domain.E(domain.CodeInvalidArgument, "list", "unknown category "+category, nil)
				}
				filtered := tools[:0]
				for _, tool := range tools {
					if tool.Base().Category == parsed {
						filtered = append(filtered, tool)
					}
				}
				tools = filtered
			}

			return printTools(tools, opts.jsonOutput)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().BoolVar(&featured, "featured", false, "only featured registry tools")
	return cmd
}

func newSearchCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search tools by title, description or tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, err := openApp(ctx, logger, opts)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			hits := application.Resolver.Search(application.Resolver.All(), args[0])
			return printTools(hits, opts.jsonOutput)
		},
	}
}

func newShowCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	var withPayload bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one tool and record a view",
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
			if err := application.Ledger.RecordView(tool.Base().ID); err != nil {
				logger.Warn("recording view failed", zap.Error(err))
			}

			if err := printTool(tool, opts.jsonOutput); err != nil {
				return err
			}
			if withPayload {
				html, err := application.Resolver.LoadHTML(ctx, tool)
				if err != nil {
					return err
				}
				fmt.Println(html)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withPayload, "payload", false, "print the HTML payload")
	return cmd
}

func newRelatedCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "related <id>",
		Short: "List tools related by category or shared tags",
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
			related := application.Resolver.RelatedTo(tool, application.Resolver.All(), application.RelatedLimit())
			return printTools(related, opts.jsonOutput)
		},
	}
}
