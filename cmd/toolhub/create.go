package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"toolhub/internal/domain"
	"toolhub/internal/infra/export"
	"toolhub/internal/infra/session"
)

func newCreateCmd(logger *zap.Logger, opts *rootOptions) *cobra.Command {
	var (
		adjustments []string
		save        bool
		title       string
		description string
		category    string
		tags        []string
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "create <prompt>",
		Short: "Generate a new tool from a prompt",
		Long: `Create runs one authoring session: the prompt produces a draft,
each --adjust refines it, and the result is exported as an HTML file.
With --save the draft is also stored as a reusable user tool.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, err := openApp(ctx, logger, opts)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			sess := application.NewSession()
			defer sess.Close()

			if !sess.Start(args[0]) {
				return domain.E(domain.CodeInvalidArgument, "create", "prompt must not be blank", nil)
			}
			if err := sess.AwaitCompleted(ctx); err != nil {
				return err
			}

			for _, adjustment := range adjustments {
				if !sess.Adjust(adjustment) {
					return domain.E(domain.CodeInvalidArgument, "create", "adjustment must not be blank", nil)
				}
				if err := sess.AwaitCompleted(ctx); err != nil {
					return err
				}
			}

			filename, html, err := sess.Finalize()
			if err != nil {
				return err
			}
			path, err := export.NewWriter(outDir, logger).Write(filename, html)
			if err != nil {
				return err
			}

			result := map[string]string{"path": path}
			if save {
				saveOpts := session.SaveOptions{
					Title:       title,
					Description: description,
					Tags:        tags,
				}
				if category != "" {
					parsed, ok := domain.ParseCategory(category)
					if !ok {
						return domain.E(domain.CodeInvalidArgument, "create", "unknown category "+category, nil)
					}
					saveOpts.Category = parsed
				}
				tool, err := sess.SaveAsTool(application.Users, saveOpts)
				if err != nil {
					return err
				}
				result["id"] = tool.ID
				result["title"] = tool.Title
			}

			if opts.jsonOutput {
				return writeJSON(result)
			}
			fmt.Println(path)
			if id, ok := result["id"]; ok {
				fmt.Printf("saved as %s (%s)\n", id, result["title"])
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&adjustments, "adjust", nil, "refinement request, repeatable")
	cmd.Flags().BoolVar(&save, "save", false, "store the draft as a user tool")
	cmd.Flags().StringVar(&title, "title", "", "title for the saved tool")
	cmd.Flags().StringVar(&description, "description", "", "description for the saved tool")
	cmd.Flags().StringVar(&category, "category", "", "category for the saved tool")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags for the saved tool")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	return cmd
}
