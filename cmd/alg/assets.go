package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/alg/internal/assets"
	"github.com/at-ishikawa/alg/internal/bootstrap"
	"github.com/at-ishikawa/alg/internal/vocabulary"
)

func newAssetsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "assets",
		Short: "Manage the cached word audio",
	}
	command.AddCommand(
		newAssetsPrefetchCommand(),
		newAssetsPlayCommand(),
	)
	return command
}

func newAssetsPrefetchCommand() *cobra.Command {
	var concurrency int

	command := &cobra.Command{
		Use:   "prefetch <category id|all>",
		Short: "Download the word, example and form audio of a category for offline use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			categoryIDs, err := resolveCategoryIDs(catalog, args[0])
			if err != nil {
				return err
			}

			app := bootstrap.New()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				service := newAssetService(cfg, catalog, false, app)
				for _, categoryID := range categoryIDs {
					category, _ := catalog.Category(categoryID)
					result, err := service.PrefetchCategory(ctx, categoryID, concurrency)
					if err != nil {
						return fmt.Errorf("service.PrefetchCategory(%s) > %w", categoryID, err)
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d files cached, %d missing on the host\n", category.Name("en"), result.Ready, result.Missing)
				}
				return nil
			})
		},
	}
	command.Flags().IntVar(&concurrency, "concurrency", 4, "Number of parallel downloads")

	return command
}

func resolveCategoryIDs(catalog *vocabulary.Catalog, arg string) ([]uuid.UUID, error) {
	if arg == "all" {
		var ids []uuid.UUID
		for _, category := range catalog.Categories() {
			ids = append(ids, category.ID)
		}
		return ids, nil
	}
	id, err := uuid.Parse(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid category id: %s", arg)
	}
	if _, ok := catalog.Category(id); !ok {
		return nil, fmt.Errorf("category not found: %s", arg)
	}
	return []uuid.UUID{id}, nil
}

func newAssetsPlayCommand() *cobra.Command {
	var example int
	var form int

	command := &cobra.Command{
		Use:   "play <word or id>",
		Short: "Play the audio of a word, or of one of its examples or forms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if example < 0 || form < 0 {
				return fmt.Errorf("--example and --form must not be negative")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			ids, err := resolveWordIDs(catalog, args[0])
			if err != nil {
				return err
			}
			id := ids[0]

			app := bootstrap.New()
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				service := newAssetService(cfg, catalog, true, app)
				fileName := assets.WordFileName(id)
				switch {
				case example > 0:
					fileName = assets.ExampleFileName(id, example-1)
				case form > 0:
					fileName = assets.FormFileName(id, form-1)
				}
				// Fetch first so that a download failure is reported instead of only logged
				if _, err := service.Fetch(ctx, id, fileName); err != nil {
					return fmt.Errorf("service.Fetch(%s) > %w", fileName, err)
				}
				switch {
				case example > 0:
					service.PlayExample(id, example-1)
				case form > 0:
					service.PlayWordForm(id, form-1)
				default:
					service.Play(id)
				}
				service.Wait()
				return nil
			})
		},
	}
	command.Flags().IntVar(&example, "example", 0, "1-based example number. 0 plays the word")
	command.Flags().IntVar(&form, "form", 0, "1-based word form number. 0 plays the word")
	command.MarkFlagsMutuallyExclusive("example", "form")

	return command
}
