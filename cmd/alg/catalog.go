package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/alg/internal/config"
	"github.com/at-ishikawa/alg/internal/export"
	"github.com/at-ishikawa/alg/internal/learning"
	"github.com/at-ishikawa/alg/internal/selection"
	"github.com/at-ishikawa/alg/internal/statistics"
	"github.com/at-ishikawa/alg/internal/vocabulary"
)

func newCatalogCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the word catalog",
	}
	command.AddCommand(
		newCatalogStatsCommand(),
		newCatalogSearchCommand(),
		newCatalogExportCommand(),
		newCatalogVoicesCommand(),
	)
	return command
}

// selectedCriteria returns the criteria of the settings. A non-empty level overrides the one in the settings.
func selectedCriteria(cfg *config.Config, level string) (selection.Criteria, error) {
	_, values, err := openSettings(cfg)
	if err != nil {
		return selection.Criteria{}, err
	}
	criteria := values.Criteria(false)
	if level != "" {
		criteria.Level = level
	}
	return criteria, nil
}

func newCatalogStatsCommand() *cobra.Command {
	var level levelFlag

	command := &cobra.Command{
		Use:   "stats",
		Short: "Count the words of each category by level and learning state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLearningState(cmd.Context(), func(cfg *config.Config, catalog *vocabulary.Catalog, state *learning.State) error {
				criteria, err := selectedCriteria(cfg, string(level))
				if err != nil {
					return err
				}
				result := statistics.CalculateStatistics(catalog, state, criteria, criteria.Language)
				return writeStatistics(cmd.OutOrStdout(), result)
			})
		},
	}
	command.Flags().Var(&level, "level", "CEFR level or all used for the eligible count. Defaults to the level in the settings")

	return command
}

func writeStatistics(output io.Writer, result statistics.StatisticsResult) error {
	levels := vocabulary.AllCEFRLevels()

	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := "CATEGORY\tTOTAL\t"
	for _, level := range levels {
		header += level.String() + "\t"
	}
	_, _ = fmt.Fprintln(w, header+"OTHER\tKNOWN\tIGNORED\tFAVORITES\tELIGIBLE\t")

	row := func(name string, total int, byLevel map[vocabulary.CEFRLevel]int, unleveled, known, ignored, favorites, eligible int) {
		line := name + "\t" + strconv.Itoa(total) + "\t"
		for _, level := range levels {
			line += strconv.Itoa(byLevel[level]) + "\t"
		}
		_, _ = fmt.Fprintf(w, "%s%d\t%d\t%d\t%d\t%d\t\n", line, unleveled, known, ignored, favorites, eligible)
	}
	for _, category := range result.Categories {
		row(category.Name, category.Total, category.ByLevel, category.Unleveled, category.Known, category.Ignored, category.Favorites, category.Eligible)
	}
	aggregate := result.Aggregate
	row("Total", aggregate.Total, aggregate.ByLevel, aggregate.Unleveled, aggregate.Known, aggregate.Ignored, aggregate.Favorites, aggregate.Eligible)

	return w.Flush()
}

func newCatalogSearchCommand() *cobra.Command {
	var byTranslation bool
	var language string

	command := &cobra.Command{
		Use:   "search <prefix>",
		Short: "Find words or translations starting with a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			if language == "" {
				_, values, err := openSettings(cfg)
				if err != nil {
					return err
				}
				language = values.Language()
			}

			var entries []vocabulary.WordEntry
			if byTranslation {
				entries = catalog.EntriesMatchingTranslation(args[0], language)
			} else {
				entries = catalog.EntriesStartingWith(args[0])
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No words start with %q\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tWORD\tLEVEL\tTRANSLATION\tCATEGORY")
			for _, entry := range entries {
				translation, ok := entry.Translation(language)
				if !ok {
					translation = "-"
				}
				level := "-"
				if entry.Level != nil {
					level = entry.Level.String()
				}
				categoryName := ""
				if categoryID, ok := catalog.CategoryIDByWordID(entry.ID); ok {
					if category, ok := catalog.Category(categoryID); ok {
						categoryName = category.Name(language)
					}
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", entry.ID, entry.Word, level, translation, categoryName)
			}
			return w.Flush()
		},
	}
	command.Flags().BoolVar(&byTranslation, "translation", false, "Search the translations instead of the words")
	command.Flags().StringVar(&language, "language", "", "Translation language. Defaults to the language in the settings")

	return command
}

func newCatalogExportCommand() *cobra.Command {
	var level levelFlag
	var templatePath string
	var outputPath string

	command := &cobra.Command{
		Use:   "export",
		Short: "Write the words still to learn in the selected categories as Markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLearningState(cmd.Context(), func(cfg *config.Config, catalog *vocabulary.Catalog, state *learning.State) error {
				criteria, err := selectedCriteria(cfg, string(level))
				if err != nil {
					return err
				}
				list := export.NewWordList(catalog, criteria, state, time.Now())

				output := cmd.OutOrStdout()
				if outputPath != "" {
					file, err := os.Create(outputPath)
					if err != nil {
						return fmt.Errorf("os.Create(%s) > %w", outputPath, err)
					}
					defer func() {
						_ = file.Close()
					}()
					output = file
				}
				if err := export.WriteWordList(output, templatePath, list, slog.Default()); err != nil {
					return fmt.Errorf("export.WriteWordList() > %w", err)
				}
				if outputPath != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d words to %s\n", list.Total, outputPath)
				}
				return nil
			})
		},
	}
	command.Flags().Var(&level, "level", "CEFR level or all. Defaults to the level in the settings")
	command.Flags().StringVar(&templatePath, "template", "", "Go template file. Defaults to the built-in Markdown template")
	command.Flags().StringVarP(&outputPath, "output", "o", "", "Output file. Defaults to stdout")

	return command
}

func newCatalogVoicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the voices the audio was recorded with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			voices, err := vocabulary.NewReader().ReadVoices(cfg.Catalog.VoicesFile)
			if err != nil {
				return fmt.Errorf("vocabulary.ReadVoices() > %w", err)
			}
			if len(voices) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No voices are configured.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tSAMPLE")
			for _, voice := range voices {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", voice.ID, voice.VoiceName, voice.Provider, voice.SampleURL)
			}
			return w.Flush()
		},
	}
}
