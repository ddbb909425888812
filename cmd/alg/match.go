package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/alg/internal/bootstrap"
	"github.com/at-ishikawa/alg/internal/cli"
	"github.com/at-ishikawa/alg/internal/config"
	"github.com/at-ishikawa/alg/internal/matching"
	"github.com/at-ishikawa/alg/internal/schedule"
	"github.com/at-ishikawa/alg/internal/selection"
	"github.com/at-ishikawa/alg/internal/settings"
)

func newMatchCommand() *cobra.Command {
	var level levelFlag
	var seed int64

	command := &cobra.Command{
		Use:   "match",
		Short: "Match words with their translations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runMatch(cmd.Context(), cfg, string(level), seed, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	command.Flags().Var(&level, "level", "CEFR level or all. Defaults to the level in the settings")
	command.Flags().Int64Var(&seed, "seed", 0, "Random seed. 0 uses the current time")

	return command
}

func runMatch(ctx context.Context, cfg *config.Config, level string, seed int64, stdin io.Reader, stdout io.Writer) error {
	app := bootstrap.New()
	return app.Run(ctx, func(ctx context.Context) error {
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		state, err := openLearningState(ctx, cfg, app)
		if err != nil {
			return err
		}
		store, preferences, err := openSettings(cfg)
		if err != nil {
			return err
		}
		if err := preferences.Validate(); err != nil {
			return fmt.Errorf("invalid settings in %s: %w", cfg.Settings.File, err)
		}

		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		criteria := matchCriteria(preferences, level)
		engine := matching.NewEngine(matching.Options{
			Catalog:    catalog,
			Membership: state,
			Criteria:   criteria,
			BoardSize:  cfg.Matching.BoardSize,
			Randomizer: selection.NewRandomizer(seed),
			Scheduler:  schedule.Real{},
			Logger:     slog.Default(),
		})
		app.AddShutdownHook("matching game", func(ctx context.Context) error {
			engine.Close()
			return nil
		})

		unsubscribe := preferences.Subscribe(matchSettingsObserver(engine, criteria))
		defer unsubscribe()
		if err := store.Watch(); err != nil {
			slog.Warn("settings changes made outside of this session are ignored", "error", err)
		}

		engine.GeneratePairs(false)
		matchCLI := cli.NewMatchCLI(engine, stdin, stdout)
		if err := matchCLI.Run(ctx, matchCLI); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "You matched %d words.\n", matchCLI.Matches())
		return nil
	})
}

// matchCriteria reads the settings on every call. A non-empty level overrides the one in the settings.
func matchCriteria(values *settings.Settings, level string) matching.CriteriaSource {
	return func() selection.Criteria {
		criteria := values.Criteria(true)
		if level != "" {
			criteria.Level = level
		}
		return criteria
	}
}

type matchSettingsTarget interface {
	UpdateCriteria(previous, next selection.Criteria)
}

// matchSettingsObserver regenerates the board when a setting of the selection changes.
func matchSettingsObserver(engine matchSettingsTarget, criteria matching.CriteriaSource) settings.Observer {
	var mu sync.Mutex
	previous := criteria()
	return func(change settings.Change) {
		switch change.Key {
		case settings.KeySelectedCategories, settings.KeyLevel, settings.KeyIncludeLowerLevels, settings.KeyLanguage:
		default:
			return
		}

		mu.Lock()
		defer mu.Unlock()
		next := criteria()
		engine.UpdateCriteria(previous, next)
		previous = next
	}
}
