package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/alg/internal/bootstrap"
	"github.com/at-ishikawa/alg/internal/cli"
	"github.com/at-ishikawa/alg/internal/config"
	"github.com/at-ishikawa/alg/internal/learning"
	"github.com/at-ishikawa/alg/internal/randomword"
	"github.com/at-ishikawa/alg/internal/schedule"
	"github.com/at-ishikawa/alg/internal/selection"
	"github.com/at-ishikawa/alg/internal/settings"
)

func newWordsCommand() *cobra.Command {
	var seed int64

	command := &cobra.Command{
		Use:   "words",
		Short: "Review random words of the selected categories one card at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runWords(cmd.Context(), cfg, seed, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	command.Flags().Int64Var(&seed, "seed", 0, "Random seed. 0 uses the current time")

	return command
}

func runWords(ctx context.Context, cfg *config.Config, seed int64, stdin io.Reader, stdout io.Writer) error {
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

		goal := learning.NewGoalManager(preferences, time.Now)
		if err := goal.ResetIfNewDay(); err != nil {
			return fmt.Errorf("goal.ResetIfNewDay() > %w", err)
		}

		audio := newAssetService(cfg, catalog, true, app)
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rnd := selection.NewRandomizer(seed)
		engine := randomword.NewEngine(randomword.Options{
			Picker: selection.NewPicker(catalog, state, rnd),
			Criteria: func() selection.Criteria {
				return preferences.Criteria(false)
			},
			Membership:  state,
			Goal:        goal,
			Audio:       audio,
			Scheduler:   schedule.Real{},
			Randomizer:  rnd,
			Logger:      slog.Default(),
			Preferences: wordsPreferences(preferences),
		})
		app.AddShutdownHook("random word session", func(ctx context.Context) error {
			engine.Close()
			engine.Wait()
			return nil
		})

		unsubscribe := preferences.Subscribe(wordsSettingsObserver(engine, preferences))
		defer unsubscribe()
		if err := store.Watch(); err != nil {
			slog.Warn("settings changes made outside of this session are ignored", "error", err)
		}

		engine.Initialize(ctx)
		wordsCLI := cli.NewWordsCLI(engine, state, goal, preferences, stdin, stdout)
		return wordsCLI.Run(ctx, wordsCLI)
	})
}

func wordsPreferences(values *settings.Settings) randomword.Preferences {
	return randomword.Preferences{
		PlaySound:             values.PlaySound(),
		ShowExamplesAfterWord: values.ShowExamplesAfterWord(),
		ExamplesToShow:        values.ExamplesToShow(),
	}
}

type wordsSettingsTarget interface {
	UpdateCriteria()
	SetPreferences(preferences randomword.Preferences)
}

// wordsSettingsObserver applies changed settings to a running session.
// The translation language is read on every card, so it needs no update.
func wordsSettingsObserver(engine wordsSettingsTarget, values *settings.Settings) settings.Observer {
	return func(change settings.Change) {
		switch change.Key {
		case settings.KeySelectedCategories, settings.KeyLevel, settings.KeyIncludeLowerLevels:
			slog.Debug("selection changed", "key", change.Key, "value", change.New)
			engine.UpdateCriteria()
		case settings.KeyPlaySound, settings.KeyShowExamples, settings.KeyExamplesToShow:
			engine.SetPreferences(wordsPreferences(values))
		}
	}
}
