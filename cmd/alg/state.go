package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/alg/internal/bootstrap"
	"github.com/at-ishikawa/alg/internal/config"
	"github.com/at-ishikawa/alg/internal/learning"
	"github.com/at-ishikawa/alg/internal/vocabulary"
)

func newStateCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "state",
		Short: "Show or restore known, ignored and favorite words",
	}
	command.AddCommand(
		newStateListCommand(),
		newStateUnmarkCommand(),
	)
	return command
}

func newStateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <known|ignored|favorite>",
		Short: "List the words with a mark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mark, ok := learning.ParseMark(args[0])
			if !ok {
				return fmt.Errorf("invalid mark: %s", args[0])
			}
			return withLearningState(cmd.Context(), func(_ *config.Config, catalog *vocabulary.Catalog, state *learning.State) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(w, "ID\tWORD")
				for _, id := range state.IDs(mark) {
					word := "(not in the catalog)"
					if entry, ok := catalog.WordByID(id); ok {
						word = entry.Word
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\n", id, word)
				}
				return w.Flush()
			})
		},
	}
}

func newStateUnmarkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unmark <known|ignored|favorite> <id or word>",
		Short: "Remove a mark so the word is shown again",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mark, ok := learning.ParseMark(args[0])
			if !ok {
				return fmt.Errorf("invalid mark: %s", args[0])
			}
			return withLearningState(cmd.Context(), func(_ *config.Config, catalog *vocabulary.Catalog, state *learning.State) error {
				ids, err := resolveWordIDs(catalog, args[1])
				if err != nil {
					return err
				}
				for _, id := range ids {
					if err := state.Unmark(cmd.Context(), mark, id); err != nil {
						return fmt.Errorf("state.Unmark(%s, %s) > %w", mark, id, err)
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s words\n", id, mark)
				}
				return nil
			})
		},
	}
}

// resolveWordIDs accepts a word id, or a word or one of its forms.
func resolveWordIDs(catalog *vocabulary.Catalog, arg string) ([]uuid.UUID, error) {
	if id, err := uuid.Parse(arg); err == nil {
		return []uuid.UUID{id}, nil
	}
	ids := catalog.IDsByWord(arg)
	if len(ids) == 0 {
		return nil, fmt.Errorf("word not found: %s", arg)
	}
	return ids, nil
}

// withLearningState loads the catalog and the learning state and closes them after fn returns.
func withLearningState(ctx context.Context, fn func(cfg *config.Config, catalog *vocabulary.Catalog, state *learning.State) error) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	app := bootstrap.New()
	defer func() {
		if shutdownErr := app.Shutdown(context.Background()); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}()
	state, err := openLearningState(ctx, cfg, app)
	if err != nil {
		return err
	}
	return fn(cfg, catalog, state)
}
