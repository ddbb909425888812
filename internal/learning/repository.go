// Package learning provides the per-word learning state and the daily goal progress.
package learning

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/learning/mock_repository.go -package=mock_learning

// StateRepository persists the learning state sets.
type StateRepository interface {
	Load(ctx context.Context) (Sets, error)
	Save(ctx context.Context, sets Sets) error
}

// WordState is a row of the word_states table.
type WordState struct {
	WordID string `db:"word_id"`
	State  string `db:"state"`
}

// DBStateRepository implements StateRepository using MySQL or SQLite.
type DBStateRepository struct {
	db *sqlx.DB
}

// NewDBStateRepository creates a new DBStateRepository.
func NewDBStateRepository(db *sqlx.DB) *DBStateRepository {
	return &DBStateRepository{db: db}
}

// Load reads every word state.
func (r *DBStateRepository) Load(ctx context.Context) (Sets, error) {
	var rows []WordState
	if err := r.db.SelectContext(ctx, &rows, "SELECT word_id, state FROM word_states ORDER BY word_id"); err != nil {
		return Sets{}, fmt.Errorf("db.SelectContext(word_states) > %w", err)
	}

	sets := NewSets()
	for _, row := range rows {
		mark, ok := ParseMark(row.State)
		if !ok {
			return Sets{}, fmt.Errorf("unknown state %q for word %s", row.State, row.WordID)
		}
		id, err := uuid.Parse(row.WordID)
		if err != nil {
			return Sets{}, fmt.Errorf("uuid.Parse(%s) > %w", row.WordID, err)
		}
		sets.set(mark)[id] = struct{}{}
	}
	return sets, nil
}

// Save replaces every word state in a single transaction.
func (r *DBStateRepository) Save(ctx context.Context, sets Sets) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM word_states"); err != nil {
		return fmt.Errorf("tx.ExecContext(delete word_states) > %w", err)
	}
	for _, mark := range []Mark{MarkKnown, MarkIgnored, MarkFavorite} {
		for _, id := range sets.IDs(mark) {
			if _, err = tx.ExecContext(ctx,
				"INSERT INTO word_states (word_id, state) VALUES (?, ?)",
				id.String(), string(mark)); err != nil {
				return fmt.Errorf("tx.ExecContext(insert word_state) > %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}
