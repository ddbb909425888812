package learning

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// State is the in-memory learning state of the user, written through to a repository.
// Reads always observe the latest committed write.
type State struct {
	mu         sync.RWMutex
	sets       Sets
	repository StateRepository
}

// NewState loads the current sets from the repository.
func NewState(ctx context.Context, repository StateRepository) (*State, error) {
	sets, err := repository.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.Load() > %w", err)
	}
	return &State{
		sets:       sets,
		repository: repository,
	}, nil
}

func (s *State) has(mark Mark, id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sets.set(mark)[id]
	return ok
}

// IsKnown reports whether the word is marked as known.
func (s *State) IsKnown(id uuid.UUID) bool {
	return s.has(MarkKnown, id)
}

// IsIgnored reports whether the word is hidden.
func (s *State) IsIgnored(id uuid.UUID) bool {
	return s.has(MarkIgnored, id)
}

// IsFavorite reports whether the word is a favorite.
func (s *State) IsFavorite(id uuid.UUID) bool {
	return s.has(MarkFavorite, id)
}

// IsKnownOrHidden reports whether the word is excluded from sessions.
func (s *State) IsKnownOrHidden(id uuid.UUID) bool {
	return s.IsKnown(id) || s.IsIgnored(id)
}

// MarkKnown marks the word as known.
func (s *State) MarkKnown(ctx context.Context, id uuid.UUID) error {
	return s.update(ctx, func(sets Sets) {
		sets.Known[id] = struct{}{}
	})
}

// MarkIgnored hides the word from sessions.
func (s *State) MarkIgnored(ctx context.Context, id uuid.UUID) error {
	return s.update(ctx, func(sets Sets) {
		sets.Ignored[id] = struct{}{}
	})
}

// Unmark removes the mark from the word.
func (s *State) Unmark(ctx context.Context, mark Mark, id uuid.UUID) error {
	return s.update(ctx, func(sets Sets) {
		delete(sets.set(mark), id)
	})
}

// ToggleFavorite adds or removes the word from favorites and returns the new state.
func (s *State) ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error) {
	var favorite bool
	err := s.update(ctx, func(sets Sets) {
		if _, ok := sets.Favorites[id]; ok {
			delete(sets.Favorites, id)
			return
		}
		sets.Favorites[id] = struct{}{}
		favorite = true
	})
	return favorite, err
}

// Known returns the known word ids.
func (s *State) Known() []uuid.UUID {
	return s.ids(MarkKnown)
}

// Ignored returns the ignored word ids.
func (s *State) Ignored() []uuid.UUID {
	return s.ids(MarkIgnored)
}

// Favorites returns the favorite word ids.
func (s *State) Favorites() []uuid.UUID {
	return s.ids(MarkFavorite)
}

// IDs returns the ids with the mark.
func (s *State) IDs(mark Mark) []uuid.UUID {
	return s.ids(mark)
}

func (s *State) ids(mark Mark) []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets.IDs(mark)
}

// update applies fn to a copy and commits it only when the repository save succeeds.
func (s *State) update(ctx context.Context, fn func(sets Sets)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.sets.Clone()
	fn(next)
	if err := s.repository.Save(ctx, next); err != nil {
		return fmt.Errorf("repository.Save() > %w", err)
	}
	s.sets = next
	return nil
}
