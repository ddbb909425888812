package learning

import (
	"sort"

	"github.com/google/uuid"
)

// Mark is the learning state recorded for a word.
type Mark string

const (
	MarkKnown    Mark = "known"
	MarkIgnored  Mark = "ignored"
	MarkFavorite Mark = "favorite"
)

// Sets holds the word ids of each learning state. Known and ignored words are
// hidden from random and matching sessions; favorites do not affect eligibility.
type Sets struct {
	Known     map[uuid.UUID]struct{}
	Ignored   map[uuid.UUID]struct{}
	Favorites map[uuid.UUID]struct{}
}

// NewSets creates empty sets.
func NewSets() Sets {
	return Sets{
		Known:     make(map[uuid.UUID]struct{}),
		Ignored:   make(map[uuid.UUID]struct{}),
		Favorites: make(map[uuid.UUID]struct{}),
	}
}

func (s Sets) set(mark Mark) map[uuid.UUID]struct{} {
	switch mark {
	case MarkKnown:
		return s.Known
	case MarkIgnored:
		return s.Ignored
	case MarkFavorite:
		return s.Favorites
	}
	return nil
}

// Clone returns a deep copy.
func (s Sets) Clone() Sets {
	clone := NewSets()
	for _, mark := range []Mark{MarkKnown, MarkIgnored, MarkFavorite} {
		for id := range s.set(mark) {
			clone.set(mark)[id] = struct{}{}
		}
	}
	return clone
}

// IDs returns the ids with the mark, sorted for stable output.
func (s Sets) IDs(mark Mark) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.set(mark)))
	for id := range s.set(mark) {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// ParseMark parses a mark name.
func ParseMark(s string) (Mark, bool) {
	switch Mark(s) {
	case MarkKnown, MarkIgnored, MarkFavorite:
		return Mark(s), true
	}
	return "", false
}
