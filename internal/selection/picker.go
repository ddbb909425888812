package selection

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/alg/internal/vocabulary"
)

// Randomizer is the random source used for picks and shuffles.
type Randomizer interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// lockedRand is safe for use from prefetch goroutines.
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomizer returns a Randomizer seeded with seed. A zero seed uses the current time.
func NewRandomizer(seed int64) Randomizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

func (r *lockedRand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd.Shuffle(n, swap)
}

// Shuffle returns a shuffled copy of entries.
func Shuffle(rnd Randomizer, entries []vocabulary.WordEntry) []vocabulary.WordEntry {
	shuffled := make([]vocabulary.WordEntry, len(entries))
	copy(shuffled, entries)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// Pick is a randomly chosen entry with the category it was drawn from.
type Pick struct {
	Entry      vocabulary.WordEntry
	CategoryID uuid.UUID
}

// Picker draws random words for the random word session.
type Picker struct {
	catalog    *vocabulary.Catalog
	membership Membership
	rnd        Randomizer
}

// NewPicker creates a new Picker.
func NewPicker(catalog *vocabulary.Catalog, membership Membership, rnd Randomizer) *Picker {
	return &Picker{
		catalog:    catalog,
		membership: membership,
		rnd:        rnd,
	}
}

type categoryChoice struct {
	useAll   bool
	category vocabulary.Category
	entries  []vocabulary.WordEntry
}

// Pick chooses a category uniformly among the selected ones (the sentinel counting
// as one choice), then an eligible entry uniformly inside it. Categories without
// eligible entries are never chosen. The placeholder entry is returned when
// nothing is eligible.
func (p *Picker) Pick(criteria Criteria) Pick {
	var choices []categoryChoice
	if criteria.UsesAllCategories() {
		choices = append(choices, categoryChoice{useAll: true})
	}

	fallbackID := vocabulary.AllCategoriesID
	seen := make(map[uuid.UUID]struct{})
	for _, id := range criteria.CategoryIDs {
		if id == vocabulary.AllCategoriesID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		category, ok := p.catalog.Category(id)
		if !ok {
			continue
		}
		if fallbackID == vocabulary.AllCategoriesID {
			fallbackID = category.ID
		}
		entries := Filter(category.Entries, criteria, p.membership)
		if len(entries) == 0 {
			continue
		}
		choices = append(choices, categoryChoice{category: category, entries: entries})
	}

	var eligibleAll []categoryChoice
	if criteria.UsesAllCategories() {
		for _, category := range p.catalog.Categories() {
			entries := Filter(category.Entries, criteria, p.membership)
			if len(entries) == 0 {
				continue
			}
			eligibleAll = append(eligibleAll, categoryChoice{category: category, entries: entries})
		}
		if len(eligibleAll) == 0 {
			choices = choices[1:]
		}
	}

	if len(choices) == 0 {
		return Pick{Entry: vocabulary.Placeholder(), CategoryID: fallbackID}
	}

	choice := choices[p.rnd.Intn(len(choices))]
	if choice.useAll {
		choice = eligibleAll[p.rnd.Intn(len(eligibleAll))]
	}
	return Pick{
		Entry:      choice.entries[p.rnd.Intn(len(choice.entries))],
		CategoryID: choice.category.ID,
	}
}
