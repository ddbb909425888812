package randomword

import (
	"github.com/google/uuid"

	"github.com/at-ishikawa/alg/internal/vocabulary"
)

type Kind int

const (
	KindWord Kind = iota
	KindExample
)

func (k Kind) String() string {
	if k == KindExample {
		return "example"
	}
	return "word"
}

// Item is one shown card: a word, or one example sentence of a word.
type Item struct {
	Kind       Kind
	Entry      vocabulary.WordEntry
	CategoryID uuid.UUID
	// ExampleIndex is the zero-based example of Entry. It is only set for KindExample.
	ExampleIndex int
}

func WordItem(entry vocabulary.WordEntry, categoryID uuid.UUID) Item {
	return Item{Kind: KindWord, Entry: entry, CategoryID: categoryID}
}

func ExampleItem(entry vocabulary.WordEntry, categoryID uuid.UUID, index int) Item {
	return Item{Kind: KindExample, Entry: entry, CategoryID: categoryID, ExampleIndex: index}
}

// History is the ordered list of shown items with a cursor.
// The cursor always points at an existing item.
type History struct {
	items []Item
	index int
}

func NewHistory(first Item) *History {
	return &History{items: []Item{first}}
}

func (h *History) Current() Item {
	return h.items[h.index]
}

func (h *History) Index() int {
	return h.index
}

func (h *History) Len() int {
	return len(h.items)
}

// Items returns a copy of every item.
func (h *History) Items() []Item {
	items := make([]Item, len(h.items))
	copy(items, h.items)
	return items
}

// Forward moves to the next recorded item, if any.
func (h *History) Forward() (Item, bool) {
	if h.index+1 >= len(h.items) {
		return Item{}, false
	}
	h.index++
	return h.items[h.index], true
}

// Back moves to the previous item. It is a no-op at the first item.
func (h *History) Back() (Item, bool) {
	if h.index == 0 {
		return Item{}, false
	}
	h.index--
	return h.items[h.index], true
}

// Append drops the items after the cursor, adds item and moves the cursor to it.
func (h *History) Append(item Item) {
	h.items = append(h.items[:h.index+1], item)
	h.index++
}

// Reset replaces the whole history with first.
func (h *History) Reset(first Item) {
	h.items = []Item{first}
	h.index = 0
}
