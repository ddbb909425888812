package vocabulary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Catalog is an indexed, read-only collection of categories.
type Catalog struct {
	categories         []Category
	entries            []WordEntry
	categoryIndex      map[uuid.UUID]int
	wordIndex          map[uuid.UUID]WordEntry
	categoryIDByWordID map[uuid.UUID]uuid.UUID
	idsByForm          map[string][]uuid.UUID
	words              []indexedTerm
	translations       map[string][]indexedTerm
}

type indexedTerm struct {
	term string
	id   uuid.UUID
}

// NewCatalog indexes the categories. It fails if an entry id is duplicated
// or a category uses the all-categories sentinel.
func NewCatalog(categories []Category) (*Catalog, error) {
	c := &Catalog{
		categories:         categories,
		categoryIndex:      make(map[uuid.UUID]int, len(categories)),
		wordIndex:          make(map[uuid.UUID]WordEntry),
		categoryIDByWordID: make(map[uuid.UUID]uuid.UUID),
		idsByForm:          make(map[string][]uuid.UUID),
		translations:       make(map[string][]indexedTerm),
	}

	for i, category := range categories {
		if category.ID == AllCategoriesID {
			return nil, fmt.Errorf("category %d uses the reserved all-categories id", i)
		}
		if _, ok := c.categoryIndex[category.ID]; ok {
			return nil, fmt.Errorf("duplicate category id %s", category.ID)
		}
		c.categoryIndex[category.ID] = i

		for _, entry := range category.Entries {
			if _, ok := c.wordIndex[entry.ID]; ok {
				return nil, fmt.Errorf("duplicate word id %s (%s)", entry.ID, entry.Word)
			}
			c.entries = append(c.entries, entry)
			c.wordIndex[entry.ID] = entry
			c.categoryIDByWordID[entry.ID] = category.ID
			c.indexEntry(entry)
		}
	}

	sort.Slice(c.words, func(i, j int) bool { return c.words[i].term < c.words[j].term })
	for lang := range c.translations {
		terms := c.translations[lang]
		sort.Slice(terms, func(i, j int) bool { return terms[i].term < terms[j].term })
	}
	return c, nil
}

func (c *Catalog) indexEntry(entry WordEntry) {
	c.idsByForm[entry.Word] = append(c.idsByForm[entry.Word], entry.ID)
	c.words = append(c.words, indexedTerm{term: strings.ToLower(entry.Word), id: entry.ID})
	for _, form := range entry.Forms {
		c.idsByForm[form.Form] = append(c.idsByForm[form.Form], entry.ID)
		c.words = append(c.words, indexedTerm{term: strings.ToLower(form.Form), id: entry.ID})
	}
	for lang, translation := range entry.Translations {
		if translation == "" {
			continue
		}
		c.translations[lang] = append(c.translations[lang], indexedTerm{term: strings.ToLower(translation), id: entry.ID})
	}
}

// Categories returns the categories in catalog order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// AllWords returns every entry in catalog order.
func (c *Catalog) AllWords() []WordEntry {
	return c.entries
}

// Category looks up a category by id.
func (c *Catalog) Category(id uuid.UUID) (Category, bool) {
	i, ok := c.categoryIndex[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// WordByID looks up an entry by id.
func (c *Catalog) WordByID(id uuid.UUID) (WordEntry, bool) {
	entry, ok := c.wordIndex[id]
	return entry, ok
}

// CategoryIDByWordID returns the category containing the entry.
func (c *Catalog) CategoryIDByWordID(id uuid.UUID) (uuid.UUID, bool) {
	categoryID, ok := c.categoryIDByWordID[id]
	return categoryID, ok
}

// IDsByWord returns the ids of entries whose word or inflected form is exactly form.
func (c *Catalog) IDsByWord(form string) []uuid.UUID {
	return c.idsByForm[form]
}

// EntriesStartingWith returns entries whose word or a form starts with prefix, case-insensitively.
func (c *Catalog) EntriesStartingWith(prefix string) []WordEntry {
	return c.lookupPrefix(c.words, prefix)
}

// EntriesMatchingTranslation returns entries whose translation in language starts with prefix.
func (c *Catalog) EntriesMatchingTranslation(prefix, language string) []WordEntry {
	return c.lookupPrefix(c.translations[language], prefix)
}

func (c *Catalog) lookupPrefix(terms []indexedTerm, prefix string) []WordEntry {
	prefix = strings.ToLower(prefix)
	start := sort.Search(len(terms), func(i int) bool { return terms[i].term >= prefix })

	seen := make(map[uuid.UUID]struct{})
	var result []WordEntry
	for _, term := range terms[start:] {
		if !strings.HasPrefix(term.term, prefix) {
			break
		}
		if _, ok := seen[term.id]; ok {
			continue
		}
		seen[term.id] = struct{}{}
		result = append(result, c.wordIndex[term.id])
	}
	return result
}
