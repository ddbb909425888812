// Package selection narrows the word catalog to the entries eligible for a session.
package selection

import (
	"github.com/google/uuid"

	"github.com/at-ishikawa/alg/internal/vocabulary"
)

// Criteria are the user-selected filter inputs of a session.
type Criteria struct {
	CategoryIDs        []uuid.UUID
	Level              string
	IncludeLowerLevels bool
	Language           string
	// RequireTranslation drops entries without a translation in Language.
	RequireTranslation bool
}

// Membership answers learning state queries.
type Membership interface {
	IsKnown(id uuid.UUID) bool
	IsIgnored(id uuid.UUID) bool
}

// UsesAllCategories reports whether the selection contains the all-categories sentinel.
func (c Criteria) UsesAllCategories() bool {
	for _, id := range c.CategoryIDs {
		if id == vocabulary.AllCategoriesID {
			return true
		}
	}
	return false
}

// AllowedLevels resolves the level filter to the set of allowed levels.
// An unknown level yields no allowed level.
func AllowedLevels(level string, includeLowerLevels bool) []vocabulary.CEFRLevel {
	if level == vocabulary.LevelAll {
		return vocabulary.AllCEFRLevels()
	}
	selected, err := vocabulary.ParseCEFRLevel(level)
	if err != nil {
		return nil
	}
	if !includeLowerLevels {
		return []vocabulary.CEFRLevel{selected}
	}
	return vocabulary.AllCEFRLevels()[:selected.Rank()+1]
}

// LevelMatches reports whether the entry passes the level filter.
// Entries without a level only pass when the filter is "all".
func LevelMatches(entry vocabulary.WordEntry, level string, allowed []vocabulary.CEFRLevel) bool {
	if entry.Level == nil {
		return level == vocabulary.LevelAll
	}
	for _, l := range allowed {
		if l == *entry.Level {
			return true
		}
	}
	return false
}

// ResolveScope returns the categories covered by the selection.
// Ids that are not in the catalog are skipped.
func ResolveScope(catalog *vocabulary.Catalog, categoryIDs []uuid.UUID) []vocabulary.Category {
	criteria := Criteria{CategoryIDs: categoryIDs}
	if criteria.UsesAllCategories() {
		return catalog.Categories()
	}

	var scope []vocabulary.Category
	seen := make(map[uuid.UUID]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if category, ok := catalog.Category(id); ok {
			scope = append(scope, category)
		}
	}
	return scope
}

// Filter applies the exclusion, translation and level steps to entries.
func Filter(entries []vocabulary.WordEntry, criteria Criteria, membership Membership) []vocabulary.WordEntry {
	allowed := AllowedLevels(criteria.Level, criteria.IncludeLowerLevels)

	var result []vocabulary.WordEntry
	for _, entry := range entries {
		if membership != nil && (membership.IsKnown(entry.ID) || membership.IsIgnored(entry.ID)) {
			continue
		}
		if criteria.RequireTranslation {
			if _, ok := entry.Translation(criteria.Language); !ok {
				continue
			}
		}
		if !LevelMatches(entry, criteria.Level, allowed) {
			continue
		}
		result = append(result, entry)
	}
	return result
}

// Eligible returns the entries of the selected categories that pass every filter.
// The order is not meaningful; callers shuffle before use.
func Eligible(catalog *vocabulary.Catalog, criteria Criteria, membership Membership) []vocabulary.WordEntry {
	var entries []vocabulary.WordEntry
	for _, category := range ResolveScope(catalog, criteria.CategoryIDs) {
		entries = append(entries, category.Entries...)
	}
	return Filter(entries, criteria, membership)
}

// EligibleOrPlaceholder is Eligible, substituting the placeholder entry for an empty result.
func EligibleOrPlaceholder(catalog *vocabulary.Catalog, criteria Criteria, membership Membership) []vocabulary.WordEntry {
	entries := Eligible(catalog, criteria, membership)
	if len(entries) == 0 {
		return []vocabulary.WordEntry{vocabulary.Placeholder()}
	}
	return entries
}
