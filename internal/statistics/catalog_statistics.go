// Package statistics summarizes the catalog against the learning state and the current filter.
package statistics

import (
	"github.com/google/uuid"

	"github.com/at-ishikawa/alg/internal/selection"
	"github.com/at-ishikawa/alg/internal/vocabulary"
)

// Marks answers learning state queries for a word.
type Marks interface {
	IsKnown(id uuid.UUID) bool
	IsIgnored(id uuid.UUID) bool
	IsFavorite(id uuid.UUID) bool
}

// CategoryStatistics holds the counts of one category
type CategoryStatistics struct {
	CategoryID uuid.UUID
	Name       string
	Total      int
	ByLevel    map[vocabulary.CEFRLevel]int
	Unleveled  int // Entries without a CEFR level
	Known      int
	Ignored    int
	Favorites  int
	Eligible   int // Entries passing the current filter
}

// AggregateStatistics holds totals across all categories
type AggregateStatistics struct {
	Total     int
	ByLevel   map[vocabulary.CEFRLevel]int
	Unleveled int
	Known     int
	Ignored   int
	Favorites int
	Eligible  int // Entries passing the current filter in the selected categories
}

// StatisticsResult holds both per-category and aggregate statistics
type StatisticsResult struct {
	Categories []CategoryStatistics
	Aggregate  AggregateStatistics
}

// CalculateStatistics counts every category of the catalog in catalog order.
// Eligible counts follow criteria and are zero for categories outside the selection.
func CalculateStatistics(catalog *vocabulary.Catalog, marks Marks, criteria selection.Criteria, language string) StatisticsResult {
	inScope := make(map[uuid.UUID]struct{})
	for _, category := range selection.ResolveScope(catalog, criteria.CategoryIDs) {
		inScope[category.ID] = struct{}{}
	}

	result := StatisticsResult{
		Categories: make([]CategoryStatistics, 0, len(catalog.Categories())),
		Aggregate:  AggregateStatistics{ByLevel: make(map[vocabulary.CEFRLevel]int)},
	}
	for _, category := range catalog.Categories() {
		stats := processCategory(category, marks, language)
		if _, ok := inScope[category.ID]; ok {
			stats.Eligible = len(selection.Filter(category.Entries, criteria, marks))
		}
		result.Categories = append(result.Categories, stats)
		addToAggregate(&result.Aggregate, stats)
	}
	return result
}

func processCategory(category vocabulary.Category, marks Marks, language string) CategoryStatistics {
	stats := CategoryStatistics{
		CategoryID: category.ID,
		Name:       category.Name(language),
		Total:      len(category.Entries),
		ByLevel:    make(map[vocabulary.CEFRLevel]int),
	}
	for _, entry := range category.Entries {
		if entry.Level == nil {
			stats.Unleveled++
		} else {
			stats.ByLevel[*entry.Level]++
		}
		if marks == nil {
			continue
		}
		if marks.IsKnown(entry.ID) {
			stats.Known++
		}
		if marks.IsIgnored(entry.ID) {
			stats.Ignored++
		}
		if marks.IsFavorite(entry.ID) {
			stats.Favorites++
		}
	}
	return stats
}

func addToAggregate(aggregate *AggregateStatistics, stats CategoryStatistics) {
	aggregate.Total += stats.Total
	aggregate.Unleveled += stats.Unleveled
	aggregate.Known += stats.Known
	aggregate.Ignored += stats.Ignored
	aggregate.Favorites += stats.Favorites
	aggregate.Eligible += stats.Eligible
	for level, count := range stats.ByLevel {
		aggregate.ByLevel[level] += count
	}
}
