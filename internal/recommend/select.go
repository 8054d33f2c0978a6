package recommend

import (
	"sort"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
)

const (
	// MaxRecommendations caps the final list length.
	MaxRecommendations = 6
	// categoryCap limits how many products per category the first
	// selection pass may admit.
	categoryCap = 2
)

// Select picks the final recommendation list from scored products.
//
// The list is stably sorted by descending score (ties keep catalog
// order), then walked twice: the first pass admits a product only while
// its category has fewer than two admissions, the second pass backfills
// remaining slots by raw score ignoring the cap. High scorers are never
// dropped outright by the cap; they reappear in the backfill. Output
// length is min(MaxRecommendations, len(scored)).
func Select(scored []domain.ScoredProduct) []domain.ScoredProduct {
	ranked := make([]domain.ScoredProduct, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	selected := make([]domain.ScoredProduct, 0, MaxRecommendations)
	taken := make(map[string]bool, MaxRecommendations)
	perCategory := make(map[domain.Category]int)

	for _, p := range ranked {
		if len(selected) == MaxRecommendations {
			break
		}
		if perCategory[p.Category] >= categoryCap {
			continue
		}
		selected = append(selected, p)
		taken[p.ID] = true
		perCategory[p.Category]++
	}

	// Backfill: the cap left slots open, fill them by raw score.
	for _, p := range ranked {
		if len(selected) == MaxRecommendations {
			break
		}
		if taken[p.ID] {
			continue
		}
		selected = append(selected, p)
		taken[p.ID] = true
	}

	return selected
}
