package recommend

import (
	"fmt"
	"strings"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/normalize"
)

// DefaultMatchReason is used when no rule fires for a product.
const DefaultMatchReason = "Recommended for your skin profile"

// Score assigns every catalog product an additive match score and a
// justification built from the fragments of each matching rule, in rule
// evaluation order, joined with "; ".
//
// An empty catalog is a valid "no recommendations" state and returns an
// empty slice. A product with an unknown category is a catalog
// data-quality bug and fails loudly with ErrInvalidArgument instead of
// being silently scored as zero.
func Score(a domain.Analysis, catalog []domain.Product) ([]domain.ScoredProduct, error) {
	out := make([]domain.ScoredProduct, 0, len(catalog))
	conditions := normalize.Conditions(a)
	for _, p := range catalog {
		if !p.Category.Valid() {
			return nil, fmt.Errorf("%w: product %q has unknown category %q", domain.ErrInvalidArgument, p.ID, p.Category)
		}
		out = append(out, scoreProduct(a, conditions, p))
	}
	return out, nil
}

func scoreProduct(a domain.Analysis, conditions []domain.Condition, p domain.Product) domain.ScoredProduct {
	desc := strings.ToLower(p.Description)
	total := 0
	var reasons []string

	apply := func(aw award) {
		if aw.Category != "" && aw.Category != p.Category {
			return
		}
		if len(aw.DescAny) > 0 && !containsAny(desc, aw.DescAny) {
			return
		}
		total += aw.Points
		reasons = append(reasons, aw.Reason)
	}

	// 1. Health-score bucket (mutually exclusive).
	for _, b := range healthBuckets {
		if a.HealthScore >= b.Min && a.HealthScore <= b.Max {
			for _, aw := range b.Awards {
				apply(aw)
			}
			break
		}
	}

	// 2. Condition-keyword rules; each group fires at most once per
	// condition, and every matching condition contributes independently.
	for _, c := range conditions {
		name := strings.ToLower(c.Name)
		for _, rule := range conditionRules {
			if !containsAny(name, rule.Triggers) {
				continue
			}
			for _, aw := range rule.Awards {
				apply(aw)
			}
		}
	}

	// 3. Category baseline, once per product.
	for _, aw := range baselineAwards {
		apply(aw)
	}

	// 4. Quality and affordability.
	for _, aw := range qualityAwards {
		apply(aw)
	}
	if p.Price < affordabilityThreshold {
		total++
		reasons = append(reasons, "accessible price point")
	}

	reason := DefaultMatchReason
	if len(reasons) > 0 {
		reason = strings.Join(reasons, "; ")
	}
	return domain.ScoredProduct{Product: p, Score: total, MatchReason: reason}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
