package recommend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/recommend"
)

func scored(id string, cat domain.Category, score int) domain.ScoredProduct {
	return domain.ScoredProduct{
		Product: domain.Product{ID: id, Name: id, Category: cat},
		Score:   score,
	}
}

func categoryCounts(list []domain.ScoredProduct) map[domain.Category]int {
	counts := make(map[domain.Category]int)
	for _, p := range list {
		counts[p.Category]++
	}
	return counts
}

func TestSelect_CategoryCap(t *testing.T) {
	t.Parallel()
	input := []domain.ScoredProduct{
		scored("c1", domain.CategoryCleanser, 30),
		scored("c2", domain.CategoryCleanser, 28),
		scored("c3", domain.CategoryCleanser, 26),
		scored("t1", domain.CategoryTreatment, 24),
		scored("s1", domain.CategorySerum, 22),
		scored("m1", domain.CategoryMoisturizer, 20),
		scored("su1", domain.CategorySunscreen, 18),
		scored("t2", domain.CategoryTreatment, 16),
	}
	got := recommend.Select(input)

	require.Len(t, got, 6)
	counts := categoryCounts(got)
	for cat, n := range counts {
		assert.LessOrEqual(t, n, 2, "category %s over cap", cat)
	}
	// c3 loses its slot to diversity even though it outscores t1.
	ids := []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID, got[4].ID, got[5].ID}
	assert.Equal(t, []string{"c1", "c2", "t1", "s1", "m1", "su1"}, ids)
}

func TestSelect_BackfillIgnoresCap(t *testing.T) {
	t.Parallel()
	// Only two categories with positive scores: the cap admits four, the
	// backfill tops the list up to six by raw score.
	input := []domain.ScoredProduct{
		scored("c1", domain.CategoryCleanser, 30),
		scored("c2", domain.CategoryCleanser, 29),
		scored("c3", domain.CategoryCleanser, 28),
		scored("c4", domain.CategoryCleanser, 27),
		scored("t1", domain.CategoryTreatment, 26),
		scored("t2", domain.CategoryTreatment, 25),
		scored("t3", domain.CategoryTreatment, 24),
	}
	got := recommend.Select(input)

	require.Len(t, got, 6)
	ids := []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID, got[4].ID, got[5].ID}
	// First pass: c1, c2, t1, t2. Backfill by raw score: c3, c4.
	assert.Equal(t, []string{"c1", "c2", "t1", "t2", "c3", "c4"}, ids)
	assert.Equal(t, 4, categoryCounts(got)[domain.CategoryCleanser])
}

func TestSelect_LengthContract(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		n    int
		want int
	}{
		{name: "empty", n: 0, want: 0},
		{name: "fewer than six", n: 4, want: 4},
		{name: "exactly six", n: 6, want: 6},
		{name: "more than six", n: 11, want: 6},
	}
	categories := []domain.Category{
		domain.CategoryCleanser, domain.CategoryTreatment, domain.CategorySerum,
		domain.CategoryMoisturizer, domain.CategorySunscreen,
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var input []domain.ScoredProduct
			for i := 0; i < tc.n; i++ {
				input = append(input, scored(string(rune('a'+i)), categories[i%len(categories)], tc.n-i))
			}
			assert.Len(t, recommend.Select(input), tc.want)
		})
	}
}

func TestSelect_TiesKeepCatalogOrder(t *testing.T) {
	t.Parallel()
	input := []domain.ScoredProduct{
		scored("first", domain.CategoryCleanser, 10),
		scored("second", domain.CategoryTreatment, 10),
		scored("third", domain.CategorySerum, 10),
	}
	got := recommend.Select(input)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "third", got[2].ID)
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	t.Parallel()
	input := []domain.ScoredProduct{
		scored("low", domain.CategoryCleanser, 1),
		scored("high", domain.CategoryTreatment, 9),
	}
	_ = recommend.Select(input)
	assert.Equal(t, "low", input[0].ID)
	assert.Equal(t, "high", input[1].ID)
}

func TestSelect_NoConditionsStillRecommendsEssentials(t *testing.T) {
	t.Parallel()
	// All-defaults record: only the health bucket and baselines fire, so
	// cleanser, moisturizer, and sunscreen stay recommendable.
	catalog := []domain.Product{
		product("c", domain.CategoryCleanser, "", 60),
		product("m", domain.CategoryMoisturizer, "", 60),
		product("su", domain.CategorySunscreen, "", 60),
	}
	sp, err := recommend.Score(domain.Analysis{}, catalog)
	require.NoError(t, err)
	got := recommend.Select(sp)
	require.Len(t, got, 3)
	for _, p := range got {
		assert.Positive(t, p.Score)
	}
}
