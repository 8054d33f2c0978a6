package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
)

func TestSeverity_Ordering(t *testing.T) {
	t.Parallel()
	ordered := []domain.Severity{
		domain.SeverityNone,
		domain.SeverityMinimal,
		domain.SeverityLow,
		domain.SeverityModerate,
		domain.SeverityHigh,
	}
	for i := 1; i < len(ordered); i++ {
		assert.True(t, ordered[i].Worse(ordered[i-1]), "%s should be worse than %s", ordered[i], ordered[i-1])
	}
	assert.Equal(t, -1, domain.SeverityUnknown.Rank())
	assert.False(t, domain.SeverityUnknown.Worse(domain.SeverityNone))
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want domain.Severity
	}{
		{in: "none", want: domain.SeverityNone},
		{in: "minimal", want: domain.SeverityMinimal},
		{in: "LOW", want: domain.SeverityLow},
		{in: " moderate ", want: domain.SeverityModerate},
		{in: "high", want: domain.SeverityHigh},
		{in: "severe", want: domain.SeverityHigh},
		{in: "catastrophic", want: domain.SeverityModerate},
		{in: "", want: domain.SeverityModerate},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, domain.ParseSeverity(tc.in), "input %q", tc.in)
	}
}

func TestCategory_Valid(t *testing.T) {
	t.Parallel()
	for _, c := range []domain.Category{
		domain.CategoryCleanser, domain.CategoryTreatment, domain.CategorySerum,
		domain.CategoryMoisturizer, domain.CategorySunscreen,
	} {
		assert.True(t, c.Valid())
	}
	assert.False(t, domain.Category("toner").Valid())
	assert.False(t, domain.Category("").Valid())
}
