package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/normalize"
)

func TestConditions_IncludesPrimaryWhenNotDetected(t *testing.T) {
	t.Parallel()
	a := domain.Analysis{
		PrimaryCondition: &domain.Condition{Name: "melasma", Confidence: 64, Severity: domain.SeverityLow},
		DetectedConditions: []domain.Condition{
			{Name: "acne", Confidence: 70, Severity: domain.SeverityModerate},
		},
	}
	got := normalize.Conditions(a)
	require.Len(t, got, 2)
	assert.Equal(t, "acne", got[0].Name)
	assert.Equal(t, "melasma", got[1].Name)
}

func TestConditions_SkipsPrimaryDuplicate(t *testing.T) {
	t.Parallel()
	a := domain.Analysis{
		PrimaryCondition: &domain.Condition{Name: "acne", Confidence: 90, Severity: domain.SeverityHigh},
		DetectedConditions: []domain.Condition{
			{Name: "acne", Confidence: 70, Severity: domain.SeverityModerate},
		},
	}
	require.Len(t, normalize.Conditions(a), 1)
}

func TestAggregateSeverity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a    domain.Analysis
		want domain.Severity
	}{
		{
			name: "nothing detected is unknown, not none",
			a:    domain.Analysis{},
			want: domain.SeverityUnknown,
		},
		{
			name: "worst detected wins",
			a: domain.Analysis{DetectedConditions: []domain.Condition{
				{Name: "dryness", Severity: domain.SeverityMinimal},
				{Name: "acne", Severity: domain.SeverityHigh},
				{Name: "pores", Severity: domain.SeverityLow},
			}},
			want: domain.SeverityHigh,
		},
		{
			name: "primary condition participates",
			a: domain.Analysis{
				PrimaryCondition: &domain.Condition{Name: "rosacea", Severity: domain.SeverityModerate},
				DetectedConditions: []domain.Condition{
					{Name: "dryness", Severity: domain.SeverityMinimal},
				},
			},
			want: domain.SeverityModerate,
		},
		{
			name: "detected but harmless is none",
			a: domain.Analysis{DetectedConditions: []domain.Condition{
				{Name: "clear_skin", Severity: domain.SeverityNone},
			}},
			want: domain.SeverityNone,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, normalize.AggregateSeverity(tc.a))
		})
	}
}
