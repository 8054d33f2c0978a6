package analyzer

import (
	"encoding/json"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
)

// Stub is a deterministic analyzer for local development and tests: no
// network, no model, just a fixed payload in one of the known upstream
// shapes so the whole normalize-score-select pipeline can be exercised.
type Stub struct{}

// NewStub returns the stub analyzer.
func NewStub() *Stub { return &Stub{} }

// Analyze ignores the image and returns a canned payload.
func (s *Stub) Analyze(_ domain.Context, _ []byte, _ string) (json.RawMessage, error) {
	payload := map[string]any{
		"percentage": 86,
		"result": map[string]any{
			"health_score":     58,
			"primary_concerns": []string{"acne", "enlarged_pores"},
			"severity_levels": map[string]string{
				"acne":           "moderate",
				"enlarged_pores": "low",
			},
			"conditions": map[string]any{
				"acne":           map[string]any{"confidence": 74, "severity": "moderate", "description": "scattered inflammatory lesions"},
				"enlarged_pores": map[string]any{"confidence": 52, "severity": "low"},
			},
		},
	}
	b, _ := json.Marshal(payload)
	return b, nil
}
