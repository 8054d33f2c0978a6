package normalize

import "math"

// payload is a decoded upstream JSON object with tolerant accessors.
// Missing keys and wrong types read as absent, never panic.
type payload map[string]any

func (p payload) object(key string) payload {
	if v, ok := p[key].(map[string]any); ok {
		return payload(v)
	}
	return nil
}

func (p payload) number(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func (p payload) str(key string) (string, bool) {
	if v, ok := p[key].(string); ok && v != "" {
		return v, true
	}
	return "", false
}

func (p payload) strSlice(key string) []string {
	raw, ok := p[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// numStrategy is one entry of an ordered fallback chain for a numeric
// field. Name identifies the upstream shape the entry serves.
type numStrategy struct {
	name    string
	extract func(payload) (float64, bool)
}

// scaleConfidence resolves the unit drift on confidence-like fields:
// fractions (<= 1) are percentages divided by 100, and one upstream
// version emitted confidence on a 0-10 scale, so values in (1, 10] are
// scaled by 10. Values above 10 are taken as percentages already.
// TODO: confirm the 0-10 branch against real upstream samples; the rule
// is inferred from inconsistent behavior across backend versions.
func scaleConfidence(v float64) float64 {
	switch {
	case v <= 1:
		return v * 100
	case v <= 10:
		return v * 10
	default:
		return v
	}
}

// clampPercent rounds to the nearest integer and clamps to [0, 100].
func clampPercent(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// overallConfidenceChain resolves the record's overall confidence.
// The canonical echo comes first so normalization stays idempotent; the
// confidence-scale heuristic applies only to fields that historically
// carried fractional or 0-10 values, never to canonical output.
var overallConfidenceChain = []numStrategy{
	{name: "canonical", extract: func(p payload) (float64, bool) {
		return p.number("overall_confidence")
	}},
	{name: "percentage", extract: func(p payload) (float64, bool) {
		return p.number("percentage")
	}},
	{name: "confidence_scalar", extract: func(p payload) (float64, bool) {
		v, ok := p.number("confidence")
		if !ok {
			return 0, false
		}
		return scaleConfidence(v), true
	}},
	{name: "confidence_overall", extract: func(p payload) (float64, bool) {
		v, ok := p.object("confidence").number("overall")
		if !ok {
			return 0, false
		}
		return scaleConfidence(v), true
	}},
	{name: "condition_detection", extract: func(p payload) (float64, bool) {
		v, ok := p.object("confidence").number("condition_detection")
		if !ok {
			return 0, false
		}
		return scaleConfidence(v), true
	}},
	{name: "primary_condition", extract: func(p payload) (float64, bool) {
		return p.object("primary_condition").number("confidence")
	}},
	{name: "health_score", extract: func(p payload) (float64, bool) {
		return p.object("result").number("health_score")
	}},
}

// healthScoreChain resolves the health score; when nothing matches the
// normalizer reuses the overall confidence instead.
var healthScoreChain = []numStrategy{
	{name: "result", extract: func(p payload) (float64, bool) {
		return p.object("result").number("health_score")
	}},
	{name: "canonical", extract: func(p payload) (float64, bool) {
		return p.number("health_score")
	}},
}

// resolveNumber walks a chain and returns the first hit.
func resolveNumber(chain []numStrategy, p payload) (float64, bool) {
	if p == nil {
		return 0, false
	}
	for _, s := range chain {
		if v, ok := s.extract(p); ok {
			return v, true
		}
	}
	return 0, false
}
