package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
)

// FallbackSummary is the summary of last resort when the upstream
// payload offers neither a summary nor any detected concerns.
const FallbackSummary = "Analysis completed successfully"

// Normalize adapts a raw upstream payload into the canonical analysis
// record. It never fails: anything malformed or missing degrades to the
// documented defaults (confidence 0, empty condition list, generic
// summary), so downstream consumers always receive a usable record.
func Normalize(raw []byte) domain.Analysis {
	var p payload
	if len(raw) > 0 {
		// Non-object payloads (null, arrays, scalars, junk) leave p nil
		// and every chain falls through to its default.
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			p = payload(decoded)
		}
	}

	a := domain.Analysis{}

	if v, ok := resolveNumber(overallConfidenceChain, p); ok {
		a.OverallConfidence = clampPercent(v)
	}
	if v, ok := resolveNumber(healthScoreChain, p); ok {
		a.HealthScore = clampPercent(v)
	} else {
		a.HealthScore = a.OverallConfidence
	}

	a.DetectedConditions = extractConditions(p)
	a.PrimaryCondition = extractPrimary(p)
	a.SeverityLevels = buildSeverityLevels(p, a.DetectedConditions)
	a.Summary = extractSummary(p, a.HealthScore)
	return a
}

// extractPrimary resolves the primary condition: an explicit
// primary_condition object first, then the first of
// result.primary_concerns paired with the health score as confidence,
// else nil.
func extractPrimary(p payload) *domain.Condition {
	if obj := p.object("primary_condition"); obj != nil {
		name, ok := obj.str("condition")
		if !ok {
			name, ok = obj.str("name")
		}
		if ok {
			c := domain.Condition{Name: name, Severity: domain.SeverityModerate}
			if v, found := obj.number("confidence"); found {
				c.Confidence = clampPercent(v)
			}
			if sev, found := obj.str("severity"); found {
				c.Severity = domain.ParseSeverity(sev)
			}
			if desc, found := obj.str("description"); found {
				c.Description = desc
			}
			return &c
		}
	}
	result := p.object("result")
	concerns := result.strSlice("primary_concerns")
	if len(concerns) == 0 {
		return nil
	}
	c := domain.Condition{Name: concerns[0], Severity: domain.SeverityModerate}
	if hs, ok := result.number("health_score"); ok {
		c.Confidence = clampPercent(hs)
	}
	if levels := result.object("severity_levels"); levels != nil {
		if sev, ok := levels.str(concerns[0]); ok {
			c.Severity = domain.ParseSeverity(sev)
		}
	}
	return &c
}

// extractConditions resolves the detected condition list from whichever
// of the three historical shapes is present: a result.conditions map, a
// detected_conditions array, or an all_predictions probability map.
func extractConditions(p payload) []domain.Condition {
	var out []domain.Condition
	switch {
	case p.object("result").object("conditions") != nil:
		conditions := p.object("result").object("conditions")
		for name, raw := range conditions {
			c := domain.Condition{Name: name, Severity: domain.SeverityModerate}
			switch v := raw.(type) {
			case map[string]any:
				entry := payload(v)
				if conf, ok := entry.number("confidence"); ok {
					c.Confidence = clampPercent(conf)
				}
				if sev, ok := entry.str("severity"); ok {
					c.Severity = domain.ParseSeverity(sev)
				}
				if desc, ok := entry.str("description"); ok {
					c.Description = desc
				}
			case float64:
				// Some samples flattened the map to name -> confidence.
				c.Confidence = clampPercent(v)
			}
			out = append(out, c)
		}
		// Map iteration order is random; fix it before the stable sort
		// below so output order is reproducible.
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case p["detected_conditions"] != nil:
		raw, _ := p["detected_conditions"].([]any)
		for _, e := range raw {
			obj, ok := e.(map[string]any)
			if !ok {
				continue
			}
			entry := payload(obj)
			name, ok := entry.str("name")
			if !ok {
				name, ok = entry.str("condition")
			}
			if !ok {
				continue
			}
			c := domain.Condition{Name: name, Severity: domain.SeverityModerate}
			if conf, found := entry.number("confidence"); found {
				c.Confidence = clampPercent(conf)
			}
			if sev, found := entry.str("severity"); found {
				c.Severity = domain.ParseSeverity(sev)
			}
			if desc, found := entry.str("description"); found {
				c.Description = desc
			}
			out = append(out, c)
		}
	case p.object("all_predictions") != nil:
		predictions := p.object("all_predictions")
		for name := range predictions {
			prob, ok := predictions.number(name)
			if !ok {
				continue
			}
			out = append(out, domain.Condition{
				Name:       name,
				Confidence: clampPercent(prob * 100),
				Severity:   domain.SeverityModerate,
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}

	out = dedupeByName(out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	if out == nil {
		out = []domain.Condition{}
	}
	return out
}

// dedupeByName keeps the highest-confidence entry per condition name,
// preserving the position of each name's first appearance.
func dedupeByName(conditions []domain.Condition) []domain.Condition {
	if len(conditions) < 2 {
		return conditions
	}
	index := make(map[string]int, len(conditions))
	out := conditions[:0]
	for _, c := range conditions {
		if i, seen := index[c.Name]; seen {
			if c.Confidence > out[i].Confidence {
				out[i] = c
			}
			continue
		}
		index[c.Name] = len(out)
		out = append(out, c)
	}
	return out
}

// buildSeverityLevels derives the severity map from the condition
// entries, then merges any explicit severity_levels maps on top:
// explicit upstream values win over derived ones.
func buildSeverityLevels(p payload, conditions []domain.Condition) map[string]domain.Severity {
	levels := make(map[string]domain.Severity, len(conditions))
	for _, c := range conditions {
		levels[c.Name] = c.Severity
	}
	for _, explicit := range []payload{p.object("result").object("severity_levels"), p.object("severity_levels")} {
		for name := range explicit {
			if sev, ok := explicit.str(name); ok {
				levels[name] = domain.ParseSeverity(sev)
			}
		}
	}
	if len(levels) == 0 {
		return nil
	}
	return levels
}

// extractSummary resolves the summary text: an explicit summary string,
// else a sentence generated from result.primary_concerns, else the
// generic fallback.
func extractSummary(p payload, healthScore int) string {
	if s, ok := p.str("summary"); ok {
		return s
	}
	if s, ok := p.object("result").str("summary"); ok {
		return s
	}
	if concerns := p.object("result").strSlice("primary_concerns"); len(concerns) > 0 {
		return fmt.Sprintf("Analysis detected: %s. Overall health score: %d/100",
			strings.Join(concerns, ", "), healthScore)
	}
	return FallbackSummary
}
