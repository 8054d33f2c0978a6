package normalize

import "github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"

// Conditions flattens a canonical record into the condition list the
// scorer consumes: every detected condition, plus the primary condition
// when its name is not already among them.
func Conditions(a domain.Analysis) []domain.Condition {
	out := make([]domain.Condition, 0, len(a.DetectedConditions)+1)
	out = append(out, a.DetectedConditions...)
	if a.PrimaryCondition != nil {
		seen := false
		for _, c := range a.DetectedConditions {
			if c.Name == a.PrimaryCondition.Name {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, *a.PrimaryCondition)
		}
	}
	return out
}

// AggregateSeverity computes the worst severity across the record's
// conditions. It returns SeverityUnknown when nothing was detected,
// which is deliberately distinct from SeverityNone ("detected but
// harmless").
func AggregateSeverity(a domain.Analysis) domain.Severity {
	conditions := Conditions(a)
	if len(conditions) == 0 {
		return domain.SeverityUnknown
	}
	worst := domain.SeverityNone
	for _, c := range conditions {
		if c.Severity.Worse(worst) {
			worst = c.Severity
		}
	}
	return worst
}
