package domain

import "strings"

// Severity is the ordered qualitative level of a condition's seriousness.
// The total order none < minimal < low < moderate < high is used for
// worst-wins aggregation. SeverityUnknown sits outside the order and
// signals "nothing detected", distinct from "detected but harmless".
type Severity string

const (
	SeverityUnknown  Severity = "unknown"
	SeverityNone     Severity = "none"
	SeverityMinimal  Severity = "minimal"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
)

var severityRank = map[Severity]int{
	SeverityNone:     0,
	SeverityMinimal:  1,
	SeverityLow:      2,
	SeverityModerate: 3,
	SeverityHigh:     4,
}

// Rank returns the position of s in the severity order, or -1 for
// SeverityUnknown and anything else outside the ordered set.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}

// Worse reports whether s is strictly worse than other.
func (s Severity) Worse(other Severity) bool { return s.Rank() > other.Rank() }

// ParseSeverity maps an upstream severity label onto the ordered set.
// "severe" is an alias one upstream version used for high. Unrecognized
// labels degrade to moderate, the same default the normalizer applies to
// conditions that arrive without a severity at all.
func ParseSeverity(raw string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(raw))) {
	case SeverityNone:
		return SeverityNone
	case SeverityMinimal:
		return SeverityMinimal
	case SeverityLow:
		return SeverityLow
	case SeverityModerate:
		return SeverityModerate
	case SeverityHigh, "severe":
		return SeverityHigh
	default:
		return SeverityModerate
	}
}
