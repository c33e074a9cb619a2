package scoring

import "strings"

// Severity classifies a single vulnerability finding.
type Severity string

const (
	SeverityUnknown  Severity = "unknown"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns an integer rank for comparison (low=1, critical=4, unknown=0).
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

func (s Severity) String() string {
	return string(s)
}

// multiplier scales the vulnerability penalty weight for this severity.
// Unknown severities land on the lowest tier rather than being skipped.
func (s Severity) multiplier() float64 {
	switch s {
	case SeverityCritical:
		return 1.5
	case SeverityHigh:
		return 1.2
	case SeverityMedium:
		return 1.0
	case SeverityLow:
		return 0.7
	default:
		return 0.4
	}
}

// AssessSeverity derives a severity from a vulnerability identifier and its
// descriptor string. Explicit severity words match first; descriptor keywords
// that imply a severity class come next. Text matching nothing yields
// SeverityUnknown.
func AssessSeverity(id, descriptor string) Severity {
	text := strings.ToLower(id + " " + descriptor)
	switch {
	case containsAny(text, "critical", "rce", "remote code execution", "unauthenticated"):
		return SeverityCritical
	case containsAny(text, "high", "privilege escalation", "buffer overflow"):
		return SeverityHigh
	case containsAny(text, "medium", "moderate", "dos", "denial of service", "xss"):
		return SeverityMedium
	case containsAny(text, "low"):
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
