package scoring

// Grade is the letter restatement of a trust score.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// RiskLevel buckets a trust score into a categorical risk.
type RiskLevel string

const (
	RiskMinimal  RiskLevel = "MINIMAL"
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Classify maps a clamped trust score to its security grade and risk level.
// Boundary scores belong to the higher bucket and both outputs are monotonic
// in the score. The risk-level thresholds (95, 85, 70, 50) are the
// authoritative contract; the letter split inside each bucket uses the
// sub-thresholds documented in DESIGN.md.
func Classify(score float64) (Grade, RiskLevel) {
	switch {
	case score >= 95:
		return GradeAPlus, RiskMinimal
	case score >= 90:
		return GradeA, RiskLow
	case score >= 85:
		return GradeB, RiskLow
	case score >= 78:
		return GradeB, RiskModerate
	case score >= 70:
		return GradeC, RiskModerate
	case score >= 60:
		return GradeC, RiskHigh
	case score >= 50:
		return GradeD, RiskHigh
	case score >= 35:
		return GradeD, RiskCritical
	default:
		return GradeF, RiskCritical
	}
}
