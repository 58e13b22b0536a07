package domain

// Tier is the qualitative bucket for a final score.
type Tier string

const (
	TierPerfect       Tier = "perfect"
	TierGreat         Tier = "great"
	TierGood          Tier = "good"
	TierNeedsPractice Tier = "needs_practice"
)

// Percentage returns score/total*100, or 0 for an empty total.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

// TierFor buckets a score; thresholds are inclusive lower bounds checked from the top.
func TierFor(score, total int) Tier {
	pct := Percentage(score, total)
	switch {
	case total > 0 && score >= total:
		return TierPerfect
	case pct >= 80:
		return TierGreat
	case pct >= 60:
		return TierGood
	default:
		return TierNeedsPractice
	}
}
