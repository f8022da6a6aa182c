package changemap

// Tier is a qualitative bucket for how much of the diagram a change touches.
type Tier string

const (
	TierNone   Tier = "none"
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
	TierFull   Tier = "full"
)

// Thresholds holds the tier cut points as percentages of affected nodes.
// A percentage equal to a cut point lands in the tier above it.
type Thresholds struct {
	Low    float64 // below this: low
	Medium float64 // below this: medium
	High   float64 // below this: high; at or above: full
}

// DefaultThresholds returns the standard impact policy.
func DefaultThresholds() Thresholds {
	return Thresholds{Low: 20, Medium: 50, High: 80}
}

// Classify buckets a change by the share of diagram nodes it affects, using
// the default thresholds. An empty diagram always classifies as full: with
// nothing to patch, regeneration is the only option.
func Classify(affected, total int) (Tier, float64) {
	return ClassifyWith(DefaultThresholds(), affected, total)
}

// ClassifyWith is Classify with a caller-supplied threshold policy.
func ClassifyWith(t Thresholds, affected, total int) (Tier, float64) {
	if total == 0 {
		return TierFull, 100
	}

	pct := float64(affected) / float64(total) * 100
	switch {
	case affected == 0:
		return TierNone, 0
	case pct < t.Low:
		return TierLow, pct
	case pct < t.Medium:
		return TierMedium, pct
	case pct < t.High:
		return TierHigh, pct
	default:
		return TierFull, pct
	}
}
