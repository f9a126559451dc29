package allowance

import "math"

// CanTransition reports whether a claim may move from one status to
// another. PENDING is the only non-terminal state.
func CanTransition(from, to Status) bool {
	if from != StatusPending {
		return false
	}
	return to == StatusApproved || to == StatusRejected
}

// AdjustedAmount scales a base daily rate by a station multiplier, rounded
// to currency precision.
func AdjustedAmount(base, multiplier float64) float64 {
	return math.Round(base*multiplier*100) / 100
}
