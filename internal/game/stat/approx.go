package stat

import "math"

const (
	approxRelEpsilon = 1e-6
	approxAbsEpsilon = 1e-9
)

// ApproxEqual compares two values with a relative tolerance and a small
// absolute floor, so numeric noise from folding does not count as a change.
func ApproxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= math.Max(approxRelEpsilon*scale, approxAbsEpsilon)
}
