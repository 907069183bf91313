package stat

import (
	"fmt"
	"math"
)

// Range is an inclusive numeric interval used to clamp stat values.
type Range struct {
	Min float64
	Max float64
}

// NewRange returns [min, max]. An inverted interval is a content bug and is
// reported as an error rather than silently swapped.
func NewRange(min, max float64) (Range, error) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return Range{}, fmt.Errorf("range bounds must be numbers: [%v, %v]", min, max)
	}
	if min > max {
		return Range{}, fmt.Errorf("inverted range: min %v > max %v", min, max)
	}
	return Range{Min: min, Max: max}, nil
}

// Unbounded returns (-Inf, +Inf).
func Unbounded() Range {
	return Range{Min: math.Inf(-1), Max: math.Inf(1)}
}

// Clamp returns v limited to the range.
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}
