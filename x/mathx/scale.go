package mathx

import "golang.org/x/exp/constraints"

// ScalePercent maps a duty percentage onto a counter range [0..top].
// Percentages above 100 saturate at top.
func ScalePercent[T constraints.Unsigned](pct uint8, top T) T {
	if pct >= 100 {
		return top
	}
	return T(uint64(top) * uint64(pct) / 100)
}
