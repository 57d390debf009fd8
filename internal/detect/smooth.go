package detect

import "github.com/luki/steepwatch/internal/window"

// Smooth blends v against the recent smoothed values, newest first.
// The incoming value carries weight 1 and the i-th window entry
// carries (len-i)/(2*len), so the newest prior sample weighs 0.5 and
// the weights decay linearly to 1/(2*len) at the oldest. An empty
// window returns v unchanged.
func Smooth(v float64, recent *window.Window) float64 {
	n := recent.Len()
	if n == 0 {
		return v
	}
	sum := v
	weights := 1.0
	for i := 0; i < n; i++ {
		w := float64(n-i) / float64(2*n)
		sum += recent.At(i) * w
		weights += w
	}
	return sum / weights
}
