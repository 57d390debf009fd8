package detect

import "github.com/luki/steepwatch/internal/window"

// historyLen bounds the detection history: roughly 20 seconds of
// outcomes at the 200 ms sample period.
const historyLen = 101

// Aggregator keeps the rolling count of detection-positive samples
// over the most recent historyLen outcomes. The count moves by at
// most one per sample, which is what lets the scheduler trigger on an
// exact value without skipping over it.
type Aggregator struct {
	hist *window.Flags
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{hist: window.NewFlags(historyLen)}
}

// Observe records one outcome and returns the resulting confidence
// level.
func (a *Aggregator) Observe(detected bool) int {
	a.hist.PushFront(detected)
	return a.hist.Count()
}

// Confidence returns the current rolling count.
func (a *Aggregator) Confidence() int { return a.hist.Count() }
