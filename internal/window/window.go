// Package window implements the bounded newest-first sample windows
// behind the smoother, the trend detector and the detection history.
package window

// Window keeps the most recent values of a float series, newest
// first. Pushing beyond the capacity silently evicts the oldest
// entry, so the length can never exceed the capacity.
type Window struct {
	vals []float64
	max  int
}

// New creates an empty window with the given capacity.
func New(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		vals: make([]float64, 0, capacity),
		max:  capacity,
	}
}

// PushFront prepends v, evicting the oldest value when full.
func (w *Window) PushFront(v float64) {
	if len(w.vals) < w.max {
		w.vals = append(w.vals, 0)
	}
	copy(w.vals[1:], w.vals)
	w.vals[0] = v
}

// Len returns the number of stored values.
func (w *Window) Len() int { return len(w.vals) }

// Cap returns the capacity.
func (w *Window) Cap() int { return w.max }

// At returns the i-th value, 0 being the newest.
func (w *Window) At(i int) float64 { return w.vals[i] }

// Resize changes the capacity, dropping the oldest values when
// shrinking.
func (w *Window) Resize(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	if len(w.vals) > capacity {
		w.vals = w.vals[:capacity]
	}
	w.max = capacity
}

// Flags keeps the most recent boolean outcomes, newest first, with a
// running count of the true entries.
type Flags struct {
	flags []bool
	max   int
	count int
}

// NewFlags creates an empty flag window with the given capacity.
func NewFlags(capacity int) *Flags {
	if capacity < 1 {
		capacity = 1
	}
	return &Flags{
		flags: make([]bool, 0, capacity),
		max:   capacity,
	}
}

// PushFront prepends v, evicting the oldest flag when full.
func (f *Flags) PushFront(v bool) {
	if len(f.flags) == f.max {
		if f.flags[len(f.flags)-1] {
			f.count--
		}
	} else {
		f.flags = append(f.flags, false)
	}
	copy(f.flags[1:], f.flags)
	f.flags[0] = v
	if v {
		f.count++
	}
}

// Len returns the number of stored flags.
func (f *Flags) Len() int { return len(f.flags) }

// Count returns how many stored flags are true.
func (f *Flags) Count() int { return f.count }
