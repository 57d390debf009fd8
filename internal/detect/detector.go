package detect

import "github.com/luki/steepwatch/internal/window"

// gradScale normalizes index-distance slopes so the default
// thresholds read naturally.
const gradScale = 20.0

// blockSize is the number of samples averaged at each gradient
// endpoint to denoise it.
const blockSize = 3

// Gradients are the three scaled segment slopes of the trend window,
// G1 spanning the newest segment.
type Gradients struct {
	G1 float64
	G2 float64
	G3 float64
}

// Detector recognizes the pour/boil onset signature in the smoothed
// stream: three consecutive segment gradients, each inside
// (MinGrad, MaxGrad), strictly increasing toward the past. That shape
// is an accelerating rise that is starting to saturate, which is what
// freshly poured water looks like to the IR element.
type Detector struct {
	spacing int
	minGrad float64
	maxGrad float64
	trend   *window.Window // previous smoothed values, newest first
}

// NewDetector creates a detector tuned by p.
func NewDetector(p Params) *Detector {
	d := &Detector{}
	d.SetParams(p)
	return d
}

// SetParams retunes the detector. A spacing change resizes the trend
// window; shrinking drops the oldest samples, growing re-enters the
// warm-up period until the window refills.
func (d *Detector) SetParams(p Params) {
	d.spacing = int(p.PointSpacing)
	d.minGrad = p.MinGrad
	d.maxGrad = p.MaxGrad
	if d.trend == nil {
		d.trend = window.New(3 * d.spacing)
		return
	}
	d.trend.Resize(3 * d.spacing)
}

// Observe ingests one smoothed value and reports the segment
// gradients and whether the onset signature is present. Until
// 3*spacing+1 values have been seen the gradients are zero and the
// outcome false.
func (d *Detector) Observe(smoothed float64) (Gradients, bool) {
	var g Gradients
	detected := false
	if d.trend.Len() == d.trend.Cap() {
		g = d.gradients(smoothed)
		detected = d.inBounds(g.G1) && d.inBounds(g.G2) && d.inBounds(g.G3) &&
			g.G1 < g.G2 && g.G2 < g.G3
	}
	d.trend.PushFront(smoothed)
	return g, detected
}

// gradients computes the three segment slopes over the series formed
// by the incoming value followed by the full trend window. Endpoints
// other than the newest value are 3-sample block averages ending at
// offsets spacing, 2*spacing and 3*spacing; slopes are taken over the
// index distance between endpoints and scaled by gradScale.
func (d *Detector) gradients(newest float64) Gradients {
	b1 := d.blockAvg(1)
	b2 := d.blockAvg(2)
	b3 := d.blockAvg(3)
	ps := float64(d.spacing)
	return Gradients{
		G1: (newest - b1) / ps * gradScale,
		G2: (b1 - b2) / ps * gradScale,
		G3: (b2 - b3) / ps * gradScale,
	}
}

// blockAvg averages the block of blockSize entries ending at offset
// k*spacing in the combined series. Offset i of the combined series
// is index i-1 of the trend window, so the block covers trend indices
// k*spacing-3 through k*spacing-1.
func (d *Detector) blockAvg(k int) float64 {
	end := k * d.spacing
	sum := 0.0
	for i := end - blockSize; i < end; i++ {
		sum += d.trend.At(i)
	}
	return sum / blockSize
}

func (d *Detector) inBounds(g float64) bool {
	return d.minGrad < g && g < d.maxGrad
}
