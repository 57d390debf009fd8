package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// onsetSeries builds a 31-sample series (oldest first) whose block
// averages put the scaled gradients at exactly g1=1, g2=2, g3=3 with
// point_spacing 10.
func onsetSeries() []float64 {
	byOffset := make([]float64, 31) // 0 = newest
	for o := range byOffset {
		switch {
		case o >= 28:
			byOffset[o] = 10
		case o >= 21:
			byOffset[o] = 11
		case o >= 18:
			byOffset[o] = 11.5
		case o >= 11:
			byOffset[o] = 12
		case o >= 8:
			byOffset[o] = 12.5
		case o >= 1:
			byOffset[o] = 12.8
		default:
			byOffset[o] = 13
		}
	}
	series := make([]float64, 0, len(byOffset))
	for o := len(byOffset) - 1; o >= 0; o-- {
		series = append(series, byOffset[o])
	}
	return series
}

func TestDetectorWarmup(t *testing.T) {
	d := NewDetector(DefaultParams())

	// With spacing 10 the first 30 samples cannot produce a verdict.
	for i := 0; i < 30; i++ {
		g, detected := d.Observe(float64(i) * 2)
		assert.False(t, detected, "sample %d detected during warm-up", i+1)
		assert.Zero(t, g.G1)
		assert.Zero(t, g.G2)
		assert.Zero(t, g.G3)
	}

	_, _ = d.Observe(60)
}

func TestDetectorOnsetSignature(t *testing.T) {
	d := NewDetector(DefaultParams())

	series := onsetSeries()
	var g Gradients
	var detected bool
	for _, v := range series {
		g, detected = d.Observe(v)
	}

	require.True(t, detected, "onset series must trip the detector on the final sample")
	assert.InDelta(t, 1.0, g.G1, 1e-9)
	assert.InDelta(t, 2.0, g.G2, 1e-9)
	assert.InDelta(t, 3.0, g.G3, 1e-9)
}

func TestDetectorRejectsFlatAndSteep(t *testing.T) {
	// Flat: every gradient 0, below min_grad.
	d := NewDetector(DefaultParams())
	for i := 0; i < 60; i++ {
		_, detected := d.Observe(25)
		assert.False(t, detected)
	}

	// Steep: a runaway ramp pushes all gradients past max_grad.
	d = NewDetector(DefaultParams())
	for i := 0; i < 60; i++ {
		_, detected := d.Observe(float64(i) * 10)
		assert.False(t, detected)
	}
}

func TestDetectorRequiresIncreasingGradients(t *testing.T) {
	// A perfectly linear ramp keeps all gradients equal and inside
	// bounds, so the strict ordering must reject it.
	d := NewDetector(DefaultParams())
	for i := 0; i < 60; i++ {
		_, detected := d.Observe(float64(i) * 0.05)
		assert.False(t, detected, "linear ramp detected at sample %d", i+1)
	}
}

func TestDetectorSpacingChangeReentersWarmUp(t *testing.T) {
	d := NewDetector(DefaultParams())
	for _, v := range onsetSeries() {
		d.Observe(v)
	}

	p := DefaultParams()
	p.PointSpacing = 12
	d.SetParams(p)

	// The grown window is no longer full, so no verdicts until it
	// refills.
	g, detected := d.Observe(13)
	assert.False(t, detected)
	assert.Zero(t, g.G1)
}
