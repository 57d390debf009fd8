package detect

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregatorCountsRecentDetections(t *testing.T) {
	a := NewAggregator()

	for i := 1; i <= 15; i++ {
		level := a.Observe(true)
		assert.Equal(t, i, level, "confidence after %d true samples", i)
	}
	assert.Equal(t, 15, a.Confidence())
}

func TestAggregatorChangesByAtMostOne(t *testing.T) {
	a := NewAggregator()

	prev := 0
	for i := 0; i < 500; i++ {
		level := a.Observe(i%3 != 0)
		if math.Abs(float64(level-prev)) > 1 {
			t.Fatalf("confidence jumped from %d to %d at sample %d", prev, level, i+1)
		}
		prev = level
	}
}

func TestAggregatorBoundedHistory(t *testing.T) {
	a := NewAggregator()

	for i := 0; i < 300; i++ {
		a.Observe(true)
	}
	assert.Equal(t, historyLen, a.Confidence(), "count saturates at the history bound")

	for i := 0; i < historyLen; i++ {
		a.Observe(false)
	}
	assert.Equal(t, 0, a.Confidence())
}
