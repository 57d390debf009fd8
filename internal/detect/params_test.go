package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func uptr(v uint) *uint       { return &v }

func TestParamsMerge(t *testing.T) {
	p := DefaultParams()

	got, err := p.Merge(Update{MinGrad: fptr(1.0)})
	require.NoError(t, err)

	want := p
	want.MinGrad = 1.0
	assert.Equal(t, want, got, "merge changes only the supplied key")
}

func TestParamsMergeRejectsInvalid(t *testing.T) {
	p := DefaultParams()

	got, err := p.Merge(Update{MinGrad: fptr(10), MaxGrad: fptr(5)})
	require.ErrorIs(t, err, ErrConfig)
	assert.Equal(t, p, got, "rejected merge leaves params unchanged")

	got, err = p.Merge(Update{MovingAvgWindow: uptr(0)})
	require.ErrorIs(t, err, ErrConfig)
	assert.Equal(t, p, got)

	got, err = p.Merge(Update{PointSpacing: uptr(2)})
	require.ErrorIs(t, err, ErrConfig)
	assert.Equal(t, p, got)
}

func TestParamsMergeIdempotent(t *testing.T) {
	p := DefaultParams()

	got, err := p.Merge(Update{
		MovingAvgWindow: uptr(p.MovingAvgWindow),
		PointSpacing:    uptr(p.PointSpacing),
		MinGrad:         fptr(p.MinGrad),
		MaxGrad:         fptr(p.MaxGrad),
	})
	require.NoError(t, err)
	assert.Equal(t, p, got)

	got, err = p.Merge(Update{})
	require.NoError(t, err)
	assert.Equal(t, p, got, "empty merge is the identity")
}
