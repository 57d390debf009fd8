// Package detect implements the signal path of the steeping monitor:
// weighted moving-average smoothing, the three-segment gradient trend
// test and the rolling detection count it feeds.
package detect

import (
	"errors"
	"fmt"
)

// ErrConfig reports an invalid parameter update.
var ErrConfig = errors.New("detect: invalid config")

// Params are the tunable knobs of the detection pipeline. They are
// owned by the monitoring session and change only through Merge.
type Params struct {
	MovingAvgWindow uint    `json:"moving_avg_window"`
	PointSpacing    uint    `json:"point_spacing"`
	MinGrad         float64 `json:"min_grad"`
	MaxGrad         float64 `json:"max_grad"`
}

// DefaultParams returns the tuning the monitor starts with.
func DefaultParams() Params {
	return Params{
		MovingAvgWindow: 5,
		PointSpacing:    10,
		MinGrad:         0.5,
		MaxGrad:         5,
	}
}

// Update is a partial Params; nil fields keep their current value.
type Update struct {
	MovingAvgWindow *uint    `json:"moving_avg_window,omitempty"`
	PointSpacing    *uint    `json:"point_spacing,omitempty"`
	MinGrad         *float64 `json:"min_grad,omitempty"`
	MaxGrad         *float64 `json:"max_grad,omitempty"`
}

// Merge applies u on top of p and validates the result. On error the
// receiver is returned unchanged.
func (p Params) Merge(u Update) (Params, error) {
	next := p
	if u.MovingAvgWindow != nil {
		next.MovingAvgWindow = *u.MovingAvgWindow
	}
	if u.PointSpacing != nil {
		next.PointSpacing = *u.PointSpacing
	}
	if u.MinGrad != nil {
		next.MinGrad = *u.MinGrad
	}
	if u.MaxGrad != nil {
		next.MaxGrad = *u.MaxGrad
	}
	if err := next.Validate(); err != nil {
		return p, err
	}
	return next, nil
}

// Validate rejects window sizes of zero and inverted gradient bounds.
func (p Params) Validate() error {
	if p.MovingAvgWindow == 0 {
		return fmt.Errorf("%w: moving_avg_window must be positive", ErrConfig)
	}
	if p.PointSpacing < blockSize {
		return fmt.Errorf("%w: point_spacing must be at least %d", ErrConfig, blockSize)
	}
	if p.MinGrad >= p.MaxGrad {
		return fmt.Errorf("%w: min_grad %g is not below max_grad %g", ErrConfig, p.MinGrad, p.MaxGrad)
	}
	return nil
}
