// Package monitor wires the detection pipeline into a single consumer
// loop. Every reading flows through smoothing, trend detection,
// aggregation and alert scheduling in arrival order, and
// administrative calls are served between samples so the pipeline
// never observes a half-applied change.
package monitor

import (
	"context"
	"log/slog"

	"github.com/luki/steepwatch/internal/detect"
	"github.com/luki/steepwatch/internal/sensor"
	"github.com/luki/steepwatch/internal/steep"
	"github.com/luki/steepwatch/internal/telemetry"
	"github.com/luki/steepwatch/internal/window"
)

// Options configure a Session. Zero values fall back to defaults: the
// default detection params, the system clock, a nop sink, a log-only
// alert and the simple (profile-less) scheduler variant.
type Options struct {
	Params detect.Params
	Clock  steep.Clock
	Sink   telemetry.Sink
	Alert  func()
	Tea    *steep.TeaType
	Log    *slog.Logger
}

type updateResult struct {
	params detect.Params
	err    error
}

type updateReq struct {
	update detect.Update
	resp   chan updateResult
}

type profileReq struct {
	tea  steep.TeaType
	resp chan struct{}
}

// Session owns the pipeline state for one monitoring run. All state
// lives in the goroutine executing Run; the exported methods marshal
// into it.
type Session struct {
	params    detect.Params
	smoothWin *window.Window
	detector  *detect.Detector
	agg       *detect.Aggregator
	sched     *steep.Scheduler
	sink      telemetry.Sink
	log       *slog.Logger
	iter      int

	updates  chan updateReq
	profiles chan profileReq
}

// NewSession builds a session from opts.
func NewSession(opts Options) *Session {
	params := opts.Params
	if params == (detect.Params{}) {
		params = detect.DefaultParams()
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	sink := opts.Sink
	if sink == nil {
		sink = telemetry.NopSink{}
	}
	alert := opts.Alert
	if alert == nil {
		alert = func() { log.Info("steeping reminder") }
	}

	s := &Session{
		params:    params,
		smoothWin: window.New(int(params.MovingAvgWindow)),
		detector:  detect.NewDetector(params),
		agg:       detect.NewAggregator(),
		sched:     steep.NewScheduler(opts.Clock, log, alert),
		sink:      sink,
		log:       log,
		updates:   make(chan updateReq),
		profiles:  make(chan profileReq),
	}
	if opts.Tea != nil {
		s.sched.SelectProfile(*opts.Tea)
	}
	return s
}

// Run consumes readings until ctx is canceled.
func (s *Session) Run(ctx context.Context, readings <-chan sensor.Reading) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-readings:
			s.step(ctx, r)
		case req := <-s.updates:
			req.resp <- s.applyUpdate(req.update)
		case req := <-s.profiles:
			s.sched.SelectProfile(req.tea)
			req.resp <- struct{}{}
		}
	}
}

// step runs one reading through the whole pipeline.
func (s *Session) step(ctx context.Context, r sensor.Reading) {
	s.iter++

	avg := detect.Smooth(r.Object, s.smoothWin)
	s.smoothWin.PushFront(avg)

	grads, detected := s.detector.Observe(avg)
	level := s.agg.Observe(detected)
	s.sched.Observe(ctx, level)

	s.sink.Emit(telemetry.Record{
		Iter:                     s.iter,
		AmbientTemp:              r.Ambient,
		ObjectTemp:               r.Object,
		MovingAvg:                avg,
		G1:                       grads.G1,
		G2:                       grads.G2,
		G3:                       grads.G3,
		Detected:                 detected,
		DetectionLevel:           level,
		CooldownSecondsRemaining: s.sched.CooldownRemaining().Seconds(),
	})
}

func (s *Session) applyUpdate(u detect.Update) updateResult {
	next, err := s.params.Merge(u)
	if err != nil {
		return updateResult{s.params, err}
	}
	s.params = next
	s.smoothWin.Resize(int(next.MovingAvgWindow))
	s.detector.SetParams(next)
	return updateResult{next, nil}
}

// UpdateParams merges a partial update into the live parameters and
// returns the resulting configuration. The merge happens between
// samples; an invalid update leaves the parameters untouched.
func (s *Session) UpdateParams(ctx context.Context, u detect.Update) (detect.Params, error) {
	req := updateReq{update: u, resp: make(chan updateResult, 1)}
	select {
	case s.updates <- req:
	case <-ctx.Done():
		return detect.Params{}, ctx.Err()
	}
	select {
	case res := <-req.resp:
		return res.params, res.err
	case <-ctx.Done():
		return detect.Params{}, ctx.Err()
	}
}

// Params returns the current configuration.
func (s *Session) Params(ctx context.Context) (detect.Params, error) {
	return s.UpdateParams(ctx, detect.Update{})
}

// SelectProfile resets the steeping schedule to the tea's initial
// profile and clears the cooldown.
func (s *Session) SelectProfile(ctx context.Context, tea steep.TeaType) error {
	req := profileReq{tea: tea, resp: make(chan struct{}, 1)}
	select {
	case s.profiles <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.resp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
