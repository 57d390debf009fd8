// Package telemetry carries the per-sample pipeline record and alert
// events to external consumers such as a plotting front-end.
package telemetry

import "time"

// Record mirrors one pass through the detection pipeline. The
// call_down field name is kept for compatibility with the existing
// plotting consumers.
type Record struct {
	Iter                     int     `json:"iter"`
	AmbientTemp              float64 `json:"ambient_temp"`
	ObjectTemp               float64 `json:"object_temp"`
	MovingAvg                float64 `json:"moving_avg"`
	G1                       float64 `json:"g1"`
	G2                       float64 `json:"g2"`
	G3                       float64 `json:"g3"`
	Detected                 bool    `json:"detected"`
	DetectionLevel           int     `json:"detection_level"`
	CooldownSecondsRemaining float64 `json:"call_down_seconds_remaining"`
}

// AlertEvent is published when the reminder fires.
type AlertEvent struct {
	Session string    `json:"session"`
	FiredAt time.Time `json:"fired_at"`
}

// Sink consumes pipeline records. Emit must not block the caller.
type Sink interface {
	Emit(Record)
}

// FuncSink adapts a function to a Sink.
type FuncSink func(Record)

// Emit calls the wrapped function.
func (f FuncSink) Emit(r Record) { f(r) }

// NopSink discards records.
type NopSink struct{}

// Emit does nothing.
func (NopSink) Emit(Record) {}
