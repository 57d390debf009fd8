package steep

import (
	"context"
	"log/slog"
	"time"
)

const (
	// triggerLevel is the confidence count that fires an alert. The
	// aggregator moves by at most one per sample, so an exact match
	// cannot be skipped over; the check stays an exact equality to
	// make each detection episode a single-shot trigger.
	triggerLevel = 15

	// simpleCooldown suppresses alerts after an immediate fire.
	simpleCooldown = 120 * time.Second

	// cooldownGrace pads the cooldown past a deferred alert's delay.
	cooldownGrace = 30 * time.Second
)

// Scheduler gates the alert callback behind a cooldown. Without a
// profile it fires the callback the moment confidence hits the
// trigger level; with a profile it defers the fire by the profile's
// current delay and pushes the schedule out for the next round.
//
// All methods must be called from the session's consumer goroutine.
// Deferred fires run on their own timer and only invoke the callback;
// they never touch scheduler state, so a later cooldown transition
// cannot suppress an already scheduled fire.
type Scheduler struct {
	clock   Clock
	alert   func()
	log     *slog.Logger
	profile *Profile

	// cooldownUntil is zero when alerts are permitted. It is cleared
	// lazily once the clock passes it.
	cooldownUntil time.Time
}

// NewScheduler creates a simple-variant scheduler. The callback must
// not block; sample processing continues while it runs.
func NewScheduler(clock Clock, log *slog.Logger, alert func()) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{clock: clock, alert: alert, log: log}
}

// SelectProfile installs a fresh schedule for t and clears the
// cooldown; the next trigger starts from the profile's initial delay.
func (s *Scheduler) SelectProfile(t TeaType) {
	p := NewProfile(t)
	s.profile = &p
	s.cooldownUntil = time.Time{}
	s.log.Info("steeping profile selected", "tea", t.String(), "delay", p.Delay)
}

// Observe evaluates the alert transition for one sample's confidence
// level and reports whether an alert was fired or scheduled.
func (s *Scheduler) Observe(ctx context.Context, confidence int) bool {
	now := s.clock.Now()
	if !s.cooldownUntil.IsZero() && now.After(s.cooldownUntil) {
		s.cooldownUntil = time.Time{}
	}
	if confidence != triggerLevel || !s.cooldownUntil.IsZero() {
		return false
	}

	if s.profile == nil {
		s.log.Info("onset confirmed, alerting")
		s.alert()
		s.cooldownUntil = now.Add(simpleCooldown)
		return true
	}

	delay := s.profile.Next()
	s.log.Info("onset confirmed, reminder scheduled", "delay", delay)
	timer := s.clock.After(delay) // armed before Observe returns
	go s.fireOn(ctx, timer)
	s.cooldownUntil = now.Add(delay + cooldownGrace)
	return true
}

// fireOn invokes the callback once when the timer fires, unless the
// session ends first.
func (s *Scheduler) fireOn(ctx context.Context, timer <-chan time.Time) {
	select {
	case <-timer:
		s.alert()
	case <-ctx.Done():
	}
}

// CooldownRemaining reports how long alerts stay suppressed, zero
// when permitted.
func (s *Scheduler) CooldownRemaining() time.Duration {
	if s.cooldownUntil.IsZero() {
		return 0
	}
	rem := s.cooldownUntil.Sub(s.clock.Now())
	if rem < 0 {
		return 0
	}
	return rem
}
