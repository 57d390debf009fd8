// Package steep holds the per-tea steeping schedules and the
// cooldown-gated alert scheduler that drives the reminder callback.
package steep

import (
	"fmt"
	"time"
)

// TeaType selects a steeping profile.
type TeaType int

const (
	Green TeaType = iota
	Black
	Red
)

// ParseTeaType maps a config or API string to a TeaType.
func ParseTeaType(s string) (TeaType, error) {
	switch s {
	case "green":
		return Green, nil
	case "black":
		return Black, nil
	case "red":
		return Red, nil
	}
	return 0, fmt.Errorf("unknown tea type %q", s)
}

func (t TeaType) String() string {
	switch t {
	case Green:
		return "green"
	case Black:
		return "black"
	case Red:
		return "red"
	}
	return "unknown"
}

// Profile is the reminder schedule for one steeping session: the next
// reminder fires Delay after the trigger, and each consultation
// pushes the following reminder Step further out.
type Profile struct {
	Delay time.Duration
	Step  time.Duration
}

// NewProfile returns the initial schedule for a tea type.
func NewProfile(t TeaType) Profile {
	switch t {
	case Green:
		return Profile{Delay: 90 * time.Second, Step: 30 * time.Second}
	case Black:
		return Profile{Delay: 150 * time.Second, Step: 60 * time.Second}
	case Red:
		return Profile{Delay: 45 * time.Second, Step: 30 * time.Second}
	}
	return Profile{Delay: 90 * time.Second, Step: 30 * time.Second}
}

// Next returns the current delay and advances the schedule.
func (p *Profile) Next() time.Duration {
	d := p.Delay
	p.Delay += p.Step
	return d
}
