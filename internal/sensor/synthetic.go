package sensor

import "math"

// Sine simulates a kettle with an oscillating object temperature:
// object = 40 + 15*sin(phase), ambient fixed at 23. The phase
// advances by PhaseStep per read and wraps at 2 pi.
type Sine struct {
	PhaseStep float64 // defaults to 0.1 rad per read

	phase float64
}

// Start resets the phase accumulator.
func (s *Sine) Start() error {
	if s.PhaseStep == 0 {
		s.PhaseStep = 0.1
	}
	s.phase = 0
	return nil
}

// Read returns the next point on the wave.
func (s *Sine) Read() (Reading, error) {
	r := Reading{Ambient: 23, Object: 40 + 15*math.Sin(s.phase)}
	s.phase += s.PhaseStep
	if s.phase >= 2*math.Pi {
		s.phase -= 2 * math.Pi
	}
	return r, nil
}

// Close is a no-op.
func (s *Sine) Close() error { return nil }

// Step alternates the object temperature between Low and High every
// Period reads, a square wave for exercising the detector's edge
// response.
type Step struct {
	Low     float64
	High    float64
	Ambient float64
	Period  int // reads per level, defaults to 25

	count int
	high  bool
}

// Start resets the step counter to the low level.
func (s *Step) Start() error {
	if s.Period <= 0 {
		s.Period = 25
	}
	if s.Low == 0 && s.High == 0 {
		s.Low, s.High = 30, 70
	}
	if s.Ambient == 0 {
		s.Ambient = 23
	}
	s.count = 0
	s.high = false
	return nil
}

// Read returns the current level and advances the counter.
func (s *Step) Read() (Reading, error) {
	level := s.Low
	if s.high {
		level = s.High
	}
	s.count++
	if s.count >= s.Period {
		s.count = 0
		s.high = !s.high
	}
	return Reading{Ambient: s.Ambient, Object: level}, nil
}

// Close is a no-op.
func (s *Step) Close() error { return nil }
