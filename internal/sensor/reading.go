// Package sensor provides the temperature sources feeding the
// steeping monitor: the MLX90614 IR thermometer over I2C plus two
// synthetic waveform sources used for development and tests.
package sensor

import "errors"

// ErrIO reports a failed bus transaction with the sensor hardware.
var ErrIO = errors.New("sensor: i/o failure")

// Reading is a single sample from a source: the ambient (die)
// temperature and the object temperature seen by the IR element,
// both in Celsius.
type Reading struct {
	Ambient float64
	Object  float64
}

// Source produces readings on demand. Start must be called once
// before Read; Close releases any underlying handle. A Source keeps
// its own state and is not safe for concurrent use; each monitoring
// session owns exactly one.
type Source interface {
	Start() error
	Read() (Reading, error)
	Close() error
}
