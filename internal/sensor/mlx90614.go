package sensor

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// MLX90614 SMBus address and RAM registers per the Melexis datasheet.
const (
	DefaultAddr uint16 = 0x5A
	regAmbient  byte   = 0x06
	regObject   byte   = 0x07
)

// MLX90614 reads the Melexis IR thermometer over I2C. Each register
// read answers a 16-bit little-endian word plus a PEC byte; the word
// encodes the temperature in units of 0.02 K.
type MLX90614 struct {
	BusName string // e.g. "1" or "/dev/i2c-1"; empty picks the first available bus
	Addr    uint16 // 0 selects DefaultAddr

	bus i2c.BusCloser
	dev i2c.Dev
}

// Start initializes the periph host and opens the I2C bus.
func (m *MLX90614) Start() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("%w: host init: %v", ErrIO, err)
	}
	bus, err := i2creg.Open(m.BusName)
	if err != nil {
		return fmt.Errorf("%w: open bus %q: %v", ErrIO, m.BusName, err)
	}
	addr := m.Addr
	if addr == 0 {
		addr = DefaultAddr
	}
	m.bus = bus
	m.dev = i2c.Dev{Bus: bus, Addr: addr}
	return nil
}

// Read issues one register read per channel.
func (m *MLX90614) Read() (Reading, error) {
	ambient, err := m.readTemp(regAmbient)
	if err != nil {
		return Reading{}, err
	}
	object, err := m.readTemp(regObject)
	if err != nil {
		return Reading{}, err
	}
	return Reading{Ambient: ambient, Object: object}, nil
}

func (m *MLX90614) readTemp(reg byte) (float64, error) {
	var buf [3]byte // data low, data high, PEC
	if err := m.dev.Tx([]byte{reg}, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: register 0x%02x: %v", ErrIO, reg, err)
	}
	return convertRaw(binary.LittleEndian.Uint16(buf[:2])), nil
}

// convertRaw turns a raw register word into Celsius. The device
// reports 0.02 K per LSB.
func convertRaw(raw uint16) float64 {
	return float64(raw)*0.02 - 273.15
}

// Close releases the bus handle.
func (m *MLX90614) Close() error {
	if m.bus == nil {
		return nil
	}
	return m.bus.Close()
}
