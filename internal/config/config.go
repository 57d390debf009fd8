// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/luki/steepwatch/internal/detect"
	"github.com/luki/steepwatch/internal/sensor"
	"github.com/luki/steepwatch/internal/steep"
)

// Source kinds accepted by STEEPWATCH_SOURCE.
const (
	SourceMLX90614 = "mlx90614"
	SourceSine     = "sine"
	SourceStep     = "step"
)

// Config holds everything the daemon needs to run one session.
type Config struct {
	Source       string
	I2CBus       string
	I2CAddr      uint16
	SamplePeriod time.Duration
	Tea          string // empty selects the simple alert variant
	MQTTBroker   string // empty disables telemetry publishing
	HTTPBind     string
	LogLevel     slog.Level
	Detection    detect.Params
}

// FromEnv reads STEEPWATCH_* variables, filling in defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Source:   getEnv("STEEPWATCH_SOURCE", SourceMLX90614),
		I2CBus:   os.Getenv("STEEPWATCH_I2C_BUS"),
		Tea:      os.Getenv("STEEPWATCH_TEA"),
		HTTPBind: getEnv("STEEPWATCH_HTTP_BIND", ":8089"),

		MQTTBroker: os.Getenv("STEEPWATCH_MQTT_BROKER"),
	}

	addr, err := getEnvUint16("STEEPWATCH_I2C_ADDR", sensor.DefaultAddr)
	if err != nil {
		return nil, err
	}
	cfg.I2CAddr = addr

	period, err := getEnvDuration("STEEPWATCH_SAMPLE_PERIOD", 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	cfg.SamplePeriod = period

	level, err := getEnvLevel("STEEPWATCH_LOG_LEVEL", slog.LevelInfo)
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	p := detect.DefaultParams()
	if p.MovingAvgWindow, err = getEnvUintField("STEEPWATCH_MOVING_AVG_WINDOW", p.MovingAvgWindow); err != nil {
		return nil, err
	}
	if p.PointSpacing, err = getEnvUintField("STEEPWATCH_POINT_SPACING", p.PointSpacing); err != nil {
		return nil, err
	}
	if p.MinGrad, err = getEnvFloat("STEEPWATCH_MIN_GRAD", p.MinGrad); err != nil {
		return nil, err
	}
	if p.MaxGrad, err = getEnvFloat("STEEPWATCH_MAX_GRAD", p.MaxGrad); err != nil {
		return nil, err
	}
	cfg.Detection = p

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Source {
	case SourceMLX90614, SourceSine, SourceStep:
	default:
		return fmt.Errorf("config: unknown source %q", c.Source)
	}
	if c.SamplePeriod <= 0 {
		return fmt.Errorf("config: sample period must be positive, got %s", c.SamplePeriod)
	}
	if c.Tea != "" {
		if _, err := steep.ParseTeaType(c.Tea); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if err := c.Detection.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// BuildSource constructs the configured sensor variant.
func (c *Config) BuildSource() sensor.Source {
	switch c.Source {
	case SourceSine:
		return &sensor.Sine{}
	case SourceStep:
		return &sensor.Step{}
	default:
		return &sensor.MLX90614{BusName: c.I2CBus, Addr: c.I2CAddr}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvUint16(key string, fallback uint16) (uint16, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	// Accepts both decimal and 0x-prefixed addresses.
	n, err := strconv.ParseUint(v, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return uint16(n), nil
}

func getEnvUintField(key string, fallback uint) (uint, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return uint(n), nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getEnvLevel(key string, fallback slog.Level) (slog.Level, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return level, nil
}
