package rng

import (
	"errors"
	"io"
	"time"

	"github.com/tarm/serial"
)

// SerialConfig describes a USB serial TRNG.
type SerialConfig struct {
	DeviceName  string // e.g. /dev/ttyACM0 or COM3
	BaudRate    int
	ReadTimeout time.Duration
}

// OpenSerial opens a serial TRNG and performs an initial health check.
func OpenSerial(cfg SerialConfig) (io.Reader, *Health, error) {
	if cfg.DeviceName == "" {
		return nil, nil, errors.New("serial device name is required")
	}
	if cfg.BaudRate <= 0 {
		return nil, nil, errors.New("serial baud rate must be positive")
	}

	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.DeviceName,
		Baud:        cfg.BaudRate,
		Size:        8,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	return checked(NewLockedReader(p))
}
