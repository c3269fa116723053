package rng

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	KindCrypto = "crypto"
	KindSerial = "serial"
)

// Open returns the entropy stream named by kind together with its health
// monitor. The stream is safe for concurrent use.
func Open(kind string, serialCfg SerialConfig) (io.Reader, *Health, error) {
	switch kind {
	case "", KindCrypto:
		return checked(rand.Reader)
	case KindSerial:
		return OpenSerial(serialCfg)
	}
	return nil, nil, fmt.Errorf("unknown entropy source %q", kind)
}

func checked(r io.Reader) (io.Reader, *Health, error) {
	h := NewHealth()
	if err := HealthCheckRNG(r); err != nil {
		h.Set(false, err.Error())
		return nil, h, err
	}
	h.Set(true, "")
	return r, h, nil
}
