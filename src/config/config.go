package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/lost-woods/cards/src/rng"
)

type Config struct {
	Port           string
	APIKey         string
	RNGSource      string
	Serial         rng.SerialConfig
	HealthInterval time.Duration
	MaxDecks       int
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "777"),
		APIKey:         os.Getenv("API_KEY"),
		RNGSource:      getEnv("RNG_SOURCE", rng.KindCrypto),
		HealthInterval: 10_000 * time.Millisecond,
		MaxDecks:       1000,
	}

	if msStr := os.Getenv("RNG_HEALTH_INTERVAL"); msStr != "" {
		ms, err := strconv.Atoi(msStr)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("invalid RNG_HEALTH_INTERVAL: %q", msStr)
		}
		cfg.HealthInterval = time.Duration(ms) * time.Millisecond
	}

	if maxStr := os.Getenv("MAX_DECKS"); maxStr != "" {
		n, err := strconv.Atoi(maxStr)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid MAX_DECKS: %q", maxStr)
		}
		cfg.MaxDecks = n
	}

	switch cfg.RNGSource {
	case rng.KindCrypto:
	case rng.KindSerial:
		serialCfg, err := serialFromEnv()
		if err != nil {
			return nil, err
		}
		cfg.Serial = serialCfg
	default:
		return nil, fmt.Errorf("invalid RNG_SOURCE: %q (want %q or %q)", cfg.RNGSource, rng.KindCrypto, rng.KindSerial)
	}

	return cfg, nil
}

// serialFromEnv reads the TRNG settings:
// - SERIAL_DEVICE_NAME (e.g. /dev/ttyACM0 or COM3)
// - SERIAL_BAUD_RATE
// - SERIAL_READ_TIMEOUT (milliseconds)
func serialFromEnv() (rng.SerialConfig, error) {
	name := os.Getenv("SERIAL_DEVICE_NAME")
	if name == "" {
		return rng.SerialConfig{}, fmt.Errorf("SERIAL_DEVICE_NAME is required")
	}

	baudStr := os.Getenv("SERIAL_BAUD_RATE")
	baud, err := strconv.Atoi(baudStr)
	if err != nil || baud <= 0 {
		return rng.SerialConfig{}, fmt.Errorf("invalid SERIAL_BAUD_RATE: %q", baudStr)
	}

	timeoutStr := os.Getenv("SERIAL_READ_TIMEOUT")
	timeoutMs, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutMs < 0 {
		return rng.SerialConfig{}, fmt.Errorf("invalid SERIAL_READ_TIMEOUT: %q", timeoutStr)
	}

	return rng.SerialConfig{
		DeviceName:  name,
		BaudRate:    baud,
		ReadTimeout: time.Duration(timeoutMs) * time.Millisecond,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
