package rng

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Health checks draw indexes the way a shuffle of a standard deck does, so a
// stream is judged on the values the dealer actually sees.
const (
	deckSize      = 52
	startupDraws  = 10 * deckSize
	periodicDraws = deckSize
	// A healthy source repeats one index eight times in a row with
	// probability 52^-7 per position.
	maxRun = 8
)

var ErrStuck = errors.New("entropy source appears stuck")

type Health struct {
	mu            sync.RWMutex
	ok            bool
	lastErr       string
	lastCheckedAt time.Time
}

func NewHealth() *Health { return &Health{} }

func (h *Health) Set(ok bool, errMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ok = ok
	h.lastErr = errMsg
	h.lastCheckedAt = time.Now()
}

func (h *Health) Snapshot() (ok bool, errMsg string, t time.Time) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ok, h.lastErr, h.lastCheckedAt
}

// HealthCheckRNG samples a few deck-sized shuffles' worth of indexes from r.
// It cannot prove randomness, but catches a disconnected, stuck or cycling
// source before any deck is dealt from it.
func HealthCheckRNG(r io.Reader) error {
	return checkStream(r, startupDraws)
}

// PeriodicHealthCheck samples one shuffle's worth of indexes every interval
// until ctx is done and records the verdict in h.
func PeriodicHealthCheck(ctx context.Context, r io.Reader, h *Health, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := checkStream(r, periodicDraws); err != nil {
			h.Set(false, err.Error())
			continue
		}
		h.Set(true, "")
	}
}

func checkStream(r io.Reader, n int) error {
	draws, err := sampleDraws(r, n)
	if err != nil {
		return fmt.Errorf("entropy source read failed: %w", err)
	}
	return checkDraws(draws)
}

// sampleDraws reads n indexes in [0, deckSize) through Source.Intn.
func sampleDraws(r io.Reader, n int) ([]int, error) {
	src := NewSource(r, nil)
	draws := make([]int, n)
	for i := range draws {
		v, err := src.Intn(deckSize)
		if err != nil {
			return nil, err
		}
		draws[i] = v
	}
	return draws, nil
}

// checkDraws rejects long runs of one index and samples that cover too few
// distinct indexes.
func checkDraws(draws []int) error {
	var seen [deckSize]bool
	distinct, run, longest := 0, 0, 0
	for i, d := range draws {
		if !seen[d] {
			seen[d] = true
			distinct++
		}
		if i > 0 && d == draws[i-1] {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	if longest >= maxRun {
		return fmt.Errorf("%w: the same index %d times in a row", ErrStuck, longest)
	}
	if want := min(len(draws), deckSize) / 4; distinct < want {
		return fmt.Errorf("%w: only %d distinct indexes in %d draws", ErrStuck, distinct, len(draws))
	}
	return nil
}
