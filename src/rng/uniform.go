package rng

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const boundLimit = 1_000_000_000

var ErrRead = errors.New("error fetching random bytes")

// UniformInt32 returns a uniform integer in [min, max] inclusive.
// Integer-only rejection sampling (no floats). This is unbiased assuming the uint32 stream is uniform.
func UniformInt32(r io.Reader, h *Health, min int, max int) (int32, error) {
	switch {
	case min < -boundLimit:
		return 0, errors.New("the minimum value should not be lower than -1,000,000,000")
	case min > boundLimit:
		return 0, errors.New("the minimum value should not be higher than 1,000,000,000")
	case max < -boundLimit:
		return 0, errors.New("the maximum value should not be lower than -1,000,000,000")
	case max > boundLimit:
		return 0, errors.New("the maximum value should not be higher than 1,000,000,000")
	case min > max:
		return 0, errors.New("the minimum value should be smaller than or equal to the maximum value")
	}

	rangeSize := uint32(max - min + 1)

	// limit = floor(2^32 / rangeSize) * rangeSize
	limit := (uint64(1)<<32)/uint64(rangeSize) * uint64(rangeSize)

	var buf [4]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if h != nil {
				h.Set(false, "error fetching random bytes: "+err.Error())
			}
			return 0, fmt.Errorf("%w: %v", ErrRead, err)
		}

		x := binary.BigEndian.Uint32(buf[:])
		if uint64(x) < limit {
			return int32(x%rangeSize) + int32(min), nil
		}
		// reject and retry
	}
}

// Source draws uniform indexes from an entropy stream. Read failures are
// reported to the health monitor when one is attached.
type Source struct {
	r      io.Reader
	health *Health
}

func NewSource(r io.Reader, h *Health) *Source {
	return &Source{r: r, health: h}
}

// Intn returns a uniform integer in [0, n).
func (s *Source) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid bound %d", n)
	}
	v, err := UniformInt32(s.r, s.health, 0, n-1)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
