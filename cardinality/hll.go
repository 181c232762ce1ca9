// Package cardinality estimates the number of distinct keys in a stream
// with a HyperLogLog sketch and checks the estimate against an exact
// counter.
package cardinality

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/jcalabro/probkit"
)

const (
	// MinPrecision and MaxPrecision bound the number of bucket index bits.
	MinPrecision = 4
	MaxPrecision = 18

	// sketchSeed is the seed every key is hashed under.
	sketchSeed = 0
)

// Sketch is a non-thread-safe HyperLogLog sketch with 2^precision
// registers.
type Sketch struct {
	registers []uint8
	p         uint8  // number of bits selecting a register
	m         uint32 // number of registers
	alpha     float64
	hasher    probkit.Hasher
}

// Option configures a Sketch.
type Option func(*options)

type options struct {
	hasher probkit.Hasher
}

// WithHasher sets the hash oracle keys are hashed with. The default is
// probkit.XXH3.
func WithHasher(h probkit.Hasher) Option {
	return func(o *options) {
		if h != nil {
			o.hasher = h
		}
	}
}

// New creates a sketch with 2^precision registers. precision must be in
// [MinPrecision, MaxPrecision].
func New(precision uint8, opts ...Option) (*Sketch, error) {
	if precision < MinPrecision || precision > MaxPrecision {
		return nil, fmt.Errorf("%w: precision %d out of range [%d, %d]",
			probkit.ErrInvalidConfig, precision, MinPrecision, MaxPrecision)
	}

	o := options{hasher: probkit.XXH3}
	for _, opt := range opts {
		opt(&o)
	}

	m := uint32(1) << precision
	return &Sketch{
		registers: make([]uint8, m),
		p:         precision,
		m:         m,
		alpha:     alpha(m),
		hasher:    o.hasher,
	}, nil
}

// alpha returns the bias correction constant for m registers.
func alpha(m uint32) float64 {
	switch m {
	case 16:
		return 0.673
	case 32:
		return 0.697
	case 64:
		return 0.709
	default:
		return 0.7213 / (1 + 1.079/float64(m))
	}
}

// Update adds key to the sketch.
func (s *Sketch) Update(key []byte) {
	s.insertHash(s.hasher.Hash(key, sketchSeed))
}

// UpdateString adds key to the sketch.
func (s *Sketch) UpdateString(key string) {
	s.Update([]byte(key))
}

// insertHash uses the low p bits of h to pick a register and the rank of
// the first set bit in the remaining 64-p bits as its candidate value.
func (s *Sketch) insertHash(h uint64) {
	idx := h & uint64(s.m-1)
	w := h >> s.p

	// w has p leading zeros from the shift; rank counts within the
	// remaining width, so w == 0 ranks 64-p+1.
	rank := uint8(bits.LeadingZeros64(w)) - s.p + 1

	if rank > s.registers[idx] {
		s.registers[idx] = rank
	}
}

// Count returns the estimated number of distinct keys added.
func (s *Sketch) Count() float64 {
	var sum float64
	var zeros int
	for _, r := range s.registers {
		sum += math.Ldexp(1, -int(r))
		if r == 0 {
			zeros++
		}
	}

	m := float64(s.m)
	estimate := s.alpha * m * m / sum

	// Small range correction
	if estimate <= 2.5*m && zeros > 0 {
		return linearCounting(m, float64(zeros))
	}

	// No large range correction: with 64-bit hashes collisions are
	// negligible at any cardinality the registers can represent.
	return estimate
}

func linearCounting(m, zeros float64) float64 {
	return m * math.Log(m/zeros)
}

// Precision returns the number of bucket index bits.
func (s *Sketch) Precision() uint8 {
	return s.p
}

// Registers returns a copy of the register array.
func (s *Sketch) Registers() []uint8 {
	out := make([]uint8, len(s.registers))
	copy(out, s.registers)
	return out
}

// RelativeStandardError returns the expected relative standard error of
// Count, 1.04/sqrt(m).
func (s *Sketch) RelativeStandardError() float64 {
	return 1.04 / math.Sqrt(float64(s.m))
}
