package probkit

import (
	"fmt"
	"math/bits"
)

// Filter is a non-thread-safe bloom filter over a flat bit vector.
//
// Each item is mapped to k bit positions by hashing it with one Hasher
// under the seeds 0..k-1 and reducing each hash modulo the capacity.
// Bits are only ever set, never cleared, so an item that was added is
// always reported as present.
type Filter struct {
	words    []uint64 // capacity bits packed 64 to a word
	capacity uint64   // Total number of bits
	k        uint32   // Number of hash functions (seeds)
	hasher   Hasher
	count    uint64 // Number of adds that set at least one new bit
}

// Option configures a Filter.
type Option func(*options)

type options struct {
	hasher Hasher
}

// WithHasher sets the hash oracle used to derive bit positions. The default
// is XXH3.
func WithHasher(h Hasher) Option {
	return func(o *options) {
		if h != nil {
			o.hasher = h
		}
	}
}

// New creates a bloom filter with capacity bits and hashCount hash
// functions. Both must be positive.
func New(capacity uint64, hashCount uint32, opts ...Option) (*Filter, error) {
	if capacity == 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrInvalidConfig)
	}
	if hashCount == 0 {
		return nil, fmt.Errorf("%w: hash count must be positive", ErrInvalidConfig)
	}

	o := options{hasher: XXH3}
	for _, opt := range opts {
		opt(&o)
	}

	return &Filter{
		words:    make([]uint64, (capacity+63)/64),
		capacity: capacity,
		k:        hashCount,
		hasher:   o.hasher,
	}, nil
}

// NewWithEstimates creates a bloom filter sized for the expected number of
// items and desired false positive rate.
func NewWithEstimates(expectedItems uint64, fpRate float64, opts ...Option) (*Filter, error) {
	capacity, k, _ := OptimalParams(expectedItems, fpRate)
	return New(capacity, k, opts...)
}

func validateItem(item string) error {
	if item == "" {
		return ErrInvalidItem
	}
	return nil
}

// Positions returns the k bit positions for item, one per seed in seed
// order. Positions are not deduplicated.
func (f *Filter) Positions(item string) ([]uint64, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	return f.positions(item, make([]uint64, 0, f.k)), nil
}

// positions appends the bit positions for item to dst. The raw hash is
// reduced as an unsigned value, so every 64-bit pattern maps into range.
func (f *Filter) positions(item string, dst []uint64) []uint64 {
	data := []byte(item)
	for seed := uint32(0); seed < f.k; seed++ {
		dst = append(dst, f.hasher.Hash(data, seed)%f.capacity)
	}
	return dst
}

// Add adds item to the filter. Re-adding an item leaves the filter
// unchanged.
func (f *Filter) Add(item string) error {
	if err := validateItem(item); err != nil {
		return err
	}

	var changed bool
	var buf [8]uint64
	for _, pos := range f.positions(item, buf[:0]) {
		word, mask := pos/64, uint64(1)<<(pos%64)
		if f.words[word]&mask == 0 {
			f.words[word] |= mask
			changed = true
		}
	}

	if changed {
		f.count++
	}
	return nil
}

// Contains reports whether item might be in the filter. A false result
// means the item was definitely never added; a true result may be a false
// positive.
func (f *Filter) Contains(item string) (bool, error) {
	if err := validateItem(item); err != nil {
		return false, err
	}

	var buf [8]uint64
	for _, pos := range f.positions(item, buf[:0]) {
		if f.words[pos/64]&(1<<(pos%64)) == 0 {
			return false, nil
		}
	}
	return true, nil
}

// Cap returns the capacity of the filter in bits.
func (f *Filter) Cap() uint64 {
	return f.capacity
}

// K returns the number of hash functions used.
func (f *Filter) K() uint32 {
	return f.k
}

// Count returns the approximate number of distinct items added to the
// filter. Adds that set no new bit are not counted.
func (f *Filter) Count() uint64 {
	return f.count
}

// SetBits returns the number of bits currently set.
func (f *Filter) SetBits() uint64 {
	var n uint64
	for _, word := range f.words {
		n += uint64(bits.OnesCount64(word))
	}
	return n
}

// EstimatedFillRatio estimates the proportion of bits that are set.
func (f *Filter) EstimatedFillRatio() float64 {
	return float64(f.SetBits()) / float64(f.capacity)
}

// EstimatedFalsePositiveRate estimates the current false positive rate
// based on the number of items added.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	return EstimateFalsePositiveRate(f.capacity, f.k, f.count)
}
