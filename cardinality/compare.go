package cardinality

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrZeroBaseline is returned when the relative error is requested against
// an exact count of zero.
var ErrZeroBaseline = errors.New("cardinality: exact count is zero, relative error is undefined")

// Record is the outcome of counting one stream both exactly and with a
// sketch.
type Record struct {
	ExactCount    uint64
	ExactElapsed  time.Duration
	SketchCount   float64
	SketchElapsed time.Duration

	// RelativeErrorPercent is |exact-sketch|/exact*100. It is NaN when
	// ExactCount is zero.
	RelativeErrorPercent float64
}

// RelativeErrorPercent returns |exact-approx|/exact as a percentage.
func RelativeErrorPercent(exact uint64, approx float64) (float64, error) {
	if exact == 0 {
		return math.NaN(), ErrZeroBaseline
	}
	e := float64(exact)
	return math.Abs(e-approx) / e * 100, nil
}

// Compare counts the distinct keys exactly and with a sketch of the given
// precision, timing each pass separately. The passes run one after the
// other so neither disturbs the other's caches.
//
// An invalid precision fails before any key is processed. An empty stream
// yields a record with zero counts and an error wrapping ErrZeroBaseline.
func Compare(keys [][]byte, precision uint8, opts ...Option) (Record, error) {
	sketch, err := New(precision, opts...)
	if err != nil {
		return Record{}, err
	}

	var rec Record

	start := time.Now()
	exact := NewExactCounter()
	for _, k := range keys {
		exact.Add(k)
	}
	rec.ExactCount = exact.Count()
	rec.ExactElapsed = time.Since(start)

	start = time.Now()
	for _, k := range keys {
		sketch.Update(k)
	}
	rec.SketchCount = sketch.Count()
	rec.SketchElapsed = time.Since(start)

	rec.RelativeErrorPercent, err = RelativeErrorPercent(rec.ExactCount, rec.SketchCount)
	if err != nil {
		return rec, fmt.Errorf("compare %d keys: %w", len(keys), err)
	}
	return rec, nil
}
