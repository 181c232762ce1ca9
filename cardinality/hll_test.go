package cardinality

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/jcalabro/probkit"
)

func mustNew(t testing.TB, precision uint8, opts ...Option) *Sketch {
	t.Helper()
	s, err := New(precision, opts...)
	if err != nil {
		t.Fatalf("New(%d) failed: %v", precision, err)
	}
	return s
}

func TestNewPrecisionRange(t *testing.T) {
	for _, p := range []uint8{0, 3, 19, 64} {
		if _, err := New(p); !errors.Is(err, probkit.ErrInvalidConfig) {
			t.Errorf("precision %d: got err %v, want ErrInvalidConfig", p, err)
		}
	}

	for p := uint8(MinPrecision); p <= MaxPrecision; p++ {
		s := mustNew(t, p)
		if got := len(s.Registers()); got != 1<<p {
			t.Errorf("precision %d: got %d registers, want %d", p, got, 1<<p)
		}
		if s.Precision() != p {
			t.Errorf("precision: got %d, want %d", s.Precision(), p)
		}
	}
}

func TestRegisterUpdateWithStubHasher(t *testing.T) {
	hashes := map[string]uint64{
		"a": 1<<4 | 3,  // register 3, remainder 1 -> last of 60 bits
		"b": 3,         // register 3, remainder 0 -> past the end
		"c": 1<<63 | 5, // register 5, remainder has its top bit set
	}
	stub := probkit.HasherFunc(func(data []byte, seed uint32) uint64 {
		return hashes[string(data)]
	})
	s := mustNew(t, 4, WithHasher(stub))

	s.UpdateString("a")
	if got := s.Registers()[3]; got != 60 {
		t.Errorf("register 3 after a: got %d, want 60", got)
	}

	s.UpdateString("b")
	if got := s.Registers()[3]; got != 61 {
		t.Errorf("register 3 after b: got %d, want 61", got)
	}

	// Registers keep the maximum.
	s.UpdateString("a")
	if got := s.Registers()[3]; got != 61 {
		t.Errorf("register 3 decreased to %d", got)
	}

	s.UpdateString("c")
	if got := s.Registers()[5]; got != 1 {
		t.Errorf("register 5 after c: got %d, want 1", got)
	}
}

func TestEmptySketchCountsZero(t *testing.T) {
	s := mustNew(t, 14)
	if got := s.Count(); got != 0 {
		t.Errorf("empty sketch count: got %f, want 0", got)
	}
}

func TestSketchIdempotent(t *testing.T) {
	s := mustNew(t, 14)

	s.Update([]byte("10.0.0.1"))
	once := s.Count()
	registers := s.Registers()

	for range 1000 {
		s.Update([]byte("10.0.0.1"))
	}

	if got := s.Count(); got != once {
		t.Errorf("count changed under repetition: %f -> %f", once, got)
	}
	if !slices.Equal(s.Registers(), registers) {
		t.Error("registers changed under repetition")
	}
}

func TestSketchOrderIndependent(t *testing.T) {
	forward := mustNew(t, 10)
	backward := mustNew(t, 10)

	const n = 5000
	for i := range n {
		forward.UpdateString(fmt.Sprintf("key-%d", i))
		backward.UpdateString(fmt.Sprintf("key-%d", n-1-i))
	}

	if forward.Count() != backward.Count() {
		t.Errorf("order changed the estimate: %f vs %f", forward.Count(), backward.Count())
	}
}

func TestSketchErrorBound(t *testing.T) {
	for _, name := range []string{"xxh3", "murmur3", "xxhash"} {
		h, _ := probkit.HasherByName(name)
		for _, distinct := range []int{10_000, 100_000, 500_000} {
			s := mustNew(t, 14, WithHasher(h))
			for i := range distinct {
				s.UpdateString(fmt.Sprintf("192.168.%d.%d", i/256, i%256))
			}

			est := s.Count()
			relErr := math.Abs(est-float64(distinct)) / float64(distinct) * 100
			if relErr >= 5 {
				t.Errorf("%s: distinct=%d estimate=%.1f error=%.2f%%", name, distinct, est, relErr)
			}
			t.Logf("%s: distinct=%d estimate=%.1f error=%.2f%%", name, distinct, est, relErr)
		}
	}
}

// Random keys over many seeded trials, so the bound does not rest on one
// lucky key layout.
func TestSketchErrorBoundRandomKeys(t *testing.T) {
	const (
		trials   = 20
		distinct = 10_000
	)

	for _, name := range []string{"xxh3", "murmur3", "xxhash"} {
		h, _ := probkit.HasherByName(name)

		var worst, sum float64
		for trial := range uint64(trials) {
			rng := rand.New(rand.NewPCG(trial, 0x9e3779b97f4a7c15))
			s := mustNew(t, 14, WithHasher(h))
			exact := NewExactCounter()

			key := make([]byte, 16)
			for range distinct {
				binary.LittleEndian.PutUint64(key[:8], rng.Uint64())
				binary.LittleEndian.PutUint64(key[8:], rng.Uint64())
				s.Update(key)
				exact.Add(key)
			}

			relErr, err := RelativeErrorPercent(exact.Count(), s.Count())
			if err != nil {
				t.Fatal(err)
			}
			if relErr >= 5 {
				t.Errorf("%s: trial %d: exact=%d estimate=%.1f error=%.2f%%",
					name, trial, exact.Count(), s.Count(), relErr)
			}
			worst = max(worst, relErr)
			sum += relErr
		}

		// 1.04/sqrt(2^14) is about 0.81%; the mean absolute error sits below it.
		if mean := sum / trials; mean >= 2 {
			t.Errorf("%s: mean error %.2f%% over %d trials", name, mean, trials)
		}
		t.Logf("%s: %d trials, worst error %.2f%%", name, trials, worst)
	}
}

func TestSketchMonotonic(t *testing.T) {
	s := mustNew(t, 12)

	var prev float64
	for i := range 200_000 {
		s.UpdateString(fmt.Sprintf("item-%d", i))
		if (i+1)%20_000 == 0 {
			cur := s.Count()
			if cur < prev {
				t.Errorf("estimate decreased from %f to %f at %d keys", prev, cur, i+1)
			}
			prev = cur
		}
	}
}

func TestRelativeStandardError(t *testing.T) {
	s := mustNew(t, 14)
	if got, want := s.RelativeStandardError(), 1.04/128; math.Abs(got-want) > 1e-12 {
		t.Errorf("got %f, want %f", got, want)
	}
}

func TestExactCounter(t *testing.T) {
	c := NewExactCounter()
	if c.Count() != 0 {
		t.Fatalf("new counter has count %d", c.Count())
	}

	c.Add([]byte("a"))
	c.Add([]byte("b"))
	c.AddString("a")
	c.Add([]byte("a"))

	if c.Count() != 2 {
		t.Errorf("count: got %d, want 2", c.Count())
	}
}
