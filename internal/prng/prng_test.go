package prng

import (
	"math"
	"testing"
)

func TestNewDiscardsOneValue(t *testing.T) {
	// New(seed) is specified as: set state, then draw-and-discard once. A
	// stream built "by hand" with the same seed and an extra Fastrand call
	// should agree with one built via New from the second draw onward.
	manual := &State{mcg: 2*42 + 1}
	manual.Fastrand() // the discarded draw
	viaNew := New(42)

	for i := 0; i < 8; i++ {
		got, want := viaNew.Fastrand(), manual.Fastrand()
		if got != want {
			t.Fatalf("draw %d: got %d, want %d", i, got, want)
		}
	}
}

func TestFastrandDeterministic(t *testing.T) {
	a := New(7)
	b := New(7)
	for i := 0; i < 1000; i++ {
		if x, y := a.Fastrand(), b.Fastrand(); x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
	}
}

func TestUniformRange(t *testing.T) {
	s := New(1)
	for i := 0; i < 100000; i++ {
		u := s.Uniform()
		if u < 0 || u >= 1 {
			t.Fatalf("uniform() out of range: %v", u)
		}
	}
}

func TestUniformBelowRange(t *testing.T) {
	s := New(2)
	const n = 17
	for i := 0; i < 100000; i++ {
		v := s.UniformBelow(n)
		if v >= n {
			t.Fatalf("uniform_below(%d) out of range: %d", n, v)
		}
	}
}

func TestRawRoundTrip(t *testing.T) {
	s := New(99)
	for i := 0; i < 10; i++ {
		s.Fastrand()
	}
	snapshot := s.Raw()
	restored := FromRaw(snapshot)
	for i := 0; i < 1000; i++ {
		if x, y := s.Fastrand(), restored.Fastrand(); x != y {
			t.Fatalf("draw %d diverged after restore: %d vs %d", i, x, y)
		}
	}
}

func TestCloneIndependence(t *testing.T) {
	s := New(5)
	clone := s.Clone()
	s.Fastrand()
	if s.Raw() == clone.Raw() {
		t.Fatalf("clone shares state with original after mutation")
	}
}

func TestBinomialBounds(t *testing.T) {
	s := New(3)
	const n = 40
	for _, p := range []float64{0.01, 0.25, 0.5, 0.85, 0.99} {
		for i := 0; i < 2000; i++ {
			b := s.Binomial(p, n)
			if b < 0 || b > n {
				t.Fatalf("binomial(%v, %d) out of range: %d", p, n, b)
			}
		}
	}
}

// TestBinomialSmallP documents the accepted normal-approximation bias
// (spec Open Question): for small p*n the mean should still track n*p even
// though the distribution's shape (notably the zero-flip frequency) is off.
func TestBinomialSmallP(t *testing.T) {
	s := New(11)
	const n = 200
	const p = 0.01
	const trials = 20000
	sum := 0
	for i := 0; i < trials; i++ {
		sum += s.Binomial(p, n)
	}
	mean := float64(sum) / trials
	want := float64(n) * p
	if math.Abs(mean-want) > 0.3 {
		t.Fatalf("binomial mean drifted too far from n*p: got %v, want ~%v", mean, want)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	s := New(4)
	a := make([]int, 50)
	for i := range a {
		a[i] = i
	}
	s.Shuffle(a)
	seen := make(map[int]bool, len(a))
	for _, v := range a {
		if v < 0 || v >= len(a) || seen[v] {
			t.Fatalf("shuffle produced a non-permutation: %v", a)
		}
		seen[v] = true
	}
}

func TestShuffleDeterministic(t *testing.T) {
	a := make([]int, 30)
	b := make([]int, 30)
	for i := range a {
		a[i], b[i] = i, i
	}
	New(21).Shuffle(a)
	New(21).Shuffle(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shuffles with the same seed diverged at %d: %d vs %d", i, a[i], b[i])
		}
	}
}
