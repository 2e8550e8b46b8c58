package automaton

import "testing"

func TestEncodeLiteralBasic(t *testing.T) {
	// F=4, x = [1,0,1,0] -> bit0=1, bit1=0, bit2=1, bit3=0,
	// negation bits: bit4=0, bit5=1, bit6=0, bit7=1.
	x := EncodeLiteral([]byte{1, 0, 1, 0})
	if len(x) != LiteralWords(4) {
		t.Fatalf("length = %d, want %d", len(x), LiteralWords(4))
	}
	want := Word(0)
	want |= 1 << 0
	want |= 1 << 2
	want |= 1 << 5
	want |= 1 << 7
	if x[0] != want {
		t.Errorf("x[0] = %032b, want %032b", x[0], want)
	}
}

func TestEncodeLiteralTailIsZero(t *testing.T) {
	for _, f := range []int{1, 5, 16, 17, 31, 32, 33, 100} {
		features := make([]byte, f)
		for i := range features {
			features[i] = byte(i % 2)
		}
		x := EncodeLiteral(features)
		mask := tailMask(f)
		last := x[len(x)-1]
		if last&^mask != 0 {
			t.Errorf("features=%d: tail bits set in last word: %032b (mask %032b)", f, last, mask)
		}
	}
}

func TestEncodeLiteralIntoMatchesEncodeLiteral(t *testing.T) {
	features := []byte{1, 1, 0, 0, 1, 0, 1}
	want := EncodeLiteral(features)
	got := make([]Word, LiteralWords(len(features)))
	// pre-fill with garbage to confirm EncodeLiteralInto zero-fills first.
	for i := range got {
		got[i] = 0xFFFFFFFF
	}
	EncodeLiteralInto(features, got)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d: got %032b, want %032b", i, got[i], want[i])
		}
	}
}

func TestLiteralWordsCeiling(t *testing.T) {
	cases := map[int]int{1: 1, 16: 1, 17: 2, 32: 2, 33: 3, 64: 4, 65: 5}
	for f, want := range cases {
		if got := LiteralWords(f); got != want {
			t.Errorf("LiteralWords(%d) = %d, want %d", f, got, want)
		}
	}
}
