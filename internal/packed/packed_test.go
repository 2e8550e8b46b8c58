package packed

import "testing"

func TestBuffer1DAccess(t *testing.T) {
	b := NewBuffer1D(4)
	for i := 0; i < 4; i++ {
		b.Set(i, Word(i*10))
	}
	for i := 0; i < 4; i++ {
		if got := b.At(i); got != Word(i*10) {
			t.Errorf("At(%d) = %d, want %d", i, got, i*10)
		}
	}
	b.Zero()
	for i := 0; i < 4; i++ {
		if got := b.At(i); got != 0 {
			t.Errorf("after Zero, At(%d) = %d, want 0", i, got)
		}
	}
}

func TestBuffer2DRowSharesStorage(t *testing.T) {
	b := NewBuffer2D(3, 5)
	row := b.Row(1)
	row[2] = 99
	if got := b.At(1, 2); got != 99 {
		t.Errorf("mutation through Row() not reflected in At(): got %d, want 99", got)
	}
}

func TestBuffer2DDistinctRows(t *testing.T) {
	b := NewBuffer2D(2, 3)
	b.Set(0, 0, 1)
	b.Set(1, 0, 2)
	if b.At(0, 0) == b.At(1, 0) {
		t.Fatalf("rows alias each other")
	}
}

func TestBuffer3DRowIsThirdDimension(t *testing.T) {
	const aisles, rows, cols = 2, 3, 4
	b := NewBuffer3D(aisles, rows, cols)
	for c := 0; c < cols; c++ {
		b.Set(1, 2, c, Word(100+c))
	}
	row := b.Row(1, 2)
	if len(row) != cols {
		t.Fatalf("Row length = %d, want %d", len(row), cols)
	}
	for c := 0; c < cols; c++ {
		if row[c] != Word(100+c) {
			t.Errorf("row[%d] = %d, want %d", c, row[c], 100+c)
		}
	}
}

func TestBuffer3DRowMutationVisibleViaAt(t *testing.T) {
	b := NewBuffer3D(1, 1, 8)
	row := b.Row(0, 0)
	for i := range row {
		row[i] ^= 0xFFFFFFFF
	}
	for i := 0; i < 8; i++ {
		if b.At(0, 0, i) != 0xFFFFFFFF {
			t.Errorf("At(0,0,%d) = %#x, want 0xFFFFFFFF", i, b.At(0, 0, i))
		}
	}
}

func TestBuffer3DNoAliasingAcrossAisles(t *testing.T) {
	b := NewBuffer3D(3, 2, 2)
	b.Set(0, 0, 0, 1)
	b.Set(1, 0, 0, 2)
	b.Set(2, 0, 0, 3)
	if b.At(0, 0, 0) != 1 || b.At(1, 0, 0) != 2 || b.At(2, 0, 0) != 3 {
		t.Fatalf("aisles alias each other: %d %d %d", b.At(0, 0, 0), b.At(1, 0, 0), b.At(2, 0, 0))
	}
}
