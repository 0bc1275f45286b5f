package thinwall

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewRegularCoordPeriodic(t *testing.T) {
	c := NewRegularCoord(360, 0, true, 180)
	if c.N() != 360 {
		t.Fatalf("N() = %d, want 360", c.N())
	}
	if !almostEqual(c.Delta(), 1.0, 1e-12) {
		t.Fatalf("Delta() = %v, want 1.0", c.Delta())
	}
	if c.Size() != 360 {
		t.Fatalf("Size() = %d, want 360", c.Size())
	}
}

func TestRegularCoordCentersBounds(t *testing.T) {
	c := NewRegularCoordDelta(4, 0, false, 1.0)
	centers := c.Centers()
	want := []float64{0, 1, 2, 3}
	for i, v := range want {
		if !almostEqual(centers[i], v, 1e-12) {
			t.Errorf("Centers()[%d] = %v, want %v", i, centers[i], v)
		}
	}
	bounds := c.Bounds()
	if len(bounds) != len(centers)+1 {
		t.Fatalf("len(Bounds()) = %d, want %d", len(bounds), len(centers)+1)
	}
}

func TestRegularCoordBoundsWrapHasNoDuplicateAndRightLength(t *testing.T) {
	c := NewRegularCoordDelta(8, 0, true, 1.0)
	s := c.Subset(6, 2) // wraps: cells 6,7,0,1
	bounds := s.Bounds()
	if len(bounds) != s.Size()+1 {
		t.Fatalf("len(Bounds()) = %d, want %d", len(bounds), s.Size()+1)
	}
	want := []float64{5.5, 6.5, 7.5, 8.5, 9.5}
	for i, v := range want {
		if !almostEqual(bounds[i], v, 1e-9) {
			t.Errorf("Bounds()[%d] = %v, want %v", i, bounds[i], v)
		}
	}
	seen := map[float64]bool{}
	for _, v := range bounds {
		if seen[v] {
			t.Errorf("Bounds() contains duplicate value %v: %v", v, bounds)
		}
		seen[v] = true
	}
}

func TestRegularCoordSubsetWrap(t *testing.T) {
	c := NewRegularCoordDelta(8, 0, true, 1.0)
	s := c.Subset(6, 2) // wraps: cells 6,7,0,1
	if s.Size() != 4 {
		t.Fatalf("wrapped Size() = %d, want 4", s.Size())
	}
	centers := s.Centers()
	want := []float64{6, 7, 8, 9}
	for i, v := range want {
		if !almostEqual(centers[i], v, 1e-9) {
			t.Errorf("wrapped Centers()[%d] = %v, want %v", i, centers[i], v)
		}
	}
}

func TestRegularCoordIndicesPeriodicWrap(t *testing.T) {
	c := NewRegularCoordDelta(360, 0, true, 1.0)
	idx, err := c.Indices([]float64{0.4, 359.6, -0.4}, false)
	if err != nil {
		t.Fatalf("Indices() error: %v", err)
	}
	want := []int{0, 359, 359}
	for i, v := range want {
		if idx[i] != v {
			t.Errorf("idx[%d] = %d, want %d", i, idx[i], v)
		}
	}
}

func TestRegularCoordIndicesClipsNonPeriodic(t *testing.T) {
	c := NewRegularCoordDelta(10, 0, false, 1.0)
	idx, err := c.Indices([]float64{-5, 50}, false)
	if err != nil {
		t.Fatalf("Indices() error: %v", err)
	}
	if idx[0] != 0 || idx[1] != 9 {
		t.Errorf("Indices() = %v, want [0 9]", idx)
	}
}

func TestRegularCoordIndicesOutOfSubsetRange(t *testing.T) {
	c := NewRegularCoordDelta(10, 0, false, 1.0)
	s := c.Subset(2, 5)
	_, err := s.Indices([]float64{8}, false)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
}

func TestIsUniformAxis(t *testing.T) {
	if !IsUniformAxis([]float64{0, 1, 2, 3, 4}) {
		t.Error("expected uniform axis to report true")
	}
	if IsUniformAxis([]float64{0, 1, 2, 10, 11}) {
		t.Error("expected non-uniform axis to report false")
	}
	if IsUniformAxis([]float64{0, 0, 0}) {
		t.Error("zero-spacing axis should not be considered uniform")
	}
}
