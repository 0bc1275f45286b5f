package thinwall

import "testing"

func TestStatsNormalizeEnforcesOrdering(t *testing.T) {
	s := NewStats(1, 1)
	s.Set(0, 0, 5, 1, 3) // ave and hgh both below low
	s.Normalize()
	lo, av, hi := s.Get(0, 0)
	if !(lo <= av && av <= hi) {
		t.Fatalf("Normalize left (%v,%v,%v) unordered", lo, av, hi)
	}
	if !s.Ordered() {
		t.Fatal("Ordered() = false after Normalize")
	}
}

func TestStatsMean4Min4Max4(t *testing.T) {
	s := NewStats(2, 2)
	vals := [][3]float64{
		{0, 0, 0}, {2, 2, 2},
		{4, 4, 4}, {6, 6, 6},
	}
	k := 0
	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			s.Set(j, i, vals[k][0], vals[k][1], vals[k][2])
			k++
		}
	}
	mean := s.Mean4()
	if !almostEqual(mean.Get(0, 0), 3, 1e-9) {
		t.Errorf("Mean4 = %v, want 3", mean.Get(0, 0))
	}
	min := s.Min4()
	if min.Get(0, 0) != 0 {
		t.Errorf("Min4 = %v, want 0", min.Get(0, 0))
	}
	max := s.Max4()
	if max.Get(0, 0) != 6 {
		t.Errorf("Max4 = %v, want 6", max.Get(0, 0))
	}
}

func TestStatsMean2uMean2v(t *testing.T) {
	s := NewStats(2, 1)
	s.Set(0, 0, 1, 1, 1)
	s.Set(1, 0, 3, 3, 3)
	u := s.Mean2u()
	if !almostEqual(u.Get(0, 0), 2, 1e-9) {
		t.Errorf("Mean2u = %v, want 2", u.Get(0, 0))
	}

	v := NewStats(1, 2)
	v.Set(0, 0, 2, 2, 2)
	v.Set(0, 1, 8, 8, 8)
	mv := v.Mean2v()
	if !almostEqual(mv.Get(0, 0), 5, 1e-9) {
		t.Errorf("Mean2v = %v, want 5", mv.Get(0, 0))
	}
}

func TestStatsFlipAxis(t *testing.T) {
	s := NewStats(2, 1)
	s.Set(0, 0, 1, 1, 1)
	s.Set(1, 0, 2, 2, 2)
	s.Flip(0)
	if lo, _, _ := s.Get(0, 0); lo != 2 {
		t.Errorf("Flip(0) row 0 low = %v, want 2", lo)
	}
	if lo, _, _ := s.Get(1, 0); lo != 1 {
		t.Errorf("Flip(0) row 1 low = %v, want 1", lo)
	}
}

func TestStatsTransposeSwapsShape(t *testing.T) {
	s := NewStats(2, 3)
	s.Transpose()
	if s.Shape[0] != 3 || s.Shape[1] != 2 {
		t.Fatalf("Shape after Transpose = %v, want [3 2]", s.Shape)
	}
}

func TestStatsCopyIsIndependent(t *testing.T) {
	s := NewStats(1, 1)
	s.Set(0, 0, 1, 2, 3)
	c := s.Copy()
	c.Set(0, 0, 9, 9, 9)
	lo, _, _ := s.Get(0, 0)
	if lo != 1 {
		t.Fatalf("original mutated through copy: low = %v, want 1", lo)
	}
}

func TestCellPolygonOutOfRange(t *testing.T) {
	lon := denseOf(2, 2, 0, 1, 0, 1)
	lat := denseOf(2, 2, 0, 0, 1, 1)
	if _, err := cellPolygon(lon, lat, 1, 1); err == nil {
		t.Fatal("expected out-of-range error for the last valid node index")
	}
	if _, err := cellPolygon(lon, lat, 0, 0); err != nil {
		t.Fatalf("cellPolygon(0,0): %v", err)
	}
}
