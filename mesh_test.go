package thinwall

import (
	"testing"

	"github.com/ctessum/sparse"
)

func globalTestMesh(t *testing.T, nj, ni int) *Mesh {
	t.Helper()
	m, err := NewGlobalMesh(nj, ni, -180)
	if err != nil {
		t.Fatalf("NewGlobalMesh: %v", err)
	}
	return m
}

func TestNewGlobalMeshShape(t *testing.T) {
	m := globalTestMesh(t, 4, 8)
	if m.Nj != 4 || m.Ni != 8 {
		t.Fatalf("Nj,Ni = %d,%d want 4,8", m.Nj, m.Ni)
	}
	if m.Lon.Shape[0] != 5 || m.Lon.Shape[1] != 9 {
		t.Fatalf("Lon shape = %v, want [5 9]", m.Lon.Shape)
	}
}

func TestFindPoleNodes(t *testing.T) {
	m := globalTestMesh(t, 2, 4)
	if len(m.NpIndex) == 0 {
		t.Fatal("expected at least one pole node at lat=90")
	}
	for _, p := range m.NpIndex {
		if m.Lat.Get(p.J, p.I) < 90.0 {
			t.Errorf("pole node (%d,%d) has lat %v < 90", p.J, p.I, m.Lat.Get(p.J, p.I))
		}
	}
}

func TestRefineBy2DoublesResolutionAndSharesNodes(t *testing.T) {
	m := globalTestMesh(t, 2, 4)
	r, err := m.RefineBy2(true)
	if err != nil {
		t.Fatalf("RefineBy2: %v", err)
	}
	if r.Nj != 2*m.Nj || r.Ni != 2*m.Ni {
		t.Fatalf("refined shape = (%d,%d), want (%d,%d)", r.Nj, r.Ni, 2*m.Nj, 2*m.Ni)
	}
	if r.Rfl != m.Rfl+1 {
		t.Fatalf("Rfl = %d, want %d", r.Rfl, m.Rfl+1)
	}
	for j := 0; j <= m.Nj; j++ {
		for i := 0; i <= m.Ni; i++ {
			if !almostEqual(r.Lat.Get(2*j, 2*i), m.Lat.Get(j, i), 1e-9) {
				t.Errorf("shared node (%d,%d) lat mismatch: %v vs %v", j, i, r.Lat.Get(2*j, 2*i), m.Lat.Get(j, i))
			}
		}
	}
}

func TestCoarsestResolutionMask(t *testing.T) {
	m := globalTestMesh(t, 4, 4)
	delLam, delPhi := m.CoarsestResolution(nil)
	if len(delLam.Elements) != m.Nj*m.Ni || len(delPhi.Elements) != m.Nj*m.Ni {
		t.Fatalf("CoarsestResolution returned wrong element counts")
	}
	masked := []IndexRange{{Js: 0, Je: 1, Is: 0, Ie: 1}}
	delLamM, _ := m.CoarsestResolution(masked)
	if delLamM.Get(0, 0) != 0 {
		t.Errorf("masked cell (0,0) delLam = %v, want 0", delLamM.Get(0, 0))
	}
}

func TestMaxRefineLevelZeroWhenAlreadyFiner(t *testing.T) {
	m := globalTestMesh(t, 360, 720)
	lvl := m.MaxRefineLevel(1.0, 1.0)
	if lvl > 0 {
		t.Errorf("MaxRefineLevel = %d, want <= 0 for an already-fine mesh", lvl)
	}
}

func TestFindNNUniformSourceAndSourceHits(t *testing.T) {
	m := globalTestMesh(t, 4, 8)
	lonCoord := NewRegularCoord(16, -180, true, 180)
	latCoord := NewRegularCoord(8, -90, false, 90)
	hits, err := m.SourceHits(lonCoord, latCoord, false, 0)
	if err != nil {
		t.Fatalf("SourceHits: %v", err)
	}
	if len(hits.Elements) != 16*8 {
		t.Fatalf("hits element count = %d, want %d", len(hits.Elements), 16*8)
	}
	found := false
	for _, v := range hits.Elements {
		if v != 0 {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected at least one source hit from a coincident mesh")
	}
}

func TestBuildSourceIndexCellsNear(t *testing.T) {
	m := globalTestMesh(t, 4, 8)
	idx, err := m.BuildSourceIndex()
	if err != nil {
		t.Fatalf("BuildSourceIndex: %v", err)
	}
	poly, err := m.CellPolygon(0, 0)
	if err != nil {
		t.Fatalf("CellPolygon: %v", err)
	}
	hits := idx.CellsNear(poly.Bounds())
	if len(hits) == 0 {
		t.Error("expected CellsNear to find at least the queried cell itself")
	}
}

func TestNewMeshFromNodesShapeMismatch(t *testing.T) {
	lon := sparse.ZerosDense(3, 3)
	lat := sparse.ZerosDense(3, 4)
	_, err := NewMeshFromNodes(lon, lat, 0)
	if err == nil {
		t.Fatal("expected an error for mismatched lon/lat shapes")
	}
}
