package thinwall

import "testing"

// buildCase constructs a 2x2 coarse-cell (4x4 fine mesh) ThinWalls with
// every interior/outer edge and center set to a uniform elevation, then lets
// the caller poke individual StridedView cells before running a stage.
func buildCase(t *testing.T, elev float64) *ThinWalls {
	t.Helper()
	return flatThinWalls(t, 4, 4, elev)
}

func setSec(t *testing.T, tw *ThinWalls, dir Direction, low, ave, hgh float64, j, i int) {
	t.Helper()
	v, err := triple(tw, dir)
	if err != nil {
		t.Fatalf("triple(%s): %v", dir, err)
	}
	v[0].Set(low, j, i)
	v[1].Set(ave, j, i)
	v[2].Set(hgh, j, i)
}

func getSecLow(t *testing.T, tw *ThinWalls, dir Direction, j, i int) float64 {
	t.Helper()
	v, err := tw.Sec(dir, Low)
	if err != nil {
		t.Fatalf("Sec(%s): %v", dir, err)
	}
	return v.Get(j, i)
}

func TestPushCornersRaisesOuterEdgesOnlyWhenSillExceedsRidge(t *testing.T) {
	tw := buildCase(t, 0)
	// Make the SW corner a tall sill (S,W both high) with a low opposite (NE) ridge.
	setSec(t, tw, DirS, 10, 10, 10, 0, 0)
	setSec(t, tw, DirW, 10, 10, 10, 0, 0)
	setSec(t, tw, DirN, 1, 1, 1, 0, 0)
	setSec(t, tw, DirE, 1, 1, 1, 0, 0)

	if err := tw.PushCorners(); err != nil {
		t.Fatalf("PushCorners: %v", err)
	}
	if got := getSecLow(t, tw, DirS, 0, 0); got != 1 {
		t.Errorf("interior S low after PushCorners = %v, want lowered to opposite ridge 1", got)
	}
	if got := getSecLow(t, tw, DirSWS, 0, 0); got < 10 {
		t.Errorf("outer SWS low after PushCorners = %v, want raised to >= 10", got)
	}
	if got := getSecLow(t, tw, DirSWW, 0, 0); got < 10 {
		t.Errorf("outer SWW low after PushCorners = %v, want raised to >= 10", got)
	}
}

func TestPushCornersNoOpWhenSillDoesNotExceedOppositeRidge(t *testing.T) {
	tw := buildCase(t, 5)
	if err := tw.PushCorners(); err != nil {
		t.Fatalf("PushCorners: %v", err)
	}
	for _, dir := range []Direction{DirS, DirN, DirW, DirE, DirSWS, DirSWW} {
		if got := getSecLow(t, tw, dir, 0, 0); got != 5 {
			t.Errorf("%s low after no-op PushCorners = %v, want unchanged 5", dir, got)
		}
	}
}

func TestLowerButtressClampsSolitarySide(t *testing.T) {
	tw := buildCase(t, 1)
	setSec(t, tw, DirS, 100, 100, 100, 0, 0) // lone tall buttress
	if err := tw.LowerButtress(); err != nil {
		t.Fatalf("LowerButtress: %v", err)
	}
	if got := getSecLow(t, tw, DirS, 0, 0); got != 1 {
		t.Errorf("S low after LowerButtress = %v, want clamped to 1 (max of other three)", got)
	}
}

func TestLowerButtressLeavesBalancedSidesAlone(t *testing.T) {
	tw := buildCase(t, 3)
	if err := tw.LowerButtress(); err != nil {
		t.Fatalf("LowerButtress: %v", err)
	}
	for _, dir := range []Direction{DirS, DirN, DirW, DirE} {
		if got := getSecLow(t, tw, dir, 0, 0); got != 3 {
			t.Errorf("%s low changed on a balanced cell: %v, want 3", dir, got)
		}
	}
}

func TestFoldRidgesRaisesOuterEdgesForADominantRidge(t *testing.T) {
	tw := buildCase(t, 0)
	// Build a ridge along the S side: the two perpendicular interior edges
	// (E,W) are both taller than either S or N, and S is taller than N.
	setSec(t, tw, DirE, 20, 20, 20, 0, 0)
	setSec(t, tw, DirW, 20, 20, 20, 0, 0)
	setSec(t, tw, DirS, 5, 5, 5, 0, 0)
	setSec(t, tw, DirN, 1, 1, 1, 0, 0)

	if err := tw.FoldRidges(); err != nil {
		t.Fatalf("FoldRidges: %v", err)
	}
	if got := getSecLow(t, tw, DirSWS, 0, 0); got < 20 {
		t.Errorf("SWS low after FoldRidges = %v, want raised to >= 20 (central ridge)", got)
	}
}

func TestInvertExteriorCornersLowersDeepestCorner(t *testing.T) {
	tw := buildCase(t, 0)
	// Make SW's outer edges the deepest (lowest low values) of all four
	// corners, and its interior edges deep too, so it qualifies as the
	// exterior-inverted corner.
	for _, dir := range []Direction{DirSWS, DirSWW} {
		setSec(t, tw, dir, -10, -10, -10, 0, 0)
	}
	setSec(t, tw, DirS, -5, -5, -5, 0, 0)
	setSec(t, tw, DirW, -5, -5, -5, 0, 0)
	for _, dir := range []Direction{DirSES, DirSEE, DirNWN, DirNWW, DirNEN, DirNEE} {
		setSec(t, tw, dir, 10, 10, 10, 0, 0)
	}

	if err := tw.InvertExteriorCorners(); err != nil {
		t.Fatalf("InvertExteriorCorners: %v", err)
	}
	if got := getSecLow(t, tw, DirS, 0, 0); got != -10 {
		t.Errorf("S interior low after InvertExteriorCorners = %v, want lowered to -10", got)
	}
}

func TestBoundHByUVBoundsCenterToMinEdge(t *testing.T) {
	tw := buildCase(t, 10)
	tw.EffectiveU.Low.Set(2, 0, 1) // one interior U edge much lower
	tw.BoundHByUV()
	if got := tw.EffectiveC.Low.Get(0, 0); got > 2 {
		t.Errorf("center (0,0) low after BoundHByUV = %v, want <= 2", got)
	}
	if !tw.EffectiveC.Ordered() {
		t.Error("EffectiveC not ordered after BoundHByUV")
	}
}

func TestFillPotHolesRaisesIsolatedPit(t *testing.T) {
	tw := buildCase(t, 10)
	tw.EffectiveC.Low.Set(-100, 0, 0)
	tw.EffectiveC.Ave.Set(-100, 0, 0)
	tw.FillPotHoles()
	if got := tw.EffectiveC.Low.Get(0, 0); got != 10 {
		t.Errorf("pit low after FillPotHoles = %v, want raised to surrounding edge level 10", got)
	}
	if !tw.EffectiveC.Ordered() {
		t.Error("EffectiveC not ordered after FillPotHoles")
	}
}
