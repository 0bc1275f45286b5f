package thinwall

import "testing"

func TestDiagnoseNSPathwaysDirectRouteDominates(t *testing.T) {
	tw := buildCase(t, 0)
	// The long way around (S, W, N) is even more expensive than the direct
	// E edge, so the direct edge is the true bottleneck for SE-NE.
	setSec(t, tw, DirE, 7, 7, 7, 0, 0)
	setSec(t, tw, DirS, 20, 20, 20, 0, 0)
	setSec(t, tw, DirW, 20, 20, 20, 0, 0)
	setSec(t, tw, DirN, 20, 20, 20, 0, 0)
	ns, err := tw.DiagnoseNSPathways()
	if err != nil {
		t.Fatalf("DiagnoseNSPathways: %v", err)
	}
	if got := ns.SEtoNE.Get(0, 0); got != 7 {
		t.Errorf("SEtoNE = %v, want 7 (the direct E edge, cheaper than the long way around)", got)
	}
}

func TestDiagnoseNSPathwaysLongWayAroundBeatsAnExpensiveDirectEdge(t *testing.T) {
	tw := buildCase(t, 0)
	// The direct E edge is expensive, but the long way around (S, W, N) is
	// cheap, so the three-gate composition should let the cheaper long way
	// win instead of being masked by the high direct edge.
	setSec(t, tw, DirE, 50, 50, 50, 0, 0)
	setSec(t, tw, DirS, 3, 3, 3, 0, 0)
	setSec(t, tw, DirW, 3, 3, 3, 0, 0)
	setSec(t, tw, DirN, 3, 3, 3, 0, 0)
	ns, err := tw.DiagnoseNSPathways()
	if err != nil {
		t.Fatalf("DiagnoseNSPathways: %v", err)
	}
	if got := ns.SEtoNE.Get(0, 0); got != 3 {
		t.Errorf("SEtoNE = %v, want 3 (the cheaper three-gate long way around)", got)
	}
}

func TestDiagnoseNSPathwaysDiagonalTakesTheCheaperRoute(t *testing.T) {
	tw := buildCase(t, 0)
	// Route via S+W is cheap (max=1); route via E+N is expensive (max=9).
	setSec(t, tw, DirS, 1, 1, 1, 0, 0)
	setSec(t, tw, DirW, 1, 1, 1, 0, 0)
	setSec(t, tw, DirE, 9, 9, 9, 0, 0)
	setSec(t, tw, DirN, 9, 9, 9, 0, 0)
	ns, err := tw.DiagnoseNSPathways()
	if err != nil {
		t.Fatalf("DiagnoseNSPathways: %v", err)
	}
	if got := ns.SEtoNW.Get(0, 0); got > 1 {
		t.Errorf("SEtoNW = %v, want the cheaper S+W route (<=1) to win over 9", got)
	}
}

func TestDiagnoseEWPathwaysLongWayAroundBeatsAnExpensiveDirectEdge(t *testing.T) {
	tw := buildCase(t, 0)
	// swToSe's direct route is the S edge; the long way around (W, N, E) is
	// cheaper here, so it should win via the three-gate composition.
	setSec(t, tw, DirS, 50, 50, 50, 0, 0)
	setSec(t, tw, DirW, 3, 3, 3, 0, 0)
	setSec(t, tw, DirN, 3, 3, 3, 0, 0)
	setSec(t, tw, DirE, 3, 3, 3, 0, 0)
	ew, err := tw.DiagnoseEWPathways()
	if err != nil {
		t.Fatalf("DiagnoseEWPathways: %v", err)
	}
	if got := ew.SWtoSE.Get(0, 0); got != 3 {
		t.Errorf("SWtoSE = %v, want 3 (the cheaper three-gate long way around)", got)
	}
}

func TestDiagnoseCornerPathwaysUsesAdjacentEdges(t *testing.T) {
	tw := buildCase(t, 0)
	setSec(t, tw, DirS, 3, 3, 3, 0, 0)
	setSec(t, tw, DirW, 5, 5, 5, 0, 0)
	cp, err := tw.DiagnoseCornerPathways()
	if err != nil {
		t.Fatalf("DiagnoseCornerPathways: %v", err)
	}
	if got := cp.SW.Get(0, 0); got < 5 {
		t.Errorf("SW corner pathway = %v, want >= 5 (max of its two interior edges)", got)
	}
}

func TestLimitNSEWConnectionsNeverLowersAnEdge(t *testing.T) {
	tw := buildCase(t, 0)
	setSec(t, tw, DirSWS, 2, 2, 2, 0, 0)
	setSec(t, tw, DirSES, 2, 2, 2, 0, 0)
	setSec(t, tw, DirNWN, 9, 9, 9, 0, 0)
	setSec(t, tw, DirNEN, 9, 9, 9, 0, 0)
	before := getSecLow(t, tw, DirSWS, 0, 0)

	if err := tw.LimitNSEWConnections(); err != nil {
		t.Fatalf("LimitNSEWConnections: %v", err)
	}
	after := getSecLow(t, tw, DirSWS, 0, 0)
	if after < before {
		t.Errorf("SWS low decreased from %v to %v; LimitNSEWConnections must only raise", before, after)
	}
}

func TestLimitCornerConnectionsNeverLowersAnEdge(t *testing.T) {
	tw := buildCase(t, 0)
	setSec(t, tw, DirS, 4, 4, 4, 0, 0)
	setSec(t, tw, DirW, 4, 4, 4, 0, 0)
	before := getSecLow(t, tw, DirSWS, 0, 0)

	if err := tw.LimitCornerConnections(); err != nil {
		t.Fatalf("LimitCornerConnections: %v", err)
	}
	after := getSecLow(t, tw, DirSWS, 0, 0)
	if after < before {
		t.Errorf("SWS low decreased from %v to %v; LimitCornerConnections must only raise", before, after)
	}
}

func TestLimitConnectionsKeepsEdgeStatsOrdered(t *testing.T) {
	tw := buildCase(t, 1)
	if err := tw.LimitConnections(); err != nil {
		t.Fatalf("LimitConnections: %v", err)
	}
	if !tw.EffectiveV.Ordered() || !tw.EffectiveU.Ordered() {
		t.Error("edge stats not ordered (low <= ave <= hgh) after LimitConnections")
	}
}
