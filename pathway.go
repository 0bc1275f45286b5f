package thinwall

import (
	"math"

	"github.com/ctessum/sparse"
)

// NSPathways holds, per coarse cell, the deepest (min-over-routes,
// max-over-edges) connection depth between each south entrance (SW, SE)
// and north exit (NW, NE). Ground truth: spec §4.7 / ThinWalls.py's
// diagnose_NS_pathway(s).
type NSPathways struct {
	SEtoNE, SEtoNW, SWtoNE, SWtoNW *sparse.DenseArray
}

func twoGate(a, b float64) float64 { return math.Max(a, b) }

func threeGate(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

// DiagnoseNSPathways computes the four south-entrance/north-exit pathway
// depths for every coarse cell. The four fine centers form a 4-cycle
// SW-S-SE-E-NE-N-NW-W-SW; between any two of them there are exactly two
// routes around the cycle. SE-NE and SW-NW are one hop apart (single-gate,
// via E resp. W) the short way and three hops the long way (composing the
// other three interior edges); the result takes the min of both routes, so
// a low direct edge doesn't get overridden by a high one reachable only the
// long way, and vice versa. SE-NW and SW-NE are two hops apart either way
// (two-gate), so the min is over the two 2-step options, each itself a max
// over its two edges. Every route folds in its south-entrance and
// north-exit outer edges via max. Ground truth: spec §4.7's literal
// algorithmic core ("three-gate paths compose the single- and two-gate
// results") / ThinWalls.py's diagnose_NS_pathway(s).
func (t *ThinWalls) DiagnoseNSPathways() (*NSPathways, error) {
	S, err := triple(t, DirS)
	if err != nil {
		return nil, err
	}
	N, err := triple(t, DirN)
	if err != nil {
		return nil, err
	}
	E, err := triple(t, DirE)
	if err != nil {
		return nil, err
	}
	W, err := triple(t, DirW)
	if err != nil {
		return nil, err
	}
	SWS, _ := triple(t, DirSWS)
	SES, _ := triple(t, DirSES)
	NWN, _ := triple(t, DirNWN)
	NEN, _ := triple(t, DirNEN)

	nj, ni := S[0].NRows, S[0].NCols
	out := &NSPathways{
		SEtoNE: sparse.ZerosDense(nj, ni),
		SEtoNW: sparse.ZerosDense(nj, ni),
		SWtoNE: sparse.ZerosDense(nj, ni),
		SWtoNW: sparse.ZerosDense(nj, ni),
	}
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			s, n := S[0].Get(j, i), N[0].Get(j, i)
			e, w := E[0].Get(j, i), W[0].Get(j, i)
			ses, nen := SES[0].Get(j, i), NEN[0].Get(j, i)
			sws, nwn := SWS[0].Get(j, i), NWN[0].Get(j, i)

			seToNe := math.Max(math.Max(ses, nen), math.Min(e, threeGate(s, w, n)))
			swToNw := math.Max(math.Max(sws, nwn), math.Min(w, threeGate(s, e, n)))
			seToNw := math.Max(math.Min(twoGate(s, w), twoGate(e, n)), math.Max(ses, nwn))
			swToNe := math.Max(math.Min(twoGate(s, e), twoGate(w, n)), math.Max(sws, nen))

			out.SEtoNE.Set(seToNe, j, i)
			out.SEtoNW.Set(seToNw, j, i)
			out.SWtoNE.Set(swToNe, j, i)
			out.SWtoNW.Set(swToNw, j, i)
		}
	}
	return out, nil
}

// EWPathways is the east/west analogue of NSPathways, obtained by swapping
// the roles of the S/N and W/E interior edges. Ground truth: spec §4.7
// ("obtained by transposing U<->V and reusing the NS algorithm").
type EWPathways struct {
	SWtoSE, NWtoNE, SWtoNE, NWtoSE *sparse.DenseArray
}

// DiagnoseEWPathways computes the four west-entrance/east-exit pathway
// depths, reusing the NS algorithm with N/S and E/W transposed: SW-SE (via
// S) and NW-NE (via N) are the single-gate pairs, each compared against its
// three-gate long way around; SW-NE and NW-SE stay two-gate.
func (t *ThinWalls) DiagnoseEWPathways() (*EWPathways, error) {
	S, err := triple(t, DirS)
	if err != nil {
		return nil, err
	}
	N, err := triple(t, DirN)
	if err != nil {
		return nil, err
	}
	E, err := triple(t, DirE)
	if err != nil {
		return nil, err
	}
	W, err := triple(t, DirW)
	if err != nil {
		return nil, err
	}
	SWW, _ := triple(t, DirSWW)
	NWW, _ := triple(t, DirNWW)
	SEE, _ := triple(t, DirSEE)
	NEE, _ := triple(t, DirNEE)

	nj, ni := S[0].NRows, S[0].NCols
	out := &EWPathways{
		SWtoSE: sparse.ZerosDense(nj, ni),
		NWtoNE: sparse.ZerosDense(nj, ni),
		SWtoNE: sparse.ZerosDense(nj, ni),
		NWtoSE: sparse.ZerosDense(nj, ni),
	}
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			s, n := S[0].Get(j, i), N[0].Get(j, i)
			e, w := E[0].Get(j, i), W[0].Get(j, i)
			sww, see := SWW[0].Get(j, i), SEE[0].Get(j, i)
			nww, nee := NWW[0].Get(j, i), NEE[0].Get(j, i)

			swToSe := math.Max(math.Max(sww, see), math.Min(s, threeGate(w, n, e)))
			nwToNe := math.Max(math.Max(nww, nee), math.Min(n, threeGate(w, s, e)))
			swToNe := math.Max(math.Min(twoGate(s, e), twoGate(w, n)), math.Max(sww, nee))
			nwToSe := math.Max(math.Min(twoGate(s, w), twoGate(e, n)), math.Max(nww, see))

			out.SWtoSE.Set(swToSe, j, i)
			out.NWtoNE.Set(nwToNe, j, i)
			out.SWtoNE.Set(swToNe, j, i)
			out.NWtoSE.Set(nwToSe, j, i)
		}
	}
	return out, nil
}

// CornerPathways diagnoses, per corner, the deepest connection available
// through that corner alone. Ground truth: ThinWalls.py's
// diagnose_SW_pathway(s)/diagnose_corner_pathways; all four corners are
// computed by one loop over the corners table in rules.go.
type CornerPathways struct {
	SW, SE, NW, NE *sparse.DenseArray
}

// DiagnoseCornerPathways computes, for each corner, the max-over-edges
// depth of the single-gate route through that corner's two interior edges
// and its two adjacent outer edges.
func (t *ThinWalls) DiagnoseCornerPathways() (*CornerPathways, error) {
	out := &CornerPathways{}
	vals := map[Direction]*sparse.DenseArray{}
	for _, c := range corners {
		a, err := triple(t, c.innerA)
		if err != nil {
			return nil, err
		}
		b, err := triple(t, c.innerB)
		if err != nil {
			return nil, err
		}
		op, err := triple(t, c.outerParallel)
		if err != nil {
			return nil, err
		}
		oq, err := triple(t, c.outerPerpendicular)
		if err != nil {
			return nil, err
		}
		nj, ni := a[0].NRows, a[0].NCols
		arr := sparse.ZerosDense(nj, ni)
		for j := 0; j < nj; j++ {
			for i := 0; i < ni; i++ {
				v := math.Max(math.Max(a[0].Get(j, i), b[0].Get(j, i)), math.Max(op[0].Get(j, i), oq[0].Get(j, i)))
				arr.Set(v, j, i)
			}
		}
		vals[c.dir] = arr
	}
	out.SW, out.SE, out.NW, out.NE = vals[DirSW], vals[DirSE], vals[DirNW], vals[DirNE]
	return out, nil
}

// LimitNSEWConnections raises, for each coarse cell, whichever of the
// south/north V-segment pairs (resp. west/east U-segment pairs) is
// currently shallower (larger low) to the deepest passage depth on that
// axis, so that coarsening's min2v/min2u reduction cannot represent a
// connection deeper than the fine grid actually permits. This is a
// documented interpretation of spec §4.7's contested pathway-limiting rule
// (see DESIGN.md); order: NS first, then EW.
func (t *ThinWalls) LimitNSEWConnections() error {
	ns, err := t.DiagnoseNSPathways()
	if err != nil {
		return err
	}
	SWS, _ := triple(t, DirSWS)
	SES, _ := triple(t, DirSES)
	NWN, _ := triple(t, DirNWN)
	NEN, _ := triple(t, DirNEN)
	nj, ni := SWS[0].NRows, SWS[0].NCols
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			deepest := math.Min(math.Min(ns.SEtoNE.Get(j, i), ns.SEtoNW.Get(j, i)),
				math.Min(ns.SWtoNE.Get(j, i), ns.SWtoNW.Get(j, i)))
			south := math.Min(SWS[0].Get(j, i), SES[0].Get(j, i))
			north := math.Min(NWN[0].Get(j, i), NEN[0].Get(j, i))
			if south > north {
				raiseLow(SWS, deepest, j, i)
				raiseLow(SES, deepest, j, i)
			} else {
				raiseLow(NWN, deepest, j, i)
				raiseLow(NEN, deepest, j, i)
			}
		}
	}

	ew, err := t.DiagnoseEWPathways()
	if err != nil {
		return err
	}
	SWW, _ := triple(t, DirSWW)
	NWW, _ := triple(t, DirNWW)
	SEE, _ := triple(t, DirSEE)
	NEE, _ := triple(t, DirNEE)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			deepest := math.Min(math.Min(ew.SWtoSE.Get(j, i), ew.NWtoNE.Get(j, i)),
				math.Min(ew.SWtoNE.Get(j, i), ew.NWtoSE.Get(j, i)))
			west := math.Min(SWW[0].Get(j, i), NWW[0].Get(j, i))
			east := math.Min(SEE[0].Get(j, i), NEE[0].Get(j, i))
			if west > east {
				raiseLow(SWW, deepest, j, i)
				raiseLow(NWW, deepest, j, i)
			} else {
				raiseLow(SEE, deepest, j, i)
				raiseLow(NEE, deepest, j, i)
			}
		}
	}
	return nil
}

func raiseLow(v [3]*StridedView, target float64, j, i int) {
	if v[0].Get(j, i) < target {
		v[0].Set(target, j, i)
		if v[1].Get(j, i) < target {
			v[1].Set(target, j, i)
		}
		if v[2].Get(j, i) < target {
			v[2].Set(target, j, i)
		}
	}
}

// LimitCornerConnections applies the same pathway-preserving raise to each
// of the four corners' two adjacent outer edges, using DiagnoseCornerPathways
// as the depth bound. Ground truth: ThinWalls.py's limit_corner_connections.
func (t *ThinWalls) LimitCornerConnections() error {
	cp, err := t.DiagnoseCornerPathways()
	if err != nil {
		return err
	}
	vals := map[Direction]*sparse.DenseArray{DirSW: cp.SW, DirSE: cp.SE, DirNW: cp.NW, DirNE: cp.NE}
	for _, c := range corners {
		op, err := triple(t, c.outerParallel)
		if err != nil {
			return err
		}
		oq, err := triple(t, c.outerPerpendicular)
		if err != nil {
			return err
		}
		depth := vals[c.dir]
		nj, ni := op[0].NRows, op[0].NCols
		for j := 0; j < nj; j++ {
			for i := 0; i < ni; i++ {
				raiseLow(op, depth.Get(j, i), j, i)
				raiseLow(oq, depth.Get(j, i), j, i)
			}
		}
	}
	return nil
}

// LimitConnections is Stage 6 of the coarsening pipeline: NS/EW first,
// then corners.
func (t *ThinWalls) LimitConnections() error {
	if err := t.LimitNSEWConnections(); err != nil {
		return err
	}
	return t.LimitCornerConnections()
}
