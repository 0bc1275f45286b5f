package thinwall

import "math"

// cornerSpec describes, for one of the four coarse-cell corners, the two
// interior edges that meet there and the two outer-edge halves adjacent to
// it. Ground truth: spec §4.5 Stage 1/4 vocabulary.
type cornerSpec struct {
	dir                Direction
	innerA, innerB     Direction // the two interior edges meeting at this corner
	outerParallel      Direction // e.g. SWS for SW
	outerPerpendicular Direction // e.g. SWW for SW
	opposite           Direction // antipodal corner
}

var corners = []cornerSpec{
	{DirSW, DirS, DirW, DirSWS, DirSWW, DirNE},
	{DirSE, DirS, DirE, DirSES, DirSEE, DirNW},
	{DirNW, DirN, DirW, DirNWN, DirNWW, DirSE},
	{DirNE, DirN, DirE, DirNEN, DirNEE, DirSW},
}

func cornerByDir(d Direction) cornerSpec {
	for _, c := range corners {
		if c.dir == d {
			return c
		}
	}
	panic("thinwall: unknown corner " + string(d))
}

func getTriple(v Measure, views [3]*StridedView, r, c int) (low, ave, hgh float64) {
	return views[0].Get(r, c), views[1].Get(r, c), views[2].Get(r, c)
}

func triple(t *ThinWalls, dir Direction) ([3]*StridedView, error) {
	var out [3]*StridedView
	for i, m := range [3]Measure{Low, Ave, Hgh} {
		v, err := t.Sec(dir, m)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func maxStats(low1, ave1, hgh1, low2, ave2, hgh2 float64) (float64, float64, float64) {
	return math.Max(low1, low2), math.Max(ave1, ave2), math.Max(hgh1, hgh2)
}

// PushCorners implements spec §4.5 Stage 1. For each corner direction in
// the order SW, SE, NW, NE: where the interior sill at the corner exceeds
// the opposite-corner ridge, the corner is the coarse cell's highest
// obstruction; its two interior edges are lowered to the opposite ridge and
// the two outer edges adjacent to it are raised to the captured original
// interior stats. Ground truth: ThinWalls.py's push_corners_v2/push_corner.
func (t *ThinWalls) PushCorners() error {
	for _, c := range corners {
		innerA, err := triple(t, c.innerA)
		if err != nil {
			return err
		}
		innerB, err := triple(t, c.innerB)
		if err != nil {
			return err
		}
		oppo := cornerByDir(c.opposite)
		oppInnerA, err := triple(t, oppo.innerA)
		if err != nil {
			return err
		}
		oppInnerB, err := triple(t, oppo.innerB)
		if err != nil {
			return err
		}
		outerPar, err := triple(t, c.outerParallel)
		if err != nil {
			return err
		}
		outerPerp, err := triple(t, c.outerPerpendicular)
		if err != nil {
			return err
		}
		centerSelf, err := triple(t, c.dir)
		if err != nil {
			return err
		}

		nj, ni := innerA[0].NRows, innerA[0].NCols
		for j := 0; j < nj; j++ {
			for i := 0; i < ni; i++ {
				aLow, aAve, aHgh := getTriple(Low, innerA, j, i)
				bLow, bAve, bHgh := getTriple(Low, innerB, j, i)
				sill := math.Min(aLow, bLow)
				oppALow, _, _ := getTriple(Low, oppInnerA, j, i)
				oppBLow, _, _ := getTriple(Low, oppInnerB, j, i)
				oppRidge := math.Max(oppALow, oppBLow)
				if sill <= oppRidge {
					continue
				}
				origLow, origAve, origHgh := maxStats(aLow, aAve, aHgh, bLow, bAve, bHgh)

				if t.Options.Matlab {
					innerA[0].Set(oppRidge, j, i)
					innerB[0].Set(oppRidge, j, i)
				} else {
					innerA[0].Set(oppRidge, j, i)
					innerA[1].Set(oppRidge, j, i)
					innerA[2].Set(oppRidge, j, i)
					innerB[0].Set(oppRidge, j, i)
					innerB[1].Set(oppRidge, j, i)
					innerB[2].Set(oppRidge, j, i)
				}

				if t.Options.AdjustCenters {
					cLow, cAve, _ := getTriple(Low, centerSelf, j, i)
					otherAveSum := 0.0
					for _, od := range []Direction{DirSW, DirSE, DirNW, DirNE} {
						if od == c.dir {
							continue
						}
						v, err := triple(t, od)
						if err != nil {
							return err
						}
						_, av, _ := getTriple(Ave, v, j, i)
						otherAveSum += av
					}
					meanOther := otherAveSum / 3
					if t.Options.Matlab {
						centerSelf[0].Set(oppRidge, j, i)
						centerSelf[1].Set(meanOther, j, i)
					} else {
						centerSelf[0].Set(math.Max(cLow, oppRidge), j, i)
						centerSelf[1].Set(math.Max(cAve, meanOther), j, i)
					}
				}

				pLow, pAve, pHgh := getTriple(Low, outerPar, j, i)
				nl, na, nh := maxStats(pLow, pAve, pHgh, origLow, origAve, origHgh)
				outerPar[0].Set(nl, j, i)
				outerPar[1].Set(na, j, i)
				outerPar[2].Set(nh, j, i)

				qLow, qAve, qHgh := getTriple(Low, outerPerp, j, i)
				nl, na, nh = maxStats(qLow, qAve, qHgh, origLow, origAve, origHgh)
				outerPerp[0].Set(nl, j, i)
				outerPerp[1].Set(na, j, i)
				outerPerp[2].Set(nh, j, i)
			}
		}
	}
	return nil
}

// LowerButtress implements spec §4.5 Stage 2: for each side D, clamp an
// excessively tall solitary interior edge ("buttress") down to the maximum
// of the other three. Ground truth: ThinWalls.py's
// lower_buttress/find_buttress.
func (t *ThinWalls) LowerButtress() error {
	for _, d := range []Direction{DirS, DirN, DirW, DirE} {
		others := otherSides(d)
		rView, err := triple(t, d)
		if err != nil {
			return err
		}
		o := make([][3]*StridedView, 3)
		for k, od := range others {
			o[k], err = triple(t, od)
			if err != nil {
				return err
			}
		}
		nj, ni := rView[0].NRows, rView[0].NCols
		for j := 0; j < nj; j++ {
			for i := 0; i < ni; i++ {
				rLow, rAve, _ := getTriple(Low, rView, j, i)
				o3Low, o3Ave := math.Inf(-1), math.Inf(-1)
				for _, ov := range o {
					lo, av, _ := getTriple(Low, ov, j, i)
					if lo > o3Low {
						o3Low = lo
					}
					if av > o3Ave {
						o3Ave = av
					}
				}
				if rLow > o3Low {
					rView[0].Set(o3Low, j, i)
					if t.Options.AdjustMean {
						rView[1].Set(o3Ave, j, i)
					} else {
						_ = rAve
					}
				}
			}
		}
	}
	return nil
}

func otherSides(d Direction) []Direction {
	all := []Direction{DirS, DirN, DirW, DirE}
	out := make([]Direction, 0, 3)
	for _, a := range all {
		if a != d {
			out = append(out, a)
		}
	}
	return out
}

func oppositeSide(d Direction) Direction {
	switch d {
	case DirS:
		return DirN
	case DirN:
		return DirS
	case DirW:
		return DirE
	default:
		return DirW
	}
}

// perpendicular returns the two interior edges perpendicular to side D's
// axis, used by FoldRidges as the central ridge pair.
func perpendicular(d Direction) (r0, r1 Direction) {
	switch d {
	case DirS, DirN:
		return DirE, DirW
	default:
		return DirN, DirS
	}
}

func sideCorners(d Direction) (cA, cB Direction) {
	switch d {
	case DirS:
		return DirSW, DirSE
	case DirN:
		return DirNW, DirNE
	case DirW:
		return DirSW, DirNW
	default:
		return DirSE, DirNE
	}
}

func sideOuterParallel(d Direction) (a, b Direction) {
	switch d {
	case DirS:
		return DirSWS, DirSES
	case DirN:
		return DirNWN, DirNEN
	case DirW:
		return DirSWW, DirNWW
	default:
		return DirSEE, DirNEE
	}
}

func sideOuterPerpendicular(d Direction) (a, b Direction) {
	switch d {
	case DirS:
		return DirSWW, DirSEE
	case DirN:
		return DirNWW, DirNEE
	case DirW:
		return DirSWS, DirNWN
	default:
		return DirSES, DirNEN
	}
}

// FoldRidges implements spec §4.5 Stage 3, processing sides S, N, W, E and
// then the "equal" case along the NS and EW axes. Ground truth:
// ThinWalls.py's fold_ridges/find_ridge/fold_ridge/fold_ridge_equal.
func (t *ThinWalls) FoldRidges() error {
	for _, d := range []Direction{DirS, DirN, DirW, DirE} {
		if err := t.foldRidgeSide(d, false); err != nil {
			return err
		}
	}
	if err := t.foldRidgeSide(DirS, true); err != nil {
		return err
	}
	if err := t.foldRidgeSide(DirW, true); err != nil {
		return err
	}
	return nil
}

func (t *ThinWalls) foldRidgeSide(d Direction, equal bool) error {
	oppD := oppositeSide(d)
	bD, err := triple(t, d)
	if err != nil {
		return err
	}
	bOpp, err := triple(t, oppD)
	if err != nil {
		return err
	}
	r0Dir, r1Dir := perpendicular(d)
	r0, err := triple(t, r0Dir)
	if err != nil {
		return err
	}
	r1, err := triple(t, r1Dir)
	if err != nil {
		return err
	}
	cA, cB := sideCorners(d)
	ocA, ocB := sideCorners(oppD)
	centA, err := triple(t, cA)
	if err != nil {
		return err
	}
	centB, err := triple(t, cB)
	if err != nil {
		return err
	}
	opCentA, err := triple(t, ocA)
	if err != nil {
		return err
	}
	opCentB, err := triple(t, ocB)
	if err != nil {
		return err
	}
	pA, pB := sideOuterParallel(d)
	opA, opB := sideOuterPerpendicular(d)
	oppPA, oppPB := sideOuterParallel(oppD)
	oppOA, oppOB := sideOuterPerpendicular(oppD)
	outPA, err := triple(t, pA)
	if err != nil {
		return err
	}
	outPB, err := triple(t, pB)
	if err != nil {
		return err
	}
	outOA, err := triple(t, opA)
	if err != nil {
		return err
	}
	outOB, err := triple(t, opB)
	if err != nil {
		return err
	}
	oppOutPA, err := triple(t, oppPA)
	if err != nil {
		return err
	}
	oppOutPB, err := triple(t, oppPB)
	if err != nil {
		return err
	}
	oppOutOA, err := triple(t, oppOA)
	if err != nil {
		return err
	}
	oppOutOB, err := triple(t, oppOB)
	if err != nil {
		return err
	}

	nj, ni := bD[0].NRows, bD[0].NCols
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			r0Low, r0Ave, r0Hgh := getTriple(Low, r0, j, i)
			r1Low, r1Ave, r1Hgh := getTriple(Low, r1, j, i)
			centralLow := math.Min(r0Low, r1Low)
			centralAve := 0.5 * (r0Ave + r1Ave)
			centralHgh := math.Max(r0Hgh, r1Hgh)

			bDLow, bDAve, _ := getTriple(Low, bD, j, i)
			bOLow, bOAve, _ := getTriple(Low, bOpp, j, i)
			opposLowMin := math.Min(bDLow, bOLow)
			opposLowMax := math.Max(bDLow, bOLow)

			ridges := centralLow > opposLowMin && centralLow >= opposLowMax
			if !ridges {
				continue
			}

			cenALow, _, _ := getTriple(Low, centA, j, i)
			cenBLow, _, _ := getTriple(Low, centB, j, i)
			opCenALow, _, _ := getTriple(Low, opCentA, j, i)
			opCenBLow, _, _ := getTriple(Low, opCentB, j, i)
			sideCenterSum := cenALow + cenBLow
			oppCenterSum := opCenALow + opCenBLow

			pALow, _, _ := getTriple(Low, outPA, j, i)
			pBLow, _, _ := getTriple(Low, outPB, j, i)
			oppPALow, _, _ := getTriple(Low, oppOutPA, j, i)
			oppPBLow, _, _ := getTriple(Low, oppOutPB, j, i)
			sideOuterSum := pALow + pBLow
			oppOuterSum := oppPALow + oppPBLow

			var matched bool
			if equal {
				matched = bDLow == bOLow && sideCenterSum == oppCenterSum && sideOuterSum == oppOuterSum
			} else {
				if bDLow > bOLow {
					matched = true
				} else if bDLow == bOLow && sideCenterSum > oppCenterSum {
					matched = true
				} else if bDLow == bOLow && sideCenterSum == oppCenterSum && sideOuterSum > oppOuterSum {
					matched = true
				}
			}
			if !matched {
				continue
			}

			r0[0].Set(opposLowMin, j, i)
			r1[0].Set(opposLowMin, j, i)
			bD[0].Set(opposLowMin, j, i)
			if equal {
				bOpp[0].Set(opposLowMin, j, i)
			}

			if t.Options.AdjustCenters {
				opAveMean := 0.5 * (getAve(opCentA, j, i) + getAve(opCentB, j, i))
				centA[0].Set(opposLowMin, j, i)
				centA[1].Set(opAveMean, j, i)
				centA[2].Set(opposLowMin, j, i)
				centB[0].Set(opposLowMin, j, i)
				centB[1].Set(opAveMean, j, i)
				centB[2].Set(opposLowMin, j, i)
				if equal {
					sideAveMean := 0.5 * (getAve(centA, j, i) + getAve(centB, j, i))
					opCentA[0].Set(opposLowMin, j, i)
					opCentA[1].Set(sideAveMean, j, i)
					opCentA[2].Set(opposLowMin, j, i)
					opCentB[0].Set(opposLowMin, j, i)
					opCentB[1].Set(sideAveMean, j, i)
					opCentB[2].Set(opposLowMin, j, i)
				}
			}

			raiseTriple(outPA, centralLow, centralAve, centralHgh, j, i)
			raiseTriple(outPB, centralLow, centralAve, centralHgh, j, i)
			raiseTriple(outOA, centralLow, centralAve, centralHgh, j, i)
			raiseTriple(outOB, centralLow, centralAve, centralHgh, j, i)
			if equal {
				raiseTriple(oppOutPA, centralLow, centralAve, centralHgh, j, i)
				raiseTriple(oppOutPB, centralLow, centralAve, centralHgh, j, i)
				raiseTriple(oppOutOA, centralLow, centralAve, centralHgh, j, i)
				raiseTriple(oppOutOB, centralLow, centralAve, centralHgh, j, i)
			}
		}
	}
	return nil
}

func getAve(v [3]*StridedView, j, i int) float64 { return v[1].Get(j, i) }

func raiseTriple(v [3]*StridedView, low, ave, hgh float64, j, i int) {
	v[0].Set(math.Max(v[0].Get(j, i), low), j, i)
	v[1].Set(math.Max(v[1].Get(j, i), ave), j, i)
	v[2].Set(math.Max(v[2].Get(j, i), hgh), j, i)
}

// InvertExteriorCorners implements spec §4.5 Stage 4, the dual of Stage 1
// for deep corners. Ground truth: ThinWalls.py's invert_exterior_corners.
func (t *ThinWalls) InvertExteriorCorners() error {
	nj, ni := t.Mesh.Nj/2, t.Mesh.Ni/2

	for idx, c := range corners {
		innerA, _ := triple(t, c.innerA)
		innerB, _ := triple(t, c.innerB)
		outerPar, _ := triple(t, c.outerParallel)
		outerPerp, _ := triple(t, c.outerPerpendicular)
		centerSelf, _ := triple(t, c.dir)

		others := make([]cornerSpec, 0, 3)
		for k, oc := range corners {
			if k != idx {
				others = append(others, oc)
			}
		}

		for j := 0; j < nj; j++ {
			for i := 0; i < ni; i++ {
				aLow, _, _ := getTriple(Low, innerA, j, i)
				bLow, _, _ := getTriple(Low, innerB, j, i)
				sD := math.Min(aLow, bLow)
				rD := math.Max(aLow, bLow)
				pLow, _, _ := getTriple(Low, outerPar, j, i)
				qLow, _, _ := getTriple(Low, outerPerp, j, i)
				dD := math.Max(pLow, qLow)

				otherMinD := math.Inf(1)
				for _, oc := range others {
					oa, _ := triple(t, oc.outerParallel)
					ob, _ := triple(t, oc.outerPerpendicular)
					opLow, _, _ := getTriple(Low, oa, j, i)
					oqLow, _, _ := getTriple(Low, ob, j, i)
					od := math.Max(opLow, oqLow)
					if od < otherMinD {
						otherMinD = od
					}
				}
				if !(dD < otherMinD && dD < sD) {
					continue
				}

				innerA[0].Set(dD, j, i)
				innerB[0].Set(dD, j, i)
				if !t.Options.Matlab {
					centerSelf[0].Set(dD, j, i)
				}

				adjA := cornerByDir(sideAdjacentCorner(c.dir, true))
				adjB := cornerByDir(sideAdjacentCorner(c.dir, false))
				rAdjA := cornerRidge(t, adjA, j, i)
				rAdjB := cornerRidge(t, adjB, j, i)

				remaining := remainingOuterEdges(c.dir)
				if t.Options.Matlab {
					lo := math.Min(rAdjA, rAdjB)
					hi := math.Max(rAdjA, rAdjB)
					av := 0.5 * (rAdjA + rAdjB)
					for _, dir := range remaining {
						v, _ := triple(t, dir)
						raiseTriple(v, lo, av, hi, j, i)
					}
				} else {
					for _, dir := range remaining {
						v, _ := triple(t, dir)
						r := nearestAdjacentRidge(dir, c.dir, rAdjA, rAdjB)
						raiseTriple(v, r, r, r, j, i)
					}
				}
				_ = rD
			}
		}
	}
	return nil
}

func cornerRidge(t *ThinWalls, c cornerSpec, j, i int) float64 {
	a, _ := triple(t, c.innerA)
	b, _ := triple(t, c.innerB)
	aLow, _, _ := getTriple(Low, a, j, i)
	bLow, _, _ := getTriple(Low, b, j, i)
	return math.Max(aLow, bLow)
}

// sideAdjacentCorner returns one of the two corners sharing a side with d
// (alongRow=true: the corner in the same row, to the east or west;
// alongRow=false: the corner in the same column, to the north or south).
func sideAdjacentCorner(d Direction, alongRow bool) Direction {
	switch d {
	case DirSW:
		if alongRow {
			return DirSE
		}
		return DirNW
	case DirSE:
		if alongRow {
			return DirSW
		}
		return DirNE
	case DirNW:
		if alongRow {
			return DirNE
		}
		return DirSW
	default: // NE
		if alongRow {
			return DirNW
		}
		return DirSE
	}
}

// remainingOuterEdges returns the six outer-edge halves not adjacent to
// corner d.
func remainingOuterEdges(d Direction) []Direction {
	c := cornerByDir(d)
	excl := map[Direction]bool{c.outerParallel: true, c.outerPerpendicular: true}
	all := []Direction{DirSWS, DirSES, DirNWN, DirNEN, DirSWW, DirSEE, DirNWW, DirNEE}
	out := make([]Direction, 0, 6)
	for _, a := range all {
		if !excl[a] {
			out = append(out, a)
		}
	}
	return out
}

// edgeNearestCorner returns the corner an outer-edge half is adjacent to.
func edgeNearestCorner(edge Direction) Direction {
	for _, c := range corners {
		if c.outerParallel == edge || c.outerPerpendicular == edge {
			return c.dir
		}
	}
	panic("thinwall: unknown outer edge " + string(edge))
}

// nearestAdjacentRidge picks, for one of the six outer edges not adjacent
// to corner d, whichever of the two ridges computed at d's row- and
// column-adjacent corners it is geometrically closest to. Edges nearest
// the antipodal corner are split by parallel/perpendicular orientation.
// Documented simplification of ThinWalls.py's non-matlab per-segment raise
// (see DESIGN.md).
func nearestAdjacentRidge(edge, d Direction, rRow, rCol float64) float64 {
	rowAdj := sideAdjacentCorner(d, true)
	colAdj := sideAdjacentCorner(d, false)
	nc := edgeNearestCorner(edge)
	switch nc {
	case rowAdj:
		return rRow
	case colAdj:
		return rCol
	default: // nearest the antipodal corner
		oppoSpec := cornerByDir(oppositeCorner(d))
		if edge == oppoSpec.outerParallel {
			return rRow
		}
		return rCol
	}
}

func oppositeCorner(d Direction) Direction {
	return cornerByDir(d).opposite
}

// BoundHByUV implements spec §4.5 Stage 5 (first half): raise edges so
// low<=ave<=hgh holds, then bound each center's low, ave and hgh to the min
// of the same measure over its four edges. Ground truth: ThinWalls.py's
// boundHbyUV.
func (t *ThinWalls) BoundHByUV() {
	t.EffectiveU.Normalize()
	t.EffectiveV.Normalize()
	nj, ni := t.Mesh.Nj, t.Mesh.Ni
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			for _, m := range [3]Measure{Low, Ave, Hgh} {
				u, v, c := t.EffectiveU.arrayFor(m), t.EffectiveV.arrayFor(m), t.EffectiveC.arrayFor(m)
				w := u.Get(j, i)
				e := u.Get(j, i+1)
				s := v.Get(j, i)
				n := v.Get(j+1, i)
				minEdge := math.Min(math.Min(w, e), math.Min(s, n))
				if c.Get(j, i) > minEdge {
					c.Set(minEdge, j, i)
				}
			}
		}
	}
	t.EffectiveC.Normalize()
}

// FillPotHoles implements spec §4.5 Stage 5 (second half): raise each
// center to the min over its four edges, eliminating isolated pits below
// edge level. Ground truth: ThinWalls.py's fillPotHoles.
func (t *ThinWalls) FillPotHoles() {
	nj, ni := t.Mesh.Nj, t.Mesh.Ni
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			w, we := t.EffectiveU.Low.Get(j, i), t.EffectiveU.Ave.Get(j, i)
			e, ee := t.EffectiveU.Low.Get(j, i+1), t.EffectiveU.Ave.Get(j, i+1)
			s, se := t.EffectiveV.Low.Get(j, i), t.EffectiveV.Ave.Get(j, i)
			n, ne := t.EffectiveV.Low.Get(j+1, i), t.EffectiveV.Ave.Get(j+1, i)
			minLow := math.Min(math.Min(w, e), math.Min(s, n))
			minAve := math.Min(math.Min(we, ee), math.Min(se, ne))
			if v := t.EffectiveC.Low.Get(j, i); v < minLow {
				t.EffectiveC.Low.Set(minLow, j, i)
			}
			if v := t.EffectiveC.Ave.Get(j, i); v < minAve {
				t.EffectiveC.Ave.Set(minAve, j, i)
			}
		}
	}
	t.EffectiveC.Normalize()
}
