package thinwall

import (
	"math"

	"github.com/ctessum/sparse"
)

const (
	deg2rad = math.Pi / 180.
	rad2deg = 180. / math.Pi
)

// subRoundoff mirrors GMesh.py's "2./np.finfo(x).max" guard against
// division by zero when X,Y both vanish at a pole.
const subRoundoff = 2. / math.MaxFloat64

// NodeIndex identifies a pole node (lat=+90) in a Mesh's node arrays, where
// longitude is degenerate.
type NodeIndex struct{ J, I int }

// LonLatToXYZ converts a degrees (lon,lat) dense array pair into unit-sphere
// Cartesian coordinates. Ground truth: GMesh.py.__lonlat_to_XYZ.
func LonLatToXYZ(lon, lat *sparse.DenseArray) (x, y, z *sparse.DenseArray) {
	x, y, z = sparse.ZerosDense(lon.Shape...), sparse.ZerosDense(lon.Shape...), sparse.ZerosDense(lon.Shape...)
	for i, lo := range lon.Elements {
		la := lat.Elements[i]
		lor, lar := lo*deg2rad, la*deg2rad
		x.Elements[i] = math.Cos(lar) * math.Cos(lor)
		y.Elements[i] = math.Cos(lar) * math.Sin(lor)
		z.Elements[i] = math.Sin(lar)
	}
	return x, y, z
}

// XYZToLonLat is the inverse of LonLatToXYZ. Ground truth:
// GMesh.py.__XYZ_to_lonlat, including the sub-roundoff division guard.
func XYZToLonLat(x, y, z *sparse.DenseArray) (lon, lat *sparse.DenseArray) {
	lon, lat = sparse.ZerosDense(x.Shape...), sparse.ZerosDense(x.Shape...)
	for i := range x.Elements {
		xx, yy, zz := x.Elements[i], y.Elements[i], z.Elements[i]
		lat.Elements[i] = math.Asin(zz) * rad2deg
		r := 1. / (math.Sqrt(xx*xx+yy*yy) + subRoundoff)
		lo := math.Acos(r*xx) * rad2deg
		if yy < 0 {
			lo = -lo
		}
		lon.Elements[i] = lo
	}
	return lon, lat
}

// MeanMode selects the neighbor-averaging pattern used by MeanFromXYZ.
type MeanMode int

const (
	// MeanJ averages adjacent rows (j-direction midpoints).
	MeanJ MeanMode = iota
	// MeanI averages adjacent columns (i-direction midpoints).
	MeanI
	// Mean4 averages a 2x2 corner block (cell-center midpoints).
	Mean4
)

// MeanFromXYZ computes neighbor means of unit-sphere coordinates,
// renormalizes onto the unit sphere, and converts back to (lon,lat). Ground
// truth: GMesh.py.__mean_from_xyz.
func MeanFromXYZ(x, y, z *sparse.DenseArray, mode MeanMode) (lon, lat *sparse.DenseArray) {
	var mx, my, mz *sparse.DenseArray
	switch mode {
	case MeanJ:
		mx, my, mz = mean2j(x), mean2j(y), mean2j(z)
	case MeanI:
		mx, my, mz = mean2i(x), mean2i(y), mean2i(z)
	case Mean4:
		mx, my, mz = mean4(x), mean4(y), mean4(z)
	}
	for i := range mx.Elements {
		xx, yy, zz := mx.Elements[i], my.Elements[i], mz.Elements[i]
		r := 1. / math.Sqrt(xx*xx+yy*yy+zz*zz)
		mx.Elements[i], my.Elements[i], mz.Elements[i] = r*xx, r*yy, r*zz
	}
	return XYZToLonLat(mx, my, mz)
}

func shape2(a *sparse.DenseArray) (nj, ni int) { return a.Shape[0], a.Shape[1] }

// mean2j is the 2-point mean along the j (row) direction: 0.5*(A[:-1,:]+A[1:,:]).
func mean2j(a *sparse.DenseArray) *sparse.DenseArray {
	nj, ni := shape2(a)
	out := sparse.ZerosDense(nj-1, ni)
	for j := 0; j < nj-1; j++ {
		for i := 0; i < ni; i++ {
			out.Set(0.5*(a.Get(j, i)+a.Get(j+1, i)), j, i)
		}
	}
	return out
}

// mean2i is the 2-point mean along the i (column) direction.
func mean2i(a *sparse.DenseArray) *sparse.DenseArray {
	nj, ni := shape2(a)
	out := sparse.ZerosDense(nj, ni-1)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni-1; i++ {
			out.Set(0.5*(a.Get(j, i)+a.Get(j, i+1)), j, i)
		}
	}
	return out
}

// mean4 is the 4-point mean (nodes to centers).
func mean4(a *sparse.DenseArray) *sparse.DenseArray {
	nj, ni := shape2(a)
	out := sparse.ZerosDense(nj-1, ni-1)
	for j := 0; j < nj-1; j++ {
		for i := 0; i < ni-1; i++ {
			v := 0.25 * ((a.Get(j, i) + a.Get(j+1, i+1)) + (a.Get(j+1, i) + a.Get(j, i+1)))
			out.Set(v, j, i)
		}
	}
	return out
}

// LonMean2 is the periodic-aware 2-point mean of longitude values a,b.
// Ground truth: GMesh.py.__lonmean2. Undefined (by construction, matching
// the source) when |b-a| == period/2.
func LonMean2(a, b, period float64) float64 {
	if period == 0 {
		period = 360.0
	}
	d := math.Mod(b-a, period)
	if d < 0 {
		d += period
	}
	shift := 0.0
	if d > 0.5*period {
		shift = period
	}
	return a + 0.5*(d-shift)
}

// mean2jLon is mean2j specialized for longitude, with periodic wraparound
// and pole-singularity overrides. Ground truth: GMesh.py.__mean2j_lon.
func mean2jLon(a *sparse.DenseArray, periodic bool, singularities []NodeIndex) *sparse.DenseArray {
	nj, ni := shape2(a)
	out := sparse.ZerosDense(nj-1, ni)
	for j := 0; j < nj-1; j++ {
		for i := 0; i < ni; i++ {
			var v float64
			if periodic {
				v = LonMean2(a.Get(j, i), a.Get(j+1, i), 360.0)
			} else {
				v = 0.5 * (a.Get(j, i) + a.Get(j+1, i))
			}
			out.Set(v, j, i)
		}
	}
	for _, s := range singularities {
		jj, ii := s.J, s.I
		if jj < nj-1 {
			out.Set(a.Get(jj+1, ii), jj, ii)
		}
		if jj >= 1 {
			out.Set(a.Get(jj-1, ii), jj-1, ii)
		}
	}
	return out
}

// mean2iLon is mean2i specialized for longitude. Ground truth:
// GMesh.py.__mean2i_lon.
func mean2iLon(a *sparse.DenseArray, periodic bool, singularities []NodeIndex) *sparse.DenseArray {
	nj, ni := shape2(a)
	out := sparse.ZerosDense(nj, ni-1)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni-1; i++ {
			var v float64
			if periodic {
				v = LonMean2(a.Get(j, i), a.Get(j, i+1), 360.0)
			} else {
				v = 0.5 * (a.Get(j, i) + a.Get(j, i+1))
			}
			out.Set(v, j, i)
		}
	}
	for _, s := range singularities {
		jj, ii := s.J, s.I
		if ii < ni-1 {
			out.Set(a.Get(jj, ii+1), jj, ii)
		}
		if ii >= 1 {
			out.Set(a.Get(jj, ii-1), jj, ii-1)
		}
	}
	return out
}

// mean4Lon is mean4 specialized for longitude. Ground truth:
// GMesh.py.__mean4_lon.
func mean4Lon(a *sparse.DenseArray, periodic bool, singularities []NodeIndex) *sparse.DenseArray {
	nj, ni := shape2(a)
	out := sparse.ZerosDense(nj-1, ni-1)
	if periodic {
		for j := 0; j < nj-1; j++ {
			for i := 0; i < ni-1; i++ {
				m1 := LonMean2(a.Get(j, i), a.Get(j+1, i+1), 360.0)
				m2 := LonMean2(a.Get(j+1, i), a.Get(j, i+1), 360.0)
				out.Set(LonMean2(m1, m2, 360.0), j, i)
			}
		}
		for _, s := range singularities {
			jj, ii := s.J, s.I
			if jj < nj-1 && ii < ni-1 {
				out.Set(LonMean2(a.Get(jj+1, ii+1), LonMean2(a.Get(jj, ii+1), a.Get(jj+1, ii), 360.0), 360.0), jj, ii)
			}
			if jj >= 1 && ii >= 1 {
				out.Set(LonMean2(a.Get(jj-1, ii-1), LonMean2(a.Get(jj, ii-1), a.Get(jj-1, ii), 360.0), 360.0), jj-1, ii-1)
			}
			if jj < nj-1 && ii >= 1 {
				out.Set(LonMean2(a.Get(jj+1, ii-1), LonMean2(a.Get(jj, ii-1), a.Get(jj+1, ii), 360.0), 360.0), jj, ii-1)
			}
			if jj >= 1 && ii < ni-1 {
				out.Set(LonMean2(a.Get(jj-1, ii+1), LonMean2(a.Get(jj, ii+1), a.Get(jj-1, ii), 360.0), 360.0), jj-1, ii)
			}
		}
	} else {
		out = mean4(a)
		for _, s := range singularities {
			jj, ii := s.J, s.I
			if jj < nj-1 && ii < ni-1 {
				out.Set(0.5*a.Get(jj+1, ii+1)+0.25*(a.Get(jj, ii+1)+a.Get(jj+1, ii)), jj, ii)
			}
			if jj >= 1 && ii >= 1 {
				out.Set(0.5*a.Get(jj-1, ii-1)+0.25*(a.Get(jj, ii-1)+a.Get(jj-1, ii)), jj-1, ii-1)
			}
			if jj < nj-1 && ii >= 1 {
				out.Set(0.5*a.Get(jj+1, ii-1)+0.25*(a.Get(jj, ii-1)+a.Get(jj+1, ii)), jj, ii-1)
			}
			if jj >= 1 && ii < ni-1 {
				out.Set(0.5*a.Get(jj-1, ii+1)+0.25*(a.Get(jj, ii+1)+a.Get(jj-1, ii)), jj-1, ii)
			}
		}
	}
	return out
}
