package thinwall

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/gonum/floats"

	"github.com/ctessum/sparse"
)

// Stats is a (low, ave, hgh) triplet of dense arrays over the same shape.
// Ground truth: ThinWalls.py's StatsBase/Stats.
type Stats struct {
	Shape         [2]int
	Low, Ave, Hgh *sparse.DenseArray
}

// NewStats allocates a zeroed Stats of the given shape.
func NewStats(nj, ni int) *Stats {
	return &Stats{
		Shape: [2]int{nj, ni},
		Low:   sparse.ZerosDense(nj, ni),
		Ave:   sparse.ZerosDense(nj, ni),
		Hgh:   sparse.ZerosDense(nj, ni),
	}
}

// NewStatsUniform allocates a Stats with all three fields set to v.
func NewStatsUniform(nj, ni int, v float64) *Stats {
	s := NewStats(nj, ni)
	for i := range s.Low.Elements {
		s.Low.Elements[i], s.Ave.Elements[i], s.Hgh.Elements[i] = v, v, v
	}
	return s
}

// Copy returns a deep copy of s.
func (s *Stats) Copy() *Stats {
	c := NewStats(s.Shape[0], s.Shape[1])
	copy(c.Low.Elements, s.Low.Elements)
	copy(c.Ave.Elements, s.Ave.Elements)
	copy(c.Hgh.Elements, s.Hgh.Elements)
	return c
}

// Get returns the (low,ave,hgh) triplet at (j,i).
func (s *Stats) Get(j, i int) (low, ave, hgh float64) {
	return s.Low.Get(j, i), s.Ave.Get(j, i), s.Hgh.Get(j, i)
}

// Set writes the (low,ave,hgh) triplet at (j,i).
func (s *Stats) Set(j, i int, low, ave, hgh float64) {
	s.Low.Set(low, j, i)
	s.Ave.Set(ave, j, i)
	s.Hgh.Set(hgh, j, i)
}

// Normalize enforces low <= ave <= hgh pointwise, the postcondition
// required after Stage 5 (BoundHByUV/FillPotHoles) in rules.go.
func (s *Stats) Normalize() {
	for i := range s.Low.Elements {
		lo, av, hi := s.Low.Elements[i], s.Ave.Elements[i], s.Hgh.Elements[i]
		if av < lo {
			av = lo
		}
		if av > hi {
			hi = av
		}
		s.Low.Elements[i], s.Ave.Elements[i], s.Hgh.Elements[i] = lo, av, hi
	}
}

// Ordered reports whether low <= ave <= hgh holds pointwise.
func (s *Stats) Ordered() bool {
	for i := range s.Low.Elements {
		if !(s.Low.Elements[i] <= s.Ave.Elements[i] && s.Ave.Elements[i] <= s.Hgh.Elements[i]) {
			return false
		}
	}
	return true
}

func block4(j, i int) (j0, i0, j1, i1 int) { return 2 * j, 2 * i, 2*j + 1, 2*i + 1 }

// Mean4/Min4/Max4 reduce a Stats of shape (2NJ,2NI) to (NJ,NI) by averaging
// (resp. min/max-ing) each 2x2 block. Ground truth: Stats.mean4/min4/max4.
func (s *Stats) Mean4() *sparse.DenseArray {
	nj, ni := s.Shape[0]/2, s.Shape[1]/2
	out := sparse.ZerosDense(nj, ni)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			j0, i0, j1, i1 := block4(j, i)
			v := 0.25 * floats.Sum([]float64{s.Ave.Get(j0, i0), s.Ave.Get(j1, i1), s.Ave.Get(j0, i1), s.Ave.Get(j1, i0)})
			out.Set(v, j, i)
		}
	}
	return out
}

func (s *Stats) Min4() *sparse.DenseArray {
	nj, ni := s.Shape[0]/2, s.Shape[1]/2
	out := sparse.ZerosDense(nj, ni)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			j0, i0, j1, i1 := block4(j, i)
			v := floats.Min([]float64{s.Low.Get(j0, i0), s.Low.Get(j1, i1), s.Low.Get(j0, i1), s.Low.Get(j1, i0)})
			out.Set(v, j, i)
		}
	}
	return out
}

func (s *Stats) Max4() *sparse.DenseArray {
	nj, ni := s.Shape[0]/2, s.Shape[1]/2
	out := sparse.ZerosDense(nj, ni)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			j0, i0, j1, i1 := block4(j, i)
			v := floats.Max([]float64{s.Hgh.Get(j0, i0), s.Hgh.Get(j1, i1), s.Hgh.Get(j0, i1), s.Hgh.Get(j1, i0)})
			out.Set(v, j, i)
		}
	}
	return out
}

// Mean2u/Min2u/Max2u reduce a U-edge Stats of shape (2NJ, 2NI+1) to
// (NJ, NI+1): row pairs are averaged/min'd/max'd (j halves), and only the
// even columns are kept (i is not reduced further, matching the source's
// `ave[::2,::2] + ave[1::2,::2]`, which strides columns by 2 on both
// terms rather than averaging adjacent columns). Ground truth:
// Stats.mean2u/min2u/max2u.
func (s *Stats) Mean2u() *sparse.DenseArray {
	nj, ni := s.Shape[0]/2, (s.Shape[1]+1)/2
	out := sparse.ZerosDense(nj, ni)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			col := 2 * i
			out.Set(0.5*(s.Ave.Get(2*j, col)+s.Ave.Get(2*j+1, col)), j, i)
		}
	}
	return out
}

func (s *Stats) Min2u() *sparse.DenseArray {
	nj, ni := s.Shape[0]/2, (s.Shape[1]+1)/2
	out := sparse.ZerosDense(nj, ni)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			col := 2 * i
			out.Set(floats.Min([]float64{s.Low.Get(2*j, col), s.Low.Get(2*j+1, col)}), j, i)
		}
	}
	return out
}

func (s *Stats) Max2u() *sparse.DenseArray {
	nj, ni := s.Shape[0]/2, (s.Shape[1]+1)/2
	out := sparse.ZerosDense(nj, ni)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			col := 2 * i
			out.Set(floats.Max([]float64{s.Hgh.Get(2*j, col), s.Hgh.Get(2*j+1, col)}), j, i)
		}
	}
	return out
}

// Mean2v/Min2v/Max2v reduce a V-edge Stats of shape (2NJ+1, 2NI) to
// (NJ+1, NI): the symmetric dual of Mean2u/Min2u/Max2u — only the even
// rows are kept (j is not reduced further) and column pairs are
// averaged/min'd/max'd (i halves), matching the source's
// `ave[::2,::2] + ave[::2,1::2]`. Ground truth: Stats.mean2v/min2v/max2v.
func (s *Stats) Mean2v() *sparse.DenseArray {
	nj, ni := (s.Shape[0]+1)/2, s.Shape[1]/2
	out := sparse.ZerosDense(nj, ni)
	for j := 0; j < nj; j++ {
		row := 2 * j
		for i := 0; i < ni; i++ {
			out.Set(0.5*(s.Ave.Get(row, 2*i)+s.Ave.Get(row, 2*i+1)), j, i)
		}
	}
	return out
}

func (s *Stats) Min2v() *sparse.DenseArray {
	nj, ni := (s.Shape[0]+1)/2, s.Shape[1]/2
	out := sparse.ZerosDense(nj, ni)
	for j := 0; j < nj; j++ {
		row := 2 * j
		for i := 0; i < ni; i++ {
			out.Set(floats.Min([]float64{s.Low.Get(row, 2*i), s.Low.Get(row, 2*i+1)}), j, i)
		}
	}
	return out
}

func (s *Stats) Max2v() *sparse.DenseArray {
	nj, ni := (s.Shape[0]+1)/2, s.Shape[1]/2
	out := sparse.ZerosDense(nj, ni)
	for j := 0; j < nj; j++ {
		row := 2 * j
		for i := 0; i < ni; i++ {
			out.Set(floats.Max([]float64{s.Hgh.Get(row, 2*i), s.Hgh.Get(row, 2*i+1)}), j, i)
		}
	}
	return out
}

// Flip reverses s along the given axis (0=j, 1=i) in place. Ground truth:
// Stats.flip.
func (s *Stats) Flip(axis int) {
	s.Low = flipArray(s.Low, axis)
	s.Ave = flipArray(s.Ave, axis)
	s.Hgh = flipArray(s.Hgh, axis)
}

func flipArray(a *sparse.DenseArray, axis int) *sparse.DenseArray {
	nj, ni := a.Shape[0], a.Shape[1]
	out := sparse.ZerosDense(nj, ni)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			if axis == 0 {
				out.Set(a.Get(j, i), nj-1-j, i)
			} else {
				out.Set(a.Get(j, i), j, ni-1-i)
			}
		}
	}
	return out
}

// Transpose swaps the i/j axes of s in place, updating Shape. Ground
// truth: Stats.transpose.
func (s *Stats) Transpose() {
	s.Low = transposeArray(s.Low)
	s.Ave = transposeArray(s.Ave)
	s.Hgh = transposeArray(s.Hgh)
	s.Shape[0], s.Shape[1] = s.Shape[1], s.Shape[0]
}

func transposeArray(a *sparse.DenseArray) *sparse.DenseArray {
	nj, ni := a.Shape[0], a.Shape[1]
	out := sparse.ZerosDense(ni, nj)
	for j := 0; j < nj; j++ {
		for i := 0; i < ni; i++ {
			out.Set(a.Get(j, i), i, j)
		}
	}
	return out
}

// cellPolygon builds a closed geom.Polygon ring over a 2x2 set of node
// indices, letting callers export a single cell's footprint for
// diagnostics. Ground truth: mkelp-inmap/vargrid.go's cellGeometry, adapted
// from CTM grid-cell corners to Mesh node corners.
func cellPolygon(lon, lat *sparse.DenseArray, j, i int) (geom.Polygon, error) {
	if j+1 >= lon.Shape[0] || i+1 >= lon.Shape[1] {
		return nil, fmt.Errorf("thinwall.cellPolygon: index (%d,%d) out of range: %w", j, i, ErrOutOfRange)
	}
	ring := []geom.Point{
		{X: lon.Get(j, i), Y: lat.Get(j, i)},
		{X: lon.Get(j, i+1), Y: lat.Get(j, i+1)},
		{X: lon.Get(j+1, i+1), Y: lat.Get(j+1, i+1)},
		{X: lon.Get(j+1, i), Y: lat.Get(j+1, i)},
		{X: lon.Get(j, i), Y: lat.Get(j, i)},
	}
	return geom.Polygon{ring}, nil
}
