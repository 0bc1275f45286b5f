package thinwall

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// StridedView is a read/write window into a contiguous *sparse.DenseArray,
// addressed by (row,col) over its own (NRows,NCols) extent. It replaces the
// source's numpy fancy-indexing idiom (Design note: "Staggered array
// views"). The view never copies; Get/Set touch the backing array directly.
type StridedView struct {
	Base                 *sparse.DenseArray
	RowOff, ColOff       int
	RowStride, ColStride int
	NRows, NCols         int
}

// NewStridedView builds a view of shape (nrows,ncols) over base, starting
// at (rowOff,colOff) and advancing rowStride/colStride array-cells per view
// step.
func NewStridedView(base *sparse.DenseArray, rowOff, colOff, rowStride, colStride, nrows, ncols int) *StridedView {
	return &StridedView{base, rowOff, colOff, rowStride, colStride, nrows, ncols}
}

// Get returns the value at view-relative (r,c).
func (v *StridedView) Get(r, c int) float64 {
	return v.Base.Get(v.RowOff+r*v.RowStride, v.ColOff+c*v.ColStride)
}

// Set writes the value at view-relative (r,c).
func (v *StridedView) Set(val float64, r, c int) {
	v.Base.Set(val, v.RowOff+r*v.RowStride, v.ColOff+c*v.ColStride)
}

// Direction is one of the sixteen stencil keys a coarse 2x2 block exposes:
// the four interior edges, four fine centers, and eight outer-edge halves.
// Ground truth: ThinWalls.py's sec(direction, measure) key map, described
// in the component design for ThinWalls (§4.5 vocabulary).
type Direction string

const (
	DirN   Direction = "N"
	DirS   Direction = "S"
	DirE   Direction = "E"
	DirW   Direction = "W"
	DirNE  Direction = "NE"
	DirNW  Direction = "NW"
	DirSE  Direction = "SE"
	DirSW  Direction = "SW"
	DirNWN Direction = "NWN"
	DirNEN Direction = "NEN"
	DirSWS Direction = "SWS"
	DirSES Direction = "SES"
	DirNEE Direction = "NEE"
	DirSEE Direction = "SEE"
	DirNWW Direction = "NWW"
	DirSWW Direction = "SWW"
)

// Measure selects which of a Stats' three fields a view exposes.
type Measure int

const (
	Low Measure = iota
	Ave
	Hgh
)

func (s *Stats) arrayFor(m Measure) *sparse.DenseArray {
	switch m {
	case Low:
		return s.Low
	case Ave:
		return s.Ave
	default:
		return s.Hgh
	}
}

// ThinWalls is Mesh + the six Stats fields (C,U,V) x (simple,effective).
// Ground truth: spec §3 ThinWalls data model / ThinWalls.py's ThinWalls
// class fields.
type ThinWalls struct {
	Mesh *Mesh

	SimpleC, EffectiveC *Stats // shape (Nj, Ni)
	SimpleU, EffectiveU *Stats // shape (Nj, Ni+1)
	SimpleV, EffectiveV *Stats // shape (Nj+1, Ni)

	Options PipelineOptions
}

// NewThinWalls allocates a ThinWalls over the given mesh with all Stats
// zeroed.
func NewThinWalls(m *Mesh, opts PipelineOptions) *ThinWalls {
	nj, ni := m.Nj, m.Ni
	return &ThinWalls{
		Mesh:        m,
		SimpleC:     NewStats(nj, ni),
		EffectiveC:  NewStats(nj, ni),
		SimpleU:     NewStats(nj, ni+1),
		EffectiveU:  NewStats(nj, ni+1),
		SimpleV:     NewStats(nj+1, ni),
		EffectiveV:  NewStats(nj+1, ni),
		Options:     opts,
	}
}

// InitEffectiveValues forks Effective{C,U,V} from Simple{C,U,V}; callers
// must do this before running the rule pipeline (§5 concurrency model:
// "the caller is expected to call init_effective_values").
func (t *ThinWalls) InitEffectiveValues() {
	t.EffectiveC = t.SimpleC.Copy()
	t.EffectiveU = t.SimpleU.Copy()
	t.EffectiveV = t.SimpleV.Copy()
}

// Sec returns a StridedView over the Effective field addressed by
// direction/measure, one element per coarse cell of the (NJ,NI) block grid
// (NJ=Nj/2, NI=Ni/2). Out-of-vocabulary directions are a ConfigError.
func (t *ThinWalls) Sec(dir Direction, measure Measure) (*StridedView, error) {
	nj, ni := t.Mesh.Nj, t.Mesh.Ni
	NJ, NI := nj/2, ni/2
	switch dir {
	case DirN:
		a := t.EffectiveU.arrayFor(measure)
		return NewStridedView(a, 1, 1, 2, 2, NJ, NI), nil
	case DirS:
		a := t.EffectiveU.arrayFor(measure)
		return NewStridedView(a, 0, 1, 2, 2, NJ, NI), nil
	case DirE:
		a := t.EffectiveV.arrayFor(measure)
		return NewStridedView(a, 1, 1, 2, 2, NJ, NI), nil
	case DirW:
		a := t.EffectiveV.arrayFor(measure)
		return NewStridedView(a, 1, 0, 2, 2, NJ, NI), nil
	case DirSW:
		a := t.EffectiveC.arrayFor(measure)
		return NewStridedView(a, 0, 0, 2, 2, NJ, NI), nil
	case DirSE:
		a := t.EffectiveC.arrayFor(measure)
		return NewStridedView(a, 0, 1, 2, 2, NJ, NI), nil
	case DirNW:
		a := t.EffectiveC.arrayFor(measure)
		return NewStridedView(a, 1, 0, 2, 2, NJ, NI), nil
	case DirNE:
		a := t.EffectiveC.arrayFor(measure)
		return NewStridedView(a, 1, 1, 2, 2, NJ, NI), nil
	case DirSWS:
		a := t.EffectiveV.arrayFor(measure)
		return NewStridedView(a, 0, 0, 2, 2, NJ, NI), nil
	case DirSES:
		a := t.EffectiveV.arrayFor(measure)
		return NewStridedView(a, 0, 1, 2, 2, NJ, NI), nil
	case DirNWN:
		a := t.EffectiveV.arrayFor(measure)
		return NewStridedView(a, 2, 0, 2, 2, NJ, NI), nil
	case DirNEN:
		a := t.EffectiveV.arrayFor(measure)
		return NewStridedView(a, 2, 1, 2, 2, NJ, NI), nil
	case DirSWW:
		a := t.EffectiveU.arrayFor(measure)
		return NewStridedView(a, 0, 0, 2, 2, NJ, NI), nil
	case DirNWW:
		a := t.EffectiveU.arrayFor(measure)
		return NewStridedView(a, 1, 0, 2, 2, NJ, NI), nil
	case DirSEE:
		a := t.EffectiveU.arrayFor(measure)
		return NewStridedView(a, 0, 2, 2, 2, NJ, NI), nil
	case DirNEE:
		a := t.EffectiveU.arrayFor(measure)
		return NewStridedView(a, 1, 2, 2, 2, NJ, NI), nil
	default:
		return nil, fmt.Errorf("thinwall.ThinWalls.Sec: unknown direction %q: %w", dir, ErrConfigError)
	}
}

// CoarsenBy2 builds a new ThinWalls at half resolution by reducing both
// Simple and Effective fields (C: mean4/min4/max4; U: mean2u/min2u/max2u,
// which halves j and keeps only even columns of i; V: mean2v/min2v/max2v,
// the dual reducing i and keeping even rows of j) and sampling the
// even-even subset of mesh nodes. Ground truth: ThinWalls.py's coarsen() /
// spec §4.5 Stage 7. Requires Mesh.Rfl > 0 (a DegenerateGeometry error
// otherwise).
func (t *ThinWalls) CoarsenBy2() (*ThinWalls, error) {
	if t.Mesh.Rfl == 0 {
		return nil, fmt.Errorf("thinwall.ThinWalls.CoarsenBy2: %w", ErrDegenerateGeometry)
	}
	nj, ni := t.Mesh.Nj, t.Mesh.Ni
	if nj%2 != 0 || ni%2 != 0 {
		return nil, fmt.Errorf("thinwall.ThinWalls.CoarsenBy2: odd mesh shape (%d,%d): %w", nj, ni, ErrShapeMismatch)
	}
	NJ, NI := nj/2, ni/2
	coarseLon := sparse.ZerosDense(NJ+1, NI+1)
	coarseLat := sparse.ZerosDense(NJ+1, NI+1)
	for j := 0; j <= NJ; j++ {
		for i := 0; i <= NI; i++ {
			coarseLon.Set(t.Mesh.Lon.Get(2*j, 2*i), j, i)
			coarseLat.Set(t.Mesh.Lat.Get(2*j, 2*i), j, i)
		}
	}
	cm, err := NewMeshFromNodes(coarseLon, coarseLat, t.Mesh.Rfl-1)
	if err != nil {
		return nil, err
	}
	out := NewThinWalls(cm, t.Options)
	reduceC(t.SimpleC, out.SimpleC)
	reduceC(t.EffectiveC, out.EffectiveC)
	reduceU(t.SimpleU, out.SimpleU)
	reduceU(t.EffectiveU, out.EffectiveU)
	reduceV(t.SimpleV, out.SimpleV)
	reduceV(t.EffectiveV, out.EffectiveV)
	return out, nil
}

func reduceC(src, dst *Stats) {
	dst.Ave = src.Mean4()
	dst.Low = src.Min4()
	dst.Hgh = src.Max4()
}

func reduceU(src, dst *Stats) {
	dst.Ave = src.Mean2u()
	dst.Low = src.Min2u()
	dst.Hgh = src.Max2u()
}

func reduceV(src, dst *Stats) {
	dst.Ave = src.Mean2v()
	dst.Low = src.Min2v()
	dst.Hgh = src.Max2v()
}
