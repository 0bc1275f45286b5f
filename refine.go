package thinwall

import (
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// SourceGrid is the caller-supplied uniform source description: a periodic
// longitude coordinate, a clipped latitude coordinate, and the elevation
// field they index.
type SourceGrid struct {
	Lon  *RegularCoord
	Lat  *RegularCoord
	Elev *sparse.DenseArray
}

// DriverOptions enumerates the recognized RefinementDriver knobs. Ground
// truth: spec component C4 / GMesh.py.refine_loop's keyword arguments.
type DriverOptions struct {
	MaxStages         int
	MaxMB             float64
	FixedRefineLevel  int
	WorkIn3D          bool
	UseCenter         bool
	ResolutionLimit   bool
	MaskRes           []IndexRange
	SingularityRadius float64
}

// DefaultDriverOptions mirrors GMesh.py.refine_loop's defaults.
func DefaultDriverOptions() DriverOptions {
	return DriverOptions{
		MaxStages:         32,
		MaxMB:             2000,
		FixedRefineLevel:  -1,
		WorkIn3D:          true,
		SingularityRadius: 0.25,
	}
}

// RefinementDriver drives repeated x2 refinement of a seed Mesh until
// source coverage converges, a resolution parity is reached, or a
// stage/memory budget is exhausted. Ground truth: GMesh.py.refine_loop.
type RefinementDriver struct {
	Log logrus.FieldLogger
}

// NewRefinementDriver returns a driver that logs through the given logger,
// or the package-default logrus logger when log is nil.
func NewRefinementDriver(log logrus.FieldLogger) *RefinementDriver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RefinementDriver{Log: log}
}

func countHits(hits *sparse.DenseArray) (n int, all bool) {
	all = true
	for _, v := range hits.Elements {
		if v != 0 {
			n++
		} else {
			all = false
		}
	}
	return n, all
}

func maxElem(a *sparse.DenseArray) float64 {
	m := 0.0
	for i, v := range a.Elements {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// Run produces the mesh chain M0=seed, M1, ..., Mk. warn is a
// *ConvergenceWarning (non-fatal) when the chain stopped due to budget
// exhaustion rather than full coverage; err is non-nil only on a
// programming/data error.
func (d *RefinementDriver) Run(seed *Mesh, src SourceGrid, opts DriverOptions) (chain []*Mesh, warn error, err error) {
	chain = []*Mesh{seed}
	this := seed
	converged := false
	var nhits, prevHits, totalCells int
	if opts.FixedRefineLevel < 1 {
		hits, herr := this.SourceHits(src.Lon, src.Lat, opts.UseCenter, opts.SingularityRadius)
		if herr != nil {
			return nil, nil, herr
		}
		var all bool
		nhits, all = countHits(hits)
		totalCells = len(hits.Elements)
		converged = all || nhits == prevHits
		prevHits = nhits
	}
	mb := 2. * 8. * float64(this.Nj) * float64(this.Ni) / 1024 / 1024

	var dellonS, dellatS, dellonT, dellatT float64
	if opts.ResolutionLimit {
		dellonS, dellatS = src.Lon.Delta(), src.Lat.Delta()
		delLam, delPhi := this.CoarsestResolution(opts.MaskRes)
		dellonT, dellatT = maxElem(delLam), maxElem(delPhi)
		converged = converged || (dellonT <= dellonS && dellatT <= dellatS)
	}

	for ((!converged) && len(chain) < opts.MaxStages && 4*mb < opts.MaxMB && opts.FixedRefineLevel < 1) ||
		this.Rfl < opts.FixedRefineLevel {
		next, rerr := this.RefineBy2(opts.WorkIn3D)
		if rerr != nil {
			return nil, nil, rerr
		}
		this = next
		if opts.FixedRefineLevel < 1 {
			hits, herr := this.SourceHits(src.Lon, src.Lat, opts.UseCenter, opts.SingularityRadius)
			if herr != nil {
				return nil, nil, herr
			}
			prevHits = nhits
			var all bool
			nhits, all = countHits(hits)
			totalCells = len(hits.Elements)
			converged = all || nhits == prevHits
		}
		mb = 2. * 8. * float64(this.Nj) * float64(this.Ni) / 1024 / 1024
		if opts.ResolutionLimit {
			delLam, delPhi := this.CoarsestResolution(opts.MaskRes)
			dellonT, dellatT = maxElem(delLam), maxElem(delPhi)
			converged = converged || (dellonT <= dellonS && dellatT <= dellatS)
		}
		chain = append(chain, this)
		d.Log.WithFields(logrus.Fields{"rfl": this.Rfl, "hits": nhits, "of": totalCells, "mb": mb}).Debug("refinement stage complete")
	}

	if !converged {
		w := &ConvergenceWarning{Reason: "maximum refinements reached without full source coverage", Hits: nhits, Total: totalCells}
		LogSummary(d.Log, RunSummary{Stages: len(chain), Converged: false, Warning: w.Error()})
		return chain, w, nil
	}
	LogSummary(d.Log, RunSummary{Stages: len(chain), Converged: true})
	return chain, nil, nil
}
