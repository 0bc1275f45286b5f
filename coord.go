package thinwall

import (
	"fmt"
	"math"
)

// RegularCoord describes a uniform global 1-D coordinate axis — periodic
// longitude or clipped latitude — and maps coordinate values to cell
// indices. It is grounded on GMesh.py's RegularCoord/IntCoord.
type RegularCoord struct {
	n        int
	origin   float64
	periodic bool
	delta    float64
	rdelta   float64
	offset   int
	rem      float64
	start    int
	stop     int
}

// NewRegularCoord creates a RegularCoord spanning n cells starting at
// origin. periodic distinguishes longitude (true) from latitude (false).
// degPPI is the number of degrees in a half turn (180 in all normal use;
// exposed so callers matching GMesh.py's degppi default can override it).
func NewRegularCoord(n int, origin float64, periodic bool, degPPI float64) *RegularCoord {
	if degPPI == 0 {
		degPPI = 180
	}
	var delta float64
	if periodic {
		delta = (2 * degPPI) / float64(n)
	} else {
		delta = degPPI / float64(n)
	}
	return newRegularCoordDelta(n, origin, periodic, delta)
}

// NewRegularCoordDelta creates a RegularCoord with an explicit cell width,
// mirroring GMesh.py's RegularCoord(delta=...) constructor path.
func NewRegularCoordDelta(n int, origin float64, periodic bool, delta float64) *RegularCoord {
	return newRegularCoordDelta(n, origin, periodic, delta)
}

func newRegularCoordDelta(n int, origin float64, periodic bool, delta float64) *RegularCoord {
	rdelta := 1.0 / delta
	offset := int(math.Floor(rdelta * origin))
	rem := math.Mod(rdelta*origin, 1)
	if rem < 0 {
		rem++
	}
	return &RegularCoord{
		n: n, origin: origin, periodic: periodic,
		delta: delta, rdelta: rdelta,
		offset: offset, rem: rem,
		start: 0, stop: n,
	}
}

// Size returns the number of cells in the current (possibly wrapped) subset.
func (c *RegularCoord) Size() int {
	wrap := 0
	if c.start > c.stop {
		wrap = 1
	}
	return c.stop - c.start + c.n*wrap
}

// N, Delta, Periodic, Origin, Start, Stop are plain accessors onto the
// immutable parameters.
func (c *RegularCoord) N() int           { return c.n }
func (c *RegularCoord) Delta() float64   { return c.delta }
func (c *RegularCoord) Periodic() bool   { return c.periodic }
func (c *RegularCoord) Origin() float64  { return c.origin }
func (c *RegularCoord) Start() int       { return c.start }
func (c *RegularCoord) Stop() int        { return c.stop }

// Centers returns the cell-center coordinates of the current subset.
func (c *RegularCoord) Centers() []float64 {
	n := c.Size()
	out := make([]float64, n)
	if c.start > c.stop {
		k := 0
		for i := c.start; i < c.n; i++ {
			out[k] = c.origin + c.delta*float64(i)
			k++
		}
		for i := c.n; i < c.n+c.stop; i++ {
			out[k] = c.origin + c.delta*float64(i)
			k++
		}
	} else {
		for i := c.start; i < c.stop; i++ {
			out[i-c.start] = c.origin + c.delta*float64(i)
		}
	}
	return out
}

// Bounds returns the cell-boundary coordinates of the current subset (one
// more element than Centers).
func (c *RegularCoord) Bounds() []float64 {
	n := c.Size() + 1
	out := make([]float64, 0, n)
	if c.start > c.stop {
		for i := c.start; i <= c.n; i++ {
			out = append(out, c.origin+c.delta*(float64(i)-0.5))
		}
		for i := c.n + 1; i <= c.n+c.stop; i++ {
			out = append(out, c.origin+c.delta*(float64(i)-0.5))
		}
	} else {
		for i := c.start; i <= c.stop; i++ {
			out = append(out, c.origin+c.delta*(float64(i)-0.5))
		}
	}
	return out
}

// Subset returns a copy of c restricted to [start, stop); stop<start is a
// legal periodic wrap when c is periodic.
func (c *RegularCoord) Subset(start, stop int) *RegularCoord {
	s := newRegularCoordDelta(c.n, c.origin, c.periodic, c.delta)
	s.start, s.stop = start, stop
	return s
}

// Indices returns, for each value in x, the index of the cell (relative to
// the current subset) containing it. Non-periodic axes clip out-of-range
// values to the global domain; periodic axes wrap. If boundSubset is true,
// the result is additionally clamped into [0, size); otherwise an
// out-of-subset index returns ErrOutOfRange.
func (c *RegularCoord) Indices(x []float64, boundSubset bool) ([]int, error) {
	out := make([]int, len(x))
	for k, v := range x {
		idx := int(math.Floor(c.rdelta*v-c.rem)) - c.offset
		if c.periodic {
			idx = ((idx % c.n) + c.n) % c.n
		} else {
			if idx < 0 {
				idx = 0
			}
			if idx > c.n-1 {
				idx = c.n - 1
			}
		}
		if boundSubset {
			if idx < c.start {
				idx = c.start
			}
			if idx > c.stop-1 {
				idx = c.stop - 1
			}
			idx -= c.start
		} else {
			idx -= c.start
		}
		if idx < 0 || idx >= c.stop-c.start {
			return nil, fmt.Errorf("thinwall.RegularCoord.Indices: value %v out of subset range: %w", v, ErrOutOfRange)
		}
		out[k] = idx
	}
	return out, nil
}

// IsUniformAxis reports whether a 1-D coordinate axis is evenly spaced to
// within a relative tolerance, mirroring the Python source's mesh-uniformity
// check used before meshgridding caller-supplied node coordinates.
func IsUniformAxis(x []float64) bool {
	if len(x) < 3 {
		return true
	}
	d0 := x[1] - x[0]
	if d0 == 0 {
		return false
	}
	const tol = 1e-9
	for i := 2; i < len(x); i++ {
		d := x[i] - x[i-1]
		if math.Abs(d-d0) > tol*math.Abs(d0) {
			return false
		}
	}
	return true
}
