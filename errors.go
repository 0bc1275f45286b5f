package thinwall

import "errors"

// Sentinel error kinds. Callers compare with errors.Is; wrapped with
// fmt.Errorf("%w") at the call site so the originating function name is
// preserved in the message.
var (
	// ErrShapeMismatch is returned when an input array's dimensions do not
	// match a declared shape.
	ErrShapeMismatch = errors.New("thinwall: shape mismatch")

	// ErrOutOfRange is returned when a computed source index falls outside
	// the source grid's latitude band.
	ErrOutOfRange = errors.New("thinwall: index out of range")

	// ErrConfigError is returned for mutually exclusive or unrecognized
	// options, including an unknown direction passed to Sec.
	ErrConfigError = errors.New("thinwall: invalid configuration")

	// ErrDegenerateGeometry is returned by ThinWalls.CoarsenBy2 when the mesh
	// has no finer level backing it (Rfl == 0). The rule stages in rules.go
	// do not check Rfl.
	ErrDegenerateGeometry = errors.New("thinwall: degenerate geometry")
)

// ConvergenceWarning reports that RefinementDriver.Run stopped due to a
// budget limit rather than full source coverage. It is not fatal: the
// returned mesh chain is still valid, just possibly incomplete.
type ConvergenceWarning struct {
	Reason string
	Hits   int
	Total  int
}

func (w *ConvergenceWarning) Error() string {
	return "thinwall: refinement stopped before full coverage: " + w.Reason
}
