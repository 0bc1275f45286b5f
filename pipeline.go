package thinwall

// StageFunc is one step of the coarsening pipeline. Ground truth: InMAP's
// DomainManipulator / framework.go's Init/Run/Cleanup loops, retargeted
// from a CTM simulation step to a single ThinWalls rule.
type StageFunc func(t *ThinWalls) error

// Pipeline is an ordered list of rule stages applied to a ThinWalls value
// in sequence, stopping at the first error.
type Pipeline struct {
	Stages []StageFunc
}

// Run executes every stage against t in order.
func (p *Pipeline) Run(t *ThinWalls) error {
	for _, f := range p.Stages {
		if err := f(t); err != nil {
			return err
		}
	}
	return nil
}

func wrapVoid(f func(t *ThinWalls)) StageFunc {
	return func(t *ThinWalls) error {
		f(t)
		return nil
	}
}

// DefaultPipeline returns Stages 1-6 of the coarsening pipeline in the
// fixed order the spec requires: PushCorners, LowerButtress, FoldRidges,
// InvertExteriorCorners, BoundHByUV/FillPotHoles, then pathway-preserving
// edge lifting. CoarsenBy2 (Stage 7) is run separately by the caller, since
// it returns a new ThinWalls rather than mutating in place.
func DefaultPipeline() *Pipeline {
	return &Pipeline{Stages: []StageFunc{
		(*ThinWalls).PushCorners,
		(*ThinWalls).LowerButtress,
		(*ThinWalls).FoldRidges,
		(*ThinWalls).InvertExteriorCorners,
		wrapVoid((*ThinWalls).BoundHByUV),
		wrapVoid((*ThinWalls).FillPotHoles),
		(*ThinWalls).LimitConnections,
	}}
}

// Coarsen runs the full rule pipeline against t (which must already have
// InitEffectiveValues called) and then reduces to the next-coarser level
// via CoarsenBy2.
func Coarsen(t *ThinWalls) (*ThinWalls, error) {
	if err := DefaultPipeline().Run(t); err != nil {
		return nil, err
	}
	return t.CoarsenBy2()
}
