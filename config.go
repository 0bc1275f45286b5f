package thinwall

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// PipelineOptions is the persisted set of per-stage compatibility switches
// for the coarsening pipeline (rules.go). The spec requires stage options
// to be recorded alongside serialized thin-wall output; this follows the
// teacher stack's own config idiom (BurntSushi/toml) rather than
// hand-rolling a format.
type PipelineOptions struct {
	// Matlab selects the legacy rule variants in rules.go's PushCorners and
	// InvertExteriorCorners (overwrite rather than raise ave/hgh, (min,avg,max)
	// raised outer ridges, skipped fine-center lowering). FoldRidges,
	// LowerButtress and pathway.go do not read it. Default false.
	Matlab bool `toml:"matlab"`

	// AdjustCenters enables Stage 1/3's center-rewrite behavior.
	AdjustCenters bool `toml:"adjust_centers"`

	// AdjustMean enables Stage 2's buttress mean adjustment.
	AdjustMean bool `toml:"adjust_mean"`

	// UpdateInteriorMeanMax is persisted with the other options; no stage
	// reads it. Stage 4 lowers the fine-center low whenever Matlab is false.
	UpdateInteriorMeanMax bool `toml:"update_interior_mean_max"`

	// UseTallestButtress is persisted as the switch for ThinWalls.py's
	// alternate lower_tallest_buttress form. LowerButtress does not read it
	// and always runs the vectorized find_buttress/lower_buttress form.
	UseTallestButtress bool `toml:"use_tallest_buttress"`
}

// DefaultPipelineOptions mirrors the spec's stated non-matlab default.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{}
}

// EncodeOptions writes opts as TOML to w.
func EncodeOptions(w io.Writer, opts PipelineOptions) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(opts); err != nil {
		return fmt.Errorf("thinwall.EncodeOptions: %w", err)
	}
	return nil
}

// DecodeOptions reads a PipelineOptions value from TOML text.
func DecodeOptions(r io.Reader) (PipelineOptions, error) {
	var opts PipelineOptions
	if _, err := toml.DecodeReader(r, &opts); err != nil {
		return opts, fmt.Errorf("thinwall.DecodeOptions: %w", err)
	}
	return opts, nil
}
