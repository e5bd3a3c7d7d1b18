package sampling

import (
	"fmt"

	"github.com/jonathan/cutgen/internal/geometry"
	"github.com/jonathan/cutgen/internal/types"
)

// Edge identifies the plate boundary a border defect is snapped to
type Edge int

const (
	EdgeLeft   Edge = iota // x = 0
	EdgeBottom             // y = 0
	EdgeRight              // x = PlateWidth - width
	EdgeTop                // y = PlateHeight - height
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeBottom:
		return "bottom"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// SnapToBorder moves the defect flush against one edge. Only one coordinate changes.
func SnapToBorder(d types.Defect, edge Edge, g geometry.Geometry) types.Defect {
	switch edge {
	case EdgeLeft:
		d.X = 0
	case EdgeBottom:
		d.Y = 0
	case EdgeRight:
		d.X = g.PlateWidth - d.Width
	case EdgeTop:
		d.Y = g.PlateHeight - d.Height
	}
	return d
}

// edgeFor maps a uniform draw in [0, 1) onto the four edges with probability 0.25 each
func edgeFor(v float64) Edge {
	switch {
	case v < 0.25:
		return EdgeLeft
	case v < 0.5:
		return EdgeBottom
	case v < 0.75:
		return EdgeRight
	default:
		return EdgeTop
	}
}

// SampleDefectInterior draws x, y, width and height (in that order) until
// the defect lies inside the plate.
func (s *Sampler) SampleDefectInterior() (types.Defect, error) {
	if s.defectMinSize > MaxDefectSize {
		return types.Defect{}, &InfeasibleError{
			Kind:    "defect",
			Message: fmt.Sprintf("minimum size %d above %d", s.defectMinSize, MaxDefectSize),
		}
	}

	for attempts := 0; ; attempts++ {
		if s.exhausted(attempts) {
			return types.Defect{}, &InfeasibleError{Kind: "defect", Attempts: attempts}
		}
		d := types.Defect{
			X:      s.IntBetween(0, s.geom.PlateWidth),
			Y:      s.IntBetween(0, s.geom.PlateHeight),
			Width:  s.IntBetween(s.defectMinSize, MaxDefectSize),
			Height: s.IntBetween(s.defectMinSize, MaxDefectSize),
		}
		if s.geom.ValidDefect(d) {
			return d, nil
		}
	}
}

// SampleDefectBorder draws an interior defect and pins it to one edge chosen uniformly.
func (s *Sampler) SampleDefectBorder() (types.Defect, error) {
	d, err := s.SampleDefectInterior()
	if err != nil {
		return types.Defect{}, err
	}
	return SnapToBorder(d, edgeFor(s.rng.Float64()), s.geom), nil
}

// SampleDefect returns a border defect with probability borderRatio and an
// interior defect otherwise.
func (s *Sampler) SampleDefect(borderRatio float64) (types.Defect, error) {
	if s.Bernoulli(borderRatio) {
		return s.SampleDefectBorder()
	}
	return s.SampleDefectInterior()
}
