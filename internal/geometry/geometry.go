// Package geometry holds the problem-domain bounds of the glass cutting problem
// and the admissibility predicates for generated items and defects.
package geometry

import "github.com/jonathan/cutgen/internal/types"

// Default problem-domain bounds
const (
	DefaultMinWaste    = 20
	DefaultMinXX       = 100
	DefaultMinYY       = 100
	DefaultMaxXX       = 3500
	DefaultPlateWidth  = 6000
	DefaultPlateHeight = 3210
)

// Geometry is the set of bounds every generated entity must respect.
// MinYY is not used by the predicates; it is only carried to the params file.
type Geometry struct {
	MinWaste    int `json:"min_waste" yaml:"min_waste" validate:"gte=1"`
	MinXX       int `json:"min_xx" yaml:"min_xx" validate:"gte=1"`
	MinYY       int `json:"min_yy" yaml:"min_yy" validate:"gte=1"`
	MaxXX       int `json:"max_xx" yaml:"max_xx" validate:"gtefield=MinXX"`
	PlateWidth  int `json:"plate_width" yaml:"plate_width" validate:"gte=1"`
	PlateHeight int `json:"plate_height" yaml:"plate_height" validate:"gte=1"`
}

// Default returns the bounds used by the benchmark datasets
func Default() Geometry {
	return Geometry{
		MinWaste:    DefaultMinWaste,
		MinXX:       DefaultMinXX,
		MinYY:       DefaultMinYY,
		MaxXX:       DefaultMaxXX,
		PlateWidth:  DefaultPlateWidth,
		PlateHeight: DefaultPlateHeight,
	}
}

// Fits reports whether a cut of length a can be taken from stock of length b
// without leaving an unusable remainder: the leftover is either zero or at
// least minWaste.
func Fits(a, b, minWaste int) bool {
	return a == b || a+minWaste <= b
}

// Fits is Fits with the geometry's minimum waste
func (g Geometry) Fits(a, b int) bool {
	return Fits(a, b, g.MinWaste)
}

// ValidItem reports whether both dimensions lie in [MinWaste, MaxXX] and the
// item can be placed along the plate height in at least one orientation.
func (g Geometry) ValidItem(item types.Item) bool {
	if item.Width < g.MinWaste || item.Length < g.MinWaste {
		return false
	}
	if item.Width > g.MaxXX || item.Length > g.MaxXX {
		return false
	}
	return g.Fits(item.Width, g.PlateHeight) || g.Fits(item.Length, g.PlateHeight)
}

// ValidDefect reports whether the defect is well-formed and lies fully inside the plate.
func (g Geometry) ValidDefect(d types.Defect) bool {
	if d.X < 0 || d.Y < 0 {
		return false
	}
	if d.Width < 0 || d.Height < 0 {
		return false
	}
	if d.X+d.Width > g.PlateWidth {
		return false
	}
	return d.Y+d.Height <= g.PlateHeight
}
