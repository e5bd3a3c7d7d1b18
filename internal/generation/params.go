// Package generation assembles stacks of items and plates of defects into a
// dataset, driving the samplers under a selectable generation policy.
package generation

import (
	"github.com/jonathan/cutgen/internal/geometry"
	"github.com/jonathan/cutgen/internal/sampling"
)

// Default counts and ratios of the benchmark datasets
const (
	DefaultNbStacks          = 100
	DefaultAvgStackSize      = 1
	DefaultAvgDefects        = 10
	DefaultNbPlates          = 100
	DefaultLargeItemRatio    = 1.0
	DefaultBorderDefectRatio = 0.2
	DefaultNoDefectRatio     = 0.2
	DefaultDefectMinSize     = 1
)

// Params controls how many stacks, plates, items and defects are produced
type Params struct {
	NbStacks          int
	AvgStackSize      int
	AvgDefects        int
	NbPlates          int
	LargeItemRatio    float64
	BorderDefectRatio float64
	NoDefectRatio     float64

	Geometry      geometry.Geometry
	DefectMinSize int
	MaxAttempts   int // 0 means unbounded
}

// DefaultParams returns the parameters of the benchmark datasets
func DefaultParams() Params {
	return Params{
		NbStacks:          DefaultNbStacks,
		AvgStackSize:      DefaultAvgStackSize,
		AvgDefects:        DefaultAvgDefects,
		NbPlates:          DefaultNbPlates,
		LargeItemRatio:    DefaultLargeItemRatio,
		BorderDefectRatio: DefaultBorderDefectRatio,
		NoDefectRatio:     DefaultNoDefectRatio,
		Geometry:          geometry.Default(),
		DefectMinSize:     DefaultDefectMinSize,
		MaxAttempts:       sampling.DefaultMaxAttempts,
	}
}

// SamplerOptions returns the sampler configuration carried by the params
func (p Params) SamplerOptions() sampling.Options {
	return sampling.Options{
		Geometry:      p.Geometry,
		DefectMinSize: p.DefectMinSize,
		MaxAttempts:   p.MaxAttempts,
	}
}

// DefectCountMax is the upper bound of the per-plate defect count
func (p Params) DefectCountMax() int {
	return max(1, 2*p.AvgDefects)
}
