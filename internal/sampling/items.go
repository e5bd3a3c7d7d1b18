package sampling

import (
	"fmt"

	"github.com/jonathan/cutgen/internal/types"
)

// ItemPolicy picks the size interval of each item draw
type ItemPolicy interface {
	Name() string
	SampleItem(s *Sampler) (types.Item, error)
}

// SampleItem draws length then width uniformly from [sizeMin, sizeMax]
// until the geometry accepts the pair.
func (s *Sampler) SampleItem(sizeMin, sizeMax int) (types.Item, error) {
	if sizeMax < sizeMin {
		return types.Item{}, &InfeasibleError{
			Kind:    "item",
			Message: fmt.Sprintf("empty size interval [%d, %d]", sizeMin, sizeMax),
		}
	}

	for attempts := 0; ; attempts++ {
		if s.exhausted(attempts) {
			return types.Item{}, &InfeasibleError{
				Kind:     "item",
				Attempts: attempts,
				Message:  fmt.Sprintf("size interval [%d, %d]", sizeMin, sizeMax),
			}
		}
		length := s.IntBetween(sizeMin, sizeMax)
		width := s.IntBetween(sizeMin, sizeMax)
		item := types.Item{Length: length, Width: width}
		if s.geom.ValidItem(item) {
			return item, nil
		}
	}
}

// UniformItems samples every item from [MinWaste, MaxXX]
type UniformItems struct{}

// Name implements ItemPolicy
func (UniformItems) Name() string { return "uniform" }

// SampleItem implements ItemPolicy
func (UniformItems) SampleItem(s *Sampler) (types.Item, error) {
	return s.SampleItem(s.geom.MinWaste, s.geom.MaxXX)
}

// MixedItems samples a large item from [MinXX, MaxXX] with probability
// LargeRatio and a small item from [MinWaste, 8*MinXX] otherwise. The choice
// is a fresh Bernoulli trial for every item.
type MixedItems struct {
	LargeRatio float64
}

// Name implements ItemPolicy
func (MixedItems) Name() string { return "mixed" }

// SampleItem implements ItemPolicy
func (p MixedItems) SampleItem(s *Sampler) (types.Item, error) {
	if s.Bernoulli(p.LargeRatio) {
		return s.SampleItem(s.geom.MinXX, s.geom.MaxXX)
	}
	return s.SampleItem(s.geom.MinWaste, s.geom.MinXX*8)
}
