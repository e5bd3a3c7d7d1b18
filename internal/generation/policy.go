package generation

import (
	"fmt"
	"strings"

	"github.com/jonathan/cutgen/internal/sampling"
	"github.com/jonathan/cutgen/internal/types"
)

// Policy names
const (
	PolicyBasic = "basic"
	PolicyMixed = "mixed"
)

// Policy supplies the sampling ranges and mixtures of one generation variant
type Policy interface {
	Name() string
	// StackSizeMax is the inclusive upper bound of the per-stack item count.
	StackSizeMax(p Params) int
	// ItemPolicy picks the size interval of every item.
	ItemPolicy(p Params) sampling.ItemPolicy
	// FillPlate produces the defects of one plate given its drawn defect count.
	FillPlate(s *sampling.Sampler, nbDefects int, p Params) (types.Plate, error)
}

// Basic samples items uniformly, draws stack sizes from [1, 2*avg] and puts
// interior defects on every plate.
type Basic struct{}

// Name implements Policy
func (Basic) Name() string { return PolicyBasic }

// StackSizeMax implements Policy
func (Basic) StackSizeMax(p Params) int {
	return max(1, 2*p.AvgStackSize)
}

// ItemPolicy implements Policy
func (Basic) ItemPolicy(Params) sampling.ItemPolicy {
	return sampling.UniformItems{}
}

// FillPlate implements Policy
func (Basic) FillPlate(s *sampling.Sampler, nbDefects int, _ Params) (types.Plate, error) {
	plate := make(types.Plate, 0, nbDefects)
	for i := 0; i < nbDefects; i++ {
		d, err := s.SampleDefectInterior()
		if err != nil {
			return nil, err
		}
		plate = append(plate, d)
	}
	return plate, nil
}

// Mixed mixes large and small items, draws stack sizes from [1, 2*avg-1],
// leaves a share of plates without defects and snaps a share of defects to
// the plate border.
type Mixed struct{}

// Name implements Policy
func (Mixed) Name() string { return PolicyMixed }

// StackSizeMax implements Policy
func (Mixed) StackSizeMax(p Params) int {
	return max(1, 2*p.AvgStackSize-1)
}

// ItemPolicy implements Policy
func (Mixed) ItemPolicy(p Params) sampling.ItemPolicy {
	return sampling.MixedItems{LargeRatio: p.LargeItemRatio}
}

// FillPlate implements Policy
func (Mixed) FillPlate(s *sampling.Sampler, nbDefects int, p Params) (types.Plate, error) {
	plate := types.Plate{}
	if s.Float64() <= p.NoDefectRatio {
		return plate, nil
	}
	for i := 0; i < nbDefects; i++ {
		d, err := s.SampleDefect(p.BorderDefectRatio)
		if err != nil {
			return nil, err
		}
		plate = append(plate, d)
	}
	return plate, nil
}

// PolicyByName resolves a policy from its configuration name
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyBasic:
		return Basic{}, nil
	case PolicyMixed, "":
		return Mixed{}, nil
	default:
		return nil, fmt.Errorf("unknown generation policy %q (expected %q or %q)", name, PolicyBasic, PolicyMixed)
	}
}
