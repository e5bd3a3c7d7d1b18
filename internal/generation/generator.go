package generation

import (
	"fmt"

	"github.com/jonathan/cutgen/internal/sampling"
	"github.com/jonathan/cutgen/internal/types"
)

// Generator builds one dataset from a single random stream.
// Stacks are always generated before plates, so a seed reproduces a dataset.
type Generator struct {
	params  Params
	policy  Policy
	sampler *sampling.Sampler
}

// New creates a Generator consuming rng
func New(params Params, policy Policy, rng sampling.Rand) *Generator {
	return &Generator{
		params:  params,
		policy:  policy,
		sampler: sampling.New(rng, params.SamplerOptions()),
	}
}

// Generate produces the stacks then the plates
func (g *Generator) Generate() (*types.Dataset, error) {
	stacks, err := g.GenerateStacks()
	if err != nil {
		return nil, err
	}
	plates, err := g.GeneratePlates()
	if err != nil {
		return nil, err
	}
	return &types.Dataset{Stacks: stacks, Plates: plates}, nil
}

// GenerateStacks draws NbStacks stacks with sizes in [1, StackSizeMax]
func (g *Generator) GenerateStacks() ([]types.Stack, error) {
	sizeMax := g.policy.StackSizeMax(g.params)
	items := g.policy.ItemPolicy(g.params)

	stacks := make([]types.Stack, 0, g.params.NbStacks)
	for i := 0; i < g.params.NbStacks; i++ {
		nbItems := g.sampler.IntBetween(1, sizeMax)
		stack, err := g.generateStack(items, nbItems)
		if err != nil {
			return nil, fmt.Errorf("failed to generate stack %d: %w", i, err)
		}
		stacks = append(stacks, stack)
	}
	return stacks, nil
}

func (g *Generator) generateStack(items sampling.ItemPolicy, nbItems int) (types.Stack, error) {
	stack := make(types.Stack, 0, nbItems)
	for j := 0; j < nbItems; j++ {
		item, err := items.SampleItem(g.sampler)
		if err != nil {
			return nil, err
		}
		stack = append(stack, item)
	}
	return stack, nil
}

// GeneratePlates draws NbPlates plates. The defect count is drawn for every
// plate before the policy decides how to fill it.
func (g *Generator) GeneratePlates() ([]types.Plate, error) {
	countMax := g.params.DefectCountMax()

	plates := make([]types.Plate, 0, g.params.NbPlates)
	for i := 0; i < g.params.NbPlates; i++ {
		nbDefects := g.sampler.IntBetween(1, countMax)
		plate, err := g.policy.FillPlate(g.sampler, nbDefects, g.params)
		if err != nil {
			return nil, fmt.Errorf("failed to generate plate %d: %w", i, err)
		}
		plates = append(plates, plate)
	}
	return plates, nil
}
