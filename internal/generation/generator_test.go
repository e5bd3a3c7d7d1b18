package generation

import (
	"errors"
	"testing"

	"github.com/jonathan/cutgen/internal/sampling"
	"github.com/jonathan/cutgen/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed draws. IntN values are offsets and must be below n.
type scriptedRand struct {
	t      *testing.T
	ints   []int
	floats []float64
}

func (r *scriptedRand) IntN(n int) int {
	require.NotEmpty(r.t, r.ints, "scripted IntN exhausted")
	v := r.ints[0]
	r.ints = r.ints[1:]
	require.Less(r.t, v, n)
	return v
}

func (r *scriptedRand) Float64() float64 {
	require.NotEmpty(r.t, r.floats, "scripted Float64 exhausted")
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func TestGenerate_ForcedStack(t *testing.T) {
	params := DefaultParams()
	params.NbStacks = 1
	params.AvgStackSize = 1
	params.NbPlates = 0

	rng := &scriptedRand{t: t, ints: []int{
		1,                    // stack size 2 out of [1, 2]
		150 - 20, 200 - 20,   // first item
		3000 - 20, 3000 - 20, // second item
	}}

	ds, err := New(params, Basic{}, rng).Generate()
	require.NoError(t, err)

	require.Len(t, ds.Stacks, 1)
	assert.Equal(t, types.Stack{{Length: 150, Width: 200}, {Length: 3000, Width: 3000}}, ds.Stacks[0])
	assert.Empty(t, ds.Plates)
	assert.Empty(t, rng.ints)
}

func TestGenerate_ForcedBorderDefect(t *testing.T) {
	params := DefaultParams()
	params.NbStacks = 0
	params.NbPlates = 1
	params.AvgDefects = 1

	rng := &scriptedRand{
		t:      t,
		ints:   []int{0, 500, 100, 10 - 1, 10 - 1},
		floats: []float64{0.5, 0.1, 0.1}, // keep plate, pick border, snap x=0
	}

	ds, err := New(params, Mixed{}, rng).Generate()
	require.NoError(t, err)

	require.Len(t, ds.Plates, 1)
	assert.Equal(t, types.Plate{{X: 0, Y: 100, Width: 10, Height: 10}}, ds.Plates[0])
	assert.Empty(t, rng.ints)
	assert.Empty(t, rng.floats)
}

func TestGenerate_MixedEmptyPlate(t *testing.T) {
	params := DefaultParams()
	params.NbStacks = 0
	params.NbPlates = 1
	params.NoDefectRatio = 0.2

	// Defect count is still drawn before the empty-plate decision.
	rng := &scriptedRand{t: t, ints: []int{7}, floats: []float64{0.2}}

	ds, err := New(params, Mixed{}, rng).Generate()
	require.NoError(t, err)

	require.Len(t, ds.Plates, 1)
	assert.NotNil(t, ds.Plates[0])
	assert.Empty(t, ds.Plates[0])
	assert.Empty(t, rng.ints)
}

func TestGenerate_Properties(t *testing.T) {
	for _, policy := range []Policy{Basic{}, Mixed{}} {
		t.Run(policy.Name(), func(t *testing.T) {
			params := DefaultParams()
			params.NbStacks = 50
			params.AvgStackSize = 3
			params.NbPlates = 40
			params.LargeItemRatio = 0.5
			params.BorderDefectRatio = 0.5

			ds, err := New(params, policy, sampling.NewRand(2024)).Generate()
			require.NoError(t, err)

			g := params.Geometry
			require.Len(t, ds.Stacks, 50)
			for _, stack := range ds.Stacks {
				assert.GreaterOrEqual(t, len(stack), 1)
				assert.LessOrEqual(t, len(stack), policy.StackSizeMax(params))
				for _, item := range stack {
					assert.True(t, g.ValidItem(item), "invalid item %+v", item)
				}
			}

			require.Len(t, ds.Plates, 40)
			for _, plate := range ds.Plates {
				assert.LessOrEqual(t, len(plate), params.DefectCountMax())
				for _, d := range plate {
					assert.True(t, g.ValidDefect(d), "invalid defect %+v", d)
				}
			}
		})
	}
}

func TestGenerate_BasicNeverEmpty(t *testing.T) {
	params := DefaultParams()
	params.NbStacks = 0
	params.NbPlates = 200
	params.NoDefectRatio = 1.0 // ignored by the basic policy

	ds, err := New(params, Basic{}, sampling.NewRand(5)).Generate()
	require.NoError(t, err)
	assert.Zero(t, ds.EmptyPlateCount())
}

func TestGenerate_MixedAllEmpty(t *testing.T) {
	params := DefaultParams()
	params.NbStacks = 0
	params.NbPlates = 50
	params.NoDefectRatio = 1.0

	ds, err := New(params, Mixed{}, sampling.NewRand(5)).Generate()
	require.NoError(t, err)
	assert.Equal(t, 50, ds.EmptyPlateCount())
	assert.Zero(t, ds.DefectCount())
}

func TestGenerate_Deterministic(t *testing.T) {
	params := DefaultParams()
	params.NbStacks = 20
	params.NbPlates = 20

	a, err := New(params, Mixed{}, sampling.NewRand(77)).Generate()
	require.NoError(t, err)
	b, err := New(params, Mixed{}, sampling.NewRand(77)).Generate()
	require.NoError(t, err)
	c, err := New(params, Mixed{}, sampling.NewRand(78)).Generate()
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerate_InfeasibleSurfacesError(t *testing.T) {
	params := DefaultParams()
	params.NbStacks = 1
	params.Geometry.PlateHeight = 10
	params.MaxAttempts = 20

	_, err := New(params, Basic{}, sampling.NewRand(1)).Generate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, sampling.ErrConfigurationInfeasible))
	assert.Contains(t, err.Error(), "failed to generate stack 0")
}

func TestStackSizeMax(t *testing.T) {
	params := DefaultParams()

	params.AvgStackSize = 1
	assert.Equal(t, 2, Basic{}.StackSizeMax(params))
	assert.Equal(t, 1, Mixed{}.StackSizeMax(params))

	params.AvgStackSize = 5
	assert.Equal(t, 10, Basic{}.StackSizeMax(params))
	assert.Equal(t, 9, Mixed{}.StackSizeMax(params))

	params.AvgStackSize = 0
	assert.Equal(t, 1, Basic{}.StackSizeMax(params))
	assert.Equal(t, 1, Mixed{}.StackSizeMax(params))
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("basic")
	require.NoError(t, err)
	assert.Equal(t, PolicyBasic, p.Name())

	p, err = PolicyByName(" Mixed ")
	require.NoError(t, err)
	assert.Equal(t, PolicyMixed, p.Name())

	p, err = PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, PolicyMixed, p.Name())

	_, err = PolicyByName("greedy")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown generation policy")
}
