package sampling

import (
	"testing"

	"github.com/jonathan/cutgen/internal/geometry"
	"github.com/jonathan/cutgen/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleDefectInterior_RejectsOutOfBounds(t *testing.T) {
	// First draw overflows the right edge (5995 + 20 > 6000); second is valid.
	rng := &scriptedRand{t: t, ints: []int{5995, 0, 20 - 1, 5 - 1, 500, 100, 10 - 1, 10 - 1}}
	s := New(rng, defaultOptions())

	d, err := s.SampleDefectInterior()
	require.NoError(t, err)
	assert.Equal(t, types.Defect{X: 500, Y: 100, Width: 10, Height: 10}, d)
	rng.drained(t)
}

func TestSampleDefectInterior_ZeroMinSize(t *testing.T) {
	opts := defaultOptions()
	opts.DefectMinSize = 0
	rng := &scriptedRand{t: t, ints: []int{10, 10, 0, 0}}
	s := New(rng, opts)

	d, err := s.SampleDefectInterior()
	require.NoError(t, err)
	assert.Equal(t, types.Defect{X: 10, Y: 10, Width: 0, Height: 0}, d)
}

func TestSampleDefectInterior_PropertyBounds(t *testing.T) {
	g := geometry.Default()
	s := New(NewRand(3), defaultOptions())

	for i := 0; i < 2000; i++ {
		d, err := s.SampleDefect(0.5)
		require.NoError(t, err)
		assert.True(t, g.ValidDefect(d), "defect %+v out of bounds", d)
		assert.GreaterOrEqual(t, d.Width, 1)
		assert.LessOrEqual(t, d.Width, MaxDefectSize)
		assert.GreaterOrEqual(t, d.Height, 1)
		assert.LessOrEqual(t, d.Height, MaxDefectSize)
	}
}

func TestSampleDefectBorder_SnapsLeftEdge(t *testing.T) {
	rng := &scriptedRand{
		t:      t,
		ints:   []int{500, 100, 10 - 1, 10 - 1},
		floats: []float64{0.1},
	}
	s := New(rng, defaultOptions())

	d, err := s.SampleDefectBorder()
	require.NoError(t, err)
	assert.Equal(t, types.Defect{X: 0, Y: 100, Width: 10, Height: 10}, d)
	rng.drained(t)
}

func TestSampleDefectBorder_EdgeSelection(t *testing.T) {
	interior := types.Defect{X: 500, Y: 100, Width: 10, Height: 12}

	tests := []struct {
		draw float64
		want types.Defect
	}{
		{0.0, types.Defect{X: 0, Y: 100, Width: 10, Height: 12}},
		{0.25, types.Defect{X: 500, Y: 0, Width: 10, Height: 12}},
		{0.5, types.Defect{X: 5990, Y: 100, Width: 10, Height: 12}},
		{0.75, types.Defect{X: 500, Y: 3198, Width: 10, Height: 12}},
		{0.999, types.Defect{X: 500, Y: 3198, Width: 10, Height: 12}},
	}

	for _, tt := range tests {
		rng := &scriptedRand{
			t:      t,
			ints:   []int{interior.X, interior.Y, interior.Width - 1, interior.Height - 1},
			floats: []float64{tt.draw},
		}
		s := New(rng, defaultOptions())

		d, err := s.SampleDefectBorder()
		require.NoError(t, err)
		assert.Equal(t, tt.want, d, "draw %v", tt.draw)
	}
}

func TestSampleDefectBorder_ExactlyOneAxisAltered(t *testing.T) {
	g := geometry.Default()

	// Two samplers on the same seed: one stops after the interior draw.
	interiorSampler := New(NewRand(11), defaultOptions())
	borderSampler := New(NewRand(11), defaultOptions())

	for i := 0; i < 500; i++ {
		interior, err := interiorSampler.SampleDefectInterior()
		require.NoError(t, err)
		interiorSampler.Float64() // keep both streams aligned

		border, err := borderSampler.SampleDefectBorder()
		require.NoError(t, err)

		assert.True(t, g.ValidDefect(border))
		assert.Equal(t, interior.Width, border.Width)
		assert.Equal(t, interior.Height, border.Height)

		changed := 0
		if border.X != interior.X {
			changed++
		}
		if border.Y != interior.Y {
			changed++
		}
		assert.LessOrEqual(t, changed, 1)

		onEdge := border.X == 0 || border.Y == 0 ||
			border.X == g.PlateWidth-border.Width || border.Y == g.PlateHeight-border.Height
		assert.True(t, onEdge, "defect %+v not on an edge", border)
	}
}

func TestSampleDefect_BorderRatio(t *testing.T) {
	t.Run("border when draw below ratio", func(t *testing.T) {
		rng := &scriptedRand{
			t:      t,
			floats: []float64{0.1, 0.3},
			ints:   []int{500, 100, 9, 9},
		}
		s := New(rng, defaultOptions())

		d, err := s.SampleDefect(0.2)
		require.NoError(t, err)
		assert.Equal(t, types.Defect{X: 500, Y: 0, Width: 10, Height: 10}, d)
		rng.drained(t)
	})

	t.Run("interior when draw at or above ratio", func(t *testing.T) {
		rng := &scriptedRand{
			t:      t,
			floats: []float64{0.2},
			ints:   []int{500, 100, 9, 9},
		}
		s := New(rng, defaultOptions())

		d, err := s.SampleDefect(0.2)
		require.NoError(t, err)
		assert.Equal(t, types.Defect{X: 500, Y: 100, Width: 10, Height: 10}, d)
		rng.drained(t)
	})
}

func TestSampleDefectInterior_MinSizeAboveMax(t *testing.T) {
	opts := defaultOptions()
	opts.DefectMinSize = MaxDefectSize + 1
	s := New(NewRand(1), opts)

	_, err := s.SampleDefectInterior()
	assert.ErrorIs(t, err, ErrConfigurationInfeasible)
}

func TestEdge_String(t *testing.T) {
	assert.Equal(t, "left", EdgeLeft.String())
	assert.Equal(t, "top", EdgeTop.String())
	assert.Equal(t, "Edge(9)", Edge(9).String())
}
