package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/cutgen/internal/geometry"
	"github.com/jonathan/cutgen/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRows(t *testing.T) {
	runID := uuid.New()
	ds := &types.Dataset{
		Stacks: []types.Stack{
			{{Length: 150, Width: 200}, {Length: 3000, Width: 3000}},
			{{Length: 500, Width: 600}},
		},
	}

	rows := ItemRows(runID, ds)
	require.Len(t, rows, 3)
	assert.Equal(t, []any{runID, 0, 0, 1, 150, 200}, rows[0])
	assert.Equal(t, []any{runID, 1, 0, 2, 3000, 3000}, rows[1])
	assert.Equal(t, []any{runID, 2, 1, 1, 500, 600}, rows[2])

	for _, row := range rows {
		assert.Len(t, row, len(ItemColumns))
	}
}

func TestDefectRows(t *testing.T) {
	runID := uuid.New()
	ds := &types.Dataset{
		Plates: []types.Plate{
			{},
			{{X: 0, Y: 100, Width: 10, Height: 10}},
		},
	}

	rows := DefectRows(runID, ds)
	require.Len(t, rows, 1)
	assert.Equal(t, []any{runID, 0, 1, 0, 100, 10, 10}, rows[0])
	assert.Len(t, rows[0], len(DefectColumns))
}

func TestRunType(t *testing.T) {
	run := Run{
		Policy:   "mixed",
		NbStacks: 100,
		NbPlates: 100,
	}

	assert.Equal(t, "mixed", run.Policy)
	assert.Equal(t, uuid.Nil, run.ID)
	assert.Nil(t, run.Parameters)
}

func TestRunGeometry(t *testing.T) {
	// Parameters decoded from JSONB carry numbers as float64
	run := Run{Parameters: map[string]any{
		"plate_width":  float64(1000),
		"plate_height": float64(800),
		"min_waste":    30,
		"max_xx":       "not a number",
	}}

	g := run.Geometry()
	assert.Equal(t, 1000, g.PlateWidth)
	assert.Equal(t, 800, g.PlateHeight)
	assert.Equal(t, 30, g.MinWaste)
	assert.Equal(t, geometry.DefaultMaxXX, g.MaxXX)
	assert.Equal(t, geometry.DefaultMinXX, g.MinXX)
}

func TestRunGeometry_NoParameters(t *testing.T) {
	run := Run{}
	assert.Equal(t, geometry.Default(), run.Geometry())
}
