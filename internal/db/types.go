package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cutgen/internal/geometry"
)

// Table names
const (
	TableRuns    = "generation_runs"
	TableItems   = "dataset_items"
	TableDefects = "dataset_defects"
)

// Copy columns, in row order
var (
	ItemColumns   = []string{"run_id", "item_id", "stack_id", "sequence", "length", "width"}
	DefectColumns = []string{"run_id", "defect_id", "plate_id", "x", "y", "width", "height"}
)

// Run represents a stored generation run
type Run struct {
	ID         uuid.UUID      `json:"id"`
	Seed       uint64         `json:"seed"`
	Policy     string         `json:"policy"`
	Parameters map[string]any `json:"parameters"`
	NbStacks   int            `json:"nb_stacks"`
	NbItems    int            `json:"nb_items"`
	NbPlates   int            `json:"nb_plates"`
	NbDefects  int            `json:"nb_defects"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Geometry rebuilds the plate geometry from the stored parameters.
// Missing or non-numeric entries keep the default bound.
func (r *Run) Geometry() geometry.Geometry {
	g := geometry.Default()
	for key, field := range map[string]*int{
		"min_waste":    &g.MinWaste,
		"min_xx":       &g.MinXX,
		"min_yy":       &g.MinYY,
		"max_xx":       &g.MaxXX,
		"plate_width":  &g.PlateWidth,
		"plate_height": &g.PlateHeight,
	} {
		switch v := r.Parameters[key].(type) {
		case float64:
			*field = int(v)
		case int:
			*field = v
		}
	}
	return g
}
