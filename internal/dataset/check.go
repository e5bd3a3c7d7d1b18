package dataset

import (
	"fmt"

	"github.com/jonathan/cutgen/internal/geometry"
	"github.com/jonathan/cutgen/internal/types"
)

const severityError = "error"

// Check verifies every item and defect against the geometry and returns the
// violations found. An empty result means the dataset is a valid solver input.
func Check(ds *types.Dataset, g geometry.Geometry) *types.Violations {
	violations := &types.Violations{Violations: []types.Violation{}}

	for stackID, stack := range ds.Stacks {
		for i, item := range stack {
			loc := func(v types.Violation) types.Violation {
				sid, seq := stackID, i+1
				v.StackID, v.Sequence = &sid, &seq
				v.Severity = severityError
				return v
			}
			if !inRange(item.Length, g.MinWaste, g.MaxXX) || !inRange(item.Width, g.MinWaste, g.MaxXX) {
				violations.Add(loc(types.Violation{
					Type:    types.ViolationItemSize,
					Details: fmt.Sprintf("item %dx%d outside [%d, %d]", item.Length, item.Width, g.MinWaste, g.MaxXX),
				}))
			}
			if !g.Fits(item.Width, g.PlateHeight) && !g.Fits(item.Length, g.PlateHeight) {
				violations.Add(loc(types.Violation{
					Type:    types.ViolationItemHeightFit,
					Details: fmt.Sprintf("item %dx%d leaves a remainder below %d along plate height %d", item.Length, item.Width, g.MinWaste, g.PlateHeight),
				}))
			}
		}
	}

	defectID := 0
	for plateID, plate := range ds.Plates {
		for _, d := range plate {
			pid, did := plateID, defectID
			if d.Width < 0 || d.Height < 0 {
				violations.Add(types.Violation{
					Type:     types.ViolationDefectNegative,
					Severity: severityError,
					Details:  fmt.Sprintf("defect size %dx%d is negative", d.Width, d.Height),
					PlateID:  &pid,
					DefectID: &did,
				})
			} else if !g.ValidDefect(d) {
				violations.Add(types.Violation{
					Type:     types.ViolationDefectBounds,
					Severity: severityError,
					Details:  fmt.Sprintf("defect (%d,%d,%d,%d) outside plate %dx%d", d.X, d.Y, d.Width, d.Height, g.PlateWidth, g.PlateHeight),
					PlateID:  &pid,
					DefectID: &did,
				})
			}
			defectID++
		}
	}

	return violations
}

func inRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}
