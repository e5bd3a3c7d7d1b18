//nolint:revive // types is a standard Go package name pattern
package types

// Violation types reported when checking a dataset
const (
	ViolationItemSize       = "item_size"
	ViolationItemHeightFit  = "item_height_fit"
	ViolationDefectBounds   = "defect_bounds"
	ViolationDefectNegative = "defect_negative_size"
)

// Violation represents a single invariant failure in a dataset
type Violation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Details  string `json:"details"`

	// Location of the offending entity
	StackID  *int `json:"stack_id,omitempty"`
	Sequence *int `json:"sequence,omitempty"` // 1-based position inside the stack
	PlateID  *int `json:"plate_id,omitempty"`
	DefectID *int `json:"defect_id,omitempty"`
}

// Violations represents a collection of invariant failures
type Violations struct {
	Violations []Violation `json:"violations"`
}

// Add appends a violation
func (v *Violations) Add(violation Violation) {
	v.Violations = append(v.Violations, violation)
}

// Empty reports whether no violation was recorded
func (v *Violations) Empty() bool {
	return v == nil || len(v.Violations) == 0
}
