package sampling

import (
	"errors"
	"fmt"
)

// ErrConfigurationInfeasible is matched by every InfeasibleError
var ErrConfigurationInfeasible = errors.New("configuration infeasible")

// InfeasibleError reports that rejection sampling exhausted its retry budget,
// which means the configured ranges leave an empty or vanishingly small valid region.
type InfeasibleError struct {
	Kind     string // "item" or "defect"
	Attempts int
	Message  string
}

func (e *InfeasibleError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("configuration infeasible: no valid %s after %d attempts: %s", e.Kind, e.Attempts, e.Message)
	}
	return fmt.Sprintf("configuration infeasible: no valid %s after %d attempts", e.Kind, e.Attempts)
}

// Is makes errors.Is(err, ErrConfigurationInfeasible) hold
func (e *InfeasibleError) Is(target error) bool {
	return target == ErrConfigurationInfeasible
}
