package sampling

import (
	"testing"

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
	require.Less(r.t, v, n, "scripted IntN value out of range")
	return v
}

func (r *scriptedRand) Float64() float64 {
	require.NotEmpty(r.t, r.floats, "scripted Float64 exhausted")
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) drained(t *testing.T) {
	t.Helper()
	require.Empty(t, r.ints, "unused scripted ints")
	require.Empty(t, r.floats, "unused scripted floats")
}
