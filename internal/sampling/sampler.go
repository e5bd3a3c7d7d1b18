// Package sampling draws single items and defects by rejection sampling
// against the geometry predicates.
package sampling

import (
	"math/rand/v2"

	"github.com/jonathan/cutgen/internal/geometry"
)

// MaxDefectSize is the upper bound of a defect width or height
const MaxDefectSize = 20

// DefaultMaxAttempts is the retry budget used when none is configured
const DefaultMaxAttempts = 1_000_000

// Rand is the random source threaded through every draw.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a seeded PCG source. The same seed always yields the same stream.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Options configures a Sampler
type Options struct {
	Geometry geometry.Geometry
	// DefectMinSize is the lower bound of a defect width and height (0 or 1).
	DefectMinSize int
	// MaxAttempts bounds every rejection loop; 0 means unbounded.
	MaxAttempts int
}

// Sampler draws items and defects from a single random stream.
// It is not safe for concurrent use; give each goroutine its own Sampler.
type Sampler struct {
	rng           Rand
	geom          geometry.Geometry
	defectMinSize int
	maxAttempts   int
}

// New creates a Sampler
func New(rng Rand, opts Options) *Sampler {
	return &Sampler{
		rng:           rng,
		geom:          opts.Geometry,
		defectMinSize: opts.DefectMinSize,
		maxAttempts:   opts.MaxAttempts,
	}
}

// Geometry returns the bounds the sampler validates against
func (s *Sampler) Geometry() geometry.Geometry {
	return s.geom
}

// IntBetween draws uniformly from the closed interval [lo, hi]
func (s *Sampler) IntBetween(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}

// Bernoulli returns true with probability p
func (s *Sampler) Bernoulli(p float64) bool {
	return s.rng.Float64() < p
}

// Float64 exposes the underlying uniform draw in [0, 1)
func (s *Sampler) Float64() float64 {
	return s.rng.Float64()
}

func (s *Sampler) exhausted(attempts int) bool {
	return s.maxAttempts > 0 && attempts >= s.maxAttempts
}
