package pipeline

import (
	"math/rand"
)

// IntRange is a stepped integer range with an exclusive upper bound.
type IntRange struct {
	Min  int `json:"min"`
	Max  int `json:"max"`
	Step int `json:"step"`
}

// Pick returns a uniformly chosen value on the step path.
func (r IntRange) Pick(rng *rand.Rand) int {
	step := max(r.Step, 1)
	n := (r.Max - r.Min + step - 1) / step
	if n <= 0 {
		return r.Min
	}
	return r.Min + rng.Intn(n)*step
}

// Snap clamps v into the range and rounds it onto the step path.
func (r IntRange) Snap(v int) int {
	step := max(r.Step, 1)
	last := r.Min + ((r.Max-1-r.Min)/step)*step
	v = min(max(v, r.Min), last)
	k := (v - r.Min + step/2) / step
	return r.Min + k*step
}

// FloatRange is a half-open float range.
type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Pick returns a uniform value in [Min, Max).
func (r FloatRange) Pick(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Space bounds the tunable parameters explored by a Sampler.
type Space struct {
	BlurKernel    IntRange   `json:"blur_kernel"`
	AdaptiveBlock IntRange   `json:"adaptive_block"`
	AdaptiveC     FloatRange `json:"adaptive_c"`
	ThreshPercent FloatRange `json:"thresh_percent"`
	MinArea       IntRange   `json:"min_area"`
}

// DefaultSpace covers the ranges that produced legible boards in manual
// sweeps: odd windows from 3 to 29, small offsets and small areas.
func DefaultSpace() Space {
	return Space{
		BlurKernel:    IntRange{Min: 3, Max: 30, Step: 2},
		AdaptiveBlock: IntRange{Min: 3, Max: 30, Step: 2},
		AdaptiveC:     FloatRange{Min: 0, Max: 5},
		ThreshPercent: FloatRange{Min: 0, Max: 0.2},
		MinArea:       IntRange{Min: 1, Max: 20, Step: 1},
	}
}

// Sampler draws random parameter sets from a Space. The fixed fields
// (crop, working resolution) come from a base Params.
type Sampler struct {
	space Space
	base  Params
	rng   *rand.Rand
}

// NewSampler creates a sampler with a deterministic seed.
func NewSampler(space Space, base Params, seed int64) *Sampler {
	return &Sampler{space: space, base: base, rng: rand.New(rand.NewSource(seed))}
}

// Next returns one random parameter set.
func (s *Sampler) Next() Params {
	p := s.base
	p.BlurKernel = s.space.BlurKernel.Pick(s.rng)
	p.AdaptiveBlock = s.space.AdaptiveBlock.Pick(s.rng)
	p.AdaptiveC = s.space.AdaptiveC.Pick(s.rng)
	p.ThreshPercent = s.space.ThreshPercent.Pick(s.rng)
	p.MinArea = s.space.MinArea.Pick(s.rng)
	return p
}

// Sample returns n distinct parameter sets.
func (s *Sampler) Sample(n int) []Params {
	seen := make(map[Params]bool, n)
	out := make([]Params, 0, n)
	for attempts := 0; len(out) < n && attempts < n*100; attempts++ {
		p := s.Next()
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
