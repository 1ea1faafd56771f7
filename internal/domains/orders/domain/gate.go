package domain

import "sync"

const (
	// DefaultAdvanceThreshold is the percent chance that a sweep advances an order.
	DefaultAdvanceThreshold = 10
	maxThreshold            = 100
)

// Rand draws uniform integers in [0, n).
type Rand interface {
	IntN(n int) int
}

// AdvanceGate decides whether a randomized sweep advances an order.
//
// The threshold is raised by step after every draw. A step of zero keeps the
// probability constant, which is the long-standing behavior of the demo.
type AdvanceGate struct {
	mu        sync.Mutex
	rnd       Rand
	threshold int
	step      int
}

// NewAdvanceGate builds a gate drawing from rnd. Threshold is clamped to [0, 100]
// and negative steps are treated as zero.
func NewAdvanceGate(rnd Rand, threshold, step int) *AdvanceGate {
	return &AdvanceGate{
		rnd:       rnd,
		threshold: min(max(threshold, 0), maxThreshold),
		step:      max(step, 0),
	}
}

// ShouldAdvance draws once and reports whether an order in status should
// advance. Unknown orders always advance, but the draw is still consumed.
func (g *AdvanceGate) ShouldAdvance(status Status) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	hit := g.rnd.IntN(maxThreshold) < g.threshold
	g.threshold = min(g.threshold+g.step, maxThreshold)
	return hit || status == StatusUnknown
}

// Threshold returns the current cutoff out of 100.
func (g *AdvanceGate) Threshold() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.threshold
}

// SweepResult summarizes one randomized pass over every order.
type SweepResult struct {
	Examined int
	Advanced []int64
}
