// SPDX-License-Identifier: Unlicense OR MIT

// Package policy selects the optimal LOD index for the current
// transform and memory pressure, and owns the front/back swap protocol
// that hides texture upload latency from the render loop.
package policy

import "fmt"

// Level is one entry of the LOD table : a downscale
// factor and the maximum relative viewport scale it is valid up to.
type Level struct {
	Downscale   float64 `yaml:"downscale"`   // φ, in (0, 1]
	MaxRelScale float64 `yaml:"maxRelScale"` // ψ
}

// Table is a fixed, ordered list of Levels. Index 0 is the coarsest,
// the last index the finest; φ and ψ must both be non-decreasing with
// index. The values themselves are left to configuration; Validate
// only checks the shape every caller depends on.
type Table []Level

// Validate checks the monotonicity and range invariants a LOD table
// must satisfy.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("policy: LOD table must have at least one level")
	}
	for i, l := range t {
		if l.Downscale <= 0 || l.Downscale > 1 {
			return fmt.Errorf("policy: level %d downscale %v out of range (0, 1]", i, l.Downscale)
		}
		if i > 0 {
			prev := t[i-1]
			if l.Downscale < prev.Downscale {
				return fmt.Errorf("policy: level %d downscale %v regresses from level %d's %v", i, l.Downscale, i-1, prev.Downscale)
			}
			if l.MaxRelScale < prev.MaxRelScale {
				return fmt.Errorf("policy: level %d maxRelScale %v regresses from level %d's %v", i, l.MaxRelScale, i-1, prev.MaxRelScale)
			}
		}
	}
	return nil
}
