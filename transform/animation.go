// SPDX-License-Identifier: Unlicense OR MIT

package transform

import (
	"time"

	"github.com/pixelscope/viewer/internal/easing"
)

// Animation is the animation record: present only while an
// ease is in flight. The target is pre-clamped by the caller before
// Start so Tick never has to re-run Constrain mid-flight.
type Animation struct {
	start    time.Time
	duration time.Duration
	from, to State
	running  bool
}

// DefaultDuration is the default ease duration.
const DefaultDuration = 300 * time.Millisecond

// Start arms an animation from the current transform toward target,
// pre-clamped by the caller, over duration. duration is 0 when the
// config disables smoothing, in which case Tick finalizes immediately.
func (a *Animation) Start(now time.Time, from, target State, duration time.Duration) {
	a.start = now
	a.duration = duration
	a.from = from
	a.to = target
	a.running = true
}

// Stop cancels any in-flight animation without finalizing it, used
// when user input interrupts an ease in progress.
func (a *Animation) Stop() {
	a.running = false
}

// Running reports whether an ease is in flight.
func (a *Animation) Running() bool {
	return a.running
}

// Tick advances the animation to now and returns the interpolated
// transform. done is true once p reaches 1, at which point the
// animation finalizes to the exact target and clears itself.
func (a *Animation) Tick(now time.Time) (t State, done bool) {
	if !a.running {
		return a.to, true
	}
	var p float64
	if a.duration <= 0 {
		p = 1
	} else {
		p = float64(now.Sub(a.start)) / float64(a.duration)
		if p > 1 {
			p = 1
		} else if p < 0 {
			p = 0
		}
	}
	eased := easing.QuarticOut(p)
	t = State{
		Scale: easing.Lerp(a.from.Scale, a.to.Scale, eased),
		TX:    easing.Lerp(a.from.TX, a.to.TX, eased),
		TY:    easing.Lerp(a.from.TY, a.to.TY, eased),
	}
	if p >= 1 {
		a.running = false
		return a.to, true
	}
	return t, false
}
