// SPDX-License-Identifier: Unlicense OR MIT

package transform

import (
	"testing"
	"time"
)

func TestAnimationEasesToTarget(t *testing.T) {
	var a Animation
	start := time.Unix(0, 0)
	from := State{Scale: 0.1}
	to := State{Scale: 1.0}
	a.Start(start, from, to, DefaultDuration)

	mid, done := a.Tick(start.Add(DefaultDuration / 2))
	if done {
		t.Fatal("animation should not be done at the midpoint")
	}
	if mid.Scale <= from.Scale || mid.Scale >= to.Scale {
		t.Fatalf("midpoint scale %v out of range (%v, %v)", mid.Scale, from.Scale, to.Scale)
	}

	end, done := a.Tick(start.Add(DefaultDuration))
	if !done {
		t.Fatal("animation should be done at duration")
	}
	if end != to {
		t.Fatalf("final state = %+v, want %+v", end, to)
	}
	if a.Running() {
		t.Fatal("animation should clear itself once done")
	}
}

func TestAnimationZeroDurationFinalizesImmediately(t *testing.T) {
	var a Animation
	now := time.Now()
	to := State{Scale: 2}
	a.Start(now, State{Scale: 1}, to, 0)
	out, done := a.Tick(now)
	if !done || out != to {
		t.Fatalf("zero-duration animation should finalize immediately, got %+v done=%v", out, done)
	}
}

func TestAnimationInterruption(t *testing.T) {
	var a Animation
	now := time.Now()
	a.Start(now, State{Scale: 1}, State{Scale: 5}, DefaultDuration)
	a.Stop()
	if a.Running() {
		t.Fatal("Stop should clear the in-flight animation")
	}
}
