// SPDX-License-Identifier: Unlicense OR MIT

// Package gesture translates raw pointer, wheel and multi-touch events
// into pan/zoom intents and double-activation, generalizing gio's
// gesture.Drag, gesture.Click and gesture.Scroll into a single decoder.
package gesture

import (
	"math"
	"time"

	"github.com/pixelscope/viewer/geom"
)

// DoubleClickDuration is the debounce window for a mouse double-click.
const DoubleClickDuration = 300 * time.Millisecond

// DoubleTapDuration and DoubleTapDistance gate touch double-tap
// detection: both the time and distance tests must pass.
const (
	DoubleTapDuration = 300 * time.Millisecond
	DoubleTapDistance = 50 // CSS units
)

// Mode selects what a double-activation does.
type Mode int

const (
	ModeToggle Mode = iota
	ModeZoom
)

// Intent is a decoded gesture outcome. The concrete types are PanIntent,
// ZoomAtIntent and ActivateIntent.
type Intent interface {
	isIntent()
}

// PanIntent requests a translation delta, in CSS units.
type PanIntent struct {
	DX, DY float32
}

func (PanIntent) isIntent() {}

// ZoomAtIntent requests a zoom about (X, Y) by Factor.
type ZoomAtIntent struct {
	X, Y, Factor float32
}

func (ZoomAtIntent) isIntent() {}

// ActivateIntent is the shared double-click/double-tap action, anchored
// at (X, Y).
type ActivateIntent struct {
	X, Y float32
}

func (ActivateIntent) isIntent() {}

// Decoder owns the gesture state: whether a drag is active, the last
// pointer position, the last pinch distance, and the double-tap
// timer. It is not safe for concurrent use; callers keep it on the
// single engine goroutine.
type Decoder struct {
	dragging    bool
	lastPointer geom.Point

	touches       map[int]geom.Point
	lastPinchDist float32

	lastClickAt time.Time
	clickCount  int

	hasPendingTap bool
	lastTapAt     time.Time
	lastTapPos    geom.Point
}

// NewDecoder returns a Decoder with empty gesture state.
func NewDecoder() *Decoder {
	return &Decoder{touches: make(map[int]geom.Point)}
}

// Reset clears all in-flight gesture state, including the pending
// double-tap timer. Called on teardown and whenever a host
// loses pointer/touch capture.
func (d *Decoder) Reset() {
	d.dragging = false
	d.touches = make(map[int]geom.Point)
	d.lastPinchDist = 0
	d.clickCount = 0
	d.lastClickAt = time.Time{}
	d.hasPendingTap = false
}

// PointerDown starts a one-finger drag at (x, y).
func (d *Decoder) PointerDown(x, y float32) {
	d.dragging = true
	d.lastPointer = geom.Pt(x, y)
}

// PointerUp ends the current drag, if any.
func (d *Decoder) PointerUp() {
	d.dragging = false
}

// PointerMove reports a pan delta while dragging.
func (d *Decoder) PointerMove(x, y float32) (PanIntent, bool) {
	if !d.dragging {
		return PanIntent{}, false
	}
	cur := geom.Pt(x, y)
	delta := cur.Sub(d.lastPointer)
	d.lastPointer = cur
	return PanIntent{DX: delta.X, DY: delta.Y}, true
}

// Wheel decodes a wheel tick into an unanimated zoom about (x, y).
// deltaY>0 zooms out by (1-step); otherwise it zooms in by (1+step).
func (d *Decoder) Wheel(x, y, deltaY, step float32) ZoomAtIntent {
	factor := 1 + step
	if deltaY > 0 {
		factor = 1 - step
	}
	return ZoomAtIntent{X: x, Y: y, Factor: factor}
}

// MouseClick registers a click and reports whether it completed a
// double-click within DoubleClickDuration. A click stamped earlier than
// the previous one starts a new sequence.
func (d *Decoder) MouseClick(now time.Time, x, y float32) (ActivateIntent, bool) {
	if elapsed := now.Sub(d.lastClickAt); !d.lastClickAt.IsZero() && elapsed >= 0 && elapsed < DoubleClickDuration {
		d.clickCount++
	} else {
		d.clickCount = 1
	}
	d.lastClickAt = now
	if d.clickCount >= 2 {
		d.clickCount = 0
		d.lastClickAt = time.Time{}
		return ActivateIntent{X: x, Y: y}, true
	}
	return ActivateIntent{}, false
}

// TouchStart registers a new touch point and arms pinch tracking once
// a second finger lands. Double-tap is detected on release, not here.
func (d *Decoder) TouchStart(id int, x, y float32) {
	pos := geom.Pt(x, y)
	d.touches[id] = pos

	switch len(d.touches) {
	case 1:
		d.dragging = true
		d.lastPointer = pos
	case 2:
		d.dragging = false
		d.lastPinchDist = pinchDistance(d.touches)
	}
}

// TouchMove reports a pan while one finger is down or a zoom-about-
// midpoint while two are down.
func (d *Decoder) TouchMove(id int, x, y float32) (Intent, bool) {
	if _, ok := d.touches[id]; !ok {
		return nil, false
	}
	pos := geom.Pt(x, y)
	d.touches[id] = pos

	switch len(d.touches) {
	case 1:
		if !d.dragging {
			return nil, false
		}
		delta := pos.Sub(d.lastPointer)
		d.lastPointer = pos
		return PanIntent{DX: delta.X, DY: delta.Y}, true
	case 2:
		dcur := pinchDistance(d.touches)
		if d.lastPinchDist == 0 {
			d.lastPinchDist = dcur
			return nil, false
		}
		mid := pinchMidpoint(d.touches)
		factor := dcur / d.lastPinchDist
		d.lastPinchDist = dcur
		return ZoomAtIntent{X: mid.X, Y: mid.Y, Factor: factor}, true
	default:
		return nil, false
	}
}

// TouchEnd releases a touch point and, when the last finger lifts,
// checks whether this release completes a double-tap against the
// pending tap armed by the previous release. The pending tap timer is
// always cleared here, either by firing or by being replaced with this
// release, so it never survives to match an unrelated later tap.
func (d *Decoder) TouchEnd(id int, now time.Time) (ActivateIntent, bool) {
	pos, tracked := d.touches[id]
	if !tracked {
		pos = d.lastPointer
	}
	delete(d.touches, id)

	var activate ActivateIntent
	fired := false
	switch len(d.touches) {
	case 0:
		d.dragging = false
		d.lastPinchDist = 0
		if d.hasPendingTap && now.Sub(d.lastTapAt) < DoubleTapDuration && dist(pos, d.lastTapPos) < DoubleTapDistance {
			activate, fired = ActivateIntent{X: pos.X, Y: pos.Y}, true
			d.hasPendingTap = false
			d.lastTapAt = time.Time{}
			d.lastTapPos = geom.Point{}
		} else {
			d.hasPendingTap = true
			d.lastTapAt = now
			d.lastTapPos = pos
		}
	case 1:
		d.lastPinchDist = 0
		for _, p := range d.touches {
			d.lastPointer = p
		}
		d.dragging = true
	}
	return activate, fired
}

func dist(a, b geom.Point) float32 {
	d := a.Sub(b)
	return float32(math.Sqrt(float64(d.X*d.X + d.Y*d.Y)))
}

// pinchDistance and pinchMidpoint require exactly two active touches;
// iteration order does not matter since both points are used
// symmetrically.
func pinchDistance(touches map[int]geom.Point) float32 {
	var pts [2]geom.Point
	i := 0
	for _, p := range touches {
		if i < 2 {
			pts[i] = p
		}
		i++
	}
	return dist(pts[0], pts[1])
}

func pinchMidpoint(touches map[int]geom.Point) geom.Point {
	var pts [2]geom.Point
	i := 0
	for _, p := range touches {
		if i < 2 {
			pts[i] = p
		}
		i++
	}
	return geom.Pt((pts[0].X+pts[1].X)/2, (pts[0].Y+pts[1].Y)/2)
}
