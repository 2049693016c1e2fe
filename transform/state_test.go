// SPDX-License-Identifier: Unlicense OR MIT

package transform

import "testing"

func approxEqual(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-3
}

func TestScenario1InitialLoad(t *testing.T) {
	b := Bounds{ViewportW: 800, ViewportH: 600, ImageW: 8000, ImageH: 6000, MinRel: 0.1, MaxRel: 10, LimitToBounds: true}
	if f := b.FitScale(); !approxEqual(f, 0.1) {
		t.Fatalf("fit scale = %v, want 0.1", f)
	}
	s := b.Constrain(State{Scale: b.FitScale()})
	if !approxEqual(s.Scale, 0.1) || s.TX != 0 || s.TY != 0 {
		t.Fatalf("initial state = %+v", s)
	}
}

func TestZoomAtCenterInvariant(t *testing.T) {
	b := Bounds{ViewportW: 800, ViewportH: 600, ImageW: 8000, ImageH: 6000, MinRel: 0.1, MaxRel: 10, LimitToBounds: true}
	s := State{Scale: 0.1}
	s, ok := b.ZoomAt(s, 400, 300, 10)
	if !ok {
		t.Fatal("zoomAt should be in range")
	}
	if !approxEqual(s.Scale, 1.0) || !approxEqual(s.TX, 0) || !approxEqual(s.TY, 0) {
		t.Fatalf("scenario 2 mismatch: %+v", s)
	}
}

func TestZoomAtCornerAnchor(t *testing.T) {
	// MaxRel 10 would cap the absolute scale at max(F*10, 1) = 1, so the
	// range is widened to let s reach 2.
	b := Bounds{ViewportW: 800, ViewportH: 600, ImageW: 8000, ImageH: 6000, MinRel: 0.1, MaxRel: 100, LimitToBounds: true}
	s := State{Scale: 1.0}
	s, ok := b.ZoomAt(s, 0, 0, 2)
	if !ok {
		t.Fatal("zoomAt should be in range")
	}
	if !approxEqual(s.Scale, 2.0) || !approxEqual(s.TX, 400) || !approxEqual(s.TY, 300) {
		t.Fatalf("scenario 3 mismatch: %+v", s)
	}
}

func TestZoomAtOutOfRangeIsNoOp(t *testing.T) {
	b := Bounds{ViewportW: 800, ViewportH: 600, ImageW: 8000, ImageH: 6000, MinRel: 0.1, MaxRel: 10, LimitToBounds: true}
	s := State{Scale: 1.0, TX: 5, TY: -5}
	out, ok := b.ZoomAt(s, 0, 0, 100)
	if ok {
		t.Fatal("expected out-of-range zoom to be rejected")
	}
	if out != s {
		t.Fatalf("rejected zoom mutated state: %+v", out)
	}
}

func TestZoomAtFixity(t *testing.T) {
	b := Bounds{ViewportW: 800, ViewportH: 600, ImageW: 8000, ImageH: 6000, MinRel: 0.05, MaxRel: 20, LimitToBounds: true}
	s := State{Scale: 0.3, TX: 12, TY: -7}
	x, y := float32(210), float32(180)
	before := imagePointUnder(b, s, x, y)
	after, ok := b.ZoomAt(s, x, y, 1.7)
	if !ok {
		t.Fatal("expected in-range zoom")
	}
	afterPt := imagePointUnder(b, after, x, y)
	if !approxEqual(before.X, afterPt.X) || !approxEqual(before.Y, afterPt.Y) {
		t.Fatalf("zoom-about-point fixity violated: before=%v after=%v", before, afterPt)
	}
}

type point struct{ X, Y float32 }

func imagePointUnder(b Bounds, s State, x, y float32) point {
	return point{
		X: (x - b.ViewportW/2 - s.TX) / s.Scale,
		Y: (y - b.ViewportH/2 - s.TY) / s.Scale,
	}
}

func TestConstraintIdempotence(t *testing.T) {
	b := Bounds{ViewportW: 800, ViewportH: 600, ImageW: 8000, ImageH: 6000, MinRel: 0.1, MaxRel: 10, LimitToBounds: true}
	s := b.Constrain(State{Scale: 5, TX: 999, TY: 999})
	twice := b.Constrain(s)
	if twice != s {
		t.Fatalf("constraint not idempotent: %+v vs %+v", s, twice)
	}
}

func TestMaxScaleFloor(t *testing.T) {
	b := Bounds{ViewportW: 800, ViewportH: 600, ImageW: 80000, ImageH: 60000, MinRel: 0.1, MaxRel: 0.5}
	if b.MaxScale() != 1 {
		t.Fatalf("max scale should floor to 1, got %v", b.MaxScale())
	}
}

func TestLimitToBoundsWithinFitCentersImage(t *testing.T) {
	b := Bounds{ViewportW: 800, ViewportH: 600, ImageW: 8000, ImageH: 6000, MinRel: 0.01, MaxRel: 10, LimitToBounds: true}
	s := b.Constrain(State{Scale: b.FitScale() * 0.5, TX: 50, TY: 50})
	if s.TX != 0 || s.TY != 0 {
		t.Fatalf("expected centering below fit scale, got %+v", s)
	}
}
