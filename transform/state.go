// SPDX-License-Identifier: Unlicense OR MIT

// Package transform holds the pan/zoom transform the engine applies to
// the image, its bounds, and the eased animation that moves it toward a
// target. It has no dependency on the GPU or on input handling: the
// gesture decoder and the public control surface are the only writers.
package transform

// State is the triple (Scale, TX, TY) : Scale is
// image-pixel scale (1.0 = one image pixel per CSS pixel); TX/TY
// translate the image center relative to the viewport center, in CSS
// units.
type State struct {
	Scale float32
	TX    float32
	TY    float32
}

// Bounds captures everything the constraint rule and zoom-about-point
// formula need about the viewport, the image and the configured scale
// range.
type Bounds struct {
	ViewportW, ViewportH float32
	ImageW, ImageH       float32
	MinRel, MaxRel       float32
	LimitToBounds        bool
}

// FitScale returns F = min(Vw/W, Vh/H), the scale at which the image
// exactly fits inside the viewport along its tighter axis.
func (b Bounds) FitScale() float32 {
	sx := b.ViewportW / b.ImageW
	sy := b.ViewportH / b.ImageH
	if sx < sy {
		return sx
	}
	return sy
}

// MinScale and MaxScale express the "Fit-scale" rule: all
// bounds are relative to F, and the maximum is floored at 1 so the user
// can always reach 1:1 pixel parity regardless of configured MaxRel.
func (b Bounds) MinScale() float32 {
	return b.FitScale() * b.MinRel
}

func (b Bounds) MaxScale() float32 {
	m := b.FitScale() * b.MaxRel
	if m < 1 {
		return 1
	}
	return m
}

// RelativeScale returns s/F, the "r" used throughout the LOD policy.
func (b Bounds) RelativeScale(s float32) float32 {
	return s / b.FitScale()
}

// Constrain applies the constraint rule in place: clamp Scale
// to [F*MinRel, max(F*MaxRel, 1)], then — if LimitToBounds — either
// force TX=TY=0 (when not zoomed past fit) or clamp |TX|,|TY| so the
// image always covers the viewport once zoomed in.
func (b Bounds) Constrain(t State) State {
	min, max := b.MinScale(), b.MaxScale()
	switch {
	case t.Scale < min:
		t.Scale = min
	case t.Scale > max:
		t.Scale = max
	}
	if !b.LimitToBounds {
		return t
	}
	fit := b.FitScale()
	if t.Scale <= fit {
		t.TX, t.TY = 0, 0
		return t
	}
	maxTX := maxAbs(0, (t.Scale*b.ImageW-b.ViewportW)/2)
	maxTY := maxAbs(0, (t.Scale*b.ImageH-b.ViewportH)/2)
	t.TX = clamp(t.TX, -maxTX, maxTX)
	t.TY = clamp(t.TY, -maxTY, maxTY)
	return t
}

// ZoomAt implements the zoom-about-a-point rule: it keeps the
// image point under (x, y) stationary while scaling by k, then applies
// Constrain. ok is false (and t is returned unchanged) when s*k falls
// outside the bounds.
func (b Bounds) ZoomAt(t State, x, y, k float32) (out State, ok bool) {
	newScale := t.Scale * k
	if newScale < b.MinScale() || newScale > b.MaxScale() {
		return t, false
	}
	zx := (x - b.ViewportW/2 - t.TX) / t.Scale
	zy := (y - b.ViewportH/2 - t.TY) / t.Scale
	t.Scale = newScale
	t.TX = x - b.ViewportW/2 - zx*t.Scale
	t.TY = y - b.ViewportH/2 - zy*t.Scale
	return b.Constrain(t), true
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxAbs(a, b float32) float32 {
	if b > a {
		return b
	}
	return a
}
