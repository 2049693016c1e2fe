// SPDX-License-Identifier: Unlicense OR MIT

// Package geom provides the float32 point, size and rectangle types used
// throughout the viewer engine, plus the small affine matrix the render
// loop uploads to the vertex shader.
//
// The coordinate space has the origin in the top left corner with the
// axes extending right and down, matching CSS pixel conventions.
package geom

// Point is a two dimensional point in CSS units.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns p+p2.
func (p Point) Add(p2 Point) Point {
	return Point{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// Sub returns the vector p-p2.
func (p Point) Sub(p2 Point) Point {
	return Point{X: p.X - p2.X, Y: p.Y - p2.Y}
}

// Mul returns p scaled by s.
func (p Point) Mul(s float32) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Size is a width/height pair in CSS units.
type Size struct {
	W, H float32
}

// Rectangle contains the points (X, Y) where Min.X <= X < Max.X and
// Min.Y <= Y < Max.Y.
type Rectangle struct {
	Min, Max Point
}

// Dx returns r's width.
func (r Rectangle) Dx() float32 { return r.Max.X - r.Min.X }

// Dy returns r's height.
func (r Rectangle) Dy() float32 { return r.Max.Y - r.Min.Y }
