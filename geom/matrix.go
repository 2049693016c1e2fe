// SPDX-License-Identifier: Unlicense OR MIT

package geom

// Matrix3 is a 3x3 matrix in row-major order, uploaded to the vertex
// shader as a mat3 uniform. Only the diagonal and translation terms are
// ever non-trivial for this engine: the quad is never rotated or
// sheared, so a fuller affine type is unnecessary.
type Matrix3 [9]float32

// Identity returns the 3x3 identity matrix.
func Identity() Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Projection builds the matrix described by the engine's data model: a
// diagonal scale (sx, sy) and a translation (tx, ty), applied to a unit
// quad centered at the origin.
func Projection(sx, sy, tx, ty float32) Matrix3 {
	return Matrix3{
		sx, 0, 0,
		0, sy, 0,
		tx, ty, 1,
	}
}
