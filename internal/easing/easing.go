// SPDX-License-Identifier: Unlicense OR MIT

// Package easing holds the small interpolants the animation ticker
// drives transforms through, kept as a single-purpose package in the
// style of gio's f32 package.
package easing

// QuarticOut eases a progress fraction p in [0, 1] toward 1 with
// decelerating (ease-out) motion: p' = 1 - (1-p)^4.
func QuarticOut(p float64) float64 {
	inv := 1 - p
	return 1 - inv*inv*inv*inv
}

// Lerp linearly interpolates between a and b at fraction t.
func Lerp(a, b float32, t float64) float32 {
	return a + float32(float64(b-a)*t)
}
