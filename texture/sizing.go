// SPDX-License-Identifier: Unlicense OR MIT

package texture

import "math"

// TargetSize computes (Wl, Hl): round(W*phi), round(H*phi), then clamp
// to maxDim (the device's max texture size, already capped for the
// current memory pressure) and to a per-texture byte budget (30% of
// the texture-memory budget). The maxDim bound is linear — the long
// side is scaled directly to maxDim — while the byte bound is an area
// bound and so is scaled by sqrt(ratio); both preserve aspect ratio.
func TargetSize(w, h int, phi float64, maxDim int, perTextureByteCap int64) (tw, th int) {
	tw = int(math.Round(float64(w) * phi))
	th = int(math.Round(float64(h) * phi))
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	if maxDim > 0 {
		if longSide := max(tw, th); longSide > maxDim {
			factor := float64(maxDim) / float64(longSide)
			tw, th = scaleLinear(tw, th, factor)
		}
	}

	if perTextureByteCap > 0 {
		bytes := int64(tw) * int64(th) * 4
		if bytes > perTextureByteCap {
			ratio := float64(perTextureByteCap) / float64(bytes)
			tw, th = scaleBySqrt(tw, th, ratio)
		}
	}
	return tw, th
}

// scaleLinear scales (w, h) down by factor, preserving aspect. Used
// for the maxDim bound, where the cap applies directly to a linear
// dimension rather than to an area.
func scaleLinear(w, h int, factor float64) (int, int) {
	nw := int(math.Round(float64(w) * factor))
	nh := int(math.Round(float64(h) * factor))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// scaleBySqrt scales (w, h) down by sqrt(ratio), preserving aspect.
// Used for the byte-budget bound, where the cap applies to area
// (w*h*4 bytes) rather than to a linear dimension. Both sides are
// rounded down so the result stays within the cap.
func scaleBySqrt(w, h int, ratio float64) (int, int) {
	factor := math.Sqrt(ratio)
	nw := int(math.Floor(float64(w) * factor))
	nh := int(math.Floor(float64(h) * factor))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// ByteFootprint is the RGBA8 footprint of a Wl x Hl texture.
func ByteFootprint(w, h int) int64 {
	return 4 * int64(w) * int64(h)
}
