// SPDX-License-Identifier: Unlicense OR MIT

package texture

import (
	"context"
	"image"

	"golang.org/x/image/draw"
)

// DrawRenderer implements OffSurfaceRenderer with golang.org/x/image/draw,
// the same image-scaling dependency gio itself requires for non-GPU
// resampling. High quality (phi >= 1, the full-resolution level) uses
// Catmull-Rom; coarser levels use the cheaper approximate bilinear
// scaler.
type DrawRenderer struct{}

func (DrawRenderer) Rescale(ctx context.Context, src *image.RGBA, w, h int, quality Smoothing) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scaler := draw.ApproxBiLinear
	if quality == SmoothingHigh {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst, nil
}
