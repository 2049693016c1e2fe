// SPDX-License-Identifier: Unlicense OR MIT

// Package texture turns a decoded source image into a GPU texture at a
// requested level of detail, building it along one of three paths: an
// off-surface path scheduled onto a worker pool, an idle-time
// fallback, and a direct path for an exact-size request.
package texture

import (
	"image"

	"github.com/pixelscope/viewer/gpu"
)

// Source is the decoded image handle : opaque pixel
// data plus intrinsic dimensions and the originating URL, retained for
// clipboard export.
type Source struct {
	Pix  *image.RGBA
	URL  string
	W, H int
}

// Entry is a cached LOD texture and its bookkeeping.
type Entry struct {
	Texture  gpu.Texture
	W, H     int
	Bytes    int64
	LastUsed int64 // unix nanos, stamped when built and again when swapped in
}
