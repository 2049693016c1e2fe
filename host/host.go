// SPDX-License-Identifier: Unlicense OR MIT

// Package host declares the external collaborators the engine treats
// as opaque: the drawable surface, the image decoder, and the
// clipboard. The engine only ever calls through these interfaces;
// host/glfwhost supplies a concrete desktop implementation.
package host

import (
	"context"

	"github.com/pixelscope/viewer/gpu"
	"github.com/pixelscope/viewer/lodcache"
	"github.com/pixelscope/viewer/texture"
)

// Canvas is the drawable surface the engine renders into. It is
// expected to outlive the engine built on top of it.
type Canvas interface {
	// Size reports the canvas's logical (CSS-unit) size.
	Size() (w, h int)
	// DevicePixelRatio reports the canvas's configured device pixel
	// ratio, before any pressure-based capping.
	DevicePixelRatio() float64
	// DeviceClass classifies the host for the memory-budget table.
	// Go has no portable way to detect this, so the host supplies it
	// directly.
	DeviceClass() lodcache.DeviceClass
	// NewContext acquires a hardware-accelerated gpu.Device with the
	// given context attributes, returning an error if none can be
	// created.
	NewContext(gpu.Attributes) (gpu.Device, error)
}

// Decoder turns a URL into a decoded image.
type Decoder interface {
	Decode(ctx context.Context, url string) (texture.Source, error)
}

// Clipboard is a write-only façade over the host clipboard. WriteImage
// reports a failed write, including missing image-clipboard support, as
// an error; an Engine built with no Clipboard logs a warning instead.
type Clipboard interface {
	WriteImage(mime string, data []byte) error
}
