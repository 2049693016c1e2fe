// SPDX-License-Identifier: Unlicense OR MIT

// Package gpu defines the narrow GPU abstraction the viewer engine is
// built on: a textured-quad program, a handful of GPU-resident buffers,
// and one texture at a time. It plays the role of gio's
// driver.Device, trimmed to what an image viewer needs — no compute
// shaders, no multi-target framebuffers, no path rasterization.
package gpu

import "image"

// Attributes mirrors the context attributes a browser's
// canvas.getContext("webgl2", ...) call would take: alpha channel
// enabled, no premultiplied alpha, no antialiasing, a high-performance
// power preference, and a drawing buffer that is not
// preserved between frames (the engine always clears and redraws).
type Attributes struct {
	Alpha                 bool
	PremultipliedAlpha    bool
	Antialias             bool
	PowerPreferenceHigh   bool
	PreserveDrawingBuffer bool
}

// DefaultAttributes are the context attributes required.
var DefaultAttributes = Attributes{
	Alpha:                 true,
	PremultipliedAlpha:    false,
	Antialias:             false,
	PowerPreferenceHigh:   true,
	PreserveDrawingBuffer: false,
}

// Device is a hardware-accelerated 2D rasterization context capable of
// compiling the textured-quad program, uploading geometry and LOD
// textures, and issuing one draw call per frame.
type Device interface {
	// Caps reports device limits relevant to LOD sizing.
	Caps() Caps

	NewTexture(width, height int, minFilter, magFilter TextureFilter) (Texture, error)
	NewProgram(vertexSrc, fragmentSrc string) (Program, error)
	NewImmutableBuffer(kind BufferKind, data []byte) (Buffer, error)

	UseProgram(p Program)
	BindTexture(unit int, t Texture)
	// BindVertexBuffer binds b as the source for the vertex attribute at
	// location, per the shader's layout(location = N) declarations in
	// shaders.go.
	BindVertexBuffer(b Buffer, location, components, stride, offset int)

	Clear(r, g, b, a float32)
	Viewport(x, y, width, height int)
	DrawArrays(first, count int)

	// Release frees what the device itself holds. Programs, buffers and
	// textures created through it are released individually by their
	// owners.
	Release()
}

// Caps reports capabilities relevant to the LOD cache and texture
// factory: the hardware's maximum texture dimension.
type Caps struct {
	MaxTextureSize int
}

// Texture is a single GPU-resident RGBA8 texture.
type Texture interface {
	// Upload replaces the texture's full contents. pix is tightly
	// packed RGBA8 data, stride bytes per row.
	Upload(pix []byte, stride int)
	Size() (w, h int)
	Release()
}

// Program is a compiled, linked shader program.
type Program interface {
	// SetMatrix3 uploads the named uniform as a 3x3 matrix in
	// row-major order.
	SetMatrix3(name string, m [9]float32)
	Release()
}

// Buffer is a GPU-resident vertex buffer.
type Buffer interface {
	Release()
}

type TextureFilter uint8

const (
	FilterNearest TextureFilter = iota
	FilterLinear
)

type BufferKind uint8

const (
	BufferPosition BufferKind = iota
	BufferTexCoord
)

// UploadImage is a convenience identical in spirit to gio's
// driver.UploadImage: it slices the tightly packed pixels out of an
// *image.RGBA and hands them to the texture, cropping to size if the
// source is larger than the target (used by the direct-upload path when
// rounding leaves the decoded image a pixel or two larger than (Wl,
// Hl)).
func UploadImage(t Texture, img *image.RGBA) {
	size := img.Bounds().Size()
	start := img.PixOffset(0, 0)
	end := img.PixOffset(size.X, size.Y-1) + size.X*4
	t.Upload(img.Pix[start:end], img.Stride)
}
