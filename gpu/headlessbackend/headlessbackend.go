// SPDX-License-Identifier: Unlicense OR MIT

// Package headlessbackend implements gpu.Device entirely in host memory,
// adapted from gio's gpu/headless package: a Device that exists so
// higher layers (texture factory, LOD cache, render loop) can be
// exercised in tests without a real GPU or window.
package headlessbackend

import (
	"github.com/pixelscope/viewer/gpu"
)

// Backend is an in-memory gpu.Device. It records every call so tests can
// assert on draw counts, bound textures and uploaded pixels without a
// display.
type Backend struct {
	MaxTextureSize int

	DrawCount    int
	ClearCount   int
	BoundTexture *Texture
	BoundProgram *Program

	released bool
}

// New returns a Backend with a generous default texture-size cap,
// matching a mid-range desktop GPU.
func New() *Backend {
	return &Backend{MaxTextureSize: 8192}
}

func (b *Backend) Caps() gpu.Caps {
	return gpu.Caps{MaxTextureSize: b.MaxTextureSize}
}

func (b *Backend) NewTexture(width, height int, minFilter, magFilter gpu.TextureFilter) (gpu.Texture, error) {
	return &Texture{W: width, H: height, MinFilter: minFilter, MagFilter: magFilter}, nil
}

func (b *Backend) NewProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	return &Program{Uniforms: map[string][9]float32{}}, nil
}

func (b *Backend) NewImmutableBuffer(kind gpu.BufferKind, data []byte) (gpu.Buffer, error) {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &Buffer{Kind: kind, Data: cp}, nil
}

func (b *Backend) UseProgram(p gpu.Program) {
	b.BoundProgram = p.(*Program)
}

func (b *Backend) BindTexture(unit int, t gpu.Texture) {
	tex := t.(*Texture)
	b.BoundTexture = tex
}

func (b *Backend) BindVertexBuffer(buf gpu.Buffer, location, components, stride, offset int) {}

func (b *Backend) Clear(r, g, bl, a float32) {
	b.ClearCount++
}

func (b *Backend) Viewport(x, y, width, height int) {}

func (b *Backend) DrawArrays(first, count int) {
	b.DrawCount++
}

func (b *Backend) Release() {
	b.released = true
}

// Texture is the headless gpu.Texture: its pixels live in Pix.
type Texture struct {
	W, H                 int
	MinFilter, MagFilter gpu.TextureFilter
	Pix                  []byte
	Released             bool
}

func (t *Texture) Upload(pix []byte, stride int) {
	t.Pix = append([]byte(nil), pix...)
}

func (t *Texture) Size() (int, int) { return t.W, t.H }

func (t *Texture) Release() { t.Released = true }

// Program is the headless gpu.Program.
type Program struct {
	Uniforms map[string][9]float32
	Released bool
}

func (p *Program) SetMatrix3(name string, m [9]float32) {
	p.Uniforms[name] = m
}

func (p *Program) Release() { p.Released = true }

// Buffer is the headless gpu.Buffer.
type Buffer struct {
	Kind     gpu.BufferKind
	Data     []byte
	Released bool
}

func (b *Buffer) Release() { b.Released = true }
