// SPDX-License-Identifier: Unlicense OR MIT

// Package glbackend implements gpu.Device on top of a current OpenGL 3.3
// core-profile context, adapted from gio's gpu/gl.Backend: the same
// texture-parameter and shader-compile sequence, rehosted on
// github.com/go-gl/gl instead of gio's internal cgo-free GL function
// table, since this engine targets one desktop backend rather than
// OpenGL ES, ANGLE and WebGL alike.
package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/pixelscope/viewer/gpu"
)

// Backend is a gpu.Device backed by a live OpenGL context. The caller is
// responsible for making the context current on the calling goroutine
// before invoking any method and for calling gl.Init once per context.
type Backend struct {
	maxTextureSize int
}

// New queries device limits and returns a ready Backend. The OpenGL
// context identified by the host must already be current.
func New() (*Backend, error) {
	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	if err := glErr("init"); err != nil {
		return nil, err
	}
	return &Backend{maxTextureSize: int(maxSize)}, nil
}

func (b *Backend) Caps() gpu.Caps {
	return gpu.Caps{MaxTextureSize: b.maxTextureSize}
}

func (b *Backend) NewTexture(width, height int, minFilter, magFilter gpu.TextureFilter) (gpu.Texture, error) {
	var obj uint32
	gl.GenTextures(1, &obj)
	gl.BindTexture(gl.TEXTURE_2D, obj)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, toGLFilter(minFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, toGLFilter(magFilter))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	if err := glErr("new texture"); err != nil {
		gl.DeleteTextures(1, &obj)
		return nil, err
	}
	return &texture{obj: obj, w: width, h: height}, nil
}

func (b *Backend) NewProgram(vertexSrc, fragmentSrc string) (gpu.Program, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, vertexSrc)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)
	fs, err := compileShader(gl.FRAGMENT_SHADER, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	obj := gl.CreateProgram()
	gl.AttachShader(obj, vs)
	gl.AttachShader(obj, fs)
	gl.LinkProgram(obj)
	var status int32
	gl.GetProgramiv(obj, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(obj, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(obj, logLen, nil, gl.Str(log))
		gl.DeleteProgram(obj)
		return nil, fmt.Errorf("link program: %s", log)
	}
	return &program{obj: obj, uniforms: map[string]int32{}}, nil
}

func (b *Backend) NewImmutableBuffer(kind gpu.BufferKind, data []byte) (gpu.Buffer, error) {
	var obj uint32
	gl.GenBuffers(1, &obj)
	gl.BindBuffer(gl.ARRAY_BUFFER, obj)
	gl.BufferData(gl.ARRAY_BUFFER, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	if err := glErr("new buffer"); err != nil {
		gl.DeleteBuffers(1, &obj)
		return nil, err
	}
	return &buffer{obj: obj}, nil
}

func (b *Backend) UseProgram(p gpu.Program) {
	gl.UseProgram(p.(*program).obj)
}

func (b *Backend) BindTexture(unit int, t gpu.Texture) {
	gl.ActiveTexture(uint32(gl.TEXTURE0 + unit))
	gl.BindTexture(gl.TEXTURE_2D, t.(*texture).obj)
}

func (b *Backend) BindVertexBuffer(buf gpu.Buffer, location, components, stride, offset int) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.(*buffer).obj)
	gl.VertexAttribPointer(uint32(location), int32(components), gl.FLOAT, false, int32(stride), gl.PtrOffset(offset))
	gl.EnableVertexAttribArray(uint32(location))
}

func (b *Backend) Clear(r, g, bl, a float32) {
	gl.ClearColor(r, g, bl, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (b *Backend) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (b *Backend) DrawArrays(first, count int) {
	gl.DrawArrays(gl.TRIANGLES, int32(first), int32(count))
}

func (b *Backend) Release() {}

type texture struct {
	obj  uint32
	w, h int
}

func (t *texture) Upload(pix []byte, stride int) {
	gl.BindTexture(gl.TEXTURE_2D, t.obj)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(stride/4))
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(t.w), int32(t.h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

func (t *texture) Size() (int, int) { return t.w, t.h }

func (t *texture) Release() {
	gl.DeleteTextures(1, &t.obj)
}

type program struct {
	obj      uint32
	uniforms map[string]int32
}

func (p *program) SetMatrix3(name string, m [9]float32) {
	loc, ok := p.uniforms[name]
	if !ok {
		loc = gl.GetUniformLocation(p.obj, gl.Str(name+"\x00"))
		p.uniforms[name] = loc
	}
	gl.UniformMatrix3fv(loc, 1, false, &m[0])
}

func (p *program) Release() {
	gl.DeleteProgram(p.obj)
}

type buffer struct {
	obj uint32
}

func (b *buffer) Release() {
	gl.DeleteBuffers(1, &b.obj)
}

func compileShader(kind uint32, src string) (uint32, error) {
	shader := gl.CreateShader(kind)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", log)
	}
	return shader, nil
}

func toGLFilter(f gpu.TextureFilter) int32 {
	if f == gpu.FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func glErr(op string) error {
	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("gl error during %s: 0x%x", op, e)
	}
	return nil
}
