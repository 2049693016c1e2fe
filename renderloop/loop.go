// SPDX-License-Identifier: Unlicense OR MIT

// Package renderloop drives the per-frame sequence: clear, upload the
// transform matrix, draw the front texture, track FPS and frame time.
// Stepping the animation is left to the caller. It is a plain method invoked once per host frame
// callback rather than owning its own goroutine.
package renderloop

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/pixelscope/viewer/geom"
	"github.com/pixelscope/viewer/gpu"
)

// Clock tracks FPS over a rolling one-second window and the most
// recent frame duration.
type Clock struct {
	windowStart time.Time
	framesInWin int
	fps         float64
	lastFrame   time.Time
	frameTime   time.Duration
}

// Tick records one frame at time now and returns the updated FPS and
// frame-time readings.
func (c *Clock) Tick(now time.Time) (fps float64, frameTime time.Duration) {
	if !c.lastFrame.IsZero() {
		c.frameTime = now.Sub(c.lastFrame)
	}
	c.lastFrame = now

	if c.windowStart.IsZero() {
		c.windowStart = now
	}
	c.framesInWin++
	if elapsed := now.Sub(c.windowStart); elapsed >= time.Second {
		c.fps = float64(c.framesInWin) / elapsed.Seconds()
		c.framesInWin = 0
		c.windowStart = now
	}
	return c.fps, c.frameTime
}

// Source supplies what a frame needs to draw: the current transform
// matrix and, if any, the texture to sample.
type Source interface {
	Matrix() geom.Matrix3
	FrontTexture() (gpu.Texture, bool)
}

// Loop owns the GPU resources a frame draws with: the compiled program
// and the two static geometry buffers, matching the "uploads
// static position and texture-coordinate buffers once".
type Loop struct {
	device   gpu.Device
	program  gpu.Program
	posBuf   gpu.Buffer
	texBuf   gpu.Buffer
	clock    Clock
	drawn    int64
}

// New compiles the textured-quad program and uploads the static
// geometry once.
func New(device gpu.Device) (*Loop, error) {
	program, err := device.NewProgram(gpu.VertexShaderSrc, gpu.FragmentShaderSrc)
	if err != nil {
		return nil, err
	}
	posBuf, err := device.NewImmutableBuffer(gpu.BufferPosition, f32SliceToBytes(gpu.QuadPositions))
	if err != nil {
		program.Release()
		return nil, err
	}
	texBuf, err := device.NewImmutableBuffer(gpu.BufferTexCoord, f32SliceToBytes(gpu.QuadTexCoords))
	if err != nil {
		posBuf.Release()
		program.Release()
		return nil, err
	}
	return &Loop{device: device, program: program, posBuf: posBuf, texBuf: texBuf}, nil
}

// Frame runs one tick of the render loop: clear, upload the matrix, and
// draw the front texture if one is installed. It reports the frame's
// FPS and frame-time reading for the debug snapshot.
func (l *Loop) Frame(now time.Time, viewportW, viewportH int, src Source) (fps float64, frameTime time.Duration) {
	fps, frameTime = l.clock.Tick(now)

	l.device.Viewport(0, 0, viewportW, viewportH)
	l.device.Clear(0, 0, 0, 0)

	tex, ok := src.FrontTexture()
	if !ok {
		return fps, frameTime
	}

	l.device.UseProgram(l.program)
	m := src.Matrix()
	l.program.SetMatrix3("transform", [9]float32(m))
	l.device.BindVertexBuffer(l.posBuf, 0, 2, 0, 0)
	l.device.BindVertexBuffer(l.texBuf, 1, 2, 0, 0)
	l.device.BindTexture(0, tex)
	l.device.DrawArrays(0, 6)
	l.drawn++
	return fps, frameTime
}

// RenderCount is the total number of draw calls issued, for the debug
// snapshot's renderCount field.
func (l *Loop) RenderCount() int64 {
	return l.drawn
}

// Release tears down the loop's GPU resources: the program and the two
// static buffers, per the teardown discipline.
func (l *Loop) Release() {
	l.posBuf.Release()
	l.texBuf.Release()
	l.program.Release()
}

func f32SliceToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
