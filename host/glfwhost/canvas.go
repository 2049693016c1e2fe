// SPDX-License-Identifier: Unlicense OR MIT

// Package glfwhost is the demo binary's concrete host.Canvas,
// host.Decoder and host.Clipboard, adapted from gio's windowing
// path (app/os_x11.go and friends collapse into a single
// cross-platform GLFW window here since this engine only targets one
// desktop backend).
package glfwhost

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/pixelscope/viewer/gpu"
	"github.com/pixelscope/viewer/gpu/glbackend"
	"github.com/pixelscope/viewer/lodcache"
)

// Canvas is a host.Canvas backed by a GLFW window and an OpenGL 3.3
// core-profile context. It must be created and driven from the same OS
// thread (runtime.LockOSThread in the caller), matching GLFW's own
// threading requirement.
type Canvas struct {
	win   *glfw.Window
	class lodcache.DeviceClass
}

// New creates a GLFW window of the given logical size and title. The
// caller owns the window's event loop; Canvas only wraps size/context
// queries the engine needs.
func New(width, height int, title string, class lodcache.DeviceClass) (*Canvas, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwhost: init: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwhost: create window: %w", err)
	}
	return &Canvas{win: win, class: class}, nil
}

// Window exposes the underlying *glfw.Window so the demo binary can
// register input callbacks and drive the event loop directly.
func (c *Canvas) Window() *glfw.Window {
	return c.win
}

func (c *Canvas) Size() (int, int) {
	return c.win.GetSize()
}

func (c *Canvas) DevicePixelRatio() float64 {
	fbw, _ := c.win.GetFramebufferSize()
	w, _ := c.win.GetSize()
	if w == 0 {
		return 1
	}
	return float64(fbw) / float64(w)
}

func (c *Canvas) DeviceClass() lodcache.DeviceClass {
	return c.class
}

// NewContext makes the GLFW window's context current on the calling
// goroutine and wraps it in a glbackend.Backend. attrs is accepted for
// interface conformance; GLFW's context is configured entirely through
// window hints at creation time.
func (c *Canvas) NewContext(attrs gpu.Attributes) (gpu.Device, error) {
	c.win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glfwhost: init gl: %w", err)
	}
	return glbackend.New()
}

// Destroy tears down the window and terminates GLFW. Call after the
// engine has been destroyed.
func (c *Canvas) Destroy() {
	c.win.Destroy()
	glfw.Terminate()
}
