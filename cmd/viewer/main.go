// SPDX-License-Identifier: Unlicense OR MIT

// Command viewer is a desktop demo host: it opens a GLFW window, loads
// an image and drives viewer.Engine from GLFW's input callbacks and
// event loop.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"

	"github.com/pixelscope/viewer/config"
	"github.com/pixelscope/viewer/host/glfwhost"
	"github.com/pixelscope/viewer/internal/memsample"
	"github.com/pixelscope/viewer/lodcache"
	"github.com/pixelscope/viewer/policy"
	"github.com/pixelscope/viewer/texture"
	"github.com/pixelscope/viewer/viewer"
)

func init() {
	// GLFW and the GL context it creates must be driven from a single,
	// fixed OS thread.
	runtime.LockOSThread()
}

var (
	cfgFile string
	image   string
	width   int
	height  int
	debug   bool
	mobile  bool
)

var rootCmd = &cobra.Command{
	Use:   "viewer",
	Short: "GPU-accelerated LOD image viewer",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window and display an image",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runViewer()
	},
}

func init() {
	runCmd.Flags().StringVar(&cfgFile, "config", "", "path to a viewer config YAML file")
	runCmd.Flags().StringVar(&image, "image", "", "path or URL of the image to display")
	runCmd.Flags().IntVar(&width, "width", 1024, "window width in logical pixels")
	runCmd.Flags().IntVar(&height, "height", 768, "window height in logical pixels")
	runCmd.Flags().BoolVar(&debug, "debug", false, "log per-frame debug snapshots")
	runCmd.Flags().BoolVar(&mobile, "mobile", false, "classify the device as a mobile host for memory budgeting")
	runCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runViewer() error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg.Debug = cfg.Debug || debug

	table := policy.Table(cfg.LODTable)
	if len(table) == 0 {
		table = policy.Table{
			{Downscale: 0.125, MaxRelScale: 0.25},
			{Downscale: 0.25, MaxRelScale: 0.5},
			{Downscale: 0.5, MaxRelScale: 1},
			{Downscale: 1.0, MaxRelScale: 1000},
		}
	}

	class := lodcache.Desktop
	if mobile {
		class = lodcache.MobileHighDPR
	}

	canvas, err := glfwhost.New(width, height, "viewer", class)
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	defer canvas.Destroy()

	engine, err := viewer.New(viewer.Options{
		Canvas:    canvas,
		Decoder:   glfwhost.FileDecoder{},
		Clipboard: &glfwhost.Clipboard{},
		Config:    cfg,
		LODTable:  table,
		Renderer:  texture.DrawRenderer{},
		Idle:      texture.TickerIdleScheduler{},
		Workers:   int64(runtime.GOMAXPROCS(0)),
		Sampler:   memsample.New(),
		Log:       log,
	})
	if err != nil {
		return fmt.Errorf("construct engine: %w", err)
	}
	defer engine.Destroy()

	if err := engine.Load(context.Background(), image); err != nil {
		return fmt.Errorf("load %q: %w", image, err)
	}

	wireInput(canvas, engine)

	if cfg.Debug {
		engine.OnDebugUpdate(func(s viewer.DebugSnapshot) {
			log.Info("frame", "fps", s.FPS, "lod", s.CurrentLOD, "scale", s.Scale, "pressure", s.MemoryInfo.Pressure)
		})
	}

	win := canvas.Window()
	for !win.ShouldClose() {
		glfw.PollEvents()
		engine.Tick(time.Now())
		win.SwapBuffers()
	}
	return nil
}

// wireInput registers GLFW input callbacks that translate native events
// into Engine gesture calls. Desktop GLFW has no touch surface, so only
// the pointer/wheel/click paths are wired.
func wireInput(canvas *glfwhost.Canvas, engine *viewer.Engine) {
	win := canvas.Window()
	dragging := false

	win.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		x, y := w.GetCursorPos()
		switch action {
		case glfw.Press:
			dragging = true
			engine.OnPointerDown(float32(x), float32(y))
			engine.OnMouseClick(time.Now(), float32(x), float32(y))
		case glfw.Release:
			dragging = false
			engine.OnPointerUp()
		}
	})

	win.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		if dragging {
			engine.OnPointerMove(float32(x), float32(y))
		}
	})

	win.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		x, y := w.GetCursorPos()
		engine.OnWheel(float32(x), float32(y), float32(-yoff))
	})
}
