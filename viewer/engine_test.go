// SPDX-License-Identifier: Unlicense OR MIT

package viewer

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/pixelscope/viewer/config"
	"github.com/pixelscope/viewer/gpu"
	"github.com/pixelscope/viewer/gpu/headlessbackend"
	"github.com/pixelscope/viewer/lodcache"
	"github.com/pixelscope/viewer/policy"
	"github.com/pixelscope/viewer/texture"
)

var errDecode = errors.New("decode failed")

type fakeCanvas struct {
	w, h    int
	dpr     float64
	class   lodcache.DeviceClass
	backend *headlessbackend.Backend
}

func (c *fakeCanvas) Size() (int, int)              { return c.w, c.h }
func (c *fakeCanvas) DevicePixelRatio() float64      { return c.dpr }
func (c *fakeCanvas) DeviceClass() lodcache.DeviceClass { return c.class }
func (c *fakeCanvas) NewContext(gpu.Attributes) (gpu.Device, error) {
	c.backend = headlessbackend.New()
	return c.backend, nil
}

type fakeDecoder struct {
	src texture.Source
	err error
}

func (d *fakeDecoder) Decode(ctx context.Context, url string) (texture.Source, error) {
	return d.src, d.err
}

type fakeClipboard struct {
	mime string
	data []byte
	err  error
}

func (c *fakeClipboard) WriteImage(mime string, data []byte) error {
	c.mime, c.data = mime, data
	return c.err
}

func testTable() policy.Table {
	return policy.Table{
		{Downscale: 0.25, MaxRelScale: 1},
		{Downscale: 1.0, MaxRelScale: 1000},
	}
}

func testSource(w, h int) texture.Source {
	return texture.Source{Pix: image.NewRGBA(image.Rect(0, 0, w, h)), W: w, H: h, URL: "test://image"}
}

func newTestEngine(t *testing.T, canvasW, canvasH, imgW, imgH int) (*Engine, *fakeCanvas, *fakeClipboard) {
	t.Helper()
	canvas := &fakeCanvas{w: canvasW, h: canvasH, dpr: 1, class: lodcache.Desktop}
	decoder := &fakeDecoder{src: testSource(imgW, imgH)}
	clip := &fakeClipboard{}
	e, err := New(Options{
		Canvas:    canvas,
		Decoder:   decoder,
		Clipboard: clip,
		Config:    config.Default(),
		LODTable:  testTable(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Load(context.Background(), "test://image"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e, canvas, clip
}

func TestLoadInstallsBootstrapFrontTexture(t *testing.T) {
	e, _, _ := newTestEngine(t, 800, 600, 1600, 1200)
	if _, ok := e.FrontTexture(); !ok {
		t.Fatal("expected a front texture after Load")
	}
	abs, rel := e.GetScale()
	if abs <= 0 || rel <= 0 {
		t.Fatalf("GetScale = (%v, %v), want positive", abs, rel)
	}
}

func TestZoomInThenOutReturnsNearOriginalScale(t *testing.T) {
	e, _, _ := newTestEngine(t, 800, 600, 1600, 1200)
	start, _ := e.GetScale()
	e.ZoomIn(false)
	mid, _ := e.GetScale()
	if mid <= start {
		t.Fatalf("ZoomIn did not increase scale: %v -> %v", start, mid)
	}
	e.ZoomOut(false)
	end, _ := e.GetScale()
	if diff := end - start; diff > 1e-4 || diff < -1e-4 {
		t.Fatalf("ZoomIn/ZoomOut round trip drifted: start=%v end=%v", start, end)
	}
}

func TestResetViewReturnsToFitScale(t *testing.T) {
	e, _, _ := newTestEngine(t, 800, 600, 1600, 1200)
	e.cfg.Smooth = false
	e.ZoomIn(false)
	e.ZoomIn(false)
	e.ResetView()
	abs, rel := e.GetScale()
	want := e.bounds.FitScale() * float32(e.cfg.InitialScale)
	if abs != float64(want) {
		t.Fatalf("ResetView scale = %v, want %v", abs, want)
	}
	if rel != 1 {
		t.Fatalf("ResetView relative scale = %v, want 1", rel)
	}
	if e.state.TX != 0 || e.state.TY != 0 {
		t.Fatalf("ResetView translation = (%v, %v), want (0, 0)", e.state.TX, e.state.TY)
	}
}

func TestResetViewIsIdempotent(t *testing.T) {
	e, _, _ := newTestEngine(t, 800, 600, 1600, 1200)
	e.cfg.Smooth = false
	e.ResetView()
	first := e.state
	e.ResetView()
	second := e.state
	if first != second {
		t.Fatalf("ResetView not idempotent: %+v != %+v", first, second)
	}
}

func TestZoomAtPointKeepsImagePointFixed(t *testing.T) {
	e, _, _ := newTestEngine(t, 800, 600, 1600, 1200)
	x, y := float32(500), float32(300)
	before := e.state
	zx := (x - e.bounds.ViewportW/2 - before.TX) / before.Scale
	zy := (y - e.bounds.ViewportH/2 - before.TY) / before.Scale

	e.zoomAtUnanimated(x, y, 1.5)

	after := e.state
	azx := (x - e.bounds.ViewportW/2 - after.TX) / after.Scale
	azy := (y - e.bounds.ViewportH/2 - after.TY) / after.Scale
	if diff := zx - azx; diff > 1e-3 || diff < -1e-3 {
		t.Fatalf("zoomed-at image x drifted: %v -> %v", zx, azx)
	}
	if diff := zy - azy; diff > 1e-3 || diff < -1e-3 {
		t.Fatalf("zoomed-at image y drifted: %v -> %v", zy, azy)
	}
}

func TestOnPointerDragPansWithinBounds(t *testing.T) {
	e, _, _ := newTestEngine(t, 800, 600, 1600, 1200)
	e.ZoomIn(false)
	e.OnPointerDown(100, 100)
	e.OnPointerMove(150, 120)
	if e.state.TX == 0 && e.state.TY == 0 {
		t.Fatal("expected pan to move the transform")
	}
}

func TestPanningDisabledIgnoresDrag(t *testing.T) {
	e, _, _ := newTestEngine(t, 800, 600, 1600, 1200)
	e.cfg.PanningDisabled = true
	e.ZoomIn(false)
	before := e.state
	e.OnPointerDown(100, 100)
	e.OnPointerMove(150, 120)
	if e.state != before {
		t.Fatalf("expected no movement with panning disabled, got %+v -> %+v", before, e.state)
	}
}

func TestDoubleActivationToggleIsInvolution(t *testing.T) {
	e, _, _ := newTestEngine(t, 800, 600, 1600, 1200)
	e.cfg.Smooth = false
	start := e.state

	e.activate(400, 300)
	afterFirst := e.state
	if afterFirst == start {
		t.Fatal("expected first activation to change scale")
	}

	e.activate(400, 300)
	afterSecond := e.state
	if diff := afterSecond.Scale - start.Scale; diff > 1e-3 || diff < -1e-3 {
		t.Fatalf("double-activation toggle not involutive: start=%v after-two=%v", start.Scale, afterSecond.Scale)
	}
}

func TestMouseDoubleClickWithinWindowActivates(t *testing.T) {
	e, _, _ := newTestEngine(t, 800, 600, 1600, 1200)
	e.cfg.Smooth = false
	start := e.state.Scale

	now := time.Unix(0, 0)
	e.OnMouseClick(now, 400, 300)
	e.OnMouseClick(now.Add(100*time.Millisecond), 400, 300)

	if e.state.Scale == start {
		t.Fatal("expected double-click within debounce window to activate")
	}
}

func TestDoubleClickDisabledIgnoresActivation(t *testing.T) {
	e, _, _ := newTestEngine(t, 800, 600, 1600, 1200)
	e.cfg.DoubleClickDisabled = true
	start := e.state.Scale
	now := time.Unix(0, 0)
	e.OnMouseClick(now, 400, 300)
	e.OnMouseClick(now.Add(100*time.Millisecond), 400, 300)
	if e.state.Scale != start {
		t.Fatal("expected disabled double-click to leave scale unchanged")
	}
}

func TestTickDrivesRenderLoopAndReportsDebug(t *testing.T) {
	e, _, _ := newTestEngine(t, 800, 600, 1600, 1200)
	e.cfg.Debug = true
	var snap DebugSnapshot
	got := false
	e.OnDebugUpdate(func(s DebugSnapshot) { snap = s; got = true })

	e.Tick(time.Unix(0, 0))

	if !got {
		t.Fatal("expected a debug snapshot after Tick with Debug enabled")
	}
	if snap.CanvasW != 800 || snap.CanvasH != 600 {
		t.Fatalf("snapshot canvas size = (%d, %d), want (800, 600)", snap.CanvasW, snap.CanvasH)
	}
	if e.loop.RenderCount() != 1 {
		t.Fatalf("RenderCount = %d, want 1", e.loop.RenderCount())
	}
}

func TestCopyOriginalToClipboardWritesPNG(t *testing.T) {
	e, _, clip := newTestEngine(t, 800, 600, 16, 12)
	if err := e.CopyOriginalToClipboard(); err != nil {
		t.Fatalf("CopyOriginalToClipboard: %v", err)
	}
	if clip.mime != "image/png" {
		t.Fatalf("mime = %q, want image/png", clip.mime)
	}
	if len(clip.data) == 0 {
		t.Fatal("expected non-empty PNG payload")
	}
}

func TestCopyWithoutClipboardIsNonFatal(t *testing.T) {
	canvas := &fakeCanvas{w: 800, h: 600, dpr: 1, class: lodcache.Desktop}
	decoder := &fakeDecoder{src: testSource(16, 12)}
	e, err := New(Options{
		Canvas:   canvas,
		Decoder:  decoder,
		Config:   config.Default(),
		LODTable: testTable(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Load(context.Background(), "test://image"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := e.CopyOriginalToClipboard(); err != nil {
		t.Fatalf("expected nil error with no clipboard configured, got %v", err)
	}
}

func TestZoomChangeCallbackFires(t *testing.T) {
	e, _, _ := newTestEngine(t, 800, 600, 1600, 1200)
	calls := 0
	e.OnZoomChange(func(float64, float64) { calls++ })
	e.ZoomIn(false)
	if calls != 1 {
		t.Fatalf("OnZoomChange fired %d times, want 1", calls)
	}
}

func TestDestroyReleasesResourcesAndIsIdempotent(t *testing.T) {
	e, canvas, _ := newTestEngine(t, 800, 600, 1600, 1200)
	e.Destroy()
	e.Destroy()
	if _, ok := e.FrontTexture(); ok {
		t.Fatal("expected no front texture after Destroy")
	}
	_ = canvas
}

func TestLoadFailurePropagatesDecodeError(t *testing.T) {
	canvas := &fakeCanvas{w: 800, h: 600, dpr: 1, class: lodcache.Desktop}
	decoder := &fakeDecoder{err: errDecode}
	e, err := New(Options{
		Canvas:   canvas,
		Decoder:  decoder,
		Config:   config.Default(),
		LODTable: testTable(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Load(context.Background(), "bad://image"); err == nil {
		t.Fatal("expected Load to propagate decode failure")
	}
}
