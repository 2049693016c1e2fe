// SPDX-License-Identifier: Unlicense OR MIT

// Package viewer exposes the public control surface :
// Engine wires together the GPU context, texture factory, LOD cache,
// transform state and gesture decoder into the load/zoom/reset/copy/
// destroy operations a host application drives.
package viewer

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"time"

	"github.com/pixelscope/viewer/config"
	"github.com/pixelscope/viewer/geom"
	"github.com/pixelscope/viewer/gesture"
	"github.com/pixelscope/viewer/gpu"
	"github.com/pixelscope/viewer/host"
	"github.com/pixelscope/viewer/lodcache"
	"github.com/pixelscope/viewer/policy"
	"github.com/pixelscope/viewer/renderloop"
	"github.com/pixelscope/viewer/texture"
	"github.com/pixelscope/viewer/transform"
)

// Options are Engine's construction inputs, the "canvas" plus
// "config" plus the external collaborators.
type Options struct {
	Canvas    host.Canvas
	Decoder   host.Decoder
	Clipboard host.Clipboard // nil degrades CopyOriginalToClipboard to a warning.

	Config   config.Config
	LODTable policy.Table

	Renderer texture.OffSurfaceRenderer        // nil disables the off-surface path.
	Idle     texture.IdleScheduler             // nil disables the idle-main fallback.
	Workers  int64                             // off-surface worker pool size.
	Sampler  lodcache.ProcessMemorySampler      // nil means textureBytes/budget only.
	Log      *slog.Logger
}

// buildResult is a completed (or failed) texture-factory build,
// marshalled back onto the owning goroutine through Engine.completions.
type buildResult struct {
	lod   int
	entry *texture.Entry
	err   error
}

// DebugSnapshot is the per-frame state handed to the OnDebugUpdate
// callback when Config.Debug is set.
type DebugSnapshot struct {
	Scale         float64
	RelativeScale float64
	TX, TY        float64

	CurrentLOD int
	LevelCount int

	CanvasW, CanvasH int
	ImageW, ImageH   int

	FitScale          float64
	EffectiveMaxScale float64
	// OriginalSizeScale is always 1: the absolute scale at which the
	// image is shown at its native resolution.
	OriginalSizeScale float64
	UserMaxScale      float64
	MaxTextureSize    int

	RenderCount int64
	FPS         float64
	FrameTime   time.Duration

	MemoryInfo lodcache.MemoryInfo
}

// Engine is the public control surface. It is not safe for concurrent
// use: every method must be called from the host's single render/event
// thread.
type Engine struct {
	canvas    host.Canvas
	decoder   host.Decoder
	clipboard host.Clipboard
	cfg       config.Config
	table     policy.Table
	log       *slog.Logger
	budget    int64

	device gpu.Device
	loop   *renderloop.Loop

	cache   *lodcache.Cache
	swapper *policy.Swapper
	factory *texture.Factory

	gestures *gesture.Decoder

	source *texture.Source
	bounds transform.Bounds
	state  transform.State
	anim   transform.Animation

	ctx    context.Context
	cancel context.CancelFunc

	completions chan buildResult

	onZoomChange  func(absScale, relScale float64)
	onImageCopied func()
	onDebugUpdate func(DebugSnapshot)

	destroyed bool
}

// New acquires a GPU context from canvas and wires up the engine. It
// fails per the unavailable-context kind if no context can be
// created.
func New(opts Options) (*Engine, error) {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if err := opts.LODTable.Validate(); err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	device, err := opts.Canvas.NewContext(gpu.DefaultAttributes)
	if err != nil {
		return nil, fmt.Errorf("viewer: acquire gpu context: %w", err)
	}
	loop, err := renderloop.New(device)
	if err != nil {
		device.Release()
		return nil, fmt.Errorf("viewer: %w", err)
	}

	budget := lodcache.Budget(opts.Canvas.DeviceClass())
	cache := lodcache.New(budget, opts.Sampler, opts.Log)
	factory := texture.NewFactory(device, opts.Renderer, opts.Idle, opts.Workers, opts.Log)
	ctx, cancel := context.WithCancel(context.Background())

	return &Engine{
		canvas:      opts.Canvas,
		decoder:     opts.Decoder,
		clipboard:   opts.Clipboard,
		cfg:         opts.Config,
		table:       opts.LODTable,
		log:         opts.Log,
		budget:      budget,
		device:      device,
		loop:        loop,
		cache:       cache,
		swapper:     policy.NewSwapper(cache),
		factory:     factory,
		gestures:    gesture.NewDecoder(),
		ctx:         ctx,
		cancel:      cancel,
		completions: make(chan buildResult, 4),
	}, nil
}

// Load decodes url, computes the initial transform and bounds, and
// synchronously installs the bootstrap LOD as front (
// "Initial-LOD bootstrap"). On decode or build failure, prior state is
// left untouched and an error is returned.
func (e *Engine) Load(ctx context.Context, url string) error {
	src, err := e.decoder.Decode(ctx, url)
	if err != nil {
		return fmt.Errorf("viewer: decode %q: %w", url, err)
	}

	vw, vh := e.canvas.Size()
	bounds := transform.Bounds{
		ViewportW:     float32(vw),
		ViewportH:     float32(vh),
		ImageW:        float32(src.W),
		ImageH:        float32(src.H),
		MinRel:        float32(e.cfg.MinScale),
		MaxRel:        float32(e.cfg.MaxScale),
		LimitToBounds: e.cfg.LimitToBounds,
	}
	state := bounds.Constrain(transform.State{Scale: bounds.FitScale() * float32(e.cfg.InitialScale)})
	if !e.cfg.CenterOnInit {
		// centerOnInit only affects whether the initial transform is
		// re-centered when limitToBounds would otherwise force it; the
		// bootstrap transform has no translation either way, so nothing
		// further is needed here.
	}

	info := e.cache.SampleMemoryInfo()
	rel := bounds.RelativeScale(state.Scale)
	lod := policy.Select(e.table, float64(rel), lodcache.SelectionModifier(info.Pressure))

	entry, _, err := e.factory.Build(ctx, e.requestFor(lod, info.Pressure), &src)
	if err != nil {
		return fmt.Errorf("viewer: build initial lod %d: %w", lod, err)
	}

	e.source = &src
	e.bounds = bounds
	e.state = state
	e.anim.Stop()
	e.gestures.Reset()
	e.swapper.InstallDirect(entry, lod)
	e.emitZoomChange()
	return nil
}

// requestFor builds a texture.Request for lod, applying the
// pressure-adjusted size cap and the 30% per-texture byte cap.
func (e *Engine) requestFor(lod int, pressure lodcache.Pressure) texture.Request {
	level := e.table[lod]
	maxDim := lodcache.EffectiveMaxTextureSize(pressure, e.device.Caps().MaxTextureSize)
	perTextureCap := e.budget * 30 / 100
	return texture.Request{LOD: lod, Phi: level.Downscale, MaxDim: maxDim, PerTextureByteCap: perTextureCap}
}

// Tick drives one frame: step the animation, drain completed texture
// builds, apply any armed swap, re-evaluate the LOD policy, and draw.
// The host calls this once per frame callback.
func (e *Engine) Tick(now time.Time) {
	if e.destroyed || e.source == nil {
		return
	}
	if e.anim.Running() {
		t, _ := e.anim.Tick(now)
		e.state = t
		e.emitZoomChange()
	}

	e.drainCompletions()
	e.swapper.Swap()
	e.evaluateLOD()

	dpr := lodcache.EffectivePixelRatio(e.cache.SampleMemoryInfo().Pressure, e.canvas.DevicePixelRatio())
	vw, vh := e.canvas.Size()
	bw := int(float64(vw)*dpr + 0.5)
	bh := int(float64(vh)*dpr + 0.5)
	fps, frameTime := e.loop.Frame(now, bw, bh, e)

	if e.cfg.Debug && e.onDebugUpdate != nil {
		e.onDebugUpdate(e.snapshot(fps, frameTime))
	}
}

// snapshot builds the debug record for the frame just drawn.
func (e *Engine) snapshot(fps float64, frameTime time.Duration) DebugSnapshot {
	vw, vh := e.canvas.Size()
	return DebugSnapshot{
		Scale:         float64(e.state.Scale),
		RelativeScale: float64(e.bounds.RelativeScale(e.state.Scale)),
		TX:            float64(e.state.TX),
		TY:            float64(e.state.TY),

		CurrentLOD: e.swapper.CurrentLOD(),
		LevelCount: len(e.table),

		CanvasW: vw,
		CanvasH: vh,
		ImageW:  int(e.bounds.ImageW),
		ImageH:  int(e.bounds.ImageH),

		FitScale:          float64(e.bounds.FitScale()),
		EffectiveMaxScale: float64(e.bounds.MaxScale()),
		OriginalSizeScale: 1,
		UserMaxScale:      e.cfg.MaxScale,
		MaxTextureSize:    e.device.Caps().MaxTextureSize,

		RenderCount: e.loop.RenderCount(),
		FPS:         fps,
		FrameTime:   frameTime,

		MemoryInfo: e.cache.SampleMemoryInfo(),
	}
}

// drainCompletions marshals finished texture builds onto the engine's
// owning goroutine, per the "bitmap hand-off" through a
// buffered channel drained once per render tick.
func (e *Engine) drainCompletions() {
	for {
		select {
		case res := <-e.completions:
			if res.err != nil {
				e.log.Warn("texture build failed", "lod", res.lod, "error", res.err)
				continue
			}
			e.swapper.Complete(res.lod, res.entry)
		default:
			return
		}
	}
}

// evaluateLOD implements the selection and request steps, plus
// emergency cleanup under critical pressure.
func (e *Engine) evaluateLOD() {
	info := e.cache.SampleMemoryInfo()
	if info.Pressure == lodcache.PressureCritical {
		if evicted, lod := e.cache.EmergencyCleanup(); evicted {
			e.startBuild(lod, info.Pressure)
			return
		}
	}

	rel := e.bounds.RelativeScale(e.state.Scale)
	lod := policy.Select(e.table, float64(rel), lodcache.SelectionModifier(info.Pressure))
	if !e.swapper.RequestLOD(lod) {
		return
	}
	e.startBuild(lod, info.Pressure)
}

func (e *Engine) startBuild(lod int, pressure lodcache.Pressure) {
	req := e.requestFor(lod, pressure)
	src := e.source
	go func() {
		entry, _, err := e.factory.Build(e.ctx, req, src)
		select {
		case e.completions <- buildResult{lod: lod, entry: entry, err: err}:
		case <-e.ctx.Done():
			if entry != nil {
				entry.Texture.Release()
			}
		}
	}()
}

// Matrix satisfies renderloop.Source.
func (e *Engine) Matrix() geom.Matrix3 {
	vw, vh := e.bounds.ViewportW, e.bounds.ViewportH
	sx := e.state.Scale * e.bounds.ImageW / vw
	sy := e.state.Scale * e.bounds.ImageH / vh
	tx := 2 * e.state.TX / vw
	ty := -2 * e.state.TY / vh
	return geom.Projection(sx, sy, tx, ty)
}

// FrontTexture satisfies renderloop.Source.
func (e *Engine) FrontTexture() (gpu.Texture, bool) {
	entry, _ := e.cache.Front()
	if entry == nil {
		return nil, false
	}
	return entry.Texture, true
}

func (e *Engine) setTransform(t transform.State) {
	e.state = t
	e.emitZoomChange()
}

func (e *Engine) emitZoomChange() {
	if e.onZoomChange == nil {
		return
	}
	e.onZoomChange(float64(e.state.Scale), float64(e.bounds.RelativeScale(e.state.Scale)))
}

func (e *Engine) pan(dx, dy float32) {
	t := e.state
	t.TX += dx
	t.TY += dy
	e.setTransform(e.bounds.Constrain(t))
}

func (e *Engine) zoomAtUnanimated(x, y, k float32) {
	nt, ok := e.bounds.ZoomAt(e.state, x, y, k)
	if !ok {
		return
	}
	e.setTransform(nt)
}

func (e *Engine) animateToAbsoluteScale(x, y, target float32) {
	k := target / e.state.Scale
	current := e.state
	nt, ok := e.bounds.ZoomAt(current, x, y, k)
	if !ok {
		return
	}
	d := e.cfg.AnimationDuration()
	if d <= 0 {
		e.setTransform(nt)
		return
	}
	e.anim.Start(time.Now(), current, nt, d)
}

// activate runs the double-activation action shared by mouse
// double-click and touch double-tap.
func (e *Engine) activate(x, y float32) {
	if e.cfg.DoubleClickMode == config.DoubleClickZoom {
		e.animateToAbsoluteScale(x, y, e.state.Scale*float32(1+e.cfg.DoubleClickStep))
		return
	}
	fit := e.bounds.FitScale() * float32(e.cfg.InitialScale)
	target := float32(1)
	if absF32(e.state.Scale-fit) > absF32(e.state.Scale-1) {
		target = fit
	}
	target = clampF32(target, e.bounds.MinScale(), e.bounds.MaxScale())
	e.animateToAbsoluteScale(x, y, target)
}

// OnPointerDown starts a one-finger drag and cancels any in-flight
// animation (the "Interruption").
func (e *Engine) OnPointerDown(x, y float32) {
	e.anim.Stop()
	e.gestures.PointerDown(x, y)
}

// OnPointerMove reports a pointer move while dragging.
func (e *Engine) OnPointerMove(x, y float32) {
	intent, ok := e.gestures.PointerMove(x, y)
	if !ok || e.cfg.PanningDisabled {
		return
	}
	e.pan(intent.DX, intent.DY)
}

// OnPointerUp ends the current drag.
func (e *Engine) OnPointerUp() {
	e.gestures.PointerUp()
}

// OnWheel decodes a wheel tick into an unanimated zoom about (x, y).
func (e *Engine) OnWheel(x, y, deltaY float32) {
	if e.cfg.WheelDisabled {
		return
	}
	e.anim.Stop()
	intent := e.gestures.Wheel(x, y, deltaY, float32(e.cfg.WheelStep))
	e.zoomAtUnanimated(intent.X, intent.Y, intent.Factor)
}

// OnMouseClick registers a click and runs the double-activation action
// if it completes a double-click within the debounce window.
func (e *Engine) OnMouseClick(now time.Time, x, y float32) {
	if e.cfg.DoubleClickDisabled {
		return
	}
	if intent, ok := e.gestures.MouseClick(now, x, y); ok {
		e.activate(intent.X, intent.Y)
	}
}

// OnTouchStart registers a new touch point.
func (e *Engine) OnTouchStart(id int, x, y float32) {
	e.anim.Stop()
	e.gestures.TouchStart(id, x, y)
}

// OnTouchMove reports a one-finger pan or a two-finger pinch zoom.
func (e *Engine) OnTouchMove(id int, x, y float32) {
	intent, ok := e.gestures.TouchMove(id, x, y)
	if !ok {
		return
	}
	switch v := intent.(type) {
	case gesture.PanIntent:
		if !e.cfg.PanningDisabled {
			e.pan(v.DX, v.DY)
		}
	case gesture.ZoomAtIntent:
		if !e.cfg.PinchDisabled {
			e.zoomAtUnanimated(v.X, v.Y, v.Factor)
		}
	}
}

// OnTouchEnd releases a touch point and runs the double-activation
// action if this release completes a double-tap.
func (e *Engine) OnTouchEnd(id int, now time.Time) {
	intent, ok := e.gestures.TouchEnd(id, now)
	if ok && !e.cfg.DoubleClickDisabled {
		e.activate(intent.X, intent.Y)
	}
}

// ZoomIn zooms in by the configured wheel step about the viewport
// center.
func (e *Engine) ZoomIn(animated bool) {
	e.zoomByFactor(1+float32(e.cfg.WheelStep), animated)
}

// ZoomOut zooms out by the configured wheel step about the viewport
// center.
func (e *Engine) ZoomOut(animated bool) {
	e.zoomByFactor(1/(1+float32(e.cfg.WheelStep)), animated)
}

func (e *Engine) zoomByFactor(factor float32, animated bool) {
	e.anim.Stop()
	cx, cy := e.bounds.ViewportW/2, e.bounds.ViewportH/2
	if !animated {
		e.zoomAtUnanimated(cx, cy, factor)
		return
	}
	e.animateToAbsoluteScale(cx, cy, e.state.Scale*factor)
}

// ResetView animates toward s=F·initialScale, tx=ty=0.
func (e *Engine) ResetView() {
	e.anim.Stop()
	target := e.bounds.Constrain(transform.State{Scale: e.bounds.FitScale() * float32(e.cfg.InitialScale)})
	d := e.cfg.AnimationDuration()
	if d <= 0 {
		e.setTransform(target)
		return
	}
	e.anim.Start(time.Now(), e.state, target, d)
}

// GetScale reports the absolute and fit-relative scale.
func (e *Engine) GetScale() (absScale, relScale float64) {
	return float64(e.state.Scale), float64(e.bounds.RelativeScale(e.state.Scale))
}

// CopyOriginalToClipboard encodes the loaded source image as PNG and
// writes it to the clipboard. A missing Clipboard degrades to a logged
// warning (the clipboard-unsupported kind) rather than an
// error.
func (e *Engine) CopyOriginalToClipboard() error {
	if e.source == nil {
		return fmt.Errorf("viewer: no image loaded")
	}
	if e.clipboard == nil {
		e.log.Warn("clipboard copy requested but no clipboard is configured")
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, e.source.Pix); err != nil {
		return fmt.Errorf("viewer: encode clipboard image: %w", err)
	}
	if err := e.clipboard.WriteImage("image/png", buf.Bytes()); err != nil {
		return fmt.Errorf("viewer: clipboard write: %w", err)
	}
	if e.onImageCopied != nil {
		e.onImageCopied()
	}
	return nil
}

// OnZoomChange registers the callback fired on every transform change.
func (e *Engine) OnZoomChange(fn func(absScale, relScale float64)) {
	e.onZoomChange = fn
}

// OnImageCopied registers the callback fired after a successful
// clipboard write.
func (e *Engine) OnImageCopied(fn func()) {
	e.onImageCopied = fn
}

// OnDebugUpdate registers the per-frame debug snapshot callback, only
// invoked when Config.Debug is set.
func (e *Engine) OnDebugUpdate(fn func(DebugSnapshot)) {
	e.onDebugUpdate = fn
}

// Destroy implements the teardown discipline: cancel in-flight
// builds, clear gesture timers, evict every cached texture, and release
// the GPU program/buffers and context. No operation is valid after
// Destroy.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.cancel()
	e.anim.Stop()
	e.gestures.Reset()
	e.cache.EvictAll()
	e.loop.Release()
	e.device.Release()
}

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
