// SPDX-License-Identifier: Unlicense OR MIT

package texture

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/pixelscope/viewer/gpu"
)

// Path identifies which of the three production paths built
// a given texture.
type Path int

const (
	// PathOffSurface renders the downscale through the OffSurfaceRenderer
	// and uploads the result. It runs on the goroutine that called Build,
	// bounded by the factory's worker semaphore.
	PathOffSurface Path = iota
	// PathIdleMain performs the same downscale on the main surface, but
	// scheduled at idle time with a deadline, used when no background
	// drawable is available. Build also reports it for the synchronous
	// downscale it falls back to when neither a renderer nor an idle
	// scheduler is configured.
	PathIdleMain
	// PathDirect uploads the source image unchanged, used only when the
	// requested LOD equals the source's native size.
	PathDirect
)

func (p Path) String() string {
	switch p {
	case PathOffSurface:
		return "off-surface"
	case PathIdleMain:
		return "idle-main"
	default:
		return "direct"
	}
}

// Smoothing selects the resampling quality calls for:
// high quality for the full-resolution level (phi >= 1), medium
// otherwise.
type Smoothing int

const (
	SmoothingMedium Smoothing = iota
	SmoothingHigh
)

// Request describes one LOD texture build.
type Request struct {
	LOD               int
	Phi               float64
	MaxDim            int
	PerTextureByteCap int64
}

// OffSurfaceRenderer renders src into a staging bitmap at (w, h) with
// the requested smoothing quality; it is the engine's stand-in for the
// host's background-drawable-with-context, backed in practice by
// golang.org/x/image/draw on a worker goroutine.
type OffSurfaceRenderer interface {
	Rescale(ctx context.Context, src *image.RGBA, w, h int, quality Smoothing) (*image.RGBA, error)
}

// IdleScheduler runs fn at the host's next idle point, no later than
// deadline from now; used by the idle-main fallback path.
type IdleScheduler interface {
	RunAtIdle(deadline time.Duration, fn func())
}

// Factory builds GPU textures for a decoded Source at a requested LOD,
// implementing the priority-ordered production paths.
type Factory struct {
	device   gpu.Device
	renderer OffSurfaceRenderer
	idle     IdleScheduler
	sem      *semaphore.Weighted
	group    singleflight.Group
	log      *slog.Logger
}

// NewFactory builds a Factory. renderer may be nil if no off-surface
// path is available (the idle-main path is then used for every
// non-direct LOD); idle may be nil if there is no host idle-callback
// API. When both are nil, non-direct LODs are downscaled synchronously
// on the goroutine that calls Build. workers bounds the off-surface
// worker pool.
func NewFactory(device gpu.Device, renderer OffSurfaceRenderer, idle IdleScheduler, workers int64, log *slog.Logger) *Factory {
	if log == nil {
		log = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Factory{
		device:   device,
		renderer: renderer,
		idle:     idle,
		sem:      semaphore.NewWeighted(workers),
		log:      log,
	}
}

// Build produces the texture for req.LOD from src, clamped to the
// effective size cap, following the priority order. Build
// coalesces concurrent calls for the same request (LOD index, phi and
// size caps) through singleflight, handing every caller the same
// *Entry, so
// the policy layer may call it freely without its own deduplication.
func (f *Factory) Build(ctx context.Context, req Request, src *Source) (*Entry, Path, error) {
	key := fmt.Sprintf("%d:%.6f:%d:%d", req.LOD, req.Phi, req.MaxDim, req.PerTextureByteCap)
	type result struct {
		entry *Entry
		path  Path
	}
	v, err, _ := f.group.Do(key, func() (interface{}, error) {
		entry, path, err := f.build(ctx, req, src)
		return result{entry, path}, err
	})
	if err != nil {
		return nil, PathDirect, err
	}
	r := v.(result)
	return r.entry, r.path, nil
}

func (f *Factory) build(ctx context.Context, req Request, src *Source) (*Entry, Path, error) {
	tw, th := TargetSize(src.W, src.H, req.Phi, req.MaxDim, req.PerTextureByteCap)

	if tw == src.W && th == src.H {
		entry, err := f.uploadDirect(src)
		return entry, PathDirect, err
	}

	quality := SmoothingMedium
	if req.Phi >= 1 {
		quality = SmoothingHigh
	}

	if f.renderer != nil {
		entry, err := f.buildOffSurface(ctx, src, tw, th, quality)
		if err == nil {
			return entry, PathOffSurface, nil
		}
		f.log.Warn("off-surface texture build failed, falling back to idle-main", "lod", req.LOD, "error", err)
	}
	if f.idle != nil {
		entry, err := f.buildIdleMain(ctx, src, tw, th, quality)
		if err == nil {
			return entry, PathIdleMain, nil
		}
		f.log.Warn("idle-main texture build failed", "lod", req.LOD, "error", err)
		return nil, PathIdleMain, err
	}
	// No idle scheduler: downscale synchronously on the calling goroutine
	// so the request still yields a texture.
	rescaled, err := nearestRescale(src.Pix, tw, th)
	if err != nil {
		return nil, PathIdleMain, fmt.Errorf("texture factory: lod %d: %w", req.LOD, err)
	}
	entry, err := f.upload(rescaled)
	return entry, PathIdleMain, err
}

func (f *Factory) buildOffSurface(ctx context.Context, src *Source, w, h int, quality Smoothing) (*Entry, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer f.sem.Release(1)

	rescaled, err := f.renderer.Rescale(ctx, src.Pix, w, h, quality)
	if err != nil {
		return nil, err
	}
	return f.upload(rescaled)
}

func (f *Factory) buildIdleMain(ctx context.Context, src *Source, w, h int, quality Smoothing) (*Entry, error) {
	const deadline = 1 * time.Second
	type outcome struct {
		entry *Entry
		err   error
	}
	done := make(chan outcome, 1)
	f.idle.RunAtIdle(deadline, func() {
		rescaled, err := nearestRescale(src.Pix, w, h)
		if err != nil {
			done <- outcome{nil, err}
			return
		}
		entry, err := f.upload(rescaled)
		done <- outcome{entry, err}
	})
	select {
	case o := <-done:
		return o.entry, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(deadline):
		// The host missed its own deadline; the factory still waits for
		// the (late) result rather than leaking the goroutine, and
		// returns that result as if it had arrived in time.
		select {
		case o := <-done:
			return o.entry, o.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (f *Factory) uploadDirect(src *Source) (*Entry, error) {
	return f.upload(src.Pix)
}

func (f *Factory) upload(img *image.RGBA) (*Entry, error) {
	size := img.Bounds().Size()
	tex, err := f.device.NewTexture(size.X, size.Y, gpu.FilterLinear, gpu.FilterLinear)
	if err != nil {
		return nil, fmt.Errorf("allocate texture: %w", err)
	}
	gpu.UploadImage(tex, img)
	return &Entry{
		Texture:  tex,
		W:        size.X,
		H:        size.Y,
		Bytes:    ByteFootprint(size.X, size.Y),
		LastUsed: time.Now().UnixNano(),
	}, nil
}

// nearestRescale is the dependency-free nearest-neighbour resampler
// used by the idle-main path and the synchronous fallback, whatever
// IdleScheduler is configured; it ignores the requested Smoothing.
func nearestRescale(src *image.RGBA, w, h int) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", w, h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	for y := 0; y < h; y++ {
		sy := sb.Min.Y + y*sh/h
		for x := 0; x < w; x++ {
			sx := sb.Min.X + x*sw/w
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst, nil
}
