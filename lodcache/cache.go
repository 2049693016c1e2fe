// SPDX-License-Identifier: Unlicense OR MIT

package lodcache

import (
	"log/slog"
	"time"

	"github.com/pixelscope/viewer/texture"
)

// MemoryInfo is the memory info record.
type MemoryInfo struct {
	TextureBytes int64
	ProcessBytes int64
	Pressure     Pressure
}

// ProcessMemorySampler is a best-effort process-memory probe:
// implementations on platforms without a memory query should return
// (0, false).
type ProcessMemorySampler interface {
	SampleBytes() (bytes int64, ok bool)
}

// Cache holds at most one LOD texture plus a staged back texture
// awaiting atomic installation. It is not safe for concurrent use: all
// mutation is expected to happen on a single owning goroutine.
type Cache struct {
	budget   int64
	sampler  ProcessMemorySampler
	log      *slog.Logger

	front      *texture.Entry
	frontLOD   int
	back       *texture.Entry
	backLOD    int
	hasBack    bool

	lastPressure   Pressure
	lastSampleTime time.Time
}

// New builds a Cache with the given advisory budget B and an optional
// process-memory sampler.
func New(budget int64, sampler ProcessMemorySampler, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{budget: budget, sampler: sampler, log: log}
}

// Front returns the texture currently eligible to be drawn, and the LOD
// index it corresponds to.
func (c *Cache) Front() (*texture.Entry, int) {
	return c.front, c.frontLOD
}

// EvictAll deletes every currently cached texture (front and any staged
// back), per the "before creating LOD l, first delete every
// currently cached texture, then allocate" rule. It is always safe to
// call even when nothing is cached.
func (c *Cache) EvictAll() {
	if c.front != nil {
		c.front.Texture.Release()
		c.front = nil
	}
	c.discardBack()
}

// ArmBack stages a newly built entry as the back texture, to be
// installed on the next frame boundary (the swap protocol). This is a
// move: the caller must not touch entry again.
func (c *Cache) ArmBack(entry *texture.Entry, lod int) {
	c.discardBack()
	c.back = entry
	c.backLOD = lod
	c.hasBack = true
}

// discardBack releases any staged-but-unswapped back texture. Used both
// when a newer build supersedes an older staged one and during
// teardown.
func (c *Cache) discardBack() {
	if c.hasBack && c.back != nil {
		c.back.Texture.Release()
	}
	c.back = nil
	c.hasBack = false
}

// Swap installs the armed back texture as front, if one is armed. It
// must only be called at a frame boundary: a draw must never observe a
// half-installed swap. Swap reports whether an installation occurred.
func (c *Cache) Swap() bool {
	if !c.hasBack {
		return false
	}
	if c.front != nil {
		c.front.Texture.Release()
	}
	c.front = c.back
	c.frontLOD = c.backLOD
	c.front.LastUsed = time.Now().UnixNano()
	c.back = nil
	c.hasBack = false
	return true
}

// Size reports how many textures the cache currently holds: 0, 1 (front
// only) or 2 (front plus a staged back).
func (c *Cache) Size() int {
	n := 0
	if c.front != nil {
		n++
	}
	if c.hasBack {
		n++
	}
	return n
}

// textureBytes sums the footprint of everything currently cached.
func (c *Cache) textureBytes() int64 {
	var total int64
	if c.front != nil {
		total += c.front.Bytes
	}
	if c.hasBack && c.back != nil {
		total += c.back.Bytes
	}
	return total
}

// SampleMemoryInfo derives the current MemoryInfo from the bytes cached
// at the moment of the call. Pressure comes from textureBytes/budget
// only; a process sample is reported in ProcessBytes but does not
// affect it. It records the pressure but leaves the cached textures
// untouched.
func (c *Cache) SampleMemoryInfo() MemoryInfo {
	bytes := c.textureBytes()
	ratio := 0.0
	if c.budget > 0 {
		ratio = float64(bytes) / float64(c.budget)
	}
	pressure := FromRatio(ratio)

	var processBytes int64
	if c.sampler != nil {
		if pb, ok := c.sampler.SampleBytes(); ok {
			processBytes = pb
		}
	}
	c.lastPressure = pressure
	return MemoryInfo{TextureBytes: bytes, ProcessBytes: processBytes, Pressure: pressure}
}

// EmergencyCleanup evicts every texture except the current front under
// critical memory pressure. It reports whether the front itself had
// to be evicted; when it survives, the caller has nothing further to
// do, since the front stays visible throughout.
func (c *Cache) EmergencyCleanup() (frontEvicted bool, evictedLOD int) {
	if c.hasBack {
		c.log.Warn("emergency cleanup: discarding staged back texture under critical pressure", "lod", c.backLOD)
		c.discardBack()
	}
	// The front is deliberately preserved: the emergency cleanup only
	// evicts textures other than the current front, and the cache never
	// holds more than one front-equivalent texture to begin with, so
	// there is nothing further to evict here unless the caller
	// explicitly decides the front itself must go (e.g. it no longer
	// fits the per-texture byte cap).
	return false, c.frontLOD
}
