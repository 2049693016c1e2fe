// SPDX-License-Identifier: Unlicense OR MIT

package policy

import (
	"github.com/pixelscope/viewer/lodcache"
	"github.com/pixelscope/viewer/texture"
)

// Swapper owns the front/back handoff: it tracks which LOD the engine
// currently wants, discards stale texture-factory completions per
// the "supersede by index" rule, and applies the swap only at
// a frame boundary.
type Swapper struct {
	cache      *lodcache.Cache
	currentLOD int
	wantLOD    int
	hasWant    bool
}

// NewSwapper builds a Swapper with no LOD installed yet.
func NewSwapper(cache *lodcache.Cache) *Swapper {
	return &Swapper{cache: cache, currentLOD: -1}
}

// CurrentLOD is the LOD index of the front texture, or -1 before the
// first install.
func (s *Swapper) CurrentLOD() int {
	return s.currentLOD
}

// RequestLOD records l as the desired LOD. It reports false (nothing to
// do) when l already equals the installed LOD, per the "if l
// equals currentLOD, do nothing".
func (s *Swapper) RequestLOD(l int) bool {
	if l == s.currentLOD {
		return false
	}
	s.wantLOD = l
	s.hasWant = true
	return true
}

// Complete reports a finished texture-factory build for builtLOD. A
// completion for any LOD other than the one currently wanted is stale
// and is discarded, releasing its texture, rather than armed as the
// back buffer. It reports whether the completion was armed.
func (s *Swapper) Complete(builtLOD int, entry *texture.Entry) bool {
	if !s.hasWant || builtLOD != s.wantLOD {
		if entry != nil {
			entry.Texture.Release()
		}
		return false
	}
	s.cache.ArmBack(entry, builtLOD)
	return true
}

// Swap installs the armed back texture as front, if any. Call once per
// frame, between draws, never mid-draw.
func (s *Swapper) Swap() bool {
	if !s.cache.Swap() {
		return false
	}
	_, lod := s.cache.Front()
	s.currentLOD = lod
	s.hasWant = false
	return true
}

// InstallDirect bypasses the swap protocol for the synchronous initial
// load: evict whatever is cached, then install entry as front
// immediately so the first frame is never blank longer than the
// decode itself.
func (s *Swapper) InstallDirect(entry *texture.Entry, lod int) {
	s.cache.EvictAll()
	s.cache.ArmBack(entry, lod)
	s.cache.Swap()
	s.currentLOD = lod
	s.hasWant = false
}
