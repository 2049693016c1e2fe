// SPDX-License-Identifier: Unlicense OR MIT

package policy

import (
	"testing"

	"github.com/pixelscope/viewer/gpu/headlessbackend"
	"github.com/pixelscope/viewer/lodcache"
	"github.com/pixelscope/viewer/texture"
)

func entryOf(backend *headlessbackend.Backend, w, h int) *texture.Entry {
	tex, _ := backend.NewTexture(w, h, 0, 0)
	return &texture.Entry{Texture: tex, W: w, H: h, Bytes: int64(4 * w * h)}
}

func TestRequestLODNoopWhenAlreadyCurrent(t *testing.T) {
	cache := lodcache.New(lodcache.Budget(lodcache.Desktop), nil, nil)
	s := NewSwapper(cache)
	backend := headlessbackend.New()

	s.InstallDirect(entryOf(backend, 100, 100), 2)
	if s.RequestLOD(2) {
		t.Fatal("expected RequestLOD to be a no-op when already current")
	}
}

func TestCompleteDiscardsStaleLOD(t *testing.T) {
	cache := lodcache.New(lodcache.Budget(lodcache.Desktop), nil, nil)
	s := NewSwapper(cache)
	backend := headlessbackend.New()

	s.RequestLOD(3)
	s.RequestLOD(4) // supersedes 3

	stale := entryOf(backend, 50, 50)
	if s.Complete(3, stale) {
		t.Fatal("expected stale completion for superseded LOD to be discarded")
	}
	st := stale.Texture.(*headlessbackend.Texture)
	if !st.Released {
		t.Fatal("expected discarded stale texture to be released")
	}

	fresh := entryOf(backend, 60, 60)
	if !s.Complete(4, fresh) {
		t.Fatal("expected completion for currently wanted LOD to arm")
	}
}

func TestSwapInstallsArmedBackAndUpdatesCurrentLOD(t *testing.T) {
	cache := lodcache.New(lodcache.Budget(lodcache.Desktop), nil, nil)
	s := NewSwapper(cache)
	backend := headlessbackend.New()

	s.RequestLOD(1)
	s.Complete(1, entryOf(backend, 10, 10))
	if !s.Swap() {
		t.Fatal("expected swap to install the armed back texture")
	}
	if s.CurrentLOD() != 1 {
		t.Fatalf("currentLOD = %d, want 1", s.CurrentLOD())
	}
	if s.Swap() {
		t.Fatal("expected a second swap with nothing armed to be a no-op")
	}
}

func TestInstallDirectBootstraps(t *testing.T) {
	cache := lodcache.New(lodcache.Budget(lodcache.Desktop), nil, nil)
	s := NewSwapper(cache)
	backend := headlessbackend.New()

	if s.CurrentLOD() != -1 {
		t.Fatalf("currentLOD before install = %d, want -1", s.CurrentLOD())
	}
	s.InstallDirect(entryOf(backend, 100, 100), 0)
	if s.CurrentLOD() != 0 {
		t.Fatalf("currentLOD after install = %d, want 0", s.CurrentLOD())
	}
	front, lod := cache.Front()
	if front == nil || lod != 0 {
		t.Fatal("expected front texture installed directly")
	}
}
