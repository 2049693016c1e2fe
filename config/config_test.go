// SPDX-License-Identifier: Unlicense OR MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.InitialScale != 1 {
		t.Fatalf("InitialScale = %v, want 1", cfg.InitialScale)
	}
	if !cfg.Smooth {
		t.Fatal("expected Smooth to default true")
	}
	if cfg.DoubleClickMode != DoubleClickToggle {
		t.Fatalf("DoubleClickMode = %v, want toggle", cfg.DoubleClickMode)
	}
	if cfg.AnimationDuration() != 300_000_000 {
		t.Fatalf("AnimationDuration = %v, want 300ms", cfg.AnimationDuration())
	}
}

func TestAnimationDurationZeroWhenNotSmooth(t *testing.T) {
	cfg := Default()
	cfg.Smooth = false
	if cfg.AnimationDuration() != 0 {
		t.Fatalf("AnimationDuration = %v, want 0 when Smooth is false", cfg.AnimationDuration())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.yaml")
	contents := []byte("initialScale: 2\nsmooth: false\nlodTable:\n  - downscale: 0.25\n    maxRelScale: 1\n  - downscale: 1.0\n    maxRelScale: 1000\n")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.InitialScale != 2 {
		t.Fatalf("InitialScale = %v, want 2", cfg.InitialScale)
	}
	if cfg.Smooth {
		t.Fatal("expected smooth: false to override default")
	}
	if len(cfg.LODTable) != 2 || cfg.LODTable[1].Downscale != 1.0 {
		t.Fatalf("LODTable = %+v", cfg.LODTable)
	}
	// Fields absent from the file keep the default.
	if cfg.DoubleClickMode != DoubleClickToggle {
		t.Fatalf("DoubleClickMode = %v, want default toggle", cfg.DoubleClickMode)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load("/nonexistent/viewer.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
