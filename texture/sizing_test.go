// SPDX-License-Identifier: Unlicense OR MIT

package texture

import "testing"

func TestTargetSizeNoClamp(t *testing.T) {
	w, h := TargetSize(8000, 6000, 1.0, 8192, 0)
	if w != 8000 || h != 6000 {
		t.Fatalf("got %dx%d, want 8000x6000", w, h)
	}
}

func TestTargetSizeClampsToMaxDim(t *testing.T) {
	w, h := TargetSize(8000, 6000, 1.0, 4096, 0)
	if w != 4096 {
		t.Fatalf("long side = %d, want clamped to 4096", w)
	}
	// Aspect ratio preserved within rounding.
	wantH := int(float64(h) * float64(8000) / float64(w))
	if abs(wantH-6000) > 2 {
		t.Fatalf("aspect not preserved: %dx%d", w, h)
	}
}

func TestTargetSizeCriticalPressureCapsLongSideTo2048(t *testing.T) {
	// Scenario 5: a 40MP image zoomed to 1:1 under critical pressure
	// must be capped to <=2048 on its long side.
	w, h := TargetSize(8000, 5000, 1.0, 2048, 0)
	if w > 2048 || h > 2048 {
		t.Fatalf("expected long side <= 2048, got %dx%d", w, h)
	}
	if w != 2048 {
		t.Fatalf("long side should hit the cap exactly, got %d", w)
	}
}

func TestTargetSizePerTextureByteCap(t *testing.T) {
	// 30% of a 128 MiB budget.
	cap := int64(128 * 1024 * 1024 * 30 / 100)
	w, h := TargetSize(8000, 6000, 1.0, 8192, cap)
	if ByteFootprint(w, h) > cap {
		t.Fatalf("footprint %d exceeds cap %d", ByteFootprint(w, h), cap)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
