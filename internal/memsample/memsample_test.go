// SPDX-License-Identifier: Unlicense OR MIT

package memsample

import "testing"

func TestSampleBytesReturnsPositiveForCurrentProcess(t *testing.T) {
	s := New()
	bytes, ok := s.SampleBytes()
	if !ok {
		t.Skip("process memory sampling unsupported on this platform")
	}
	if bytes <= 0 {
		t.Fatalf("bytes = %d, want > 0", bytes)
	}
}
