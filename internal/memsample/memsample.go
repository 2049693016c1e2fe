// SPDX-License-Identifier: Unlicense OR MIT

// Package memsample samples the current process's resident memory,
// following the error-tolerant collection pattern used by gopsutil-based
// metrics collectors elsewhere: a failed sample degrades to "unknown"
// rather than propagating an error, since process memory here is
// treated as best-effort only.
package memsample

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// Sampler reads the current process's RSS via gopsutil. The zero value
// is ready to use.
type Sampler struct {
	pid int32
	// proc is re-resolved lazily: gopsutil's Process handle does not
	// survive a pid reuse, and re-querying the OS once a second is
	// cheap compared to the rest of the render loop's work.
}

// New returns a Sampler bound to the current process.
func New() *Sampler {
	return &Sampler{pid: int32(os.Getpid())}
}

// SampleBytes reports the process's current resident set size. It
// satisfies lodcache.ProcessMemorySampler. A failure to read process
// memory (sandboxed environment, unsupported platform) reports
// ok=false rather than an error, matching the "best effort"
// resolution.
func (s *Sampler) SampleBytes() (bytes int64, ok bool) {
	pid := s.pid
	if pid == 0 {
		pid = int32(os.Getpid())
	}
	proc, err := process.NewProcess(pid)
	if err != nil {
		return 0, false
	}
	info, err := proc.MemoryInfo()
	if err != nil || info == nil {
		return 0, false
	}
	return int64(info.RSS), true
}
