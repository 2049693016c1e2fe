// SPDX-License-Identifier: Unlicense OR MIT

package texture

import "time"

// TickerIdleScheduler is a minimal IdleScheduler for hosts with no
// native idle-callback API: it runs fn on its own goroutine immediately
// and ignores the deadline. Hosts with a real idle-callback facility (e.g. a browser's
// requestIdleCallback, or an OS message-loop idle hook) should supply
// their own IdleScheduler instead.
type TickerIdleScheduler struct{}

func (TickerIdleScheduler) RunAtIdle(deadline time.Duration, fn func()) {
	go fn()
}
