// SPDX-License-Identifier: Unlicense OR MIT

package glfwhost

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// Clipboard is a host.Clipboard backed by golang.design/x/clipboard,
// the cross-platform clipboard library the retrieval pack's desktop
// apps pull in for image payloads GLFW itself has no API for (GLFW only
// exposes a plain-text clipboard string).
type Clipboard struct {
	initOnce sync.Once
	initErr  error
}

func (c *Clipboard) WriteImage(mime string, data []byte) error {
	c.initOnce.Do(func() { c.initErr = clipboard.Init() })
	if c.initErr != nil {
		return fmt.Errorf("glfwhost: clipboard unavailable: %w", c.initErr)
	}
	if mime != "image/png" {
		return fmt.Errorf("glfwhost: unsupported clipboard mime %q", mime)
	}
	<-clipboard.Write(clipboard.FmtImage, data)
	return nil
}
