package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// Saver stores a downloadable artifact.
type Saver interface {
	Save(name, contentType string, content []byte) error
}

type Clipboard interface {
	WriteAll(text string) error
}

type Clock interface {
	NowMillis() int64
}

// DirSaver writes artifacts into Dir, creating it when missing.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(name, _ string, content []byte) error {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// SystemClipboard uses the host clipboard (pbcopy, xclip/xsel/wl-copy, or the
// Windows API).
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available on this system")
	}
	return clipboard.WriteAll(text)
}

// MonotonicClock returns epoch milliseconds and never repeats a value: a call
// landing in the same millisecond as the previous one is bumped forward.
type MonotonicClock struct {
	Now func() time.Time

	mu   sync.Mutex
	last int64
}

func (c *MonotonicClock) NowMillis() int64 {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ms := now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return ms
}
