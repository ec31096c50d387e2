package watch

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Tail tracks a byte offset per watched file so repeated reads return only
// newly appended content. The offset table is shared between the debounced
// watcher callbacks and the initial replay pass, so it is lock-guarded.
type Tail struct {
	mu      sync.Mutex
	offsets map[string]int64
}

// NewTail creates an empty offset table.
func NewTail() *Tail {
	return &Tail{offsets: make(map[string]int64)}
}

// ReadNew returns the bytes appended to path since the last read. When the
// file is shorter than the stored offset it was truncated or rotated: the
// offset resets to zero and the whole file is returned. A second read
// against an unchanged file returns the empty string.
func (t *Tail) ReadNew(path string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	readOffset := t.offsets[path]
	if info.Size() < readOffset {
		readOffset = 0
	}

	if _, err := f.Seek(readOffset, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek %s: %w", path, err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	t.offsets[path] = readOffset + int64(len(data))
	return string(data), nil
}

// Offset returns the stored offset for path, zero if never read.
func (t *Tail) Offset(path string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offsets[path]
}

// SetOffset records an offset for path.
func (t *Tail) SetOffset(path string, offset int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offsets[path] = offset
}

// Reset forgets the offset for path, forcing a full re-read next time.
func (t *Tail) Reset(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.offsets, path)
}

// Clear forgets all tracked offsets.
func (t *Tail) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offsets = make(map[string]int64)
}
