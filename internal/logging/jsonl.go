package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// JSONL appends one JSON document per line to a sink. It is safe for
// concurrent use. A nil *JSONL discards everything.
type JSONL struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// OpenJSONL opens dir/name for append, creating dir with owner-only access.
func OpenJSONL(dir, name string) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return NewJSONL(f), nil
}

// NewJSONL wraps an arbitrary sink.
func NewJSONL(w io.WriteCloser) *JSONL {
	return &JSONL{w: w}
}

// Append marshals v and writes it followed by a newline. Appending to a
// nil or closed JSONL is a no-op.
func (j *JSONL) Append(v any) error {
	if j == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.w == nil {
		return nil
	}
	_, err = j.w.Write(append(data, '\n'))
	return err
}

// Close closes the sink. Safe on a nil receiver and more than once.
func (j *JSONL) Close() error {
	if j == nil {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.w == nil {
		return nil
	}
	err := j.w.Close()
	j.w = nil
	return err
}
