package git

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// MessageBox is the commit message field of a repository. With a path it
// mirrors every value into that file, followed by whatever the file held
// when the box was opened (git's comment template in hook mode).
type MessageBox struct {
	mu      sync.Mutex
	value   string
	path    string
	trailer string
}

// NewMessageBox creates a box backed by path; an empty path keeps the value
// in memory only.
func NewMessageBox(path string) (*MessageBox, error) {
	b := &MessageBox{path: path}
	if path == "" {
		return b, nil
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read commit message file: %w", err)
	}
	b.trailer = string(existing)
	return b, nil
}

// SetValue replaces the field contents
func (b *MessageBox) SetValue(ctx context.Context, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.value = value
	if b.path == "" {
		return nil
	}

	content := b.trailer
	if value != "" {
		content = value + "\n" + b.trailer
	}
	if err := os.WriteFile(b.path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write commit message file: %w", err)
	}
	return nil
}

// Value returns the current contents
func (b *MessageBox) Value() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}
