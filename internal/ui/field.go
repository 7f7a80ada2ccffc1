package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jasonKoogler/zcommit/internal/scm"
)

const clearLine = "\r\033[K"

// LiveField mirrors the commit message field on a single terminal line
type LiveField struct {
	mu    sync.Mutex
	w     io.Writer
	dirty bool
}

// NewLiveField creates a mirror writing to w
func NewLiveField(w io.Writer) *LiveField {
	return &LiveField{w: w}
}

// Wrap returns a box that updates the line after every successful write.
// It matches scm.WithFieldDecorator.
func (f *LiveField) Wrap(box scm.InputBox) scm.InputBox {
	return scm.InputBoxFunc(func(ctx context.Context, value string) error {
		if err := box.SetValue(ctx, value); err != nil {
			return err
		}
		f.render(value)
		return nil
	})
}

// Clear erases the line if anything was drawn
func (f *LiveField) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dirty {
		fmt.Fprint(f.w, clearLine)
		f.dirty = false
	}
}

func (f *LiveField) render(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprint(f.w, clearLine+value)
	f.dirty = value != ""
}
