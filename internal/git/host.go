package git

import (
	"context"
	"errors"
	"os/exec"
	"sync"

	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
	"github.com/jasonKoogler/zcommit/internal/scm"
)

// Host discovers the repository containing a directory using the git
// executable.
type Host struct {
	dir         string
	messageFile string

	mu     sync.Mutex
	active bool
	repo   *Repository
}

// HostOption configures a Host
type HostOption func(*Host)

// WithMessageFile persists every value of the commit message field to
// path, as git expects from a prepare-commit-msg hook.
func WithMessageFile(path string) HostOption {
	return func(h *Host) { h.messageFile = path }
}

// NewHost creates a host rooted at dir
func NewHost(dir string, opts ...HostOption) *Host {
	h := &Host{dir: dir}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Active reports whether Activate has succeeded
func (h *Host) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Activate locates git and the repository. Being outside a repository is
// not an error; the host then has no repositories.
func (h *Host) Activate(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.active {
		return nil
	}
	if _, err := exec.LookPath("git"); err != nil {
		return apperrors.ErrGitNotFound
	}

	repo, err := NewRepository(ctx, h.dir)
	switch {
	case errors.Is(err, apperrors.ErrGitNotInitialized):
		repo = nil
	case err != nil:
		return err
	}

	if repo != nil && h.messageFile != "" {
		box, err := NewMessageBox(h.messageFile)
		if err != nil {
			return err
		}
		repo.box = box
	}

	h.repo = repo
	h.active = true
	return nil
}

// Repositories returns the discovered repository, if any
func (h *Host) Repositories() []scm.Repository {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.repo == nil {
		return nil
	}
	return []scm.Repository{h.repo}
}

// Repository returns the concrete repository after activation
func (h *Host) Repository() *Repository {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.repo
}
