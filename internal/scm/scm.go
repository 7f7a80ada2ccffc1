// Package scm sits between the orchestrator and whatever hosts the
// repository. It finds the diff to describe and owns writes to the commit
// message field.
package scm

import (
	"context"
	"fmt"

	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
)

// Host exposes the repositories known to the source control provider
type Host interface {
	Active() bool
	Activate(ctx context.Context) error
	Repositories() []Repository
}

// Repository is one working tree
type Repository interface {
	Diff(ctx context.Context, staged bool) (string, error)
	State(ctx context.Context) (State, error)
	InputBox() InputBox
}

// State counts pending changes
type State struct {
	IndexChanges       int
	WorkingTreeChanges int
}

// InputBox is the commit message field
type InputBox interface {
	SetValue(ctx context.Context, value string) error
}

// InputBoxFunc adapts a function to InputBox
type InputBoxFunc func(ctx context.Context, value string) error

// SetValue implements InputBox
func (f InputBoxFunc) SetValue(ctx context.Context, value string) error {
	return f(ctx, value)
}

// Bridge reads diffs from and writes messages to the first repository of a host
type Bridge struct {
	host     Host
	decorate func(InputBox) InputBox
}

// BridgeOption configures a Bridge
type BridgeOption func(*Bridge)

// WithFieldDecorator wraps the input box of every write, e.g. to mirror
// the field on screen.
func WithFieldDecorator(fn func(InputBox) InputBox) BridgeOption {
	return func(b *Bridge) { b.decorate = fn }
}

// NewBridge creates a bridge over host
func NewBridge(host Host, opts ...BridgeOption) *Bridge {
	b := &Bridge{host: host}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// GetDiff returns the staged diff when anything is staged and non-empty,
// otherwise the unstaged diff. ok is false when there is nothing to
// describe.
func (b *Bridge) GetDiff(ctx context.Context) (diff string, ok bool, err error) {
	repo, err := b.repository(ctx)
	if err != nil {
		return "", false, err
	}

	state, err := repo.State(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to read repository state: %w", err)
	}
	if state.IndexChanges == 0 && state.WorkingTreeChanges == 0 {
		return "", false, nil
	}

	if state.IndexChanges > 0 {
		staged, err := repo.Diff(ctx, true)
		if err != nil {
			return "", false, fmt.Errorf("failed to get staged diff: %w", err)
		}
		if staged != "" {
			return staged, true, nil
		}
	}

	unstaged, err := repo.Diff(ctx, false)
	if err != nil {
		return "", false, fmt.Errorf("failed to get unstaged diff: %w", err)
	}
	if unstaged == "" {
		return "", false, nil
	}
	return unstaged, true, nil
}

// SetCommitMessage overwrites the commit message field. An empty text
// clears it.
func (b *Bridge) SetCommitMessage(ctx context.Context, text string) error {
	repo, err := b.repository(ctx)
	if err != nil {
		return err
	}

	box := repo.InputBox()
	if b.decorate != nil {
		box = b.decorate(box)
	}
	return box.SetValue(ctx, text)
}

func (b *Bridge) repository(ctx context.Context) (Repository, error) {
	if b.host == nil {
		return nil, apperrors.HostError(apperrors.ErrGitNotFound)
	}
	if !b.host.Active() {
		if err := b.host.Activate(ctx); err != nil {
			return nil, apperrors.HostError(err)
		}
	}

	repos := b.host.Repositories()
	if len(repos) == 0 {
		return nil, apperrors.HostError(apperrors.ErrGitNotInitialized)
	}
	return repos[0], nil
}
