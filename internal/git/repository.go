package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
	"github.com/jasonKoogler/zcommit/internal/scm"
)

// Repository represents a git repository
type Repository struct {
	path   string
	gitDir string
	box    *MessageBox
}

// NewRepository opens the repository containing path
func NewRepository(ctx context.Context, path string) (*Repository, error) {
	top, err := run(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGitNotInitialized, err)
	}
	root := strings.TrimSpace(top)

	gitDir, err := run(ctx, root, "rev-parse", "--git-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get git directory: %w", err)
	}
	dir := strings.TrimSpace(gitDir)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}

	return &Repository{path: root, gitDir: dir, box: &MessageBox{}}, nil
}

// Path returns the top level directory of the working tree
func (r *Repository) Path() string {
	return r.path
}

// Name returns the base name of the working tree
func (r *Repository) Name() string {
	return filepath.Base(r.path)
}

// GitDir returns the path to the .git directory
func (r *Repository) GitDir() string {
	return r.gitDir
}

// Diff returns the staged or unstaged diff
func (r *Repository) Diff(ctx context.Context, staged bool) (string, error) {
	args := []string{"diff"}
	if staged {
		args = append(args, "--cached")
	}
	return run(ctx, r.path, args...)
}

// State counts index and working tree changes
func (r *Repository) State(ctx context.Context) (scm.State, error) {
	out, err := run(ctx, r.path, "status", "--porcelain=v1", "-z")
	if err != nil {
		return scm.State{}, fmt.Errorf("failed to get changed files: %w", err)
	}
	return parseStatus(out), nil
}

// InputBox returns the commit message field of this repository
func (r *Repository) InputBox() scm.InputBox {
	return r.box
}

// MessageBox returns the concrete message box
func (r *Repository) MessageBox() *MessageBox {
	return r.box
}

// Commit creates a new commit with the given message
func (r *Repository) Commit(ctx context.Context, message string) error {
	cmd := exec.CommandContext(ctx, "git", "-C", r.path, "commit", "-F", "-")
	cmd.Stdin = strings.NewReader(message)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to commit: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// parseStatus reads `git status --porcelain=v1 -z`. Untracked entries count
// as working tree changes; ignored entries are skipped.
func parseStatus(out string) scm.State {
	var st scm.State

	entries := strings.Split(out, "\x00")
	for i := 0; i < len(entries); i++ {
		e := entries[i]
		if len(e) < 3 {
			continue
		}
		x, y := e[0], e[1]

		switch {
		case x == '?' && y == '?':
			st.WorkingTreeChanges++
		case x == '!':
		default:
			if x != ' ' {
				st.IndexChanges++
			}
			if y != ' ' {
				st.WorkingTreeChanges++
			}
		}

		// Renames and copies carry the original path as the next entry
		if x == 'R' || x == 'C' || y == 'R' || y == 'C' {
			i++
		}
	}
	return st
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
