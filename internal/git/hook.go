package git

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

const hookMarker = "# zcommit prepare-commit-msg hook"

// InstallHook writes a prepare-commit-msg hook that runs exe. An existing
// hook is only replaced when zcommit wrote it.
func (r *Repository) InstallHook(exe string) (string, error) {
	hooksDir := filepath.Join(r.gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return "", fmt.Errorf("create hooks dir: %w", err)
	}

	hookPath := filepath.Join(hooksDir, "prepare-commit-msg")
	if existing, err := os.ReadFile(hookPath); err == nil && !bytes.Contains(existing, []byte(hookMarker)) {
		return "", fmt.Errorf("hook %s already exists. Please remove it first", hookPath)
	}

	if err := os.WriteFile(hookPath, []byte(HookScript(exe)), 0755); err != nil {
		return "", fmt.Errorf("write hook file: %w", err)
	}
	return hookPath, nil
}

// HookScript returns the hook body. $1 is the message file, $2 the message
// source and $3 the commit SHA.
func HookScript(exe string) string {
	return fmt.Sprintf(`#!/bin/sh
%s
# Generates a conventional commit subject when git has no message yet.

COMMIT_MSG_FILE=$1
COMMIT_SOURCE=$2

case "$COMMIT_SOURCE" in
  message|merge|squash|commit) exit 0 ;;
esac

"%s" hook "$COMMIT_MSG_FILE" "$COMMIT_SOURCE" || true
`, hookMarker, exe)
}
