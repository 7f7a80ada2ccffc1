package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jasonKoogler/zcommit/internal/commit"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the commit message generation in progress",
	RunE:  runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	pid, err := readStatusFile(appContext.StatusFile())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing is being generated.")
			return nil
		}
		return err
	}

	proc, err := os.FindProcess(pid)
	if err == nil {
		err = proc.Signal(os.Interrupt)
	}
	if err != nil {
		// Stale file from a process that is gone
		_ = os.Remove(appContext.StatusFile())
		appContext.Logger.Debug("stop: process %d not signalled: %v", pid, err)
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing is being generated.")
		return nil
	}

	appContext.Logger.Info("sent stop to generation in process %d", pid)
	fmt.Fprintln(cmd.OutOrStdout(), "Generation stopped.")
	return nil
}

// statusObserver keeps the status file in sync with the service state, so
// the stop command can find a running generation.
func statusObserver(path string) func(commit.State) {
	return func(st commit.State) {
		if st == commit.Generating {
			if err := writeStatusFile(path, os.Getpid()); err != nil {
				appContext.Logger.Warn("failed to write status file: %v", err)
			}
			return
		}
		if st != commit.AwaitingDiff {
			_ = os.Remove(path)
		}
	}
}

func writeStatusFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0644)
}

func readStatusFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("%w: corrupt status file", os.ErrNotExist)
	}
	return pid, nil
}
