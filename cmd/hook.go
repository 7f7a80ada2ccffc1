package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
	"github.com/jasonKoogler/zcommit/internal/git"
)

var (
	hookCmd = &cobra.Command{
		Use:    "hook <msg-file> [source] [sha]",
		Short:  "prepare-commit-msg entry point",
		Hidden: true,
		Args:   cobra.RangeArgs(1, 3),
		RunE:   runHook,
	}

	installHookCmd = &cobra.Command{
		Use:   "install-hook",
		Short: "Install a prepare-commit-msg hook that fills in the message",
		Args:  cobra.NoArgs,
		RunE:  runInstallHook,
	}
)

// sources for which git already has a message
var skipSources = map[string]bool{
	"message": true,
	"merge":   true,
	"squash":  true,
	"commit":  true,
}

func runHook(cmd *cobra.Command, args []string) error {
	msgFile := args[0]
	if len(args) > 1 && skipSources[args[1]] {
		appContext.Logger.Debug("hook: skipping commit source %q", args[1])
		return nil
	}

	key, err := resolveAPIKey(false)
	if err != nil || key == "" {
		if errors.Is(err, apperrors.ErrAPIKeyMissing) {
			fmt.Fprintln(cmd.ErrOrStderr(), "zcommit: no Z.AI API key, skipping message generation")
		}
		return nil
	}

	g := generation{
		dir:         ".",
		messageFile: msgFile,
		live:        false,
		apiKey:      key,
	}
	res, _, err := g.run(cmd.Context())
	if err != nil {
		appContext.Logger.Error("hook generation failed: %v", err)
		return nil
	}
	appContext.Logger.Info("hook finished with state %s", res.State)
	return nil
}

func runInstallHook(cmd *cobra.Command, args []string) error {
	repo, err := git.NewRepository(context.Background(), ".")
	if err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate zcommit executable: %w", err)
	}

	path, err := repo.InstallHook(exe)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Installed %s\n", path)
	return nil
}
