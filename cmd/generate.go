// cmd/generate.go
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jasonKoogler/zcommit/internal/commit"
	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
	"github.com/jasonKoogler/zcommit/internal/llm"
	"github.com/jasonKoogler/zcommit/internal/ui"
)

var (
	temperature  float64
	maxTokens    int
	commitResult bool
	noTUI        bool

	generateCmd = &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen", "g"},
		Short:   "Generate a commit message based on your changes",
		Long: `Generate reads the staged diff (or the unstaged one when nothing is
staged) and asks Z.AI for a conventional commit subject. Press esc or
ctrl+c, or run "zcommit stop", to cancel.`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
)

func init() {
	generateCmd.Flags().Float64VarP(&temperature, "temperature", "t", 0, "sampling temperature for this request")
	generateCmd.Flags().IntVarP(&maxTokens, "max-tokens", "m", 0, "maximum number of tokens for the response")
	generateCmd.Flags().BoolVarP(&commitResult, "commit", "c", false, "commit with the generated message")
	generateCmd.Flags().BoolVar(&noTUI, "no-tui", false, "print plain output instead of the interactive view")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	interactive := ui.IsTerminal(os.Stdin) && ui.IsTerminal(os.Stderr)

	key, err := resolveAPIKey(interactive)
	if err != nil {
		if errors.Is(err, apperrors.ErrAPIKeyMissing) {
			fmt.Fprintln(cmd.ErrOrStderr(), "No Z.AI API key. Run zcommit set-key or set ZAI_API_KEY.")
			return nil
		}
		return err
	}
	if key == "" {
		return nil
	}

	var callOpts []llm.CallOption
	if cmd.Flags().Changed("temperature") {
		callOpts = append(callOpts, llm.WithTemperature(temperature))
	}
	if cmd.Flags().Changed("max-tokens") {
		callOpts = append(callOpts, llm.WithMaxTokens(maxTokens))
	}

	g := generation{
		dir:      ".",
		tui:      interactive && appContext.Settings.UI.TUI && !noTUI,
		live:     interactive,
		apiKey:   key,
		callOpts: callOpts,
	}

	res, host, err := g.run(cmd.Context())
	if err != nil {
		return err
	}
	if res.State != commit.Completed {
		// The service already told the user what happened
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Message)

	if !commitResult {
		return nil
	}
	repo := host.Repository()
	if repo == nil {
		return apperrors.ErrGitNotInitialized
	}
	if err := repo.Commit(cmd.Context(), res.Message); err != nil {
		return err
	}
	ui.NewSimpleProgress(cmd.ErrOrStderr()).Success("Changes committed")
	return nil
}
