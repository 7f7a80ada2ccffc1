package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/jasonKoogler/zcommit/internal/config"
	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
)

var (
	setKeyCmd = &cobra.Command{
		Use:   "set-key",
		Short: "Store the Z.AI API key",
		RunE:  runSetKey,
	}

	clearKeyCmd = &cobra.Command{
		Use:   "clear-key",
		Short: "Remove the stored Z.AI API key",
		RunE:  runClearKey,
	}
)

func runSetKey(cmd *cobra.Command, args []string) error {
	key, err := promptAPIKey()
	if err != nil {
		return err
	}
	if key == "" {
		return nil
	}

	if err := appContext.CredentialMgr.Store(config.CredentialAccount, key); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Z.AI API key saved.")
	return nil
}

func runClearKey(cmd *cobra.Command, args []string) error {
	if err := appContext.CredentialMgr.Delete(config.CredentialAccount); err != nil {
		return fmt.Errorf("failed to clear API key: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Z.AI API key cleared.")
	return nil
}

// promptAPIKey asks for the key with masked input. An empty result means
// the user dismissed the prompt.
func promptAPIKey() (string, error) {
	prompt := promptui.Prompt{
		Label: "Enter your Z.AI API Key",
		Mask:  '*',
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("API key cannot be empty")
			}
			return nil
		},
	}

	key, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(key), nil
}

// resolveAPIKey returns the configured or stored key, prompting and storing
// a new one when allowed. An empty key with a nil error means there is
// nothing to do.
func resolveAPIKey(interactive bool) (string, error) {
	key, err := appContext.APIKey()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, apperrors.ErrAPIKeyMissing) {
		appContext.Logger.Warn("failed to read stored API key: %v", err)
	}
	if !interactive {
		return "", apperrors.ErrAPIKeyMissing
	}

	key, err = promptAPIKey()
	if err != nil || key == "" {
		return "", err
	}
	if err := appContext.CredentialMgr.Store(config.CredentialAccount, key); err != nil {
		appContext.Logger.Warn("failed to store API key: %v", err)
	}
	return key, nil
}
