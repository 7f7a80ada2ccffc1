package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasonKoogler/zcommit/internal/config"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage zcommit configuration",
	}

	configViewCmd = &cobra.Command{
		Use:   "view",
		Short: "View current configuration",
		RunE:  runConfigView,
	}

	configSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Update configuration values",
		RunE:  runConfigSet,
	}
)

func init() {
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configSetCmd)

	configSetCmd.Flags().String("endpoint", "", "chat completions endpoint URL")
	configSetCmd.Flags().String("model", "", "model name (e.g. glm-4.7-flash)")
	configSetCmd.Flags().Float64("temperature", 0, "sampling temperature (0.0-2.0)")
	configSetCmd.Flags().Int("max-tokens", 0, "maximum number of tokens for the response")
	configSetCmd.Flags().Duration("timeout", 0, "request timeout, 0 for none")
	configSetCmd.Flags().Int("max-diff-chars", 0, "diff length sent before truncation")
	configSetCmd.Flags().Bool("scan", true, "warn about secrets in the diff")
	configSetCmd.Flags().Bool("audit", true, "record generations in the audit log")
	configSetCmd.Flags().Bool("tui", true, "use the interactive view in terminals")
}

func runConfigView(cmd *cobra.Command, args []string) error {
	if appContext == nil || appContext.ConfigManager == nil {
		return fmt.Errorf("configuration manager not initialized")
	}

	data, err := appContext.ConfigManager.ExportYAML()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config file: %s\n\n", appContext.ConfigManager.ConfigFile)
	fmt.Fprint(out, string(data))

	fmt.Fprintln(out, "\nSecurity Note:")
	fmt.Fprintln(out, "The API key is kept in the system keychain (zcommit set-key).")
	fmt.Fprintf(out, "Set %s to override it for a single run.\n", config.ZAIAPIKeyEnv)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if appContext == nil || appContext.ConfigManager == nil {
		return fmt.Errorf("configuration manager not initialized")
	}
	m := appContext.ConfigManager
	flags := cmd.Flags()

	type binding struct {
		flag string
		key  string
		get  func(string) (interface{}, error)
	}
	str := func(name string) (interface{}, error) { return flags.GetString(name) }
	num := func(name string) (interface{}, error) { return flags.GetInt(name) }
	flt := func(name string) (interface{}, error) { return flags.GetFloat64(name) }
	bln := func(name string) (interface{}, error) { return flags.GetBool(name) }
	dur := func(name string) (interface{}, error) {
		d, err := flags.GetDuration(name)
		return d.String(), err
	}

	bindings := []binding{
		{"endpoint", config.LLMEndpointKey, str},
		{"model", config.LLMModelKey, str},
		{"temperature", config.LLMTemperatureKey, flt},
		{"max-tokens", config.LLMMaxTokensKey, num},
		{"timeout", config.LLMTimeoutKey, dur},
		{"max-diff-chars", config.LLMMaxDiffCharsKey, num},
		{"scan", config.SecurityScanSensitiveDataKey, bln},
		{"audit", config.SecurityAuditLoggingKey, bln},
		{"tui", config.UITUIKey, bln},
	}

	modified := false
	for _, b := range bindings {
		if !flags.Changed(b.flag) {
			continue
		}
		value, err := b.get(b.flag)
		if err != nil {
			return err
		}
		m.Set(b.key, value)
		modified = true
	}

	if !modified {
		fmt.Fprintln(cmd.OutOrStdout(), "No changes made to configuration.")
		return nil
	}

	// Reject the change before it reaches the file
	if _, err := m.Settings(); err != nil {
		return err
	}
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Configuration updated.")
	return nil
}
