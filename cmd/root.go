package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jasonKoogler/zcommit/internal/config"
)

var (
	cfgFile    string
	verbose    bool
	apiKey     string
	appContext *config.AppContext

	rootCmd = &cobra.Command{
		Use:   "zcommit",
		Short: "Generate conventional commit messages with Z.AI",
		Long: `zcommit reads your git changes and asks a Z.AI chat model for a
single-line conventional commit subject, animating the message field while
it waits.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

// Execute executes the root command
func Execute(ctx *config.AppContext) error {
	appContext = ctx
	defer appContext.Close()
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.zcommit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Z.AI API key (overrides the stored key)")

	// Bind flags to viper. The API key stays out so it is never saved.
	viper.BindPFlag(config.VerboseKey, rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(setKeyCmd)
	rootCmd.AddCommand(clearKeyCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(installHookCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file once flags are parsed
func loadConfig(cmd *cobra.Command, args []string) error {
	if appContext == nil {
		return fmt.Errorf("application context not initialized")
	}
	if err := appContext.Load(cfgFile); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	appContext.APIKeyOverride = apiKey
	appContext.Logger.Debug("running %s", cmd.CommandPath())
	return nil
}
