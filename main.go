package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/jasonKoogler/zcommit/cmd"
	"github.com/jasonKoogler/zcommit/internal/config"
)

// Version information - will be set during build time via -ldflags
var version = "dev"

func main() {
	home, err := homedir.Dir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	configDir := filepath.Join(home, "."+config.AppName)
	if dir := os.Getenv(config.EnvPrefix + "_CONFIG_DIR"); dir != "" {
		configDir = dir
	}

	appCtx, err := config.InitAppContext(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing application: %v\n", err)
		os.Exit(1)
	}

	cmd.SetVersion(version)

	if err := cmd.Execute(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
