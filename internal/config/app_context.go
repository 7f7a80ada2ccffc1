// internal/config/app_context.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jasonKoogler/zcommit/internal/audit"
	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
	"github.com/jasonKoogler/zcommit/internal/llm"
	"github.com/jasonKoogler/zcommit/internal/logging"
	"github.com/jasonKoogler/zcommit/internal/security"
	"github.com/jasonKoogler/zcommit/internal/vault"
)

// AppContext holds application-wide components and services
type AppContext struct {
	ConfigDir     string
	ConfigManager *Manager
	Settings      *Settings
	Logger        logging.Logger
	AuditLogger   *audit.Logger
	Scanner       *security.Scanner
	CredentialMgr *vault.CredentialManager

	// APIKeyOverride comes from --api-key and lives only for this run
	APIKeyOverride string

	fileLogger *logging.ZeroLogger
}

// InitAppContext creates the config directory and the pieces that do not
// depend on flags. Load finishes the setup once flags are parsed.
func InitAppContext(configDir string) (*AppContext, error) {
	for _, dir := range []string{configDir, filepath.Join(configDir, "logs")} {
		if err := ensureDir(dir); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	cfgMgr, err := NewManager(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config manager: %w", err)
	}

	credMgr, err := vault.NewCredentialManager(configDir, CredentialService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	return &AppContext{
		ConfigDir:     configDir,
		ConfigManager: cfgMgr,
		CredentialMgr: credMgr,
		Logger:        logging.NewNullLogger(),
	}, nil
}

// Load reads the configuration and builds the services that depend on it
func (a *AppContext) Load(configFile string) error {
	if configFile != "" {
		a.ConfigManager.UseConfigFile(configFile)
	}
	if err := a.ConfigManager.Initialize(); err != nil {
		return err
	}

	settings, err := a.ConfigManager.Settings()
	if err != nil {
		return err
	}
	a.Settings = settings

	fileLogger, err := logging.NewFileLogger(filepath.Join(a.ConfigDir, "logs"), AppName, settings.Verbose)
	if err != nil {
		a.Logger = logging.NewConsoleLogger(settings.Verbose)
		a.Logger.Warn("file logging disabled: %v", err)
	} else {
		a.fileLogger = fileLogger
		a.Logger = fileLogger
	}

	a.AuditLogger, err = audit.NewLogger(a.ConfigDir, settings.Security.EnableAuditLogging)
	if err != nil {
		return fmt.Errorf("failed to initialize audit logger: %w", err)
	}

	if settings.Security.ScanForSensitiveData {
		a.Scanner = security.NewScanner()
	}
	return nil
}

// LLMConfig maps the settings onto the chat client configuration
func (a *AppContext) LLMConfig() llm.Config {
	if a.Settings == nil {
		return llm.DefaultConfig()
	}
	s := a.Settings.LLM
	return llm.Config{
		Endpoint:     s.Endpoint,
		Model:        s.Model,
		Temperature:  s.Temperature,
		MaxTokens:    s.MaxTokens,
		MaxDiffChars: s.MaxDiffChars,
		Timeout:      s.Timeout,
	}
}

// APIKey returns the key from the flag or the environment, then from the
// credential store. ErrAPIKeyMissing means the user has to provide one.
func (a *AppContext) APIKey() (string, error) {
	if a.APIKeyOverride != "" {
		return a.APIKeyOverride, nil
	}
	if key := a.ConfigManager.GetAPIKey(); key != "" {
		return key, nil
	}

	key, err := a.CredentialMgr.Retrieve(CredentialAccount)
	if err != nil {
		if errors.Is(err, apperrors.ErrAPIKeyMissing) {
			return "", apperrors.ErrAPIKeyMissing
		}
		return "", err
	}
	return key, nil
}

// StatusFile is where a running generation records its PID
func (a *AppContext) StatusFile() string {
	return filepath.Join(a.ConfigDir, "generating.pid")
}

// Close releases the log file
func (a *AppContext) Close() error {
	if a.fileLogger != nil {
		return a.fileLogger.Close()
	}
	return nil
}

// ensureDir creates a directory if it doesn't exist
func ensureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
