// internal/config/manager.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	apperrors "github.com/jasonKoogler/zcommit/internal/errors"
)

// Manager provides a centralized interface for configuration management
type Manager struct {
	ConfigDir  string
	ConfigFile string

	v *viper.Viper
}

// Settings is the typed view of the configuration used to build services.
type Settings struct {
	LLM      LLMSettings      `yaml:"llm" validate:"required"`
	Security SecuritySettings `yaml:"security"`
	UI       UISettings       `yaml:"ui"`
	Verbose  bool             `yaml:"verbose"`
}

type LLMSettings struct {
	Endpoint     string        `yaml:"endpoint" validate:"required,url"`
	Model        string        `yaml:"model" validate:"required"`
	Temperature  float64       `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens    int           `yaml:"max_tokens" validate:"gt=0"`
	Timeout      time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxDiffChars int           `yaml:"max_diff_chars" validate:"gt=0"`
}

type SecuritySettings struct {
	ScanForSensitiveData bool `yaml:"scan_for_sensitive_data"`
	EnableAuditLogging   bool `yaml:"enable_audit_logging"`
}

type UISettings struct {
	TUI bool `yaml:"tui"`
}

// NewManager creates a configuration manager backed by the global viper
// instance, so flags bound in cmd are visible.
func NewManager(configDir string) (*Manager, error) {
	return newManager(configDir, viper.GetViper())
}

func newManager(configDir string, v *viper.Viper) (*Manager, error) {
	// Ensure config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	return &Manager{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, "config.yaml"),
		v:          v,
	}, nil
}

// Initialize sets up the configuration system
func (m *Manager) Initialize() error {
	m.v.SetConfigFile(m.ConfigFile)
	m.v.SetConfigType("yaml")

	m.v.SetEnvPrefix(EnvPrefix)
	m.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.v.AutomaticEnv()

	for key, value := range DefaultValues {
		m.v.SetDefault(key, value)
	}

	if err := m.v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(m.ConfigFile); os.IsNotExist(statErr) {
			// No config yet, write the defaults
			if err := m.persisted().SafeWriteConfigAs(m.ConfigFile); err != nil {
				return fmt.Errorf("failed to create default config file: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// UseConfigFile points the manager at an explicit config file
func (m *Manager) UseConfigFile(path string) {
	m.ConfigFile = path
}

// Get retrieves a configuration value by key
func (m *Manager) Get(key string) interface{} {
	return m.v.Get(key)
}

// GetString retrieves a string configuration value
func (m *Manager) GetString(key string) string {
	return m.v.GetString(key)
}

// GetInt retrieves an integer configuration value
func (m *Manager) GetInt(key string) int {
	return m.v.GetInt(key)
}

// GetBool retrieves a boolean configuration value
func (m *Manager) GetBool(key string) bool {
	return m.v.GetBool(key)
}

// GetFloat64 retrieves a float configuration value
func (m *Manager) GetFloat64(key string) float64 {
	return m.v.GetFloat64(key)
}

// Set updates a configuration value
func (m *Manager) Set(key string, value interface{}) {
	m.v.Set(key, value)
}

// Save persists the current configuration to disk
func (m *Manager) Save() error {
	return m.persisted().WriteConfigAs(m.ConfigFile)
}

// persisted copies every key that belongs in the config file
func (m *Manager) persisted() *viper.Viper {
	out := viper.New()
	out.SetConfigType("yaml")
	for _, key := range m.v.AllKeys() {
		if unsavedKeys[key] {
			continue
		}
		out.Set(key, m.v.Get(key))
	}
	return out
}

// GetAPIKey returns the key from the environment. The config file is never
// a source, so a rejected key cannot outlive the credential store.
func (m *Manager) GetAPIKey() string {
	return os.Getenv(ZAIAPIKeyEnv)
}

// Settings builds and validates the typed configuration
func (m *Manager) Settings() (*Settings, error) {
	s := &Settings{
		LLM: LLMSettings{
			Endpoint:     m.v.GetString(LLMEndpointKey),
			Model:        m.v.GetString(LLMModelKey),
			Temperature:  m.v.GetFloat64(LLMTemperatureKey),
			MaxTokens:    m.v.GetInt(LLMMaxTokensKey),
			Timeout:      m.v.GetDuration(LLMTimeoutKey),
			MaxDiffChars: m.v.GetInt(LLMMaxDiffCharsKey),
		},
		Security: SecuritySettings{
			ScanForSensitiveData: m.v.GetBool(SecurityScanSensitiveDataKey),
			EnableAuditLogging:   m.v.GetBool(SecurityAuditLoggingKey),
		},
		UI: UISettings{
			TUI: m.v.GetBool(UITUIKey),
		},
		Verbose: m.v.GetBool(VerboseKey),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings against their constraints
func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrConfigInvalid, err)
	}
	return nil
}

// ExportYAML renders the effective settings, without secrets
func (m *Manager) ExportYAML() ([]byte, error) {
	s, err := m.Settings()
	if err != nil {
		return nil, err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config data: %w", err)
	}
	return data, nil
}
