// internal/config/constants.go
package config

import (
	"time"

	"github.com/jasonKoogler/zcommit/internal/llm"
)

// ConfigKeys define all configuration keys used in the application
const (
	// LLM Settings
	LLMEndpointKey     = "llm.endpoint"
	LLMModelKey        = "llm.model"
	LLMTemperatureKey  = "llm.temperature"
	LLMMaxTokensKey    = "llm.max_tokens"
	LLMTimeoutKey      = "llm.timeout"
	LLMMaxDiffCharsKey = "llm.max_diff_chars"
	LLMAPIKeyKey       = "llm.api_key"

	// Security Settings
	SecurityScanSensitiveDataKey = "security.scan_for_sensitive_data"
	SecurityAuditLoggingKey      = "security.enable_audit_logging"

	// UI Settings
	UITUIKey = "ui.tui"

	VerboseKey = "verbose"
)

// unsavedKeys never reach the config file
var unsavedKeys = map[string]bool{
	LLMAPIKeyKey: true,
}

// EnvVarNames defines all environment variable names
const (
	// Common prefix for all env vars
	EnvPrefix = "ZCOMMIT"

	// ZAIAPIKeyEnv overrides the stored credential when set
	ZAIAPIKeyEnv = "ZAI_API_KEY"
)

const (
	AppName = "zcommit"

	// CredentialService and CredentialAccount address the API key in the
	// keychain and the fallback file.
	CredentialService = "zcommit"
	CredentialAccount = "zai-tools.apiKey"

	DefaultEndpoint     = llm.DefaultEndpoint
	DefaultModel        = llm.DefaultModel
	DefaultTemperature  = llm.DefaultTemperature
	DefaultMaxTokens    = llm.DefaultMaxTokens
	DefaultMaxDiffChars = llm.MaxDiffChars
)

// DefaultValues contains default values for configuration
var DefaultValues = map[string]interface{}{
	LLMEndpointKey:     DefaultEndpoint,
	LLMModelKey:        DefaultModel,
	LLMTemperatureKey:  DefaultTemperature,
	LLMMaxTokensKey:    DefaultMaxTokens,
	LLMTimeoutKey:      time.Duration(0).String(),
	LLMMaxDiffCharsKey: DefaultMaxDiffChars,

	SecurityScanSensitiveDataKey: true,
	SecurityAuditLoggingKey:      true,

	UITUIKey: true,

	VerboseKey: false,
}
