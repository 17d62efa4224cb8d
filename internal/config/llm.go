package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pantryops/aisleflow/internal/common"
	"github.com/pantryops/aisleflow/internal/llm"
	"github.com/spf13/viper"
)

// Environment variables consulted per provider when the config file
// carries no API key.
var providerKeyEnvVars = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// LoadLLMConfig assembles the fallback classifier configuration. It
// follows this precedence:
// 1. Viper configuration (from config file or AISLEFLOW_ env vars)
// 2. Provider-specific environment variables (OPENAI_API_KEY etc.)
//
// A missing API key is reported as common.ErrMissingConfig so callers can
// run with the fallback disabled instead of aborting.
func LoadLLMConfig() (*llm.Config, error) {
	cfg := llm.Config{
		Provider:    viper.GetString("llm.provider"),
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	cfg.Provider = strings.ToLower(cfg.Provider)

	envVar, ok := providerKeyEnvVars[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported llm provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(envVar)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key for provider %q (set llm.api_key or %s)",
			common.ErrMissingConfig, cfg.Provider, envVar)
	}

	return &cfg, nil
}
