package config

import (
	"errors"
	"testing"

	"github.com/pantryops/aisleflow/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadLLMConfigFromViper(t *testing.T) {
	resetViper(t)
	viper.Set("llm.provider", "Anthropic")
	viper.Set("llm.api_key", "sk-test")
	viper.Set("llm.model", "claude-3-5-haiku-latest")

	cfg, err := LoadLLMConfig()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.Model)
}

func TestLoadLLMConfigEnvFallback(t *testing.T) {
	resetViper(t)
	viper.Set("llm.provider", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := LoadLLMConfig()
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.APIKey)
}

func TestLoadLLMConfigMissingKey(t *testing.T) {
	resetViper(t)
	viper.Set("llm.provider", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := LoadLLMConfig()
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrMissingConfig))
}

func TestLoadLLMConfigUnknownProvider(t *testing.T) {
	resetViper(t)
	viper.Set("llm.provider", "parrot")

	_, err := LoadLLMConfig()
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidConfig))
}
