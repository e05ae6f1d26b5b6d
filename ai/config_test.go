package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, cfg.EmbeddingHost, cfg.GeneratorHost)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://example.com"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithGeneratorModel("gpt-4o-mini"),
		WithTemperature(0.1),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://example.com/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://example.com/v1", cfg.GeneratorHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.GeneratorModel)
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"http://localhost:11434", "http://localhost:11434/v1"},
		{"http://localhost:11434/", "http://localhost:11434/v1"},
		{"http://localhost:11434/v1", "http://localhost:11434/v1"},
	}
	for _, tt := range tests {
		cfg := NewConfig(WithHost(tt.host))
		cfg.Normalize()
		assert.Equal(t, tt.want, cfg.EmbeddingHost, "host %q", tt.host)
		assert.Equal(t, tt.want, cfg.GeneratorHost, "host %q", tt.host)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("missing embedding model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EmbeddingModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing generator model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GeneratorModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("temperature out of range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Temperature = 3.0
		assert.Error(t, cfg.Validate())
	})
}

func TestIsRateLimited(t *testing.T) {
	assert.False(t, IsRateLimited(nil))
	assert.True(t, IsRateLimited(ErrRateLimited))
	assert.True(t, IsRateLimited(fmt.Errorf("wrapped: %w", ErrRateLimited)))
	assert.True(t, IsRateLimited(errors.New("API returned unexpected status code: 429")))
	assert.True(t, IsRateLimited(errors.New("rate limit exceeded, retry later")))
	assert.True(t, IsRateLimited(errors.New("RESOURCE EXHAUSTED")))
	assert.False(t, IsRateLimited(errors.New("connection refused")))
}
