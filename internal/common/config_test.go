package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, 300, config.Chunking.ChunkSize)
	assert.Equal(t, 50, config.Chunking.ChunkOverlap)
	assert.Equal(t, "gemini-embedding-001", config.Embedding.Model)
	assert.Equal(t, 768, config.Embedding.Dimension)
	assert.Equal(t, 3, config.Retrieval.TopK)
	assert.Equal(t, 10, config.Retrieval.MaxTopK)
	assert.NoError(t, config.Validate())
}

func TestLoadFromFiles(t *testing.T) {
	t.Run("File values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lectio.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9090

[chunking]
chunk_size = 400
`), 0644))

		config, err := LoadFromFiles(path)
		require.NoError(t, err)
		assert.Equal(t, 9090, config.Server.Port)
		assert.Equal(t, 400, config.Chunking.ChunkSize)
		assert.Equal(t, 50, config.Chunking.ChunkOverlap)
	})

	t.Run("Later files override earlier ones", func(t *testing.T) {
		dir := t.TempDir()
		first := filepath.Join(dir, "first.toml")
		second := filepath.Join(dir, "second.toml")
		require.NoError(t, os.WriteFile(first, []byte("[server]\nport = 9090\n"), 0644))
		require.NoError(t, os.WriteFile(second, []byte("[server]\nport = 7070\n"), 0644))

		config, err := LoadFromFiles(first, second)
		require.NoError(t, err)
		assert.Equal(t, 7070, config.Server.Port)
	})

	t.Run("Environment overrides files", func(t *testing.T) {
		t.Setenv("LECTIO_SERVER_PORT", "6060")
		t.Setenv("GEMINI_API_KEY", "test-gemini-key")

		path := filepath.Join(t.TempDir(), "lectio.toml")
		require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 9090\n"), 0644))

		config, err := LoadFromFiles(path)
		require.NoError(t, err)
		assert.Equal(t, 6060, config.Server.Port)
		assert.Equal(t, "test-gemini-key", config.Embedding.APIKey)
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		_, err := LoadFromFiles("/nonexistent/lectio.toml")
		assert.Error(t, err)
	})
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 5050, "0.0.0.0")
	assert.Equal(t, 5050, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)

	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 5050, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
}

func TestConfigValidate(t *testing.T) {
	t.Run("Overlap must stay below chunk size", func(t *testing.T) {
		config := NewDefaultConfig()
		config.Chunking.ChunkOverlap = config.Chunking.ChunkSize
		assert.Error(t, config.Validate())
	})

	t.Run("TopK must fit within max", func(t *testing.T) {
		config := NewDefaultConfig()
		config.Retrieval.TopK = 11
		assert.Error(t, config.Validate())
	})

	t.Run("Port bounds", func(t *testing.T) {
		config := NewDefaultConfig()
		config.Server.Port = -1
		assert.Error(t, config.Validate())
	})
}
