package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Chunking    ChunkingConfig  `toml:"chunking"`
	Embedding   EmbeddingConfig `toml:"embedding"`
	Retrieval   RetrievalConfig `toml:"retrieval"`
	Claude      ClaudeConfig    `toml:"claude"`
	Logging     LoggingConfig   `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger     BadgerConfig     `toml:"badger"`
	Filesystem FilesystemConfig `toml:"filesystem"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type FilesystemConfig struct {
	Documents string `toml:"documents"` // Directory for uploaded document files
}

// ChunkingConfig controls how extracted page text is split for indexing
type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size"`    // Soft upper bound on chunk length in characters
	ChunkOverlap int `toml:"chunk_overlap"` // Overlap between adjacent chunks from the same paragraph
}

// EmbeddingConfig contains configuration for the Gemini embedding model
type EmbeddingConfig struct {
	APIKey    string `toml:"api_key"`   // Gemini API key (GEMINI_API_KEY or config)
	Model     string `toml:"model"`     // Embedding model name
	Dimension int    `toml:"dimension"` // Output vector dimensionality
	Timeout   string `toml:"timeout"`   // Per-request timeout, e.g. "30s"
}

// RetrievalConfig controls search behavior
type RetrievalConfig struct {
	TopK    int `toml:"top_k"`     // Default number of chunks retrieved per query
	MaxTopK int `toml:"max_top_k"` // Upper bound accepted from callers
}

// ClaudeConfig contains Anthropic Claude configuration for answer generation
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // User must provide API key (ANTHROPIC_API_KEY or config)
	Model       string  `toml:"model"`       // Model for answer generation
	MaxTokens   int     `toml:"max_tokens"`  // Max tokens per completion
	Timeout     string  `toml:"timeout"`     // Client-side timeout for generation calls
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between API calls
	Temperature float32 `toml:"temperature"` // Sampling temperature
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in lectio.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/index",
			},
			Filesystem: FilesystemConfig{
				Documents: "./data/documents",
			},
		},
		Chunking: ChunkingConfig{
			ChunkSize:    300, // Characters, soft bound - a single long word may exceed it
			ChunkOverlap: 50,
		},
		Embedding: EmbeddingConfig{
			APIKey:    "", // User must provide API key (no fallback)
			Model:     "gemini-embedding-001",
			Dimension: 768,
			Timeout:   "30s",
		},
		Retrieval: RetrievalConfig{
			TopK:    3,
			MaxTopK: 10,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   1024,
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files. Later files override
// earlier files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LECTIO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("LECTIO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LECTIO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if path := os.Getenv("LECTIO_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if dir := os.Getenv("LECTIO_DOCUMENTS_DIR"); dir != "" {
		config.Storage.Filesystem.Documents = dir
	}

	if size := os.Getenv("LECTIO_CHUNK_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			config.Chunking.ChunkSize = n
		}
	}
	if overlap := os.Getenv("LECTIO_CHUNK_OVERLAP"); overlap != "" {
		if n, err := strconv.Atoi(overlap); err == nil && n >= 0 {
			config.Chunking.ChunkOverlap = n
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Embedding.APIKey = key
	}
	if model := os.Getenv("LECTIO_EMBEDDING_MODEL"); model != "" {
		config.Embedding.Model = model
	}
	if dim := os.Getenv("LECTIO_EMBEDDING_DIMENSION"); dim != "" {
		if n, err := strconv.Atoi(dim); err == nil && n > 0 {
			config.Embedding.Dimension = n
		}
	}

	if topK := os.Getenv("LECTIO_TOP_K"); topK != "" {
		if n, err := strconv.Atoi(topK); err == nil && n > 0 {
			config.Retrieval.TopK = n
		}
	}

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if model := os.Getenv("LECTIO_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	if level := os.Getenv("LECTIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks configuration invariants that cannot be defaulted away
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap < 0 || c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", c.Chunking.ChunkOverlap)
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embedding.Dimension)
	}
	if c.Retrieval.MaxTopK <= 0 {
		return fmt.Errorf("max_top_k must be positive, got %d", c.Retrieval.MaxTopK)
	}
	if c.Retrieval.TopK <= 0 || c.Retrieval.TopK > c.Retrieval.MaxTopK {
		return fmt.Errorf("top_k must be in [1, %d], got %d", c.Retrieval.MaxTopK, c.Retrieval.TopK)
	}
	return nil
}
