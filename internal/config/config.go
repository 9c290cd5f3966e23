package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the luminate API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Course    CourseConfig    `yaml:"course"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Augment   AugmentConfig   `yaml:"augment"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	ChatModel  string `yaml:"chat_model"` // fallback classifier model
}

// CourseConfig holds the canonical URL construction settings.
type CourseConfig struct {
	URLBase string `yaml:"url_base"` // e.g. https://learn.example.edu
}

// IngestConfig holds chunking and extraction settings.
type IngestConfig struct {
	ChunkTargetTokens int `yaml:"chunk_target_tokens"`
	ChunkMinTokens    int `yaml:"chunk_min_tokens"`
	ChunkMaxTokens    int `yaml:"chunk_max_tokens"`
	Concurrency       int `yaml:"concurrency"`
}

// RetrievalConfig holds query-time retrieval settings.
type RetrievalConfig struct {
	NavigateTopN   int     `yaml:"navigate_top_n"`
	EducateTopK    int     `yaml:"educate_top_k"`
	DedupThreshold float64 `yaml:"dedup_threshold"`
	LinkBonus      float64 `yaml:"link_bonus"`
	HNSWM          int     `yaml:"hnsw_m"`
	HNSWEFConstr   int     `yaml:"hnsw_ef_construction"`
}

// AugmentConfig holds external content provider settings.
type AugmentConfig struct {
	TimeoutSec int      `yaml:"timeout_sec"`
	Endpoints  []string `yaml:"endpoints"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR} / ${VAR:-default}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// streaming responses hold the connection open
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Ingest.ChunkTargetTokens <= 0 {
		c.Ingest.ChunkTargetTokens = 650
	}
	if c.Ingest.ChunkMinTokens <= 0 {
		c.Ingest.ChunkMinTokens = 500
	}
	if c.Ingest.ChunkMaxTokens <= 0 {
		c.Ingest.ChunkMaxTokens = 800
	}
	if c.Ingest.Concurrency <= 0 {
		c.Ingest.Concurrency = 8
	}
	if c.Retrieval.NavigateTopN <= 0 {
		c.Retrieval.NavigateTopN = 10
	}
	if c.Retrieval.EducateTopK < 10 {
		c.Retrieval.EducateTopK = 10
	}
	if c.Retrieval.DedupThreshold <= 0 {
		c.Retrieval.DedupThreshold = 0.85
	}
	if c.Retrieval.LinkBonus <= 0 {
		c.Retrieval.LinkBonus = 0.05
	}
	if c.Retrieval.HNSWM <= 0 {
		c.Retrieval.HNSWM = 32
	}
	if c.Retrieval.HNSWEFConstr <= 0 {
		c.Retrieval.HNSWEFConstr = 400
	}
	if c.Augment.TimeoutSec <= 0 {
		c.Augment.TimeoutSec = 3
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Ingest.ChunkMinTokens > c.Ingest.ChunkTargetTokens ||
		c.Ingest.ChunkTargetTokens > c.Ingest.ChunkMaxTokens {
		return fmt.Errorf("ingest chunk bounds must satisfy min <= target <= max, got %d/%d/%d",
			c.Ingest.ChunkMinTokens, c.Ingest.ChunkTargetTokens, c.Ingest.ChunkMaxTokens)
	}
	if c.Retrieval.DedupThreshold > 1 {
		return fmt.Errorf("retrieval.dedup_threshold must be in (0,1], got %g", c.Retrieval.DedupThreshold)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
