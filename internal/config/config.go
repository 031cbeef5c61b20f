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

// Config holds the memovox configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Vector   VectorConfig   `yaml:"vector"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Auth     AuthConfig     `yaml:"auth"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Search   SearchConfig   `yaml:"search"`
	Logging  LoggingConfig  `yaml:"logging"`
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

// DatabaseConfig holds SQLite settings for the relational transcript store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// VectorConfig holds Redis vector store settings.
type VectorConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	HNSWM            int      `yaml:"hnsw_m"`
	HNSWEFConstruct  int      `yaml:"hnsw_ef_construction"`
	Dimensions       int      `yaml:"dimensions"`
}

// OpenAIConfig holds settings for the OpenAI-backed capabilities:
// embeddings, query parsing, transcription, answer generation and speech.
type OpenAIConfig struct {
	APIKey             string  `yaml:"api_key"`
	BaseURL            string  `yaml:"base_url"`
	EmbeddingModel     string  `yaml:"embedding_model"`
	ChatModel          string  `yaml:"chat_model"`
	TranscriptionModel string  `yaml:"transcription_model"`
	SpeechModel        string  `yaml:"speech_model"`
	SpeechVoice        string  `yaml:"speech_voice"`
	Temperature        float32 `yaml:"temperature"`
}

// IngestConfig holds ingestion pipeline settings.
type IngestConfig struct {
	Workers       int    `yaml:"workers"`
	TranscriptDir string `yaml:"transcript_dir"`
}

// SearchConfig holds retrieval settings.
type SearchConfig struct {
	MaxResults int `yaml:"max_results"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Path == "" {
		c.Database.Path = "memovox.db"
	}
	if c.Vector.ReadinessTimeout <= 0 {
		c.Vector.ReadinessTimeout = 10
	}
	if c.Vector.KeyPrefix == "" {
		c.Vector.KeyPrefix = "memovox:"
	}
	if c.Vector.HNSWM <= 0 {
		c.Vector.HNSWM = 32
	}
	if c.Vector.HNSWEFConstruct <= 0 {
		c.Vector.HNSWEFConstruct = 400
	}
	if c.Vector.Dimensions <= 0 {
		c.Vector.Dimensions = 1536
	}
	if c.OpenAI.EmbeddingModel == "" {
		c.OpenAI.EmbeddingModel = "text-embedding-3-small"
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o-mini"
	}
	if c.OpenAI.TranscriptionModel == "" {
		c.OpenAI.TranscriptionModel = "whisper-1"
	}
	if c.OpenAI.SpeechModel == "" {
		c.OpenAI.SpeechModel = "tts-1"
	}
	if c.OpenAI.SpeechVoice == "" {
		c.OpenAI.SpeechVoice = "alloy"
	}
	if c.OpenAI.Temperature <= 0 {
		c.OpenAI.Temperature = 0.7
	}
	if c.Ingest.Workers <= 0 {
		c.Ingest.Workers = 4
	}
	if c.Ingest.TranscriptDir == "" {
		c.Ingest.TranscriptDir = "transcripts"
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Vector.Addrs) == 0 {
		return fmt.Errorf("vector.addrs is required")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
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
