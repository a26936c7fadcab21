package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/insightlib/quill/internal/domain"
)

// Config holds the quill API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Auth      AuthConfig      `yaml:"auth"`
	Pools     PoolsConfig     `yaml:"pools"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"` // empty list disables auth
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	// MaxAttempts must stay 1: a failed embedding call fails the request
	// rather than retrying against a paid provider.
	MaxAttempts int `yaml:"max_attempts"`
	CacheTTLSec int `yaml:"cache_ttl_sec"` // 0 = no expiry
}

// PoolConfig describes one searchable content pool.
type PoolConfig struct {
	IndexName    string   `yaml:"index_name"`
	KeyPrefix    string   `yaml:"key_prefix"`
	Threshold    float64  `yaml:"threshold"`
	ReturnFields []string `yaml:"return_fields"`
}

// PoolsConfig holds the four content pools.
type PoolsConfig struct {
	Quotes    PoolConfig `yaml:"quotes"`
	Quotables PoolConfig `yaml:"quotables"`
	Images    PoolConfig `yaml:"images"`
	Knowledge PoolConfig `yaml:"knowledge"`
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
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.Embedding.MaxAttempts <= 0 {
		c.Embedding.MaxAttempts = 1
	}

	applyPoolDefaults(&c.Pools.Quotes, "quotes_idx", domain.KeyPrefix+"quote:", 0.40,
		[]string{"text", "attribution"})
	applyPoolDefaults(&c.Pools.Quotables, "knowledge_idx", domain.KeyPrefix+"item:", 0.30,
		[]string{"quotables", "title"})
	applyPoolDefaults(&c.Pools.Images, "images_idx", domain.KeyPrefix+"image:", 0.35,
		[]string{"title", "chart_type"})
	applyPoolDefaults(&c.Pools.Knowledge, "knowledge_idx", domain.KeyPrefix+"item:", 0.30,
		[]string{"title", "description"})
}

func applyPoolDefaults(p *PoolConfig, index, prefix string, threshold float64, fields []string) {
	if p.IndexName == "" {
		p.IndexName = index
	}
	if p.KeyPrefix == "" {
		p.KeyPrefix = prefix
	}
	if p.Threshold <= 0 {
		p.Threshold = threshold
	}
	if len(p.ReturnFields) == 0 {
		p.ReturnFields = fields
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
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required")
	}
	if c.Embedding.MaxAttempts != 1 {
		return fmt.Errorf("embedding.max_attempts must be 1 (retries are not supported), got %d",
			c.Embedding.MaxAttempts)
	}
	for name, p := range map[string]PoolConfig{
		"quotes":    c.Pools.Quotes,
		"quotables": c.Pools.Quotables,
		"images":    c.Pools.Images,
		"knowledge": c.Pools.Knowledge,
	} {
		if p.Threshold < 0 || p.Threshold > 1 {
			return fmt.Errorf("pools.%s.threshold must be in [0, 1], got %g", name, p.Threshold)
		}
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
