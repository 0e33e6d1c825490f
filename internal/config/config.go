package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/resindex/internal/domain"
)

// Store drivers.
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
)

const (
	defaultThrottleMS = 50
	defaultThreshold  = 0.3
)

//go:embed default.yaml
var defaultConfig []byte

// Config holds the resindex configuration.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	Store     StoreConfig     `yaml:"store"`
	Cache     CacheConfig     `yaml:"cache"`
	Indexer   IndexerConfig   `yaml:"indexer"`
	Query     QueryConfig     `yaml:"query"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// StoreConfig holds catalog backend settings.
type StoreConfig struct {
	Driver           string `yaml:"driver"` // supabase, postgres (default: supabase)
	URL              string `yaml:"url"`
	Key              string `yaml:"key"`
	DSN              string `yaml:"dsn"`
	ResourcesTable   string `yaml:"resources_table"`
	EmbeddingsTable  string `yaml:"embeddings_table"`
	MatchFunction    string `yaml:"match_function"`
	TimeoutSec       int    `yaml:"timeout_sec"`
	ReadinessTimeout int    `yaml:"readiness_timeout_sec"`
}

// CacheConfig holds embedding cache settings. Empty addrs disables the cache.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLHours int      `yaml:"ttl_hours"` // 0 = no expiry
}

// IndexerConfig holds indexing run settings.
type IndexerConfig struct {
	ThrottleMS *int `yaml:"throttle_ms"` // nil = default, 0 = disabled
}

// QueryConfig holds query mode settings.
type QueryConfig struct {
	DefaultText   string   `yaml:"default_text"`
	Threshold     *float64 `yaml:"threshold"` // nil = default, 0 = no minimum
	Limit         int      `yaml:"limit"`
	InferCategory bool     `yaml:"infer_category"`
}

// MetricsConfig holds the metrics server settings. Port 0 disables the server.
type MetricsConfig struct {
	Port int `yaml:"port"`
}

// Load reads configuration for an environment name (local, dev, prod).
// A .env file is loaded first; variables already set in the process win.
// When config/<env>.yaml is absent the embedded default template is used.
func Load(env string) (Config, error) {
	loadDotEnv()

	data, err := readConfig(env)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
func Parse(data []byte) (Config, error) {
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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Embedding.Model == "" {
		c.Embedding.Model = domain.DefaultVectorConfig().Model
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverSupabase
	}
	if c.Store.ResourcesTable == "" {
		c.Store.ResourcesTable = "resources"
	}
	if c.Store.EmbeddingsTable == "" {
		c.Store.EmbeddingsTable = "resource_embeddings"
	}
	if c.Store.MatchFunction == "" {
		c.Store.MatchFunction = "match_resources"
	}
	if c.Store.TimeoutSec <= 0 {
		c.Store.TimeoutSec = 30
	}
	if c.Store.ReadinessTimeout <= 0 {
		c.Store.ReadinessTimeout = 10
	}
	if c.Indexer.ThrottleMS == nil {
		ms := defaultThrottleMS
		c.Indexer.ThrottleMS = &ms
	}
	if c.Query.DefaultText == "" {
		c.Query.DefaultText = "PhD scholarships in Computer Science"
	}
	if c.Query.Threshold == nil {
		th := defaultThreshold
		c.Query.Threshold = &th
	}
	if c.Query.Limit <= 0 {
		c.Query.Limit = 5
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required (OPENAI_API_KEY)")
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must be >= 0, got %d", c.Embedding.Dimensions)
	}

	switch c.Store.Driver {
	case DriverSupabase:
		if c.Store.URL == "" || c.Store.Key == "" {
			return fmt.Errorf("store.url and store.key are required for %s (SUPABASE_URL, SUPABASE_KEY)", DriverSupabase)
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for %s (DATABASE_URL)", DriverPostgres)
		}
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", DriverSupabase, DriverPostgres, c.Store.Driver)
	}

	if c.Cache.TTLHours < 0 {
		return fmt.Errorf("cache.ttl_hours must be >= 0, got %d", c.Cache.TTLHours)
	}
	if c.Indexer.ThrottleMS != nil && *c.Indexer.ThrottleMS < 0 {
		return fmt.Errorf("indexer.throttle_ms must be >= 0, got %d", *c.Indexer.ThrottleMS)
	}
	if th := c.Query.Threshold; th != nil && (*th < 0 || *th > 1) {
		return fmt.Errorf("query.threshold must be between 0 and 1, got %v", *th)
	}
	if c.Metrics.Port < 0 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 0 and 65535, got %d", c.Metrics.Port)
	}
	return nil
}

// Throttle returns the pause between embedding requests.
func (c IndexerConfig) Throttle() time.Duration {
	if c.ThrottleMS == nil {
		return defaultThrottleMS * time.Millisecond
	}
	return time.Duration(*c.ThrottleMS) * time.Millisecond
}

// MinSimilarity returns the match threshold.
func (c QueryConfig) MinSimilarity() float64 {
	if c.Threshold == nil {
		return defaultThreshold
	}
	return *c.Threshold
}

// Timeout returns the per-request store timeout.
func (c StoreConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// TTL returns the cache entry lifetime, zero meaning no expiry.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// Enabled reports whether the embedding cache is configured.
func (c CacheConfig) Enabled() bool {
	return len(c.Addrs) > 0
}

func loadDotEnv() {
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			return
		}
	}
}

func readConfig(env string) ([]byte, error) {
	configPath, ok := findConfigPath(env)
	if !ok {
		return defaultConfig, nil
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultConfig, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return data, nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) (string, bool) {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path, true
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path, true
	}

	return "", false
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
