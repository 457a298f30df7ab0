package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Completion CompletionConfig `yaml:"completion"`
	Validator  ValidatorConfig  `yaml:"validator"`
	Search     SearchConfig     `yaml:"search"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	History    HistoryConfig    `yaml:"history"`
	Log        LogConfig        `yaml:"log"`
	DevMode    bool             `yaml:"-"` // env-only
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// CorpusConfig locates the professor catalog. When Bucket is empty the
// catalog is read from Path; otherwise it is fetched from S3-compatible
// storage.
type CorpusConfig struct {
	Path      string `yaml:"path"`
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Object    string `yaml:"object"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"-"` // env-only, never in YAML
	SecretKey string `yaml:"-"` // env-only, never in YAML
	UseSSL    *bool  `yaml:"use_ssl"`
}

// CompletionConfig contains completion-service settings.
type CompletionConfig struct {
	APIKey       string   `yaml:"-"` // env-only, never in YAML
	BaseURL      string   `yaml:"base_url"`
	MatchModel   string   `yaml:"match_model"`
	SuggestModel string   `yaml:"suggest_model"`
	Timeout      Duration `yaml:"timeout"`
}

// ValidatorConfig carries the empirically tuned validation thresholds.
// The defaults mirror the production values; they are configuration,
// not law.
type ValidatorConfig struct {
	MinConfidence   float64 `yaml:"min_confidence"`
	MinWordValidity float64 `yaml:"min_word_validity"`
	MinRelevance    float64 `yaml:"min_relevance"`
	CleanWordBypass float64 `yaml:"clean_word_bypass"`
}

// SearchConfig contains retrieval bounds.
type SearchConfig struct {
	CorpusSlice int `yaml:"corpus_slice"` // records sent to the completion service
	SemanticCap int `yaml:"semantic_cap"` // max results from the semantic tier
	FallbackCap int `yaml:"fallback_cap"` // max results from the scored tier
}

// RateLimitConfig contains the sliding-window limiter settings.
type RateLimitConfig struct {
	MaxRequests int      `yaml:"max_requests"`
	Window      Duration `yaml:"window"`
}

// HistoryConfig contains search-history store settings.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	cfg := newDefaults()

	configPath := getEnv("PROFSCOUT_CONFIG_PATH", "config/profscout.yaml")

	// Missing file is not an error; we just use defaults
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Corpus: CorpusConfig{
			Path:   "data/professors.csv",
			Object: "professors.csv",
		},
		Completion: CompletionConfig{
			BaseURL:      "https://api.groq.com/openai/v1",
			MatchModel:   "llama3-70b-8192",
			SuggestModel: "llama3-70b-8192",
			Timeout:      Duration(10 * time.Second),
		},
		Validator: ValidatorConfig{
			MinConfidence:   0.4,
			MinWordValidity: 0.3,
			MinRelevance:    0.1,
			CleanWordBypass: 0.8,
		},
		Search: SearchConfig{
			CorpusSlice: 100,
			SemanticCap: 10,
			FallbackCap: 15,
		},
		RateLimit: RateLimitConfig{
			MaxRequests: 30,
			Window:      Duration(15 * time.Minute),
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "data/profscout.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// loadYAMLFile loads configuration from a YAML file if it exists.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("PROFSCOUT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PROFSCOUT_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = Duration(d)
		}
	}
	if v := os.Getenv("PROFSCOUT_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = Duration(d)
		}
	}
	if v := os.Getenv("PROFSCOUT_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = Duration(d)
		}
	}

	// Corpus
	if v := os.Getenv("PROFSCOUT_CORPUS_PATH"); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv("PROFSCOUT_CORPUS_ENDPOINT"); v != "" {
		cfg.Corpus.Endpoint = v
	}
	if v := os.Getenv("PROFSCOUT_CORPUS_BUCKET"); v != "" {
		cfg.Corpus.Bucket = v
	}
	if v := os.Getenv("PROFSCOUT_CORPUS_OBJECT"); v != "" {
		cfg.Corpus.Object = v
	}
	if v := os.Getenv("PROFSCOUT_CORPUS_ACCESS_KEY"); v != "" {
		cfg.Corpus.AccessKey = v
	}
	if v := os.Getenv("PROFSCOUT_CORPUS_SECRET_KEY"); v != "" {
		cfg.Corpus.SecretKey = v
	}

	// Completion (GROQ_API_KEY is the provider convention)
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.Completion.APIKey = v
	}
	if v := os.Getenv("PROFSCOUT_COMPLETION_BASE_URL"); v != "" {
		cfg.Completion.BaseURL = v
	}
	if v := os.Getenv("PROFSCOUT_MATCH_MODEL"); v != "" {
		cfg.Completion.MatchModel = v
	}
	if v := os.Getenv("PROFSCOUT_SUGGEST_MODEL"); v != "" {
		cfg.Completion.SuggestModel = v
	}
	if v := os.Getenv("PROFSCOUT_COMPLETION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Completion.Timeout = Duration(d)
		}
	}

	// Rate limit
	if v := os.Getenv("PROFSCOUT_RATE_LIMIT_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.MaxRequests = n
		}
	}
	if v := os.Getenv("PROFSCOUT_RATE_LIMIT_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RateLimit.Window = Duration(d)
		}
	}

	// History
	if v := os.Getenv("PROFSCOUT_HISTORY_ENABLED"); v != "" {
		cfg.History.Enabled = envBool(v)
	}
	if v := os.Getenv("PROFSCOUT_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}

	// Log
	if v := os.Getenv("PROFSCOUT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PROFSCOUT_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if v := os.Getenv("PROFSCOUT_DEV_MODE"); v != "" {
		cfg.DevMode = envBool(v)
	}
}

// envBool interprets boolean environment values; "true" and "1" enable.
func envBool(v string) bool {
	return v == "true" || v == "1"
}

// validate checks that required configuration values are set.
// In dev mode the completion API key may be absent; retrieval then runs
// on the deterministic tier only.
func (c *Config) validate() error {
	if c.Corpus.Path == "" && c.Corpus.Bucket == "" {
		return errors.New("corpus path or bucket is required")
	}
	if c.RateLimit.MaxRequests < 1 {
		return errors.New("rate_limit.max_requests must be >= 1")
	}
	if time.Duration(c.RateLimit.Window) <= 0 {
		return errors.New("rate_limit.window must be positive")
	}
	if c.DevMode {
		return nil
	}
	if c.Completion.APIKey == "" {
		return errors.New("GROQ_API_KEY is required")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
