package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/abdul-hamid-achik/floatai/internal/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider names the AI backend a session talks to
type Provider string

const (
	ProviderOpenAI    Provider = "openai"    // OpenAI-compatible /chat/completions (NVIDIA Integrate by default)
	ProviderAnthropic Provider = "anthropic" // Anthropic Messages API
	ProviderGemini    Provider = "gemini"    // Google Gemini API
)

// DefaultBaseURL is the OpenAI-compatible endpoint used when none is configured.
const DefaultBaseURL = "https://integrate.api.nvidia.com/v1"

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	MaxRetries         int           `yaml:"max_retries"`          // Maximum retries on retryable backend errors
	BaseDelay          time.Duration `yaml:"base_delay"`           // Base delay for exponential backoff
	MaxDelay           time.Duration `yaml:"max_delay"`            // Maximum delay between retries
	RequestsPerMinute  int           `yaml:"requests_per_minute"`  // Proactive request budget
	EnableRateLimiting bool          `yaml:"enable_rate_limiting"` // Wrap the backend with the limiter
}

// Config holds the application configuration
type Config struct {
	APIKey             string          `yaml:"-"` // From environment only
	Provider           Provider        `yaml:"provider"`
	BaseURL            string          `yaml:"base_url,omitempty"`
	Models             []string        `yaml:"models,omitempty"`
	MaxTokens          int             `yaml:"max_tokens"`
	Temperature        float64         `yaml:"temperature"`
	DataDir            string          `yaml:"data_dir"`
	MemoryContextChars int             `yaml:"memory_context_chars"`
	RequestTimeout     time.Duration   `yaml:"request_timeout"`
	RateLimit          RateLimitConfig `yaml:"rate_limit"`

	// Internal: where config was loaded from
	configPath string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Provider:           ProviderOpenAI,
		MaxTokens:          1000,
		Temperature:        0.7,
		DataDir:            "features",
		MemoryContextChars: 10000,
		RequestTimeout:     2 * time.Minute,
		RateLimit: RateLimitConfig{
			MaxRetries:         2,
			BaseDelay:          1 * time.Second,
			MaxDelay:           20 * time.Second,
			RequestsPerMinute:  30,
			EnableRateLimiting: true,
		},
	}
}

// LoadOptions overrides parts of the loaded configuration
type LoadOptions struct {
	ConfigFile   string   // Use only this file instead of the search paths
	EnvFile      string   // Dotenv file to read before resolving keys (default ".env")
	Provider     Provider // Overrides the configured provider
	Model        string   // Selected first, ahead of the configured models
	DataDir      string   // Overrides the configured data directory
	WriteDefault bool     // Create .floatai/config.yaml when no config exists
	SkipAPIKey   bool     // Do not require an API key (e.g. for "models list")
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{WriteDefault: true})
}

// LoadWithOptions loads configuration and applies overrides
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	cfg := DefaultConfig()

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	// Variables already set in the environment win over the file
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.ConfigLoadFailed(envFile, err)
	}

	if opts.ConfigFile != "" {
		if err := cfg.loadFromFile(opts.ConfigFile); err != nil {
			return nil, apperrors.ConfigLoadFailed(opts.ConfigFile, err)
		}
		cfg.configPath = opts.ConfigFile
	} else {
		for _, path := range getConfigPaths() {
			if _, err := os.Stat(path); err == nil {
				if err := cfg.loadFromFile(path); err != nil {
					return nil, apperrors.ConfigLoadFailed(path, err)
				}
				cfg.configPath = path
				break
			}
		}
	}

	// If no config found, create default
	if cfg.configPath == "" && opts.WriteDefault {
		if err := cfg.createDefault(); err != nil {
			// Non-fatal: just use defaults
			fmt.Fprintf(os.Stderr, "Warning: could not create default config: %v\n", err)
		}
	}

	if opts.Provider != "" {
		cfg.Provider = opts.Provider
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	cfg.applyModelOverrides(opts.Model)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !opts.SkipAPIKey {
		key, vars := apiKeyFromEnv(cfg.Provider)
		if key == "" {
			return nil, apperrors.MissingAPIKey(string(cfg.Provider), vars...)
		}
		cfg.APIKey = key
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail later at request time
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		return apperrors.UnknownProvider(string(c.Provider))
	}
	if c.MaxTokens <= 0 {
		return apperrors.ConfigLoadFailed(c.configPath, fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens))
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return apperrors.ConfigLoadFailed(c.configPath, fmt.Errorf("data_dir must not be empty"))
	}
	return nil
}

// applyModelOverrides puts NVIDIA_MODEL and an explicit model ahead of the list
func (c *Config) applyModelOverrides(model string) {
	if env := strings.TrimSpace(os.Getenv("NVIDIA_MODEL")); env != "" && c.Provider == ProviderOpenAI {
		c.Models = []string{env}
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return
	}
	models := []string{model}
	for _, m := range c.Models {
		if m != model {
			models = append(models, m)
		}
	}
	c.Models = models
}

// apiKeyFromEnv returns the key for a provider and the variables it checks, in priority order
func apiKeyFromEnv(p Provider) (string, []string) {
	var vars []string
	switch p {
	case ProviderAnthropic:
		vars = []string{"ANTHROPIC_API_KEY"}
	case ProviderGemini:
		vars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	default:
		vars = []string{"NVIDIA_API_KEY", "OPENAI_API_KEY"}
	}
	for _, v := range vars {
		if key := strings.TrimSpace(os.Getenv(v)); key != "" {
			return key, vars
		}
	}
	return "", vars
}

// getConfigPaths returns config file paths in priority order
func getConfigPaths() []string {
	paths := []string{
		"floatai.yaml",
		".floatai/config.yaml",
	}

	// Add user config directory
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "floatai", "config.yaml"))
	}

	return paths
}

// loadFromFile loads config from a YAML file
func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// createDefault creates a default config file
func (c *Config) createDefault() error {
	dir := ".floatai"
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(dir, "config.yaml")
	c.configPath = path

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	content := "# floatai configuration\n# provider: openai | anthropic | gemini\n\n" + string(data)
	return os.WriteFile(path, []byte(content), 0644)
}

// ModelList returns the selectable models, falling back to the provider defaults
func (c *Config) ModelList() []string {
	if len(c.Models) > 0 {
		return c.Models
	}
	switch c.Provider {
	case ProviderAnthropic:
		return []string{"claude-sonnet-4-5-20250929", "claude-haiku-4-5-20251015"}
	case ProviderGemini:
		return []string{"gemini-2.5-flash", "gemini-2.5-pro"}
	default:
		return []string{"nvidia/nemotron-3-8b-instruct"}
	}
}

// GetDefaultModel returns the first selectable model
func (c *Config) GetDefaultModel() string {
	return c.ModelList()[0]
}

// GetBaseURL returns the OpenAI-compatible endpoint
func (c *Config) GetBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return DefaultBaseURL
}

// ConfigPath returns where the config was loaded from
func (c *Config) ConfigPath() string {
	return c.configPath
}
