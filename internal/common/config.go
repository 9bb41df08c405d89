package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/prospecto/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Storage     StorageConfig  `toml:"storage"`
	Logging     LoggingConfig  `toml:"logging"`
	Gemini      GeminiConfig   `toml:"gemini"`
	Claude      ClaudeConfig   `toml:"claude"`
	LLM         LLMConfig      `toml:"llm"`
	Cache       CacheConfig    `toml:"cache"`
	Refresh     RefreshConfig  `toml:"refresh"`
	Research    ResearchConfig `toml:"research"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// GeminiConfig contains Google Gemini API configuration for research generation
type GeminiConfig struct {
	APIKey       string  `toml:"api_key"`        // Google Gemini API key
	Model        string  `toml:"model"`          // Model for research reports (default: "gemini-3-flash-preview")
	FastModel    string  `toml:"fast_model"`     // Low-latency model for the first chat phase (default: "gemini-2.0-flash-lite")
	Timeout      string  `toml:"timeout"`        // Operation timeout as duration string (default: "3m")
	RateLimit    string  `toml:"rate_limit"`     // Rate limit duration string (default: "4s" for 15 RPM)
	Temperature  float32 `toml:"temperature"`    // Generation temperature (default: 0.3)
	EnableSearch bool    `toml:"enable_search"`  // Ground report generation with Google Search (default: true)
	MaxAttempts  int     `toml:"max_attempts"`   // Max attempts per model call including retries (default: 3)
	RetryBase    string  `toml:"retry_base"`     // Base backoff for server-side transient failures (default: "2s")
	RateRetryBase string `toml:"rate_retry_base"` // Base backoff for rate-limited failures (default: "8s")
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for AI operations (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 8192)
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.3)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // Default provider: "gemini" or "claude" (default: "gemini")
}

// CacheConfig contains TTLs for the report caches.
// Analysis and IPO detail reports are never cached and have no TTL here.
type CacheConfig struct {
	MarketTTL   time.Duration `toml:"market_ttl"`   // Market overview freshness window (default: 5m)
	ScreenerTTL time.Duration `toml:"screener_ttl"` // Screener result freshness window (default: 15m)
	IPOListTTL  time.Duration `toml:"ipo_list_ttl"` // IPO calendar freshness window (default: 60m)
}

// RefreshConfig controls the background market overview refresh
type RefreshConfig struct {
	Enabled  bool   `toml:"enabled"`  // Enable periodic market refresh (default: true)
	Schedule string `toml:"schedule"` // Cron schedule (default: "*/5 * * * *")
}

// ResearchConfig contains defaults for research request parameters
type ResearchConfig struct {
	DefaultExchange string `toml:"default_exchange"` // Exchange assumed for bare tickers (default: "NASDAQ")
	DefaultHorizon  string `toml:"default_horizon"`  // Trade plan horizon (default: "swing")
	DefaultLookback int    `toml:"default_lookback"` // Lookback window in days (default: 90)
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in prospecto.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Gemini: GeminiConfig{
			APIKey:        "", // User must provide API key (no fallback)
			Model:         "gemini-3-flash-preview",
			FastModel:     "gemini-2.0-flash-lite",
			Timeout:       "3m",
			RateLimit:     "4s", // 15 RPM free tier
			Temperature:   0.3,
			EnableSearch:  true,
			MaxAttempts:   3,
			RetryBase:     "2s",
			RateRetryBase: "8s",
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Temperature: 0.3,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Cache: CacheConfig{
			MarketTTL:   5 * time.Minute,
			ScreenerTTL: 15 * time.Minute,
			IPOListTTL:  60 * time.Minute,
		},
		Refresh: RefreshConfig{
			Enabled:  true,
			Schedule: "*/5 * * * *",
		},
		Research: ResearchConfig{
			DefaultExchange: "NASDAQ",
			DefaultHorizon:  "swing",
			DefaultLookback: 90,
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

// LoadFromFiles loads configuration from multiple files; later files override
// earlier files. Priority: CLI flags > Environment variables > Last config
// file > ... > First config file > Defaults
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
	if env := os.Getenv("PROSPECTO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("PROSPECTO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PROSPECTO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("PROSPECTO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("PROSPECTO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Gemini configuration; GEMINI_API_KEY is the SDK-standard variable
	if apiKey := os.Getenv("PROSPECTO_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("PROSPECTO_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if model := os.Getenv("PROSPECTO_GEMINI_FAST_MODEL"); model != "" {
		config.Gemini.FastModel = model
	}
	if timeout := os.Getenv("PROSPECTO_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}
	if rateLimit := os.Getenv("PROSPECTO_GEMINI_RATE_LIMIT"); rateLimit != "" {
		config.Gemini.RateLimit = rateLimit
	}
	if temperature := os.Getenv("PROSPECTO_GEMINI_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Gemini.Temperature = float32(t)
		}
	}
	if enableSearch := os.Getenv("PROSPECTO_GEMINI_ENABLE_SEARCH"); enableSearch != "" {
		if es, err := strconv.ParseBool(enableSearch); err == nil {
			config.Gemini.EnableSearch = es
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("PROSPECTO_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // PROSPECTO_ prefix takes priority
	}
	if model := os.Getenv("PROSPECTO_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	if provider := os.Getenv("PROSPECTO_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	if ttl := os.Getenv("PROSPECTO_CACHE_MARKET_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.Cache.MarketTTL = d
		}
	}
	if ttl := os.Getenv("PROSPECTO_CACHE_SCREENER_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.Cache.ScreenerTTL = d
		}
	}
	if ttl := os.Getenv("PROSPECTO_CACHE_IPO_LIST_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.Cache.IPOListTTL = d
		}
	}

	if enabled := os.Getenv("PROSPECTO_REFRESH_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Refresh.Enabled = e
		}
	}
	if schedule := os.Getenv("PROSPECTO_REFRESH_SCHEDULE"); schedule != "" {
		config.Refresh.Schedule = schedule
	}

	if exchange := os.Getenv("PROSPECTO_RESEARCH_DEFAULT_EXCHANGE"); exchange != "" {
		config.Research.DefaultExchange = exchange
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key by name with environment variable priority.
// Resolution order: environment variables -> KV store -> config fallback -> error
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"PROSPECTO_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"anthropic_api_key": {"PROSPECTO_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	}

	if envVarNames, hasMappedEnv := keyToEnvMapping[name]; hasMappedEnv {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	switch c.Environment {
	case "production", "prod", "Production":
		return true
	}
	return false
}
