// Package config provides configuration management for the paper discovery
// service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the discovery service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Search contains aggregation pipeline settings.
	Search SearchConfig `mapstructure:"search"`
	// Providers contains paper source API configurations.
	Providers ProvidersConfig `mapstructure:"providers"`
	// Meilisearch contains Meilisearch connection settings, shared by the
	// search provider and the write-back indexer.
	Meilisearch MeilisearchConfig `mapstructure:"meilisearch"`
	// Kafka contains Kafka event publisher settings.
	Kafka KafkaConfig `mapstructure:"kafka"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// IdleTimeout is the maximum duration to keep idle connections open.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr, file path).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Namespace is the Prometheus metric namespace prefix.
	Namespace string `mapstructure:"namespace"`
}

// SearchConfig holds aggregation pipeline settings.
type SearchConfig struct {
	// ProviderTimeout bounds each provider's search during fan-out.
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
}

// ProvidersConfig holds configuration for all paper source APIs.
type ProvidersConfig struct {
	// SemanticScholar contains Semantic Scholar API settings.
	SemanticScholar ProviderConfig `mapstructure:"semantic_scholar"`
	// CrossRef contains CrossRef API settings.
	CrossRef ProviderConfig `mapstructure:"crossref"`
	// CORE contains CORE API settings (disabled without an API key).
	CORE ProviderConfig `mapstructure:"core"`
	// ArXiv contains arXiv API settings.
	ArXiv ProviderConfig `mapstructure:"arxiv"`
	// Local contains local fuzzy index settings.
	Local LocalProviderConfig `mapstructure:"local"`
	// CrossRefMailto is the contact address sent to CrossRef for polite-pool
	// access.
	CrossRefMailto string `mapstructure:"crossref_mailto"`
}

// ProviderConfig holds configuration for a single paper source API.
type ProviderConfig struct {
	// Enabled controls whether this source is used.
	Enabled bool `mapstructure:"enabled"`
	// APIKey is the API key (loaded from environment variable, e.g.
	// DISCOVERY_PROVIDERS_SEMANTIC_SCHOLAR_API_KEY).
	APIKey string `mapstructure:"-"`
	// BaseURL is the API base URL.
	BaseURL string `mapstructure:"base_url"`
	// Timeout is the timeout for API calls.
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum requests per second.
	RateLimit float64 `mapstructure:"rate_limit"`
	// MaxResults is the maximum results per query.
	MaxResults int `mapstructure:"max_results"`
}

// LocalProviderConfig holds local fuzzy index settings.
type LocalProviderConfig struct {
	// Enabled controls whether the local index is searched.
	Enabled bool `mapstructure:"enabled"`
}

// MeilisearchConfig holds Meilisearch connection settings.
type MeilisearchConfig struct {
	// Enabled controls both the Meilisearch provider and the write-back
	// indexer. With no host configured both are no-ops.
	Enabled bool `mapstructure:"enabled"`
	// Host is the Meilisearch server URL.
	Host string `mapstructure:"host"`
	// APIKey is the Meilisearch API key (loaded from
	// DISCOVERY_MEILISEARCH_API_KEY).
	APIKey string `mapstructure:"-"`
	// IndexUID is the papers index name.
	IndexUID string `mapstructure:"index_uid"`
	// QueueSize is the write-back indexer queue capacity.
	QueueSize int `mapstructure:"queue_size"`
}

// KafkaConfig holds Kafka event publisher settings.
type KafkaConfig struct {
	// Enabled controls whether event publishing is active.
	Enabled bool `mapstructure:"enabled"`
	// Brokers is the list of Kafka broker addresses.
	Brokers []string `mapstructure:"brokers"`
	// Topic is the Kafka topic for discovery events.
	Topic string `mapstructure:"topic"`
	// BatchTimeout is the maximum time to wait for a batch to fill.
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("DISCOVERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/discovery-service")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, env vars and defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Load secrets exclusively from environment variables. These fields use
	// mapstructure:"-" to prevent loading from config files.
	loadSecrets(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadSecrets populates secret fields exclusively from environment variables.
func loadSecrets(cfg *Config) {
	cfg.Providers.SemanticScholar.APIKey = os.Getenv("DISCOVERY_PROVIDERS_SEMANTIC_SCHOLAR_API_KEY")
	cfg.Providers.CrossRef.APIKey = os.Getenv("DISCOVERY_PROVIDERS_CROSSREF_API_KEY")
	cfg.Providers.CORE.APIKey = os.Getenv("DISCOVERY_PROVIDERS_CORE_API_KEY")
	cfg.Providers.ArXiv.APIKey = os.Getenv("DISCOVERY_PROVIDERS_ARXIV_API_KEY")
	cfg.Meilisearch.APIKey = os.Getenv("DISCOVERY_MEILISEARCH_API_KEY")
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "discovery")

	// Search defaults
	v.SetDefault("search.provider_timeout", "5s")

	// Provider defaults - Semantic Scholar
	// API keys are loaded exclusively from environment variables (see loadSecrets).
	v.SetDefault("providers.semantic_scholar.enabled", true)
	v.SetDefault("providers.semantic_scholar.base_url", "https://api.semanticscholar.org/graph/v1")
	v.SetDefault("providers.semantic_scholar.timeout", "30s")
	v.SetDefault("providers.semantic_scholar.rate_limit", 1.0)
	v.SetDefault("providers.semantic_scholar.max_results", 20)

	// Provider defaults - CrossRef
	v.SetDefault("providers.crossref.enabled", true)
	v.SetDefault("providers.crossref.base_url", "https://api.crossref.org")
	v.SetDefault("providers.crossref.timeout", "30s")
	v.SetDefault("providers.crossref.rate_limit", 2.0)
	v.SetDefault("providers.crossref.max_results", 20)
	v.SetDefault("providers.crossref_mailto", "")

	// Provider defaults - CORE (requires API key, disabled by default)
	v.SetDefault("providers.core.enabled", false)
	v.SetDefault("providers.core.base_url", "https://api.core.ac.uk/v3")
	v.SetDefault("providers.core.timeout", "30s")
	v.SetDefault("providers.core.rate_limit", 2.0)
	v.SetDefault("providers.core.max_results", 20)

	// Provider defaults - arXiv
	v.SetDefault("providers.arxiv.enabled", true)
	v.SetDefault("providers.arxiv.base_url", "https://export.arxiv.org/api")
	v.SetDefault("providers.arxiv.timeout", "30s")
	v.SetDefault("providers.arxiv.rate_limit", 0.33) // arXiv asks for one request per 3 seconds
	v.SetDefault("providers.arxiv.max_results", 20)

	// Provider defaults - local fuzzy index
	v.SetDefault("providers.local.enabled", true)

	// Meilisearch defaults (disabled without a host)
	v.SetDefault("meilisearch.enabled", false)
	v.SetDefault("meilisearch.host", "")
	v.SetDefault("meilisearch.index_uid", "papers")
	v.SetDefault("meilisearch.queue_size", 256)

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "discovery.events")
	v.SetDefault("kafka.batch_timeout", "10ms")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Search.ProviderTimeout <= 0 {
		return fmt.Errorf("search provider_timeout must be positive")
	}

	if c.Meilisearch.Enabled && c.Meilisearch.Host == "" {
		return fmt.Errorf("meilisearch host is required when meilisearch is enabled")
	}
	if c.Meilisearch.QueueSize < 0 {
		return fmt.Errorf("meilisearch queue_size must not be negative")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required when kafka is enabled")
	}

	if c.Providers.CORE.Enabled && c.Providers.CORE.APIKey == "" {
		return fmt.Errorf("CORE provider requires DISCOVERY_PROVIDERS_CORE_API_KEY to be set")
	}

	return nil
}
