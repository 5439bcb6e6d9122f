package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Events    EventsConfig
	Redis     RedisConfig
	AI        AIConfig
	Scrape    ScrapeConfig
	Headlines HeadlinesConfig
	Geo       GeoConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CORSAllowOrigins []string
	MetricsEnabled   bool
}

// EventsConfig describes the upstream events webhook and the snapshot kept of it
type EventsConfig struct {
	WebhookURL      string
	Timeout         time.Duration
	RefreshInterval time.Duration // 0 disables background refresh
	CacheTTL        time.Duration // 0 fetches from the webhook on every request
}

// RedisConfig holds Redis connection settings for the events snapshot
type RedisConfig struct {
	Enabled   bool
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AIConfig holds completion provider settings. Keys are never configured here;
// callers send their own with each request.
type AIConfig struct {
	BaseURL       string
	ChatModel     string
	InsightsModel string
	ExtractModel  string
	RateLimit     float64 // requests per second per client, 0 disables
	Burst         int
}

// ScrapeConfig holds article scraping settings
type ScrapeConfig struct {
	Timeout   time.Duration
	UserAgent string
}

// HeadlinesConfig holds related-coverage feed settings
type HeadlinesConfig struct {
	Feeds      []string
	GoogleNews bool
	Timeout    time.Duration
}

// GeoConfig holds country-name resolution settings
type GeoConfig struct {
	CachePath string // empty keeps the cache in memory
	APIURL    string
}

// Load reads configuration from an optional TOML file and GEOWATCH_ environment variables.
// Priority (highest to lowest):
// 1. Environment variables (e.g. GEOWATCH_EVENTS_WEBHOOK_URL)
// 2. config file (explicit path, or config.toml in . or /etc/geowatch)
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/geowatch")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("GEOWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			MetricsEnabled:   !v.IsSet("http.metrics_enabled") || v.GetBool("http.metrics_enabled"),
		},
		Events: EventsConfig{
			WebhookURL:      v.GetString("events.webhook_url"),
			Timeout:         v.GetDuration("events.timeout"),
			RefreshInterval: v.GetDuration("events.refresh_interval"),
			CacheTTL:        v.GetDuration("events.cache_ttl"),
		},
		Redis: RedisConfig{
			Enabled:   v.GetBool("redis.enabled"),
			Host:      v.GetString("redis.host"),
			Port:      v.GetInt("redis.port"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			KeyPrefix: v.GetString("redis.key_prefix"),
		},
		AI: AIConfig{
			BaseURL:       v.GetString("ai.base_url"),
			ChatModel:     v.GetString("ai.chat_model"),
			InsightsModel: v.GetString("ai.insights_model"),
			ExtractModel:  v.GetString("ai.extract_model"),
			RateLimit:     v.GetFloat64("ai.rate_limit"),
			Burst:         v.GetInt("ai.burst"),
		},
		Scrape: ScrapeConfig{
			Timeout:   v.GetDuration("scrape.timeout"),
			UserAgent: v.GetString("scrape.user_agent"),
		},
		Headlines: HeadlinesConfig{
			Feeds:      v.GetStringSlice("headlines.feeds"),
			GoogleNews: !v.IsSet("headlines.google_news") || v.GetBool("headlines.google_news"),
			Timeout:    v.GetDuration("headlines.timeout"),
		},
		Geo: GeoConfig{
			CachePath: v.GetString("geo.cache_path"),
			APIURL:    v.GetString("geo.api_url"),
		},
	}

	// Refresh and the snapshot may be explicitly disabled with 0; only fill them when unset.
	if !v.IsSet("events.refresh_interval") {
		cfg.Events.RefreshInterval = 5 * time.Minute
	}
	if !v.IsSet("events.cache_ttl") {
		cfg.Events.CacheTTL = time.Minute
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "geowatch"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// AI completions can take a while.
		cfg.HTTP.WriteTimeout = 2 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Events.WebhookURL == "" {
		cfg.Events.WebhookURL = "http://localhost:8000/api/events"
	}
	if cfg.Events.Timeout == 0 {
		cfg.Events.Timeout = 20 * time.Second
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "geowatch:"
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = "gpt-4-turbo-preview"
	}
	if cfg.AI.InsightsModel == "" {
		cfg.AI.InsightsModel = "gpt-4-turbo-preview"
	}
	if cfg.AI.ExtractModel == "" {
		cfg.AI.ExtractModel = "gpt-4o-mini"
	}
	if cfg.AI.Burst == 0 {
		cfg.AI.Burst = 5
	}
	if cfg.Scrape.Timeout == 0 {
		cfg.Scrape.Timeout = 10 * time.Second
	}
	if cfg.Scrape.UserAgent == "" {
		cfg.Scrape.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	}
	if len(cfg.Headlines.Feeds) == 0 {
		cfg.Headlines.Feeds = []string{
			"https://rss.nytimes.com/services/xml/rss/nyt/World.xml",
			"https://www.theguardian.com/world/rss",
			"https://feeds.bbci.co.uk/news/world/rss.xml",
			"https://www.aljazeera.com/xml/rss/all.xml",
		}
	}
	if cfg.Headlines.Timeout == 0 {
		cfg.Headlines.Timeout = 15 * time.Second
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Events.WebhookURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("events.webhook_url must be an absolute http(s) URL, got %q", c.Events.WebhookURL)
	}
	if c.Events.RefreshInterval < 0 {
		return fmt.Errorf("events.refresh_interval cannot be negative")
	}
	if c.Events.CacheTTL < 0 {
		return fmt.Errorf("events.cache_ttl cannot be negative")
	}
	if c.AI.RateLimit < 0 {
		return fmt.Errorf("ai.rate_limit cannot be negative")
	}
	if c.Redis.Enabled && c.Redis.Port <= 0 {
		return fmt.Errorf("redis.port must be positive")
	}

	if c.App.Env == "production" {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}
	return nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
