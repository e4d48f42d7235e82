package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName   string `mapstructure:"app_name"`
	Env       string `mapstructure:"app_env"`
	LogLevel  string `mapstructure:"log_level"`
	LogOutput string `mapstructure:"log_output"`

	NewsAPIBaseURL     string        `mapstructure:"newsapi_base_url"`
	NewsAPIKey         string        `mapstructure:"newsapi_key"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	HTTPDebug          bool          `mapstructure:"http_debug"`

	PageSize         int           `mapstructure:"page_size"`
	PrefetchDistance int           `mapstructure:"prefetch_distance"`
	MaxWindowSize    int           `mapstructure:"max_window_size"`
	SearchDebounceMS int64         `mapstructure:"search_debounce_ms"`
	SearchDebounce   time.Duration `mapstructure:"-"`

	ConnectivityProbe     string        `mapstructure:"connectivity_probe"`
	ConnectivityAddr      string        `mapstructure:"connectivity_addr"`
	ConnectivityTimeoutMS int64         `mapstructure:"connectivity_timeout_ms"`
	ConnectivityTimeout   time.Duration `mapstructure:"-"`

	CatalogFile    string `mapstructure:"catalog_file"`
	FeedsFile      string `mapstructure:"feeds_file"`
	PublishersFile string `mapstructure:"publishers_file"`

	RelayIntervalSeconds int64         `mapstructure:"relay_interval"`
	RelayInterval        time.Duration `mapstructure:"-"`
	RelayConcurrency     int           `mapstructure:"relay_concurrency"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "khobor-reader")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_output", "stderr")
	v.SetDefault("newsapi_base_url", "https://newsapi.org/")
	v.SetDefault("newsapi_key", "")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("http_debug", false)
	v.SetDefault("page_size", 20)
	v.SetDefault("prefetch_distance", 5)
	v.SetDefault("max_window_size", 200)
	v.SetDefault("search_debounce_ms", 300)
	v.SetDefault("connectivity_probe", "dial")
	v.SetDefault("connectivity_addr", "")
	v.SetDefault("connectivity_timeout_ms", 3000)
	v.SetDefault("catalog_file", "")
	v.SetDefault("feeds_file", "./configs/feeds.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("relay_interval", 900) // seconds
	v.SetDefault("relay_concurrency", 4)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/seen.db")
	v.SetDefault("storage_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) finalize() error {
	switch cfg.LogOutput = strings.ToLower(strings.TrimSpace(cfg.LogOutput)); cfg.LogOutput {
	case "stdout", "stderr":
	default:
		return fmt.Errorf("invalid log_output %q (want stdout or stderr)", cfg.LogOutput)
	}
	if strings.TrimSpace(cfg.NewsAPIBaseURL) == "" {
		return fmt.Errorf("newsapi_base_url is required")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.PageSize <= 0 {
		return fmt.Errorf("invalid page_size (must be positive)")
	}
	if cfg.PrefetchDistance < 0 {
		return fmt.Errorf("invalid prefetch_distance (must not be negative)")
	}
	if cfg.MaxWindowSize < cfg.PageSize {
		return fmt.Errorf("invalid max_window_size (must be at least page_size)")
	}
	if cfg.SearchDebounceMS < 0 {
		return fmt.Errorf("invalid search_debounce_ms (must not be negative)")
	}
	cfg.SearchDebounce = time.Duration(cfg.SearchDebounceMS) * time.Millisecond

	switch cfg.ConnectivityProbe {
	case "dial", "none":
	default:
		return fmt.Errorf("invalid connectivity_probe %q (want dial or none)", cfg.ConnectivityProbe)
	}
	if cfg.ConnectivityTimeoutMS <= 0 {
		return fmt.Errorf("invalid connectivity_timeout_ms (must be positive)")
	}
	cfg.ConnectivityTimeout = time.Duration(cfg.ConnectivityTimeoutMS) * time.Millisecond

	if cfg.RelayIntervalSeconds <= 0 {
		return fmt.Errorf("invalid relay_interval (must be positive seconds)")
	}
	cfg.RelayInterval = time.Duration(cfg.RelayIntervalSeconds) * time.Second
	if cfg.RelayConcurrency <= 0 {
		return fmt.Errorf("invalid relay_concurrency (must be positive)")
	}

	switch cfg.StorageType {
	case "bbolt", "memory", "none":
	default:
		return fmt.Errorf("invalid storage_type %q (want bbolt, memory or none)", cfg.StorageType)
	}
	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}
