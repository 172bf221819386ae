package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for every key, matching the values the explorer has always used.
const (
	DefaultEndpoint      = "https://genotypical-mao-coxal.ngrok-free.dev/repositories/new-fifa"
	DefaultLang          = "en"
	DefaultSearchLimit   = 20
	DefaultRelationLimit = 50
	DefaultTimeout       = 30 * time.Second
	DefaultRateLimit     = 10.0
	DefaultDebounce      = 250 * time.Millisecond
	DefaultListen        = "127.0.0.1:8080"
)

// Config represents configuration stored in ~/.config/ldx/config.yml.
type Config struct {
	Endpoint      string        `yaml:"endpoint,omitempty" json:"endpoint"`
	Lang          string        `yaml:"lang,omitempty" json:"lang"`
	SearchLimit   int           `yaml:"search_limit,omitempty" json:"search_limit"`
	RelationLimit int           `yaml:"relation_limit,omitempty" json:"relation_limit"`
	Timeout       time.Duration `yaml:"timeout,omitempty" json:"timeout"`
	RateLimit     float64       `yaml:"rate_limit,omitempty" json:"rate_limit"` // requests per second
	Debounce      time.Duration `yaml:"debounce,omitempty" json:"debounce"`
	Listen        string        `yaml:"listen,omitempty" json:"listen"`
	HistoryPath   string        `yaml:"history_path,omitempty" json:"history_path"`
}

// Default returns a config with every key at its default.
func Default() *Config {
	return &Config{
		Endpoint:      DefaultEndpoint,
		Lang:          DefaultLang,
		SearchLimit:   DefaultSearchLimit,
		RelationLimit: DefaultRelationLimit,
		Timeout:       DefaultTimeout,
		RateLimit:     DefaultRateLimit,
		Debounce:      DefaultDebounce,
		Listen:        DefaultListen,
		HistoryPath:   DefaultHistoryPath(),
	}
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*Config{}
)

// Load reads the config file at path (GlobalConfigPath when empty), fills in
// defaults and applies environment overrides. A missing file is not an error.
// Results are cached per path.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GlobalConfigPath()
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if cfg, ok := cache[path]; ok {
		return cfg, nil
	}

	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	cache[path] = cfg
	return cfg, nil
}

func load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyDefaults()
	cfg.Endpoint = GetConfigValue(EnvEndpoint, cfg.Endpoint)
	cfg.Lang = GetConfigValue(EnvLang, cfg.Lang)
	cfg.HistoryPath = ExpandPath(cfg.HistoryPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// ResetCache clears cached configs.
// Useful for testing.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = map[string]*Config{}
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
	}
	if c.Lang == "" {
		c.Lang = d.Lang
	}
	if c.SearchLimit == 0 {
		c.SearchLimit = d.SearchLimit
	}
	if c.RelationLimit == 0 {
		c.RelationLimit = d.RelationLimit
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = d.RateLimit
	}
	if c.Debounce == 0 {
		c.Debounce = d.Debounce
	}
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.HistoryPath == "" {
		c.HistoryPath = d.HistoryPath
	}
}

// Validate checks value ranges. A negative rate_limit disables limiting.
func (c *Config) Validate() error {
	if c.SearchLimit < 0 {
		return fmt.Errorf("search_limit must be positive, got %d", c.SearchLimit)
	}
	if c.RelationLimit < 0 {
		return fmt.Errorf("relation_limit must be positive, got %d", c.RelationLimit)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must be positive, got %s", c.Debounce)
	}
	return nil
}

// Path returns path, or the global config path when empty. Used in messages.
func Path(path string) string {
	if path == "" {
		return GlobalConfigPath()
	}
	return path
}

// HelpfulConfigMessage explains where the config file lives and what it holds.
func HelpfulConfigMessage(path string) string {
	return fmt.Sprintf(`Config file: %s

Example:
  endpoint: %s
  lang: en
  search_limit: 20
  debounce: 250ms

LDX_ENDPOINT and LDX_LANG override the file.`, Path(path), DefaultEndpoint)
}
