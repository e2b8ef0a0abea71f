package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"moviesearch/internal/domain"
	"moviesearch/internal/eventbus"
)

// AppName names the per-user config directory
const AppName = "moviesearch"

// ErrNotFound is returned by LoadFromPath when the file does not exist
var ErrNotFound = errors.New("config file not found")

// Config represents the application configuration
type Config struct {
	Version int           `toml:"version"`
	Search  SearchConfig  `toml:"search"`
	Lookup  LookupConfig  `toml:"lookup"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// SearchConfig tunes the search controller and its panel
type SearchConfig struct {
	DebounceMS     int `toml:"debounce_ms"`
	AnimationMS    int `toml:"animation_ms"`
	MaxQueryLength int `toml:"max_query_length"`
	ResultRows     int `toml:"result_rows"`
}

// LookupConfig selects the lookup provider
type LookupConfig struct {
	Provider    string     `toml:"provider"`
	MaxResults  int        `toml:"max_results"`
	CatalogPath string     `toml:"catalog_path,omitempty"`
	LatencyMS   int        `toml:"latency_ms"`
	OMDb        OMDbConfig `toml:"omdb"`
}

// OMDbConfig configures the OMDb provider
type OMDbConfig struct {
	APIKey            string  `toml:"api_key,omitempty"`
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	TimeoutMS         int     `toml:"timeout_ms"`
}

// HistoryConfig selects where search history is kept
type HistoryConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// LogConfig configures the log file
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Debounce returns the query debounce delay
func (s SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// Animation returns how long the animating flag stays raised
func (s SearchConfig) Animation() time.Duration {
	return time.Duration(s.AnimationMS) * time.Millisecond
}

// Latency returns the simulated catalog latency
func (l LookupConfig) Latency() time.Duration {
	return time.Duration(l.LatencyMS) * time.Millisecond
}

// Timeout returns the per-request OMDb timeout
func (o OMDbConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutMS) * time.Millisecond
}

// Service handles configuration management
type Service interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// Dir returns the per-user moviesearch directory
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, AppName)
}

// NewService creates a config service for the default config file
func NewService(bus eventbus.EventBus) Service {
	return NewServiceAt(filepath.Join(Dir(), "config.toml"), bus)
}

// NewServiceAt creates a config service bound to path
func NewServiceAt(path string, bus eventbus.EventBus) Service {
	if bus == nil {
		bus = eventbus.Null{}
	}
	return &configService{bus: bus, filePath: path}
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file. A missing file yields defaults.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, ErrNotFound) {
		cfg = DefaultConfig()
		applyEnv(cfg)
		err = nil
	}
	if err != nil {
		return nil, err
	}

	cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath})
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	cs.bus.Publish(domain.ConfigSavedEvent{Path: cs.filePath})
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		Version: 1,
		Search: SearchConfig{
			DebounceMS:     500,
			AnimationMS:    500,
			MaxQueryLength: 200,
			ResultRows:     5,
		},
		Lookup: LookupConfig{
			Provider:   "catalog",
			MaxResults: 10,
			OMDb: OMDbConfig{
				BaseURL:           "https://www.omdbapi.com/",
				RequestsPerSecond: 2,
				TimeoutMS:         10000,
			},
		},
		History: HistoryConfig{
			Backend: "file",
			Path:    filepath.Join(dir, "history.json"),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, AppName+".log"),
		},
	}
}

// Validate clamps out-of-range numbers to usable values and rejects
// unknown names.
func (c *Config) Validate() error {
	if c.Search.DebounceMS < 0 {
		return fmt.Errorf("search.debounce_ms must not be negative")
	}
	if c.Search.AnimationMS < 0 {
		return fmt.Errorf("search.animation_ms must not be negative")
	}
	if c.Search.MaxQueryLength <= 0 {
		c.Search.MaxQueryLength = 200
	}
	c.Search.ResultRows = clamp(c.Search.ResultRows, 1, 20)
	c.Lookup.MaxResults = clamp(c.Lookup.MaxResults, 1, 50)
	if c.Lookup.LatencyMS < 0 {
		c.Lookup.LatencyMS = 0
	}
	if c.Lookup.OMDb.TimeoutMS <= 0 {
		c.Lookup.OMDb.TimeoutMS = 10000
	}

	switch c.Lookup.Provider {
	case "catalog", "omdb":
	default:
		return fmt.Errorf("lookup.provider %q is not one of catalog, omdb", c.Lookup.Provider)
	}
	switch c.History.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("history.backend %q is not one of file, sqlite, memory", c.History.Backend)
	}
	if c.History.Backend != "memory" && c.History.Path == "" {
		return fmt.Errorf("history.path is required for the %s backend", c.History.Backend)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if cfg.Lookup.OMDb.APIKey == "" {
		cfg.Lookup.OMDb.APIKey = os.Getenv("OMDB_API_KEY")
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
