package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Cache backend names accepted in config.
const (
	cacheBackendFile  = "file"
	cacheBackendRedis = "redis"
	cacheBackendNone  = "none"
)

// Config is the user configuration, read from
// ~/.config/inkgraph/config.toml. Every field has a default, so a
// missing or partial file is fine.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// LayoutConfig holds layout defaults applied when flags are not given.
type LayoutConfig struct {
	// Direction is the default flow direction. Empty means infer.
	Direction string  `toml:"direction"`
	SpacingX  float64 `toml:"spacing_x"`
	SpacingY  float64 `toml:"spacing_y"`
}

// RenderConfig holds preview rendering defaults.
type RenderConfig struct {
	// BranchColors fills nodes with their mind-map branch color.
	BranchColors bool `toml:"branch_colors"`
}

// CacheConfig selects and tunes the artifact cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend       string `toml:"backend"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	// TTL is how long cached layouts and artifacts live.
	TTL duration `toml:"ttl"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// duration wraps time.Duration so TOML values like "24h" parse.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend:   cacheBackendFile,
			RedisAddr: "localhost:6379",
			TTL:       duration{24 * time.Hour},
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

// configPath returns the config file location, honoring XDG_CONFIG_HOME.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the config file at path, layering it over defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the user config, silently falling back to
// defaults when the file is missing or unreadable.
func LoadConfigOrDefault() Config {
	path, err := configPath()
	if err != nil {
		return DefaultConfig()
	}
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}
