// Package config holds MermView's application configuration.
//
// Configuration is an explicit value constructed once at startup and
// passed into component constructors; there is no ambient global
// state. Values come from defaults, then an optional TOML file, then
// MERMVIEW_* environment variables, in increasing precedence.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the application configuration. TOML decoding goes through
// fileConfig, which accepts duration strings.
type Config struct {
	// Server settings
	Host  string
	Port  int
	Debug bool

	// Renderer settings
	RenderTimeout time.Duration
	NavTimeout    time.Duration
	Headless      bool
	UseFallback   bool
	InkBaseURL    string
	InkTimeout    time.Duration

	// Storage settings
	OutputDir   string
	DiagramsDir string

	// Cache settings
	CacheDir      string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Render defaults
	DefaultTheme  string
	DefaultWidth  int
	DefaultHeight int
	DefaultScale  float64
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:          "0.0.0.0",
		Port:          8000,
		RenderTimeout: 10 * time.Second,
		NavTimeout:    30 * time.Second,
		Headless:      true,
		UseFallback:   true,
		InkBaseURL:    "https://mermaid.ink",
		InkTimeout:    30 * time.Second,
		OutputDir:     "output",
		DiagramsDir:   "diagrams",
		CacheTTL:      24 * time.Hour,
		DefaultTheme:  "default",
		DefaultWidth:  800,
		DefaultHeight: 600,
		DefaultScale:  1.0,
	}
}

// Load builds the configuration from defaults, the TOML file at path
// (skipped when path is empty or the file does not exist) and the
// environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			fc := newFileConfig(cfg)
			if _, err := toml.DecodeFile(path, &fc); err != nil {
				return Config{}, err
			}
			cfg = fc.config()
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// duration decodes TOML duration strings like "30s" or "1h".
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

// fileConfig mirrors Config for TOML decoding; durations arrive as
// strings there, not nanosecond integers.
type fileConfig struct {
	Host  string `toml:"host"`
	Port  int    `toml:"port"`
	Debug bool   `toml:"debug"`

	RenderTimeout duration `toml:"render_timeout"`
	NavTimeout    duration `toml:"nav_timeout"`
	Headless      bool     `toml:"headless"`
	UseFallback   bool     `toml:"use_fallback"`
	InkBaseURL    string   `toml:"ink_base_url"`
	InkTimeout    duration `toml:"ink_timeout"`

	OutputDir   string `toml:"output_dir"`
	DiagramsDir string `toml:"diagrams_dir"`

	CacheDir      string   `toml:"cache_dir"`
	CacheTTL      duration `toml:"cache_ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`

	DefaultTheme  string  `toml:"default_theme"`
	DefaultWidth  int     `toml:"default_width"`
	DefaultHeight int     `toml:"default_height"`
	DefaultScale  float64 `toml:"default_scale"`
}

// newFileConfig seeds a fileConfig with cfg so fields absent from the
// file keep their values.
func newFileConfig(cfg Config) fileConfig {
	return fileConfig{
		Host:          cfg.Host,
		Port:          cfg.Port,
		Debug:         cfg.Debug,
		RenderTimeout: duration{cfg.RenderTimeout},
		NavTimeout:    duration{cfg.NavTimeout},
		Headless:      cfg.Headless,
		UseFallback:   cfg.UseFallback,
		InkBaseURL:    cfg.InkBaseURL,
		InkTimeout:    duration{cfg.InkTimeout},
		OutputDir:     cfg.OutputDir,
		DiagramsDir:   cfg.DiagramsDir,
		CacheDir:      cfg.CacheDir,
		CacheTTL:      duration{cfg.CacheTTL},
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		DefaultTheme:  cfg.DefaultTheme,
		DefaultWidth:  cfg.DefaultWidth,
		DefaultHeight: cfg.DefaultHeight,
		DefaultScale:  cfg.DefaultScale,
	}
}

func (fc fileConfig) config() Config {
	return Config{
		Host:          fc.Host,
		Port:          fc.Port,
		Debug:         fc.Debug,
		RenderTimeout: fc.RenderTimeout.Duration,
		NavTimeout:    fc.NavTimeout.Duration,
		Headless:      fc.Headless,
		UseFallback:   fc.UseFallback,
		InkBaseURL:    fc.InkBaseURL,
		InkTimeout:    fc.InkTimeout.Duration,
		OutputDir:     fc.OutputDir,
		DiagramsDir:   fc.DiagramsDir,
		CacheDir:      fc.CacheDir,
		CacheTTL:      fc.CacheTTL.Duration,
		RedisAddr:     fc.RedisAddr,
		RedisPassword: fc.RedisPassword,
		RedisDB:       fc.RedisDB,
		DefaultTheme:  fc.DefaultTheme,
		DefaultWidth:  fc.DefaultWidth,
		DefaultHeight: fc.DefaultHeight,
		DefaultScale:  fc.DefaultScale,
	}
}

// FromEnv builds the configuration from defaults and the environment
// only.
func FromEnv() Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	envString("MERMVIEW_HOST", &c.Host)
	envInt("MERMVIEW_PORT", &c.Port)
	envBool("MERMVIEW_DEBUG", &c.Debug)
	envDuration("MERMVIEW_RENDER_TIMEOUT", &c.RenderTimeout)
	envDuration("MERMVIEW_NAV_TIMEOUT", &c.NavTimeout)
	envBool("MERMVIEW_HEADLESS", &c.Headless)
	envBool("MERMVIEW_USE_FALLBACK", &c.UseFallback)
	envString("MERMVIEW_INK_URL", &c.InkBaseURL)
	envDuration("MERMVIEW_INK_TIMEOUT", &c.InkTimeout)
	envString("MERMVIEW_OUTPUT_DIR", &c.OutputDir)
	envString("MERMVIEW_DIAGRAMS_DIR", &c.DiagramsDir)
	envString("MERMVIEW_CACHE_DIR", &c.CacheDir)
	envDuration("MERMVIEW_CACHE_TTL", &c.CacheTTL)
	envString("MERMVIEW_REDIS_ADDR", &c.RedisAddr)
	envString("MERMVIEW_REDIS_PASSWORD", &c.RedisPassword)
	envInt("MERMVIEW_REDIS_DB", &c.RedisDB)
	envString("MERMVIEW_THEME", &c.DefaultTheme)
	envInt("MERMVIEW_WIDTH", &c.DefaultWidth)
	envInt("MERMVIEW_HEIGHT", &c.DefaultHeight)
	envFloat("MERMVIEW_SCALE", &c.DefaultScale)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "true" || v == "1"
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
