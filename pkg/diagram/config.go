package diagram

import "github.com/mermview/mermview/pkg/errors"

// Theme is a mermaid theme option.
type Theme string

// Supported mermaid themes.
const (
	ThemeDefault Theme = "default"
	ThemeForest  Theme = "forest"
	ThemeDark    Theme = "dark"
	ThemeNeutral Theme = "neutral"
	ThemeBase    Theme = "base"
)

// ValidThemes is the set of supported theme names.
var ValidThemes = map[Theme]bool{
	ThemeDefault: true,
	ThemeForest:  true,
	ThemeDark:    true,
	ThemeNeutral: true,
	ThemeBase:    true,
}

// Format is a render output format.
type Format string

// Supported output formats.
const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[Format]bool{
	FormatPNG: true,
	FormatSVG: true,
	FormatPDF: true,
}

// ContentType returns the MIME type for the format. Unrecognized
// formats map to the generic octet-stream type.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Default geometry used when a caller does not specify dimensions.
const (
	DefaultWidth   = 800
	DefaultHeight  = 600
	DefaultPadding = 20
	DefaultScale   = 1.0
)

// Config is an immutable value object describing how a diagram should
// be rendered: geometry, theme, output format, scale and background.
// Use NewConfig or one of the named factories; "updates" such as
// WithSize return new values.
type Config struct {
	Width           int
	Height          int
	BackgroundColor string
	Theme           Theme
	Format          Format
	Scale           float64
	Transparent     bool
	Padding         int
}

// NewConfig validates cfg and returns it unchanged on success.
// Invariants: Width > 0, Height > 0, Scale > 0, Padding >= 0.
func NewConfig(cfg Config) (Config, error) {
	if cfg.Width <= 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "width must be positive, got %d", cfg.Width)
	}
	if cfg.Height <= 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "height must be positive, got %d", cfg.Height)
	}
	if cfg.Scale <= 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %g", cfg.Scale)
	}
	if cfg.Padding < 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "padding cannot be negative, got %d", cfg.Padding)
	}
	return cfg, nil
}

// DefaultConfig returns the default render configuration:
// 800x600, white background, default theme, PNG output, scale 1.0.
func DefaultConfig() Config {
	return Config{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		BackgroundColor: "white",
		Theme:           ThemeDefault,
		Format:          FormatPNG,
		Scale:           DefaultScale,
		Padding:         DefaultPadding,
	}
}

// ConfigForPNG builds a configuration for PNG output. The background is
// "transparent" when transparent is set, "white" otherwise.
func ConfigForPNG(width, height int, theme Theme, scale float64, transparent bool) (Config, error) {
	background := "white"
	if transparent {
		background = "transparent"
	}
	return NewConfig(Config{
		Width:           width,
		Height:          height,
		BackgroundColor: background,
		Theme:           theme,
		Format:          FormatPNG,
		Scale:           scale,
		Transparent:     transparent,
		Padding:         DefaultPadding,
	})
}

// ConfigForSVG builds a configuration for SVG output with default
// geometry.
func ConfigForSVG(theme Theme) Config {
	cfg := DefaultConfig()
	cfg.Theme = theme
	cfg.Format = FormatSVG
	return cfg
}

// WithSize returns a copy of the configuration with new dimensions.
func (c Config) WithSize(width, height int) (Config, error) {
	c.Width = width
	c.Height = height
	return NewConfig(c)
}

// WithTheme returns a copy of the configuration with a new theme.
func (c Config) WithTheme(theme Theme) Config {
	c.Theme = theme
	return c
}

// Background returns the effective background color for the render:
// "transparent" when the transparent flag is set, otherwise the
// configured background color.
func (c Config) Background() string {
	if c.Transparent {
		return "transparent"
	}
	return c.BackgroundColor
}
