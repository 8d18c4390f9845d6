package config

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	// EnvPrefix prefixes the environment variables that override file values,
	// e.g. SLICECROP_MATCH_THRESHOLD.
	EnvPrefix = "SLICECROP"

	// DefaultFileName is the config file looked up in the working directory
	// when no explicit path is given.
	DefaultFileName = "slicecrop"

	keyInputDir         = "input_dir"
	keySourceSuffix     = "source_suffix"
	keyTemplatePath     = "template_path"
	keyCropDir          = "crop_dir"
	keyBoundaryDir      = "boundary_dir"
	keyMatchThreshold   = "match_threshold"
	keyMarginWidth      = "margin_width"
	keyMarginHeight     = "margin_height"
	keyBinaryThreshold  = "binary_threshold"
	keyContourColor     = "contour_color"
	keyContourThickness = "contour_thickness"
	keyLogLevel         = "log_level"
)

// Config holds every tunable of a slicing run.
type Config struct {
	// InputDir holds the source pages.
	InputDir string `mapstructure:"input_dir"`

	// SourceSuffix selects the pages in InputDir that are cropped.
	SourceSuffix string `mapstructure:"source_suffix"`

	// TemplatePath is the marker glyph image.
	TemplatePath string `mapstructure:"template_path"`

	// CropDir receives one subfolder of crop artifacts per page.
	CropDir string `mapstructure:"crop_dir"`

	// BoundaryDir mirrors CropDir with contour-annotated copies.
	BoundaryDir string `mapstructure:"boundary_dir"`

	// MatchThreshold is the minimum normalized correlation score of a marker.
	MatchThreshold float64 `mapstructure:"match_threshold"`

	// MarginWidth is trimmed from the left and right of every cell.
	MarginWidth int `mapstructure:"margin_width"`

	// MarginHeight is trimmed from the top and bottom of every cell.
	MarginHeight int `mapstructure:"margin_height"`

	// BinaryThreshold is the gray level a pixel must exceed to be foreground.
	BinaryThreshold int `mapstructure:"binary_threshold"`

	// ContourColor is the outline color as a hex RGB string.
	ContourColor string `mapstructure:"contour_color"`

	// ContourThickness is the outline width in pixels.
	ContourThickness int `mapstructure:"contour_thickness"`

	// LogLevel is "info" or "debug".
	LogLevel string `mapstructure:"log_level"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		InputDir:         "Data_1",
		SourceSuffix:     "thresh.png",
		TemplatePath:     "R.png",
		CropDir:          "Slices",
		BoundaryDir:      "Boundaries",
		MatchThreshold:   0.8,
		MarginWidth:      4,
		MarginHeight:     5,
		BinaryThreshold:  10,
		ContourColor:     "#00E9FF",
		ContourThickness: 1,
		LogLevel:         "info",
	}
}

// Load builds a Config from the defaults, a YAML file and SLICECROP_*
// environment variables, in increasing precedence.
//
// With an empty path, slicecrop.yaml in the working directory is used if it
// exists and silently skipped otherwise. An explicit path must exist.
// The result is validated before it is returned.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault(keyInputDir, d.InputDir)
	v.SetDefault(keySourceSuffix, d.SourceSuffix)
	v.SetDefault(keyTemplatePath, d.TemplatePath)
	v.SetDefault(keyCropDir, d.CropDir)
	v.SetDefault(keyBoundaryDir, d.BoundaryDir)
	v.SetDefault(keyMatchThreshold, d.MatchThreshold)
	v.SetDefault(keyMarginWidth, d.MarginWidth)
	v.SetDefault(keyMarginHeight, d.MarginHeight)
	v.SetDefault(keyBinaryThreshold, d.BinaryThreshold)
	v.SetDefault(keyContourColor, d.ContourColor)
	v.SetDefault(keyContourThickness, d.ContourThickness)
	v.SetDefault(keyLogLevel, d.LogLevel)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	paths := []struct {
		key   string
		value string
	}{
		{keyInputDir, c.InputDir},
		{keySourceSuffix, c.SourceSuffix},
		{keyTemplatePath, c.TemplatePath},
		{keyCropDir, c.CropDir},
		{keyBoundaryDir, c.BoundaryDir},
	}
	for _, p := range paths {
		if strings.TrimSpace(p.value) == "" {
			return fmt.Errorf("%w: %s cannot be empty", ErrInvalidConfig, p.key)
		}
	}

	if err := c.validateRoots(); err != nil {
		return err
	}

	if c.MatchThreshold <= 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("%w: match_threshold must be in (0, 1], got %v", ErrInvalidConfig, c.MatchThreshold)
	}

	if c.MarginWidth < 0 || c.MarginHeight < 0 {
		return fmt.Errorf("%w: margins cannot be negative", ErrInvalidConfig)
	}

	if c.BinaryThreshold < 0 || c.BinaryThreshold > 254 {
		return fmt.Errorf("%w: binary_threshold must be between 0 and 254, got %d", ErrInvalidConfig, c.BinaryThreshold)
	}

	if _, err := colorful.Hex(c.ContourColor); err != nil {
		return fmt.Errorf("%w: contour_color %q: %w", ErrInvalidConfig, c.ContourColor, err)
	}

	if c.ContourThickness < 1 {
		return fmt.Errorf("%w: contour_thickness must be at least 1", ErrInvalidConfig)
	}

	switch c.LogLevel {
	case "info", "debug":
	default:
		return fmt.Errorf("%w: log_level must be info or debug, got %q", ErrInvalidConfig, c.LogLevel)
	}

	return nil
}

// validateRoots rejects output roots that share any directory with each other
// or with the input folder. Both roots are wiped on every run.
func (c *Config) validateRoots() error {
	input, err := filepath.Abs(c.InputDir)
	if err != nil {
		return fmt.Errorf("%w: input_dir: %w", ErrInvalidConfig, err)
	}
	crops, err := filepath.Abs(c.CropDir)
	if err != nil {
		return fmt.Errorf("%w: crop_dir: %w", ErrInvalidConfig, err)
	}
	boundaries, err := filepath.Abs(c.BoundaryDir)
	if err != nil {
		return fmt.Errorf("%w: boundary_dir: %w", ErrInvalidConfig, err)
	}

	if within(crops, boundaries) || within(boundaries, crops) {
		return fmt.Errorf("%w: crop_dir %q and boundary_dir %q must not overlap",
			ErrInvalidConfig, c.CropDir, c.BoundaryDir)
	}
	for _, out := range []struct {
		key  string
		path string
	}{
		{keyCropDir, crops},
		{keyBoundaryDir, boundaries},
	} {
		if within(out.path, input) {
			return fmt.Errorf("%w: input_dir %q lies inside %s", ErrInvalidConfig, c.InputDir, out.key)
		}
	}
	return nil
}

// within reports whether path is dir or lies below it. Both must be absolute.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// ContourRGBA returns ContourColor as an opaque color. The color must have
// passed Validate.
func (c *Config) ContourRGBA() color.RGBA {
	hex, err := colorful.Hex(c.ContourColor)
	if err != nil {
		return color.RGBA{A: 255}
	}
	r, g, b := hex.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}
