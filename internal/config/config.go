package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"cloud-carousel/internal/carousel"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CAROUSEL_"

// Config holds the image list, output and carousel settings.
type Config struct {
	// Paths
	ItemList  string `json:"item_list" yaml:"item_list"`
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Render settings
	Width       int    `json:"width" yaml:"width"`
	Height      int    `json:"height" yaml:"height"`
	Frames      int    `json:"frames" yaml:"frames"`
	Supersample int    `json:"supersample" yaml:"supersample"`
	FPS         int    `json:"fps" yaml:"fps"`
	Workers     int    `json:"workers" yaml:"workers"`
	Background  string `json:"background" yaml:"background"`

	// Carousel settings. Pointers distinguish an explicit zero from unset.
	ReflectionHeight  float64  `json:"reflection_height" yaml:"reflection_height"`
	ReflectionOpacity *float64 `json:"reflection_opacity" yaml:"reflection_opacity"`
	ReflectionGap     float64  `json:"reflection_gap" yaml:"reflection_gap"`
	MinScale          *float64 `json:"min_scale" yaml:"min_scale"`
	XRadius           float64  `json:"x_radius" yaml:"x_radius"`
	YRadius           float64  `json:"y_radius" yaml:"y_radius"`
	XPos              float64  `json:"x_pos" yaml:"x_pos"`
	YPos              float64  `json:"y_pos" yaml:"y_pos"`
	AutoRotate        string   `json:"auto_rotate" yaml:"auto_rotate"`
	AutoRotateDelayMs int      `json:"auto_rotate_delay_ms" yaml:"auto_rotate_delay_ms"`
	Speed             float64  `json:"speed" yaml:"speed"`
	MouseWheel        bool     `json:"mouse_wheel" yaml:"mouse_wheel"`
	BringToFront      bool     `json:"bring_to_front" yaml:"bring_to_front"`

	Sound bool `json:"sound" yaml:"sound"`
}

// Load reads a JSON or YAML config file, chosen by extension.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from CAROUSEL_* variables found by lookup
// (normally os.LookupEnv).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: env %s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
		return nil
	}
	flt := func(name string, dst *float64) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: env %s%s: %w", EnvPrefix, name, err)
		}
		*dst = f
		return nil
	}
	flag := func(name string, dst *bool) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: env %s%s: %w", EnvPrefix, name, err)
		}
		*dst = b
		return nil
	}

	str("ITEM_LIST", &c.ItemList)
	str("OUTPUT_DIR", &c.OutputDir)
	str("AUTOROTATE", &c.AutoRotate)
	str("BACKGROUND", &c.Background)

	var errs []error
	errs = append(errs,
		num("WORKERS", &c.Workers),
		num("FPS", &c.FPS),
		num("FRAMES", &c.Frames),
		num("SUPERSAMPLE", &c.Supersample),
		num("AUTOROTATE_DELAY_MS", &c.AutoRotateDelayMs),
		flt("SPEED", &c.Speed),
		flt("REFLECTION_HEIGHT", &c.ReflectionHeight),
		flag("MOUSEWHEEL", &c.MouseWheel),
		flag("BRING_TO_FRONT", &c.BringToFront),
		flag("SOUND", &c.Sound),
	)
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	ItemList    string
	OutputDir   string
	Workers     int
	Frames      int
	Supersample int
	FPS         int
	Width       int
	Height      int
	AutoRotate  string

	// Set only when true on the command line.
	MouseWheel   bool
	BringToFront bool
	Sound        bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.ItemList != "" {
		c.ItemList = flags.ItemList
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.AutoRotate != "" {
		c.AutoRotate = flags.AutoRotate
	}
	c.MouseWheel = c.MouseWheel || flags.MouseWheel
	c.BringToFront = c.BringToFront || flags.BringToFront
	c.Sound = c.Sound || flags.Sound

	if c.OutputDir == "" {
		c.OutputDir = "carousel-frames"
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 360
	}
	if c.Frames <= 0 {
		c.Frames = 120
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.FPS <= 0 {
		c.FPS = 60
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Background == "" {
		c.Background = "#000000"
	}

	def := carousel.DefaultConfig()
	if c.ReflectionOpacity == nil {
		c.ReflectionOpacity = &def.ReflectionOpacity
	}
	if c.MinScale == nil {
		c.MinScale = &def.MinScale
	}
	if c.AutoRotateDelayMs <= 0 {
		c.AutoRotateDelayMs = int(def.AutoRotateDelay / time.Millisecond)
	}
	if c.Speed <= 0 {
		c.Speed = def.Speed
	}
}

// FrameInterval is the time between two frames at the configured FPS.
func (c Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return carousel.DefaultConfig().FrameInterval
	}
	return time.Second / time.Duration(c.FPS)
}

// Carousel converts the resolved settings to a carousel.Config. Text sinks
// are left for the caller to attach.
func (c Config) Carousel() (carousel.Config, error) {
	out := carousel.DefaultConfig()
	mode, err := carousel.ParseAutoRotate(c.AutoRotate)
	if err != nil {
		return out, fmt.Errorf("config: %w", err)
	}

	out.ReflectionHeight = c.ReflectionHeight
	out.ReflectionGap = c.ReflectionGap
	if c.ReflectionOpacity != nil {
		out.ReflectionOpacity = *c.ReflectionOpacity
	}
	if c.MinScale != nil {
		out.MinScale = *c.MinScale
	}
	out.XRadius, out.YRadius = c.XRadius, c.YRadius
	out.XPos, out.YPos = c.XPos, c.YPos
	out.AutoRotate = mode
	if c.AutoRotateDelayMs > 0 {
		out.AutoRotateDelay = time.Duration(c.AutoRotateDelayMs) * time.Millisecond
	}
	if c.Speed > 0 {
		out.Speed = c.Speed
	}
	out.FrameInterval = c.FrameInterval()
	out.MouseWheel = c.MouseWheel
	out.BringToFront = c.BringToFront
	return out, nil
}

// BackgroundColor parses Background as #rgb or #rrggbb.
func (c Config) BackgroundColor() (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(c.Background), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("config: background %q: want #rrggbb", c.Background)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("config: background %q: %w", c.Background, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
