package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no config path is
// given.
const EnvPath = "M4K_CONFIG"

// Config is the root of the YAML configuration.
type Config struct {
	Seed        uint32       `yaml:"seed"`
	MaxFPS      int          `yaml:"max_fps"` // 0 means unlimited
	Workers     int          `yaml:"workers"` // 0 means one per CPU
	MetricsAddr string       `yaml:"metrics_addr"`
	Window      WindowConfig `yaml:"window"`
	World       WorldConfig  `yaml:"world"`
	Render      RenderConfig `yaml:"render"`
	Input       InputConfig  `yaml:"input"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// Scale divides the window size to get the pixel buffer size.
	Scale int `yaml:"scale"`
}

type WorldConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Depth  int  `yaml:"depth"`
	Trees  bool `yaml:"trees"`
}

type RenderConfig struct {
	FOV      float32 `yaml:"fov_degrees"`
	Distance float32 `yaml:"distance"`
	Fog      bool    `yaml:"fog"`
	Sky      string  `yaml:"sky"` // #rrggbb
}

type InputConfig struct {
	MouseSensitivity float32 `yaml:"mouse_sensitivity"` // radians per pixel
}

// Default returns the classic Minecraft4k settings.
func Default() Config {
	return Config{
		Seed:   45390874,
		MaxFPS: 60,
		Window: WindowConfig{
			Title:  "Minecraft4k",
			Width:  800,
			Height: 600,
			Scale:  4,
		},
		World: WorldConfig{
			Width:  64,
			Height: 64,
			Depth:  64,
			Trees:  true,
		},
		Render: RenderConfig{
			FOV:      90,
			Distance: 32,
			Fog:      true,
			Sky:      "#80c0ff",
		},
		Input: InputConfig{
			MouseSensitivity: 0.005,
		},
	}
}

// Load reads a YAML file over Default.
// If path == "", the path is taken from $M4K_CONFIG; if that is empty too,
// the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping fields the document does not
// mention. Unknown keys are an error.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.MaxFPS >= 0 && c.MaxFPS <= 1000, "max_fps %d out of range [0, 1000]", c.MaxFPS)
	check(c.Workers >= 0, "workers %d must not be negative", c.Workers)
	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	check(c.Window.Scale >= 1, "window scale %d must be at least 1", c.Window.Scale)
	if c.Window.Scale >= 1 {
		w, h := c.BufferSize()
		check(w > 0 && h > 0, "window %dx%d is smaller than scale %d", c.Window.Width, c.Window.Height, c.Window.Scale)
	}
	check(c.World.Width > 0 && c.World.Height > 0 && c.World.Depth > 0,
		"world size %dx%dx%d must be positive", c.World.Width, c.World.Height, c.World.Depth)
	check(c.Render.FOV > 10 && c.Render.FOV < 170, "render fov_degrees %v out of range (10, 170)", c.Render.FOV)
	check(c.Render.Distance >= 1, "render distance %v must be at least 1", c.Render.Distance)
	if _, err := c.SkyColor(); err != nil {
		errs = append(errs, err)
	}
	check(c.Input.MouseSensitivity > 0, "mouse_sensitivity %v must be positive", c.Input.MouseSensitivity)

	return errors.Join(errs...)
}

// BufferSize is the size of the rendered pixel buffer.
func (c Config) BufferSize() (int, int) {
	return c.Window.Width / c.Window.Scale, c.Window.Height / c.Window.Scale
}

// FOVRadians returns the horizontal field of view in radians.
func (c Config) FOVRadians() float32 {
	return mgl32.DegToRad(c.Render.FOV)
}

// FrameBudget is the time one frame may take at MaxFPS, or 0 when the
// frame rate is not capped.
func (c Config) FrameBudget() time.Duration {
	if c.MaxFPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.MaxFPS)
}

// ParseSeed parses a decimal seed. Values that do not fit in 32 bits are
// rejected rather than truncated.
func ParseSeed(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("config: seed %q: %w", s, err)
	}
	return uint32(v), nil
}

// SkyColor parses Render.Sky.
func (c Config) SkyColor() (color.RGBA, error) {
	var r, g, b uint8
	if n, err := fmt.Sscanf(c.Render.Sky, "#%02x%02x%02x", &r, &g, &b); err != nil || n != 3 || len(c.Render.Sky) != 7 {
		return color.RGBA{}, fmt.Errorf("render sky %q is not a #rrggbb colour", c.Render.Sky)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
