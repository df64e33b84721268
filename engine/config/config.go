package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-vbuf/common"
	"github.com/Carmen-Shannon/oxy-vbuf/engine"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vbuf/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the YAML configuration of a demo program.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Window    WindowConfig    `yaml:"window"`
	Renderer  RendererConfig  `yaml:"renderer"`
	Engine    EngineConfig    `yaml:"engine"`
	Instances InstancesConfig `yaml:"instances"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode     string     `yaml:"present_mode"`
	MSAA            int        `yaml:"msaa"`
	PartialUploads  bool       `yaml:"partial_uploads"`
	ValidateShaders bool       `yaml:"validate_shaders"`
	Software        bool       `yaml:"software"`
	ClearColor      [4]float64 `yaml:"clear_color"`
}

type EngineConfig struct {
	FrameLimit      float64       `yaml:"frame_limit"`
	Profiling       bool          `yaml:"profiling"`
	ProfileInterval time.Duration `yaml:"profile_interval"`
}

// InstancesConfig sizes the instanced demo.
type InstancesConfig struct {
	Count   int `yaml:"count"`
	Workers int `yaml:"workers"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Window: WindowConfig{
			Title:  "oxy-vbuf",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			MSAA:        4,
			ClearColor:  [4]float64{0.1, 0.1, 0.1, 1},
		},
		Engine: EngineConfig{
			ProfileInterval: time.Second,
		},
		Instances: InstancesConfig{
			Count:   1024,
			Workers: 4,
		},
	}
}

// Parse decodes YAML over the defaults and validates the result.
// Keys missing from data keep their default values.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the configuration
//   - error: a YAML error or ErrInvalidConfig
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	c.Window.Title = common.Coalesce(strings.TrimSpace(c.Window.Title), Default().Window.Title)
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads and parses a YAML configuration file.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the configuration
//   - error: a read, YAML or validation error
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	return Parse(data)
}

// Validate checks value ranges and enumerations.
//
// Returns:
//   - error: ErrInvalidConfig wrapped with the first offending field
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidConfig)
	}

	if _, ok := parseLevel(c.LogLevel); !ok {
		return invalid("log_level %q", c.LogLevel)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window size %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.Renderer.PresentMode {
	case "vsync", "uncapped":
	default:
		return invalid("renderer.present_mode %q", c.Renderer.PresentMode)
	}
	if c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4 {
		return invalid("renderer.msaa %d", c.Renderer.MSAA)
	}
	if c.Engine.FrameLimit < 0 {
		return invalid("engine.frame_limit %v", c.Engine.FrameLimit)
	}
	if c.Engine.ProfileInterval < 0 {
		return invalid("engine.profile_interval %v", c.Engine.ProfileInterval)
	}
	if c.Instances.Count <= 0 || c.Instances.Workers <= 0 {
		return invalid("instances count %d workers %d", c.Instances.Count, c.Instances.Workers)
	}
	return nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

// Logger returns a text logger on stderr at the configured level.
func (c Config) Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.Level()}))
}

// WindowOptions maps the window section to window options.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithSize(c.Window.Width, c.Window.Height),
	}
}

// RendererOptions maps the renderer section to renderer options.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	mode := renderer.PresentModeVSync
	if c.Renderer.PresentMode == "uncapped" {
		mode = renderer.PresentModeUncapped
	}
	msaa := renderer.MSAA4x
	if c.Renderer.MSAA == 1 {
		msaa = renderer.MSAAOff
	}
	cc := c.Renderer.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(msaa),
		renderer.WithPartialUploads(c.Renderer.PartialUploads),
		renderer.WithShaderValidation(c.Renderer.ValidateShaders),
		renderer.WithForceSoftwareRenderer(c.Renderer.Software),
		renderer.WithClearColor(wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
	}
}

// EngineOptions maps the engine section to engine options.
func (c Config) EngineOptions() []engine.EngineBuilderOption {
	return []engine.EngineBuilderOption{
		engine.WithRenderFrameLimit(c.Engine.FrameLimit),
		engine.WithProfiling(c.Engine.Profiling),
		engine.WithProfileInterval(c.Engine.ProfileInterval),
	}
}
