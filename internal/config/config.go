package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/techpills/internal/dynamo"
	"github.com/san-kum/techpills/internal/techstack"
)

const (
	DefaultWidth      = 960.0
	DefaultHeight     = 400.0
	DefaultPillWidth  = 160.0
	DefaultPillHeight = 48.0
	DefaultGap        = 16.0
	DefaultThickness  = 40.0
	DefaultFrameRate  = 60
	DefaultStep       = 1.0 / 60
	DefaultIntegrator = "semi-implicit"
	DefaultCatalog    = "default"
	DefaultSteps      = 600
	DefaultAddr       = ":8080"
	DefaultMoveRate   = 120.0
	DefaultMoveBurst  = 30
)

type Config struct {
	Container  SizeConfig       `yaml:"container"`
	Pill       SizeConfig       `yaml:"pill"`
	Gap        float64          `yaml:"gap"`
	Rows       []int            `yaml:"rows"`
	Material   dynamo.Material  `yaml:"material"`
	Boundary   BoundaryConfig   `yaml:"boundary"`
	Gravity    VecConfig        `yaml:"gravity"`
	Integrator string           `yaml:"integrator"`
	FrameRate  int              `yaml:"frame_rate"`
	Step       float64          `yaml:"step"`
	Catalog    string           `yaml:"catalog"`
	Items      []techstack.Item `yaml:"items,omitempty"`
	Run        RunConfig        `yaml:"run"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
}

type SizeConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

func (s SizeConfig) Size() dynamo.Size { return dynamo.Size{Width: s.Width, Height: s.Height} }

type BoundaryConfig struct {
	Thickness float64 `yaml:"thickness"`
	Inset     float64 `yaml:"inset"`
}

type VecConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VecConfig) Vec() dynamo.Vec2 { return dynamo.V(v.X, v.Y) }

// RunConfig drives headless sessions.
type RunConfig struct {
	Steps int     `yaml:"steps"`
	Seed  int64   `yaml:"seed"`
	Kick  float64 `yaml:"kick"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MoveRate       float64  `yaml:"move_rate"`
	MoveBurst      int      `yaml:"move_burst"`
	StatsDB        string   `yaml:"stats_db,omitempty"`
	StatsSalt      string   `yaml:"stats_salt,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Container:  SizeConfig{Width: DefaultWidth, Height: DefaultHeight},
		Pill:       SizeConfig{Width: DefaultPillWidth, Height: DefaultPillHeight},
		Gap:        DefaultGap,
		Rows:       []int{5, 4, 3, 2, 1},
		Material:   dynamo.DefaultMaterial(),
		Boundary:   BoundaryConfig{Thickness: DefaultThickness},
		Integrator: DefaultIntegrator,
		FrameRate:  DefaultFrameRate,
		Step:       DefaultStep,
		Catalog:    DefaultCatalog,
		Run:        RunConfig{Steps: DefaultSteps, Seed: 1, Kick: 600},
		Log:        LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:           DefaultAddr,
			AllowedOrigins: []string{"*"},
			MoveRate:       DefaultMoveRate,
			MoveBurst:      DefaultMoveBurst,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets are never mutated by flag overrides.
func (c *Config) Clone() *Config {
	out := *c
	out.Rows = append([]int(nil), c.Rows...)
	out.Items = append([]techstack.Item(nil), c.Items...)
	out.Server.AllowedOrigins = append([]string(nil), c.Server.AllowedOrigins...)
	return &out
}

// Interval is the real time between frames for the interactive hosts.
func (c *Config) Interval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / DefaultFrameRate
	}
	return time.Second / time.Duration(c.FrameRate)
}

// ResolveItems returns the explicit item list or the named catalog.
func (c *Config) ResolveItems() ([]techstack.Item, error) {
	if len(c.Items) > 0 {
		return c.Items, nil
	}
	return techstack.Named(c.Catalog)
}

func (c *Config) Validate() error {
	if !c.Container.Size().Valid() {
		return fmt.Errorf("container %.0fx%.0f: %w", c.Container.Width, c.Container.Height, dynamo.ErrInvalidSize)
	}
	if !c.Pill.Size().Valid() {
		return fmt.Errorf("pill %.0fx%.0f: %w", c.Pill.Width, c.Pill.Height, dynamo.ErrInvalidSize)
	}
	if c.Gap < 0 {
		return fmt.Errorf("gap must not be negative, got %.1f", c.Gap)
	}
	if len(c.Rows) == 0 {
		return fmt.Errorf("rows must not be empty")
	}
	for i, n := range c.Rows {
		if n <= 0 {
			return fmt.Errorf("row %d must hold at least one item, got %d", i, n)
		}
	}
	m := c.Material
	if m.Restitution < 0 || m.Restitution > 1 {
		return fmt.Errorf("restitution must be in [0, 1], got %.2f", m.Restitution)
	}
	if m.Friction < 0 || m.AirDrag < 0 || m.AirDrag >= 1 {
		return fmt.Errorf("friction must be >= 0 and air_drag in [0, 1), got %.2f / %.2f", m.Friction, m.AirDrag)
	}
	if c.Boundary.Thickness <= 0 || c.Boundary.Inset < 0 {
		return fmt.Errorf("boundary thickness must be positive and inset non-negative")
	}
	if c.Step <= 0 {
		return fmt.Errorf("step must be positive, got %f", c.Step)
	}
	if c.FrameRate <= 0 || c.FrameRate > 240 {
		return fmt.Errorf("frame_rate must be in (0, 240], got %d", c.FrameRate)
	}
	if c.Run.Steps < 0 {
		return fmt.Errorf("run.steps must not be negative")
	}
	if c.Server.MoveRate <= 0 || c.Server.MoveBurst <= 0 {
		return fmt.Errorf("server move_rate and move_burst must be positive")
	}
	items, err := c.ResolveItems()
	if err != nil {
		return err
	}
	return techstack.Validate(items)
}
