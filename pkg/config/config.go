// Package config loads graphcanvas settings from a TOML file.
//
// Every setting has a default, so a missing file at the default location is
// not an error. An explicitly named file must exist. Keys the file sets
// but this package does not know are reported as errors, so typos do not
// pass silently.
//
//	[canvas]
//	grid_size = 10
//	snap = true
//
//	[node]
//	diameter = 24
//	fill = "#ffeeaa"
//
//	[store]
//	backend = "badger"
//	path = "/var/lib/graphcanvas"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphcanvas/pkg/canvas"
	"github.com/matzehuels/graphcanvas/pkg/errors"
	"github.com/matzehuels/graphcanvas/pkg/store"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Config is the full settings tree.
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	Node   NodeConfig   `toml:"node"`
	Edge   EdgeConfig   `toml:"edge"`
	Render RenderConfig `toml:"render"`
	Store  store.Config `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CanvasConfig holds editing behaviour.
type CanvasConfig struct {
	GridSize        float64 `toml:"grid_size"`
	Snap            bool    `toml:"snap"`
	AnimationFrames int     `toml:"animation_frames"`
}

// NodeConfig is the style given to new nodes.
type NodeConfig struct {
	Diameter  float64 `toml:"diameter"`
	PenWidth  float64 `toml:"pen_width"`
	Fill      string  `toml:"fill"`
	Line      string  `toml:"line"`
	LabelSize float64 `toml:"label_size"`
}

// EdgeConfig is the style given to new edges.
type EdgeConfig struct {
	PenWidth  float64 `toml:"pen_width"`
	Color     string  `toml:"color"`
	LabelSize float64 `toml:"label_size"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Margin     float64  `toml:"margin"`
	Scale      float64  `toml:"scale"`
	DPI        float64  `toml:"dpi"`
	Background string   `toml:"background"`
	Formats    []string `toml:"formats"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Disabled  bool   `toml:"disabled"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	TTL       string `toml:"ttl"`
}

// ServerConfig configures `graphcanvas serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() *Config {
	ns, es := canvas.DefaultNodeStyle, canvas.DefaultEdgeStyle
	return &Config{
		Canvas: CanvasConfig{GridSize: 10, AnimationFrames: 12},
		Node: NodeConfig{
			Diameter: ns.Diameter, PenWidth: ns.PenWidth, Fill: ns.Fill, Line: ns.Line, LabelSize: ns.LabelSize,
		},
		Edge:   EdgeConfig{PenWidth: es.PenWidth, Color: es.Color, LabelSize: es.LabelSize},
		Render: RenderConfig{Margin: 10, Scale: 2, DPI: 96, Formats: []string{"svg"}},
		Store:  store.Config{Backend: store.BackendFile},
		Cache:  CacheConfig{TTL: "168h"},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// Dir returns $XDG_CONFIG_HOME/graphcanvas or the platform equivalent.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config directory")
	}
	return filepath.Join(base, "graphcanvas"), nil
}

// DefaultPath returns the config file looked up when none is named.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, FileName)
}

// Load reads path over the defaults. An empty path reads DefaultPath if
// it exists.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config %s", path)
	}
	defer f.Close()
	if err := cfg.decode(f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse reads TOML from r over the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return c.Validate()
}

// Formats accepted in [render] formats.
var Formats = []string{"svg", "png", "pdf", "dot", "json", "tikz", "edges"}

// Validate checks every setting.
func (c *Config) Validate() error {
	if err := errors.ValidateGrid(c.Canvas.GridSize); err != nil {
		return err
	}
	if c.Canvas.AnimationFrames < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation_frames must not be negative")
	}
	for _, col := range []string{c.Node.Fill, c.Node.Line, c.Edge.Color} {
		if err := errors.ValidateColor(col); err != nil {
			return err
		}
	}
	if c.Render.Background != "" {
		if err := errors.ValidateColor(c.Render.Background); err != nil {
			return err
		}
	}
	if c.Node.Diameter <= 0 || c.Node.PenWidth < 0 || c.Edge.PenWidth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "node diameter must be positive and pen widths not negative")
	}
	for _, f := range c.Render.Formats {
		if !slices.Contains(Formats, f) {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown render format %q", f)
		}
	}
	if !slices.Contains(store.Backends, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheTTL parses Cache.TTL. Empty means no expiry.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "invalid cache ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// NodeStyle returns the configured style for new nodes.
func (c *Config) NodeStyle() canvas.NodeStyle {
	n := c.Node
	return canvas.NodeStyle{Diameter: n.Diameter, PenWidth: n.PenWidth, Fill: n.Fill, Line: n.Line, LabelSize: n.LabelSize}
}

// EdgeStyle returns the configured style for new edges.
func (c *Config) EdgeStyle() canvas.EdgeStyle {
	e := c.Edge
	return canvas.EdgeStyle{PenWidth: e.PenWidth, Color: e.Color, LabelSize: e.LabelSize}
}

// Write encodes c as TOML.
func Write(w io.Writer, c *Config) error {
	return toml.NewEncoder(w).Encode(c)
}
