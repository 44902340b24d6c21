package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v2"

	"md5-renderer/internal/view"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir" yaml:"base_dir"`
	Mesh       string `json:"mesh" yaml:"mesh"`
	Anim       string `json:"anim" yaml:"anim"`
	TextureDir string `json:"texture_dir" yaml:"texture_dir"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`

	// Frame selection: [FirstFrame, LastFrame] every FrameStep frames.
	// LastFrame < 0 means the end of the animation.
	FirstFrame int `json:"first_frame" yaml:"first_frame"`
	LastFrame  int `json:"last_frame" yaml:"last_frame"`
	FrameStep  int `json:"frame_step" yaml:"frame_step"`

	// Render settings
	RenderSize  int         `json:"render_size" yaml:"render_size"`
	Supersample int         `json:"supersample" yaml:"supersample"`
	Workers     int         `json:"workers" yaml:"workers"`
	View        string      `json:"view" yaml:"view"`
	Camera      view.Camera `json:"camera" yaml:"camera"`
	Skeleton    bool        `json:"skeleton" yaml:"skeleton"`
	NormalMaps  bool        `json:"normal_maps" yaml:"normal_maps"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{LastFrame: -1}
}

// Load reads a JSON or YAML (.yaml/.yml) config file.
// Fields not set in the file keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
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

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Mesh       string
	Anim       string
	TextureDir string
	OutputDir  string
	Workers    int
	View       string
	Skeleton   bool
	LogLevel   string
}

// Resolve applies CLI overrides, resolves relative paths against BaseDir and
// fills in defaults.
func (c *Config) Resolve(flags Flags) error {
	for _, o := range []struct {
		dst *string
		val string
	}{
		{&c.Mesh, flags.Mesh},
		{&c.Anim, flags.Anim},
		{&c.TextureDir, flags.TextureDir},
		{&c.OutputDir, flags.OutputDir},
		{&c.View, flags.View},
		{&c.LogLevel, flags.LogLevel},
	} {
		if o.val != "" {
			*o.dst = o.val
		}
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Skeleton {
		c.Skeleton = true
	}

	if c.Mesh == "" {
		return fmt.Errorf("config: no mesh given")
	}
	for _, p := range []*string{&c.Mesh, &c.Anim, &c.TextureDir, &c.OutputDir} {
		if *p != "" && c.BaseDir != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(c.BaseDir, *p)
		}
	}
	if c.TextureDir == "" {
		c.TextureDir = detectTextureDir(c.Mesh)
	}
	if c.OutputDir == "" {
		stem := strings.TrimSuffix(filepath.Base(c.Mesh), filepath.Ext(c.Mesh))
		if c.Anim != "" {
			stem = strings.TrimSuffix(filepath.Base(c.Anim), filepath.Ext(c.Anim))
		}
		c.OutputDir = filepath.Join("renders", stem)
	}

	if c.View != "" {
		cam, ok := view.Preset(c.View)
		if !ok {
			return fmt.Errorf("config: unknown view %q", c.View)
		}
		cam.Perspective, cam.FOV = c.Camera.Perspective, c.Camera.FOV
		c.Camera = cam
	} else if c.Camera == (view.Camera{}) {
		c.Camera, _ = view.Preset("default")
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.FrameStep <= 0 {
		c.FrameStep = 1
	}
	if c.FirstFrame < 0 {
		c.FirstFrame = 0
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	return nil
}

// detectTextureDir walks up from the mesh looking for the asset root that
// holds Doom 3 style "models" and "textures" trees.
func detectTextureDir(meshPath string) string {
	dir := filepath.Dir(meshPath)
	for i := 0; i < 6; i++ {
		for _, sub := range []string{"models", "textures"} {
			if info, err := os.Stat(filepath.Join(dir, sub)); err == nil && info.IsDir() {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return filepath.Dir(meshPath)
}
