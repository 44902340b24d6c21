package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAMLAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "imp.yaml")
	src := `base_dir: /assets
mesh: models/md5/monsters/imp/imp.md5mesh
anim: models/md5/monsters/imp/walk1.md5anim
frame_step: 2
view: front
camera:
  perspective: true
  fov: 40
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LastFrame != -1 {
		t.Errorf("LastFrame default lost: %d", cfg.LastFrame)
	}
	if err := cfg.Resolve(Flags{Workers: 3, TextureDir: "/tex"}); err != nil {
		t.Fatal(err)
	}

	if want := filepath.Join("/assets", "models/md5/monsters/imp/imp.md5mesh"); cfg.Mesh != want {
		t.Errorf("Mesh = %q, want %q", cfg.Mesh, want)
	}
	if cfg.TextureDir != "/tex" || cfg.Workers != 3 || cfg.FrameStep != 2 {
		t.Errorf("overrides = %q %d %d", cfg.TextureDir, cfg.Workers, cfg.FrameStep)
	}
	if cfg.OutputDir != filepath.Join("renders", "walk1") {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Camera.Yaw != 90 || !cfg.Camera.Perspective || cfg.Camera.FOV != 40 {
		t.Errorf("Camera = %+v", cfg.Camera)
	}
	if cfg.RenderSize != 256 || cfg.Supersample != 2 || cfg.LogLevel != "warn" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	if err := os.WriteFile(path, []byte(`{"mesh":"a.md5mesh","render_size":512,"skeleton":true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RenderSize != 512 || !cfg.Skeleton {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestResolveErrors(t *testing.T) {
	cfg := Default()
	if err := cfg.Resolve(Flags{}); err == nil {
		t.Error("missing mesh accepted")
	}
	cfg = Default()
	if err := cfg.Resolve(Flags{Mesh: "a.md5mesh", View: "sideways"}); err == nil {
		t.Error("unknown view accepted")
	}
}
