package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"md5-renderer/internal/batch"
	"md5-renderer/internal/config"
	"md5-renderer/internal/diag"
	"md5-renderer/internal/model"
	"md5-renderer/internal/raster"
	"md5-renderer/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to a config file (.json, .yaml)")
	meshPath := flag.String("mesh", "", "Path to .md5mesh")
	animPath := flag.String("anim", "", "Path to .md5anim (default: bind pose)")
	texDir := flag.String("textures", "", "Texture root (default: auto-detect from mesh path)")
	outputDir := flag.String("output", "", "Output directory (default: renders/<name>)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	viewName := flag.String("view", "", "Camera preset: default, front, side, back")
	skeleton := flag.Bool("skeleton", false, "Draw the skeleton on top")
	testN := flag.Int("test", 0, "Render only the first N frames")
	logLevel := flag.String("log", "", "Log level for warnings: debug, info, warn, error")

	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := cfg.Resolve(config.Flags{
		Mesh:       *meshPath,
		Anim:       *animPath,
		TextureDir: *texDir,
		OutputDir:  *outputDir,
		Workers:    *workers,
		View:       *viewName,
		Skeleton:   *skeleton,
		LogLevel:   *logLevel,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	diag.SetLogLevel(cfg.LogLevel)

	ch, err := model.Load(cfg.Mesh, cfg.Anim)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	frames := batch.Frames(ch, cfg.FirstFrame, cfg.LastFrame, cfg.FrameStep)
	if *testN > 0 && *testN < len(frames) {
		frames = frames[:*testN]
	}

	texIndex := texture.BuildIndex(cfg.TextureDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed under %s\n", texIndex.Len(), cfg.TextureDir)

	fmt.Println("MD5 preview renderer → WebP")
	fmt.Printf("Mesh: %s (%d joints, %d meshes)\n", cfg.Mesh, len(ch.Mesh.Joints), len(ch.Mesh.Meshes))
	if ch.Anim != nil {
		fmt.Printf("Anim: %s (%d frames @ %d fps)\n", cfg.Anim, ch.NumFrames(), ch.Anim.FrameRate)
	}
	fmt.Printf("Frames: %d, Workers: %d\n", len(frames), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir:   cfg.OutputDir,
		TexResolver: texCache,
		Render: raster.Options{
			Size:        cfg.RenderSize,
			Supersample: cfg.Supersample,
			Camera:      cfg.Camera,
			Skeleton:    cfg.Skeleton,
			NormalMaps:  cfg.NormalMaps,
		},
		Workers:  cfg.Workers,
		Sink:     diag.LogSink{Asset: filepath.Base(cfg.Mesh)},
		Progress: true,
	}, ch, frames)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	success, warnings := 0, 0
	var failed []batch.Result
	for _, r := range results {
		warnings += r.Warnings
		if r.Success {
			success++
		} else {
			failed = append(failed, r)
		}
	}
	fmt.Printf("Rendered: %d/%d (%d warnings)\n", success, len(frames), warnings)

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, r := range failed[:min(len(failed), 20)] {
			fmt.Printf("  frame %d: %s\n", r.Frame, r.Error)
		}
	}

	manifest := batch.Manifest{Mesh: cfg.Mesh, Anim: cfg.Anim}
	if ch.Anim != nil {
		manifest.FrameRate = ch.Anim.FrameRate
	}
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, manifest, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
