package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"md5-renderer/internal/diag"
	"md5-renderer/internal/export"
	"md5-renderer/internal/model"
	"md5-renderer/internal/skeleton"
	"md5-renderer/internal/texture"
)

func main() {
	meshPath := flag.String("mesh", "", "Path to .md5mesh")
	animPath := flag.String("anim", "", "Path to .md5anim (default: bind pose)")
	frame := flag.Int("frame", -1, "Frame to export (-1: bind pose)")
	at := flag.Float64("time", -1, "Export the frame at this many seconds instead of -frame")
	loop := flag.Bool("loop", false, "Wrap -time past the end of the clip")
	texDir := flag.String("textures", "", "Texture root to embed from (default: none)")
	output := flag.String("o", "", "Output .glb (default: <mesh>.glb)")
	skipHidden := flag.Bool("skip-hidden", true, "Leave out collision/shadow meshes")
	logLevel := flag.String("log", "warn", "Log level for warnings")
	flag.Parse()

	if *meshPath == "" {
		fmt.Fprintln(os.Stderr, "usage: export -mesh file.md5mesh [-anim file.md5anim] [-frame N | -time S] [-o out.glb]")
		os.Exit(2)
	}
	diag.SetLogLevel(*logLevel)

	ch, err := model.Load(*meshPath, *animPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *at >= 0 && ch.Anim != nil {
		*frame = skeleton.FrameAt(ch.Anim, *at, *loop)
	}

	name := strings.TrimSuffix(filepath.Base(*meshPath), filepath.Ext(*meshPath))
	f, err := ch.Build(*frame, diag.LogSink{Asset: name})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := export.Options{Name: name, SkipHidden: *skipHidden}
	if *texDir != "" {
		opts.Textures = texture.NewCache(texture.BuildIndex(*texDir))
	}
	doc, err := export.Build(ch, f, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := *output
	if out == "" {
		out = strings.TrimSuffix(*meshPath, filepath.Ext(*meshPath)) + ".glb"
	}
	if err := export.Save(doc, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (frame %d, %d meshes, %d nodes)\n", out, f.Index, len(doc.Meshes), len(doc.Nodes))
}
