package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"md5-renderer/internal/diag"
	"md5-renderer/internal/md5"
	"md5-renderer/internal/model"
	"md5-renderer/internal/raster"
)

const triMesh = `MD5Version 10
numJoints 1
numMeshes 1
joints {
	"origin" -1 ( 0 0 0 ) ( 0 0 0 )
}
mesh {
	shader "tri"
	numverts 3
	vert 0 ( 0 0 ) 0 1
	vert 1 ( 1 0 ) 1 1
	vert 2 ( 0 1 ) 2 1
	numtris 1
	tri 0 0 2 1
	numweights 3
	weight 0 0 1 ( 0 0 0 )
	weight 1 0 1 ( 1 0 0 )
	weight 2 0 0.5 ( 0 0 4 )
}
`

const liftAnim = `MD5Version 10
numFrames 4
numJoints 1
frameRate 2
numAnimatedComponents 1
hierarchy {
	"origin" -1 4 0
}
bounds {
	( 0 0 0 ) ( 1 0 1 )
	( 0 0 1 ) ( 1 0 2 )
	( 0 0 2 ) ( 1 0 3 )
	( 0 0 3 ) ( 1 0 4 )
}
baseframe {
	( 0 0 0 ) ( 0 0 0 )
}
frame 0 {
	0
}
frame 1 {
	1
}
frame 2 {
	2
}
frame 3 {
	3
}
`

func character(t *testing.T) *model.Character {
	t.Helper()
	mesh, err := md5.ParseMeshString(triMesh)
	if err != nil {
		t.Fatal(err)
	}
	anim, err := md5.ParseAnimString(liftAnim)
	if err != nil {
		t.Fatal(err)
	}
	ch, err := model.New(mesh, anim)
	if err != nil {
		t.Fatal(err)
	}
	return ch
}

func TestFrames(t *testing.T) {
	ch := character(t)
	got := Frames(ch, 1, -1, 2)
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("Frames = %v", got)
	}
	static := &model.Character{Mesh: ch.Mesh}
	if got := Frames(static, 0, -1, 1); len(got) != 1 || got[0] != -1 {
		t.Errorf("static Frames = %v", got)
	}
}

func TestRunAndManifest(t *testing.T) {
	ch := character(t)
	out := t.TempDir()
	var sink diag.Collector
	cfg := Config{
		OutputDir: out,
		Render:    raster.Options{Size: 32, Supersample: 2},
		Workers:   3,
		Sink:      &sink,
	}
	results := Run(cfg, ch, Frames(ch, 0, -1, 1))
	if len(results) != 4 {
		t.Fatalf("results = %d", len(results))
	}
	for _, r := range results {
		if !r.Success {
			t.Fatalf("frame %d: %s", r.Frame, r.Error)
		}
		if r.Warnings != 1 {
			t.Errorf("frame %d warnings = %d, want 1 (bias sum)", r.Frame, r.Warnings)
		}
		if _, err := os.Stat(filepath.Join(out, r.File)); err != nil {
			t.Errorf("frame %d: %v", r.Frame, err)
		}
	}
	if results[3].Time != 1.5 || results[3].File != "frame_0003.webp" {
		t.Errorf("result 3 = %+v", results[3])
	}
	if n := sink.Count(diag.WeightSum); n != 4 {
		t.Errorf("shared sink WeightSum = %d, want 4", n)
	}

	path := filepath.Join(out, "manifest.json")
	if err := WriteManifest(path, Manifest{Mesh: "tri.md5mesh", FrameRate: 2}, results); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if len(m.Frames) != 4 || m.Frames[2].Max[2] != 3 {
		t.Errorf("manifest = %+v", m)
	}
}
