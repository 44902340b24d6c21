package geometry

import (
	"math"
	"testing"

	"md5-renderer/internal/diag"
	"md5-renderer/internal/md5"
	"md5-renderer/internal/mathutil"
)

const eps = 1e-9

func near(a, b mathutil.Vec3) bool {
	return a.Sub(b).Len() < eps
}

func unitQuad() ([]md5.Triangle, []mathutil.Vec2, []mathutil.Vec3) {
	pos := []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	uvs := []mathutil.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	tris := []md5.Triangle{{0, 3, 2}, {0, 2, 1}}
	return tris, uvs, pos
}

func TestDeriveQuad(t *testing.T) {
	tris, uvs, pos := unitQuad()
	var c diag.Collector
	s := Derive(0, tris, uvs, pos, &c)

	if ws := c.Warnings(); len(ws) != 0 {
		t.Fatalf("warnings: %v", ws)
	}
	z, x, y := mathutil.Vec3{0, 0, 1}, mathutil.Vec3{1, 0, 0}, mathutil.Vec3{0, 1, 0}
	for i := range tris {
		if !near(s.FaceNormals[i], z) {
			t.Errorf("face %d normal = %v", i, s.FaceNormals[i])
		}
		if !s.FaceValid[i] || !near(s.FaceTangents[i], x) || !near(s.FaceBitangents[i], y) {
			t.Errorf("face %d tangent frame = %v %v", i, s.FaceTangents[i], s.FaceBitangents[i])
		}
	}
	for i := range pos {
		if !near(s.Normals[i], z) || !near(s.Tangents[i], x) || !near(s.Bitangents[i], y) {
			t.Errorf("vertex %d = n%v t%v b%v", i, s.Normals[i], s.Tangents[i], s.Bitangents[i])
		}
		if h := Handedness(s.Normals[i], s.Tangents[i], s.Bitangents[i]); h != 1 {
			t.Errorf("vertex %d handedness = %v", i, h)
		}
	}
}

func TestDeriveMirroredUV(t *testing.T) {
	tris, uvs, pos := unitQuad()
	for i := range uvs {
		uvs[i][0] = 1 - uvs[i][0]
	}
	s := Derive(0, tris, uvs, pos, nil)
	for i := range pos {
		if !near(s.Tangents[i], mathutil.Vec3{-1, 0, 0}) {
			t.Errorf("vertex %d tangent = %v", i, s.Tangents[i])
		}
		if h := Handedness(s.Normals[i], s.Tangents[i], s.Bitangents[i]); h != -1 {
			t.Errorf("vertex %d handedness = %v, want -1", i, h)
		}
	}
}

func TestDeriveDegenerateUV(t *testing.T) {
	tris, uvs, pos := unitQuad()
	for i := range uvs {
		uvs[i] = mathutil.Vec2{0.5, 0.5}
	}
	var c diag.Collector
	s := Derive(2, tris, uvs, pos, &c)

	if n := c.Count(diag.DegenerateUV); n != 2 {
		t.Errorf("DegenerateUV warnings = %d, want 2", n)
	}
	for _, w := range c.Warnings() {
		if w.Mesh != 2 {
			t.Errorf("warning mesh = %d", w.Mesh)
		}
	}
	for i := range tris {
		if s.FaceValid[i] {
			t.Errorf("face %d marked valid", i)
		}
	}
	for i := range pos {
		if !near(s.Normals[i], mathutil.Vec3{0, 0, 1}) {
			t.Errorf("normal %d = %v", i, s.Normals[i])
		}
		if s.Tangents[i] != (mathutil.Vec3{}) || !s.Bitangents[i].IsFinite() {
			t.Errorf("vertex %d tangent = %v bitangent = %v", i, s.Tangents[i], s.Bitangents[i])
		}
	}
}

func TestDeriveDegenerateFace(t *testing.T) {
	pos := []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	uvs := []mathutil.Vec2{{0, 0}, {1, 0}, {0, 1}}
	var c diag.Collector
	s := Derive(0, []md5.Triangle{{0, 1, 2}}, uvs, pos, &c)

	if n := c.Count(diag.DegenerateFace); n != 1 {
		t.Errorf("DegenerateFace warnings = %d", n)
	}
	for i, n := range s.Normals {
		if n != (mathutil.Vec3{}) {
			t.Errorf("normal %d = %v, want zero", i, n)
		}
	}
}

func TestDeriveSharedVertexAverage(t *testing.T) {
	// Two faces meeting at a right angle along the X axis.
	pos := []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	uvs := []mathutil.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	tris := []md5.Triangle{{0, 2, 1}, {0, 1, 3}}
	s := Derive(0, tris, uvs, pos, nil)

	if !near(s.FaceNormals[0], mathutil.Vec3{0, 0, 1}) || !near(s.FaceNormals[1], mathutil.Vec3{0, 1, 0}) {
		t.Fatalf("face normals = %v", s.FaceNormals)
	}
	h := 1 / math.Sqrt2
	if !near(s.Normals[0], mathutil.Vec3{0, h, h}) {
		t.Errorf("shared normal = %v", s.Normals[0])
	}
}
