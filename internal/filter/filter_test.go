package filter

import (
	"testing"

	"md5-renderer/internal/md5"
)

func TestIsHidden(t *testing.T) {
	tests := []struct {
		shader string
		want   bool
	}{
		{"models/monsters/imp/imp", false},
		{"textures/common/collision", true},
		{"models/characters/player/shadow", true},
		{"models/props/crate_shadow2", true},
		{"textures/common/nodraw", true},
		{"models/weapons/tracemodel", true},
		{"models/weapons/arm_tracemodel_paint", false},
		{"models/monsters/clipper/body", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsHidden(&md5.Mesh{Shader: tt.shader}); got != tt.want {
			t.Errorf("IsHidden(%q) = %v, want %v", tt.shader, got, tt.want)
		}
	}
}

func TestComponents(t *testing.T) {
	m := &md5.Mesh{
		Vertices: make([]md5.Vertex, 8),
		Triangles: []md5.Triangle{
			{0, 1, 2},
			{4, 5, 6}, {5, 6, 7},
		},
	}
	comps := Components(m)
	if len(comps) != 2 {
		t.Fatalf("components = %v", comps)
	}
	if len(comps[0]) != 4 || len(comps[1]) != 3 {
		t.Errorf("sizes = %d, %d; want largest first", len(comps[0]), len(comps[1]))
	}
}
