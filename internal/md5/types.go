package md5

import (
	"math/bits"

	"md5-renderer/internal/mathutil"
)

// Version is the only MD5 revision understood by the parser (Doom 3 / Quake 4).
const Version = 10

// ChannelFlags selects which of a joint's six channels a frame stores.
type ChannelFlags uint8

const (
	FlagTX ChannelFlags = 1 << iota
	FlagTY
	FlagTZ
	FlagQX
	FlagQY
	FlagQZ

	flagsAll = FlagTX | FlagTY | FlagTZ | FlagQX | FlagQY | FlagQZ
)

// Count returns the number of stored channels.
func (f ChannelFlags) Count() int {
	return bits.OnesCount8(uint8(f))
}

// Joint is a mesh-document joint carrying its absolute bind-pose transform.
type Joint struct {
	Name     string
	Parent   int // -1 for roots, otherwise an earlier index
	Position mathutil.Vec3
	Orient   mathutil.Quat
}

// Vertex references a contiguous run of the mesh's weights.
type Vertex struct {
	UV          mathutil.Vec2
	WeightStart int
	WeightCount int
}

// Weight is one joint-space contribution to a vertex position.
type Weight struct {
	Joint  int
	Bias   float64
	Offset mathutil.Vec3
}

// Triangle holds three vertex indices in clockwise (front-facing) order.
type Triangle [3]int

// Mesh is one `mesh { }` block.
type Mesh struct {
	Shader    string
	Vertices  []Vertex
	Triangles []Triangle
	Weights   []Weight
}

// UVs returns the texture coordinate of every vertex, in vertex order.
func (m *Mesh) UVs() []mathutil.Vec2 {
	uvs := make([]mathutil.Vec2, len(m.Vertices))
	for i, v := range m.Vertices {
		uvs[i] = v.UV
	}
	return uvs
}

// Model is a parsed .md5mesh document.
type Model struct {
	Version     int
	CommandLine string
	Joints      []Joint
	Meshes      []Mesh
}

// Parents returns the parent index of every joint.
func (m *Model) Parents() []int {
	p := make([]int, len(m.Joints))
	for i, j := range m.Joints {
		p[i] = j.Parent
	}
	return p
}

// HierarchyJoint is one `hierarchy { }` entry of an animation. Joints with
// stored channels take consecutive StartIndex ranges in hierarchy order.
type HierarchyJoint struct {
	Name       string
	Parent     int
	Flags      ChannelFlags
	StartIndex int // offset of this joint's stored channels in Frame.Components
}

// BaseJoint is a joint's default (parent-relative) transform.
type BaseJoint struct {
	Position mathutil.Vec3
	Orient   mathutil.Quat
}

// Bounds is a per-frame axis-aligned box supplied by the source data.
type Bounds struct {
	Min, Max mathutil.Vec3
}

// Frame holds only the channels selected by each joint's flags, in hierarchy order.
type Frame struct {
	Index      int
	Components []float64
}

// Anim is a parsed .md5anim document.
type Anim struct {
	Version               int
	CommandLine           string
	FrameRate             int
	NumAnimatedComponents int
	Hierarchy             []HierarchyJoint
	Bounds                []Bounds
	BaseFrame             []BaseJoint
	Frames                []Frame
}

// Duration returns the clip length in seconds (0 when the frame rate is unknown).
func (a *Anim) Duration() float64 {
	if a.FrameRate <= 0 {
		return 0
	}
	return float64(len(a.Frames)) / float64(a.FrameRate)
}
