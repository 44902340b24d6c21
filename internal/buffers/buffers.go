// Package buffers packs frame data into flat float32 arrays laid out for
// vertex buffers: one array per attribute, tightly packed.
package buffers

import (
	"github.com/go-gl/mathgl/mgl32"

	"md5-renderer/internal/geometry"
	"md5-renderer/internal/md5"
	"md5-renderer/internal/mathutil"
	"md5-renderer/internal/skeleton"
)

func vec3(v mathutil.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func appendVec3(dst []float32, v mgl32.Vec3) []float32 {
	return append(dst, v[0], v[1], v[2])
}

// Mesh holds the attribute arrays of one skinned mesh. Tangents carry the
// bitangent sign in w.
type Mesh struct {
	Indices    []uint32
	Positions  []float32 // xyz
	UVs        []float32 // uv
	Normals    []float32 // xyz
	Tangents   []float32 // xyzw
	Bitangents []float32 // xyz
}

// VertexCount returns the number of vertices in the buffers.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// FromMesh packs a skinned mesh and its derived surface.
func FromMesh(mesh *md5.Mesh, pos []mathutil.Vec3, s *geometry.Surface) *Mesh {
	n := len(pos)
	out := &Mesh{
		Indices:    make([]uint32, 0, 3*len(mesh.Triangles)),
		Positions:  make([]float32, 0, 3*n),
		UVs:        make([]float32, 0, 2*n),
		Normals:    make([]float32, 0, 3*n),
		Tangents:   make([]float32, 0, 4*n),
		Bitangents: make([]float32, 0, 3*n),
	}
	for _, tri := range mesh.Triangles {
		out.Indices = append(out.Indices, uint32(tri[0]), uint32(tri[1]), uint32(tri[2]))
	}
	for i, p := range pos {
		uv := mesh.Vertices[i].UV
		out.Positions = appendVec3(out.Positions, vec3(p))
		out.UVs = append(out.UVs, float32(uv[0]), float32(uv[1]))
		out.Normals = appendVec3(out.Normals, vec3(s.Normals[i]))
		t := vec3(s.Tangents[i]).Vec4(float32(geometry.Handedness(s.Normals[i], s.Tangents[i], s.Bitangents[i])))
		out.Tangents = append(out.Tangents, t[:]...)
		out.Bitangents = appendVec3(out.Bitangents, vec3(s.Bitangents[i]))
	}
	return out
}

// JointLines returns one xyz pair per bone, for a GL_LINES style draw.
func JointLines(bones []skeleton.Bone) []float32 {
	out := make([]float32, 0, 6*len(bones))
	for _, b := range bones {
		out = appendVec3(out, vec3(b.From))
		out = appendVec3(out, vec3(b.To))
	}
	return out
}

// Points returns pos as packed xyz.
func Points(pos []mathutil.Vec3) []float32 {
	out := make([]float32, 0, 3*len(pos))
	for _, p := range pos {
		out = appendVec3(out, vec3(p))
	}
	return out
}

// VectorLines returns a segment from every position along its direction,
// scaled, for normal and tangent visualisation. Zero directions give
// zero-length segments so indices stay aligned with vertices.
func VectorLines(pos, dirs []mathutil.Vec3, scale float32) []float32 {
	out := make([]float32, 0, 6*len(pos))
	for i, p := range pos {
		from := vec3(p)
		out = appendVec3(out, from)
		out = appendVec3(out, from.Add(vec3(dirs[i]).Mul(scale)))
	}
	return out
}
