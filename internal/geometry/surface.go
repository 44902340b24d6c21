// Package geometry derives face and vertex normals and tangent frames from
// skinned positions.
package geometry

import (
	"fmt"
	"math"

	"md5-renderer/internal/diag"
	"md5-renderer/internal/md5"
	"md5-renderer/internal/mathutil"
)

// uvEpsilon is the smallest |du1·dv2 − du2·dv1| accepted for a tangent frame.
const uvEpsilon = 1e-12

// Surface holds per-face and per-vertex direction vectors, all unit length or zero.
type Surface struct {
	FaceNormals    []mathutil.Vec3
	FaceTangents   []mathutil.Vec3
	FaceBitangents []mathutil.Vec3
	// FaceValid is false for triangles whose UVs could not produce a tangent frame.
	FaceValid []bool

	Normals    []mathutil.Vec3
	Tangents   []mathutil.Vec3
	Bitangents []mathutil.Vec3
}

// Derive computes the surface vectors of one mesh. Triangles wind clockwise
// when seen from the front, so the face normal is (p2−p0)×(p1−p0).
// Vertex vectors are the normalized, unweighted sums of the adjacent face
// vectors. meshIndex labels warnings.
func Derive(meshIndex int, tris []md5.Triangle, uvs []mathutil.Vec2, pos []mathutil.Vec3, sink diag.Sink) *Surface {
	if sink == nil {
		sink = diag.Discard
	}
	s := &Surface{
		FaceNormals:    make([]mathutil.Vec3, len(tris)),
		FaceTangents:   make([]mathutil.Vec3, len(tris)),
		FaceBitangents: make([]mathutil.Vec3, len(tris)),
		FaceValid:      make([]bool, len(tris)),
		Normals:        make([]mathutil.Vec3, len(pos)),
		Tangents:       make([]mathutil.Vec3, len(pos)),
		Bitangents:     make([]mathutil.Vec3, len(pos)),
	}

	for ti, tri := range tris {
		p0, p1, p2 := pos[tri[0]], pos[tri[1]], pos[tri[2]]
		e1, e2 := p1.Sub(p0), p2.Sub(p0)

		n := e2.Cross(e1)
		if n.Len() < uvEpsilon {
			sink.Warn(diag.Warning{Kind: diag.DegenerateFace, Mesh: meshIndex, Index: ti, Msg: "zero area"})
		} else {
			n = n.Normalize()
			s.FaceNormals[ti] = n
			for _, vi := range tri {
				s.Normals[vi] = s.Normals[vi].Add(n)
			}
		}

		d1, d2 := uvs[tri[1]].Sub(uvs[tri[0]]), uvs[tri[2]].Sub(uvs[tri[0]])
		r := d1[0]*d2[1] - d2[0]*d1[1]
		if math.Abs(r) < uvEpsilon {
			sink.Warn(diag.Warning{
				Kind:  diag.DegenerateUV,
				Mesh:  meshIndex,
				Index: ti,
				Msg:   fmt.Sprintf("uv determinant %g", r),
			})
			continue
		}
		t := e1.Scale(d2[1]).Sub(e2.Scale(d1[1])).Scale(1 / r).Normalize()
		b := e2.Scale(d1[0]).Sub(e1.Scale(d2[0])).Scale(1 / r).Normalize()
		if !t.IsFinite() || !b.IsFinite() {
			continue
		}
		s.FaceTangents[ti] = t
		s.FaceBitangents[ti] = b
		s.FaceValid[ti] = true
		for _, vi := range tri {
			s.Tangents[vi] = s.Tangents[vi].Add(t)
			s.Bitangents[vi] = s.Bitangents[vi].Add(b)
		}
	}

	for i := range pos {
		s.Normals[i] = s.Normals[i].Normalize()
		s.Tangents[i] = s.Tangents[i].Normalize()
		s.Bitangents[i] = s.Bitangents[i].Normalize()
	}
	return s
}

// Handedness returns +1 when (t, b, n) is right-handed and -1 otherwise, the
// sign stored in the w component of four-component tangents.
func Handedness(n, t, b mathutil.Vec3) float64 {
	if n.Cross(t).Dot(b) < 0 {
		return -1
	}
	return 1
}
