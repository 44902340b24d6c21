// Package skin computes model-space vertex positions from joint weights.
package skin

import (
	"fmt"
	"math"

	"md5-renderer/internal/diag"
	"md5-renderer/internal/md5"
	"md5-renderer/internal/mathutil"
	"md5-renderer/internal/skeleton"
)

// WeightTolerance is how far a vertex's bias sum may stray from 1 before a
// diag.WeightSum warning is raised. Positions are never renormalized.
const WeightTolerance = 1e-3

// Evaluate returns the skinned position of every vertex of mesh under pose:
// Σ bias · (joint.Position + joint.Orient·offset).
// meshIndex is only used to label warnings.
func Evaluate(meshIndex int, mesh *md5.Mesh, pose skeleton.Pose, sink diag.Sink) ([]mathutil.Vec3, error) {
	if sink == nil {
		sink = diag.Discard
	}
	out := make([]mathutil.Vec3, len(mesh.Vertices))
	for vi, v := range mesh.Vertices {
		var p mathutil.Vec3
		sum := 0.0
		for _, w := range mesh.Weights[v.WeightStart : v.WeightStart+v.WeightCount] {
			if w.Joint < 0 || w.Joint >= len(pose) {
				return nil, &md5.ConsistencyError{
					Joint: w.Joint,
					Msg:   fmt.Sprintf("mesh %d vert %d weighted to a joint the pose does not have (%d joints)", meshIndex, vi, len(pose)),
				}
			}
			j := pose[w.Joint]
			p = p.Add(j.Position.Add(j.Orient.Rotate(w.Offset)).Scale(w.Bias))
			sum += w.Bias
		}
		if math.Abs(sum-1) > WeightTolerance {
			sink.Warn(diag.Warning{
				Kind:  diag.WeightSum,
				Mesh:  meshIndex,
				Index: vi,
				Msg:   fmt.Sprintf("bias sum %.6f", sum),
			})
		}
		out[vi] = p
	}
	return out, nil
}

// EvaluateAll skins every mesh of m.
func EvaluateAll(m *md5.Model, pose skeleton.Pose, sink diag.Sink) ([][]mathutil.Vec3, error) {
	all := make([][]mathutil.Vec3, len(m.Meshes))
	for i := range m.Meshes {
		pos, err := Evaluate(i, &m.Meshes[i], pose, sink)
		if err != nil {
			return nil, fmt.Errorf("skin: %w", err)
		}
		all[i] = pos
	}
	return all, nil
}
