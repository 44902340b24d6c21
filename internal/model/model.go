// Package model is the entry point for consumers: it pairs a mesh with an
// optional animation and produces posed, skinned frames on demand.
package model

import (
	"fmt"

	"md5-renderer/internal/diag"
	"md5-renderer/internal/geometry"
	"md5-renderer/internal/md5"
	"md5-renderer/internal/mathutil"
	"md5-renderer/internal/skeleton"
	"md5-renderer/internal/skin"
	"md5-renderer/internal/texture"
)

// Character is an immutable mesh/animation pair. All methods are safe for
// concurrent use.
type Character struct {
	Mesh *md5.Model
	Anim *md5.Anim // nil for a static mesh
}

// MeshFrame is one skinned mesh of a Frame.
type MeshFrame struct {
	Index     int
	Positions []mathutil.Vec3
	Surface   *geometry.Surface
}

// Frame is everything a renderer needs for one point in time.
type Frame struct {
	Index  int // -1 for the bind pose
	Pose   skeleton.Pose
	Meshes []MeshFrame
}

// New checks that anim (if any) drives mesh's skeleton.
func New(mesh *md5.Model, anim *md5.Anim) (*Character, error) {
	if anim != nil {
		if err := md5.CheckCompatible(mesh, anim); err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}
	}
	return &Character{Mesh: mesh, Anim: anim}, nil
}

// Load reads a mesh and, when animPath is not empty, an animation.
func Load(meshPath, animPath string) (*Character, error) {
	mesh, err := md5.LoadMesh(meshPath)
	if err != nil {
		return nil, err
	}
	var anim *md5.Anim
	if animPath != "" {
		if anim, err = md5.LoadAnim(animPath); err != nil {
			return nil, err
		}
	}
	return New(mesh, anim)
}

// NumFrames returns the animation length, 0 for a static mesh.
func (c *Character) NumFrames() int {
	if c.Anim == nil {
		return 0
	}
	return len(c.Anim.Frames)
}

// ResolvePose returns the absolute joint transforms of frame. A negative
// frame, or any frame of a static mesh, yields the bind pose.
func (c *Character) ResolvePose(frame int) (skeleton.Pose, error) {
	if frame < 0 || c.Anim == nil {
		return skeleton.BindPose(c.Mesh.Joints), nil
	}
	pose, err := skeleton.ResolveFrame(c.Anim, frame)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	return pose, nil
}

// Build poses, skins and derives surface vectors for every mesh.
func (c *Character) Build(frame int, sink diag.Sink) (*Frame, error) {
	pose, err := c.ResolvePose(frame)
	if err != nil {
		return nil, err
	}
	if frame < 0 || c.Anim == nil {
		frame = -1
	}
	return c.BuildPose(frame, pose, sink)
}

// BuildPose is Build for a pose the caller already resolved.
func (c *Character) BuildPose(frame int, pose skeleton.Pose, sink diag.Sink) (*Frame, error) {
	positions, err := skin.EvaluateAll(c.Mesh, pose, sink)
	if err != nil {
		return nil, fmt.Errorf("model: frame %d: %w", frame, err)
	}
	f := &Frame{Index: frame, Pose: pose, Meshes: make([]MeshFrame, len(c.Mesh.Meshes))}
	for i := range c.Mesh.Meshes {
		m := &c.Mesh.Meshes[i]
		f.Meshes[i] = MeshFrame{
			Index:     i,
			Positions: positions[i],
			Surface:   geometry.Derive(i, m.Triangles, m.UVs(), positions[i], sink),
		}
	}
	return f, nil
}

// Bones returns the skeleton segments of pose.
func (c *Character) Bones(pose skeleton.Pose) []skeleton.Bone {
	return skeleton.Bones(pose, c.Mesh.Parents())
}

// Materials returns the texture candidates of each mesh, in mesh order.
func (c *Character) Materials() []texture.Material {
	out := make([]texture.Material, len(c.Mesh.Meshes))
	for i, m := range c.Mesh.Meshes {
		out[i] = texture.MaterialFor(m.Shader)
	}
	return out
}

// Bounds returns the axis-aligned box of all skinned positions in f.
func (f *Frame) Bounds() (lo, hi mathutil.Vec3, ok bool) {
	for _, m := range f.Meshes {
		for _, p := range m.Positions {
			if !ok {
				lo, hi, ok = p, p, true
				continue
			}
			for k := 0; k < 3; k++ {
				lo[k] = min(lo[k], p[k])
				hi[k] = max(hi[k], p[k])
			}
		}
	}
	return lo, hi, ok
}
