package raster

import (
	"image"
	"image/color"

	"md5-renderer/internal/filter"
	"md5-renderer/internal/mathutil"
	"md5-renderer/internal/model"
	"md5-renderer/internal/texture"
	"md5-renderer/internal/view"
)

// Options controls a preview render.
type Options struct {
	Size        int // output size before downsampling
	Supersample int
	Camera      view.Camera
	Skeleton    bool // draw bones and joints on top
	NormalMaps  bool
	Background  color.NRGBA
	// FitPoints, when set, frames the camera on these points instead of the
	// frame's own vertices, so a sequence keeps a steady camera.
	FitPoints []mathutil.Vec3
}

var defaultBase = color.NRGBA{160, 160, 170, 255}

// Render draws a built frame and returns the supersampled image
// (Size*Supersample square). Hidden helper meshes are skipped.
func Render(ch *model.Character, f *model.Frame, tex texture.Resolver, opts Options) *image.NRGBA {
	ss := max(opts.Supersample, 1)
	renderSize := opts.Size * ss
	fb := NewFrameBuffer(renderSize, renderSize, opts.Background)

	var visible []*model.MeshFrame
	var sets [][]mathutil.Vec3
	for i := range f.Meshes {
		if filter.IsHidden(&ch.Mesh.Meshes[i]) {
			continue
		}
		visible = append(visible, &f.Meshes[i])
		sets = append(sets, f.Meshes[i].Positions)
	}
	if opts.FitPoints != nil {
		sets = [][]mathutil.Vec3{opts.FitPoints}
	}
	if len(sets) == 0 {
		return fb.Image()
	}

	proj := view.Fit(opts.Camera, sets, renderSize, 16*ss)
	lc := DefaultLightConfig()
	mats := ch.Materials()

	for _, mf := range visible {
		mesh := &ch.Mesh.Meshes[mf.Index]
		mat := resolveMaterial(mats[mf.Index], tex, opts.NormalMaps)

		px, py, pz := proj.ProjectAll(mf.Positions)
		s := mf.Surface
		var corners [3]Corner
		for ti, tri := range mesh.Triangles {
			for k, vi := range tri {
				uv := mesh.Vertices[vi].UV
				corners[k] = Corner{
					X: px[vi], Y: py[vi], Z: pz[vi],
					U: uv[0], V: uv[1],
					N: proj.Direction(s.Normals[vi]),
				}
				if mat.NormalMap != nil && s.FaceValid[ti] {
					corners[k].T = proj.Direction(s.Tangents[vi])
					corners[k].B = proj.Direction(s.Bitangents[vi])
				}
			}
			m := mat
			if !s.FaceValid[ti] {
				m.NormalMap = nil
			}
			RasterizeTriangle(fb, &corners, &m, &lc)
		}
	}

	if opts.Skeleton {
		for _, b := range ch.Bones(f.Pose) {
			x0, y0, _ := proj.Project(b.From)
			x1, y1, _ := proj.Project(b.To)
			DrawLine(fb, x0, y0, x1, y1, ss, boneColor)
		}
		for _, j := range f.Pose {
			x, y, _ := proj.Project(j.Position)
			DrawPoint(fb, x, y, 2*ss, jointColor)
		}
	}

	return fb.Image()
}

func resolveMaterial(m texture.Material, tex texture.Resolver, normalMaps bool) Material {
	out := Material{Base: defaultBase}
	if tex == nil {
		return out
	}
	out.Tex, _ = texture.First(tex, m.Diffuse)
	if normalMaps {
		out.NormalMap, _ = texture.First(tex, m.Normal)
	}
	return out
}
