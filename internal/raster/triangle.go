package raster

import (
	"image"
	"image/color"
	"math"

	"md5-renderer/internal/mathutil"
)

// Corner is one projected triangle vertex. Vectors are in view space.
type Corner struct {
	X, Y, Z float64
	U, V    float64
	N, T, B mathutil.Vec3
}

// Material is what a triangle is painted with. Tex and NormalMap may be nil.
type Material struct {
	Tex       *image.NRGBA
	NormalMap *image.NRGBA
	Base      color.NRGBA // used when Tex is nil
}

// RasterizeTriangle fills one triangle with z-buffering and per-pixel
// lighting from the interpolated vertex normals. With a normal map the
// texel is rotated into view space through the interpolated tangent frame.
//
// The inner loop does not allocate.
func RasterizeTriangle(fb *FrameBuffer, c *[3]Corner, mat *Material, lc *LightConfig) {
	x0, y0 := c[0].X, c[0].Y
	x1, y1 := c[1].X, c[1].Y
	x2, y2 := c[2].X, c[2].Y

	minX := max(int(math.Min(math.Min(x0, x1), x2)), 0)
	maxX := min(int(math.Max(math.Max(x0, x1), x2))+1, fb.Width-1)
	minY := max(int(math.Min(math.Min(y0, y1), y2)), 0)
	maxY := min(int(math.Max(math.Max(y0, y1), y2))+1, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	useMap := mat.NormalMap != nil

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*c[0].Z + w1*c[1].Z + w2*c[2].Z
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			u := w0*c[0].U + w1*c[1].U + w2*c[2].U
			v := w0*c[0].V + w1*c[1].V + w2*c[2].V

			cr, cg, cb, ca := mat.Base.R, mat.Base.G, mat.Base.B, mat.Base.A
			if mat.Tex != nil {
				cr, cg, cb, ca = SampleTexture(mat.Tex, u, v)
			}
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			n := lerp3(c[0].N, c[1].N, c[2].N, w0, w1, w2)
			if useMap {
				t := lerp3(c[0].T, c[1].T, c[2].T, w0, w1, w2)
				b := lerp3(c[0].B, c[1].B, c[2].B, w0, w1, w2)
				m := SampleNormal(mat.NormalMap, u, v)
				n = t.Scale(m[0]).Add(b.Scale(m[1])).Add(n.Scale(m[2]))
			}
			n = n.Normalize()
			shade := lc.Shade(n)

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = lc.encode(srgbToLinear[cr] * shade)
			fb.Color[pxIdx+1] = lc.encode(srgbToLinear[cg] * shade)
			fb.Color[pxIdx+2] = lc.encode(srgbToLinear[cb] * shade)
			fb.Color[pxIdx+3] = ca
		}
	}
}

func lerp3(a, b, c mathutil.Vec3, wa, wb, wc float64) mathutil.Vec3 {
	return mathutil.Vec3{
		a[0]*wa + b[0]*wb + c[0]*wc,
		a[1]*wa + b[1]*wb + c[1]*wc,
		a[2]*wa + b[2]*wb + c[2]*wc,
	}
}
