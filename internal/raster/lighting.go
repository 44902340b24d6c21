package raster

import (
	"math"

	"md5-renderer/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. Directions are in view
// space (camera looks down -Z).
type LightConfig struct {
	LightDir mathutil.Vec3
	RimDir   mathutil.Vec3
	HalfMain mathutil.Vec3 // half-vector for Blinn-Phong
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig returns a key light from the upper right and a cool rim
// from behind.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{0.45, 0.65, 0.6}.Normalize()
	rimDir := mathutil.Vec3{-0.5, 0.4, -0.75}.Normalize()
	viewDir := mathutil.Vec3{0, 0, 1}

	return LightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		HalfMain: lightDir.Add(viewDir).Normalize(),
		Ambient:  0.35,
		Hemi:     0.35,
		Direct:   1.10,
		Rim:      0.45,
		SpecInt:  0.35,
		SpecPow:  16.0,
		Exposure: 1.0,
		InvGamma: 1.0 / 2.2,
	}
}

// Shade returns the combined lighting scalar for a unit view-space normal.
// Surfaces are lit from both sides.
func (lc *LightConfig) Shade(n mathutil.Vec3) float64 {
	ndlMain := math.Abs(n.Dot(lc.LightDir))
	ndlRim := math.Max(0, -n.Dot(lc.RimDir))

	hemi := n[1]*0.25 + 0.75
	ndh := math.Abs(n.Dot(lc.HalfMain))
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemi*lc.Hemi + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// encode applies exposure, ACES tone mapping and the sRGB gamma to a linear value.
func (lc *LightConfig) encode(linear float64) uint8 {
	return clamp255(math.Pow(ACESTonemap(linear*lc.Exposure), lc.InvGamma) * 255)
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
