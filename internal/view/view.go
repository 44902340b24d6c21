// Package view places a posed model in front of the preview camera.
package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"

	"md5-renderer/internal/mathutil"
)

// DefaultFOV is the vertical field of view used when a perspective camera
// leaves FOV at zero.
const DefaultFOV = 30.0

// Camera orients the model. Angles are in degrees and applied after the
// Z-up to Y-up flip: yaw about Y, then pitch about X.
type Camera struct {
	Yaw         float64 `json:"yaw" yaml:"yaw"`
	Pitch       float64 `json:"pitch" yaml:"pitch"`
	Perspective bool    `json:"perspective" yaml:"perspective"`
	FOV         float64 `json:"fov" yaml:"fov"`
}

// Preset returns a named camera: "front", "side", "back" or "default".
func Preset(name string) (Camera, bool) {
	switch name {
	case "", "default":
		return Camera{Yaw: 30, Pitch: -15}, true
	case "front":
		return Camera{Yaw: 90}, true
	case "side":
		return Camera{Yaw: 0}, true
	case "back":
		return Camera{Yaw: -90}, true
	}
	return Camera{}, false
}

// modelFlip converts the MD5 Z-up convention to Y-up: Rx(-90°).
var modelFlip = mgl64.Rotate3DX(-math.Pi / 2)

// Rotation returns the model-to-view rotation.
func (c Camera) Rotation() mgl64.Mat3 {
	pitch := mgl64.Rotate3DX(mgl64.DegToRad(c.Pitch))
	yaw := mgl64.Rotate3DY(mgl64.DegToRad(c.Yaw))
	return pitch.Mul3(yaw).Mul3(modelFlip)
}

// Projector maps model-space points to pixel coordinates of a square target.
// Larger depth values are closer to the viewer.
type Projector struct {
	R     mgl64.Mat3
	Box   r3.Box // view-space bounds of the fitted points
	scale float64
	half  float64

	persp  bool
	extent float64 // half of the larger view-space span
	mv     mgl64.Mat4
	proj   mgl64.Mat4
}

// Fit builds a projector that frames every point of sets inside a
// size×size target with margin pixels on each side.
func Fit(cam Camera, sets [][]mathutil.Vec3, size, margin int) *Projector {
	R := cam.Rotation()
	box := r3.Box{
		Min: r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
	for _, pts := range sets {
		for _, p := range pts {
			t := R.Mul3x1(mgl64.Vec3(p))
			box.Min = r3.Vec{X: math.Min(box.Min.X, t[0]), Y: math.Min(box.Min.Y, t[1]), Z: math.Min(box.Min.Z, t[2])}
			box.Max = r3.Vec{X: math.Max(box.Max.X, t[0]), Y: math.Max(box.Max.Y, t[1]), Z: math.Max(box.Max.Z, t[2])}
		}
	}
	if box.Min.X > box.Max.X {
		box = r3.Box{}
	}

	dims := box.Size()
	span := math.Max(dims.X, dims.Y)
	if span < 0.001 {
		span = 0.001
	}
	p := &Projector{
		R:      R,
		Box:    box,
		scale:  float64(size-2*margin) / span,
		half:   float64(size) / 2,
		extent: span / 2,
	}

	if cam.Perspective {
		fov := cam.FOV
		if fov == 0 {
			fov = DefaultFOV
		}
		c := box.Center()
		dist := p.extent / math.Tan(mgl64.DegToRad(fov/2))
		eye := mgl64.Vec3{c.X, c.Y, c.Z + dist}
		p.persp = true
		p.mv = mgl64.LookAtV(eye, mgl64.Vec3{c.X, c.Y, c.Z}, mgl64.Vec3{0, 1, 0})
		p.proj = mgl64.Perspective(mgl64.DegToRad(fov), 1, 0.01, dist+dims.Z+1)
	}
	return p
}

// Project returns the pixel position and depth of a model-space point.
func (p *Projector) Project(v mathutil.Vec3) (x, y, z float64) {
	t := p.R.Mul3x1(mgl64.Vec3(v))
	if !p.persp {
		c := p.Box.Center()
		return (t[0]-c.X)*p.scale + p.half, -(t[1]-c.Y)*p.scale + p.half, t[2]
	}
	eyePos := p.mv.Mul4x1(mgl64.Vec4{t[0], t[1], t[2], 1})
	clip := p.proj.Mul4x1(eyePos)
	w := clip.W()
	if w < 1e-6 {
		w = 1e-6
	}
	k := p.extent * p.scale
	return clip.X()/w*k + p.half, -clip.Y()/w*k + p.half, eyePos.Z()
}

// ProjectAll projects a slice of points.
func (p *Projector) ProjectAll(pts []mathutil.Vec3) (px, py, pz []float64) {
	px = make([]float64, len(pts))
	py = make([]float64, len(pts))
	pz = make([]float64, len(pts))
	for i, v := range pts {
		px[i], py[i], pz[i] = p.Project(v)
	}
	return px, py, pz
}

// Direction rotates a model-space direction into view space.
func (p *Projector) Direction(d mathutil.Vec3) mathutil.Vec3 {
	return mathutil.Vec3(p.R.Mul3x1(mgl64.Vec3(d)))
}
