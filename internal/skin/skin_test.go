package skin

import (
	"errors"
	"math"
	"testing"

	"md5-renderer/internal/diag"
	"md5-renderer/internal/md5"
	"md5-renderer/internal/mathutil"
	"md5-renderer/internal/skeleton"
)

func TestEvaluateIdentityRoot(t *testing.T) {
	mesh := &md5.Mesh{
		Vertices: []md5.Vertex{{WeightStart: 0, WeightCount: 1}},
		Weights:  []md5.Weight{{Joint: 0, Bias: 1, Offset: mathutil.Vec3{1.5, -2, 3}}},
	}
	pose := skeleton.Pose{{Orient: mathutil.QuatIdentity()}}

	var c diag.Collector
	got, err := Evaluate(0, mesh, pose, &c)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != (mathutil.Vec3{1.5, -2, 3}) {
		t.Errorf("position = %v, want the offset", got[0])
	}
	if len(c.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", c.Warnings())
	}
}

func TestEvaluateBlend(t *testing.T) {
	s := math.Sin(math.Pi / 4)
	pose := skeleton.Pose{
		{Position: mathutil.Vec3{0, 0, 0}, Orient: mathutil.QuatIdentity()},
		{Position: mathutil.Vec3{0, 0, 2}, Orient: mathutil.QuatFromXYZ(0, 0, s)},
	}
	mesh := &md5.Mesh{
		Vertices: []md5.Vertex{{WeightStart: 0, WeightCount: 2}},
		Weights: []md5.Weight{
			{Joint: 0, Bias: 0.5, Offset: mathutil.Vec3{2, 0, 0}},
			{Joint: 1, Bias: 0.5, Offset: mathutil.Vec3{2, 0, 0}},
		},
	}
	got, err := Evaluate(0, mesh, pose, nil)
	if err != nil {
		t.Fatal(err)
	}
	// 0.5*(2,0,0) + 0.5*((0,0,2)+(0,2,0))
	want := mathutil.Vec3{1, 1, 1}
	if got[0].Sub(want).Len() > 1e-9 {
		t.Errorf("position = %v, want %v", got[0], want)
	}
}

func TestEvaluateWeightWarning(t *testing.T) {
	mesh := &md5.Mesh{
		Vertices: []md5.Vertex{{WeightStart: 0, WeightCount: 1}, {WeightStart: 1, WeightCount: 1}},
		Weights: []md5.Weight{
			{Joint: 0, Bias: 0.5, Offset: mathutil.Vec3{2, 0, 0}},
			{Joint: 0, Bias: 1.0005, Offset: mathutil.Vec3{1, 0, 0}},
		},
	}
	pose := skeleton.Pose{{Orient: mathutil.QuatIdentity()}}

	var c diag.Collector
	got, err := Evaluate(3, mesh, pose, &c)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != (mathutil.Vec3{1, 0, 0}) {
		t.Errorf("position renormalized: %v", got[0])
	}
	ws := c.Warnings()
	if len(ws) != 1 {
		t.Fatalf("warnings = %v, want one", ws)
	}
	if w := ws[0]; w.Kind != diag.WeightSum || w.Mesh != 3 || w.Index != 0 {
		t.Errorf("warning = %+v", w)
	}
}

func TestEvaluateAllJointMismatch(t *testing.T) {
	m := &md5.Model{Meshes: []md5.Mesh{{
		Vertices: []md5.Vertex{{WeightStart: 0, WeightCount: 1}},
		Weights:  []md5.Weight{{Joint: 2, Bias: 1}},
	}}}
	pose := skeleton.Pose{{Orient: mathutil.QuatIdentity()}}

	_, err := EvaluateAll(m, pose, diag.Discard)
	var ce *md5.ConsistencyError
	if !errors.As(err, &ce) || ce.Joint != 2 {
		t.Errorf("err = %v, want ConsistencyError for joint 2", err)
	}
}
