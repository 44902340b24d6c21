package mathutil

import (
	"math"
	"testing"
)

func TestQuatFromXYZUnit(t *testing.T) {
	const eps = 1e-9

	for _, c := range [][3]float64{
		{0, 0, 0},
		{0.5, 0.5, 0.5},
		{-0.7071067, 0, 0},
		{0.1, -0.2, 0.3},
		{1, 0, 0},
		{0.8, 0.8, 0}, // over unit length, W clamps to 0
	} {
		q := QuatFromXYZ(c[0], c[1], c[2])
		if q[3] < 0 {
			t.Errorf("QuatFromXYZ(%v): negative w %v", c, q[3])
		}
		if c[0]*c[0]+c[1]*c[1]+c[2]*c[2] <= 1 && math.Abs(q.Len()-1) > eps {
			t.Errorf("QuatFromXYZ(%v): |q| = %v", c, q.Len())
		}
	}
	if w := ComputeW(0.8, 0.8, 0); w != 0 {
		t.Errorf("ComputeW over unit = %v, want 0", w)
	}
}

func TestQuatRotate(t *testing.T) {
	const eps = 1e-9

	// 90° about Z maps X to Y.
	s := math.Sqrt(0.5)
	q := Quat{0, 0, s, s}
	v := q.Rotate(Vec3{1, 0, 0})
	if v.Sub(Vec3{0, 1, 0}).Len() > eps {
		t.Error("rotate X by 90° about Z: ", v)
	}

	// identity leaves vectors alone
	v1 := Vec3{1, 2, 3}
	if QuatIdentity().Rotate(v1).Sub(v1).Len() > eps {
		t.Error("identity rotate changed vector")
	}

	// q * q^-1 is identity
	q2 := QuatFromXYZ(0.1, 0.2, 0.3)
	id := q2.Mul(q2.Conjugate())
	if id.Rotate(v1).Sub(v1).Len() > eps {
		t.Error("q*conj(q) != identity: ", id)
	}
}

func TestQuatMulComposition(t *testing.T) {
	const eps = 1e-9

	a := QuatFromXYZ(0.3, -0.1, 0.2)
	b := QuatFromXYZ(-0.4, 0.25, 0.1)
	v := Vec3{0.5, -1.5, 2}

	// (a*b)·v == a·(b·v): parent-major composition
	got := a.Mul(b).Rotate(v)
	want := a.Rotate(b.Rotate(v))
	if got.Sub(want).Len() > eps {
		t.Error("composition mismatch: ", got, want)
	}
}
