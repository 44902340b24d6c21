package skeleton

import (
	"errors"
	"math"
	"testing"

	"md5-renderer/internal/md5"
	"md5-renderer/internal/mathutil"
)

const eps = 1e-9

func near(a, b mathutil.Vec3) bool {
	return a.Sub(b).Len() < eps
}

// twoJointAnim has a root at the origin and a child one unit along X.
// The child animates tx and qz.
func twoJointAnim() *md5.Anim {
	return &md5.Anim{
		Version:               10,
		FrameRate:             10,
		NumAnimatedComponents: 2,
		Hierarchy: []md5.HierarchyJoint{
			{Name: "root", Parent: -1},
			{Name: "child", Parent: 0, Flags: md5.FlagTX | md5.FlagQZ, StartIndex: 0},
		},
		BaseFrame: []md5.BaseJoint{
			{Orient: mathutil.QuatIdentity()},
			{Position: mathutil.Vec3{1, 0, 0}, Orient: mathutil.QuatIdentity()},
		},
		Frames: []md5.Frame{
			{Index: 0, Components: []float64{1, 0}},
			{Index: 1, Components: []float64{2, math.Sin(math.Pi / 4)}},
		},
	}
}

func TestResolveFrameBase(t *testing.T) {
	a := twoJointAnim()
	pose, err := ResolveFrame(a, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !near(pose[1].Position, mathutil.Vec3{1, 0, 0}) {
		t.Errorf("child position = %v", pose[1].Position)
	}
	if pose[1].Orient != mathutil.QuatIdentity() {
		t.Errorf("child orient = %v", pose[1].Orient)
	}
}

func TestResolveFramePatched(t *testing.T) {
	a := twoJointAnim()
	pose, err := ResolveFrame(a, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !near(pose[1].Position, mathutil.Vec3{2, 0, 0}) {
		t.Errorf("child position = %v", pose[1].Position)
	}
	q := pose[1].Orient
	if q[3] < 0 || math.Abs(q.Len()-1) > 1e-9 {
		t.Errorf("orient %v not unit with w >= 0", q)
	}
	if got := q.Rotate(mathutil.Vec3{1, 0, 0}); !near(got, mathutil.Vec3{0, 1, 0}) {
		t.Errorf("90° about Z maps X to %v", got)
	}
}

func TestResolveFrameNoFlags(t *testing.T) {
	a := twoJointAnim()
	a.Hierarchy[1].Flags = 0
	a.NumAnimatedComponents = 0
	for i := range a.Frames {
		a.Frames[i].Components = nil
	}
	a.BaseFrame[1].Orient = mathutil.QuatFromXYZ(0, 0.3, 0)

	pose, err := ResolveFrame(a, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range a.BaseFrame {
		if !near(pose[i].Position, b.Position) || pose[i].Orient != b.Orient {
			t.Errorf("joint %d = %+v, want baseframe %+v", i, pose[i], b)
		}
	}
}

func TestResolveFrameParentComposition(t *testing.T) {
	// Root rotated 90° about Z and lifted; child offset along local X.
	s := math.Sin(math.Pi / 4)
	a := &md5.Anim{
		Hierarchy: []md5.HierarchyJoint{
			{Name: "root", Parent: -1},
			{Name: "mid", Parent: 0},
			{Name: "tip", Parent: 1},
		},
		BaseFrame: []md5.BaseJoint{
			{Position: mathutil.Vec3{0, 0, 5}, Orient: mathutil.QuatFromXYZ(0, 0, s)},
			{Position: mathutil.Vec3{1, 0, 0}, Orient: mathutil.QuatFromXYZ(0, 0, s)},
			{Position: mathutil.Vec3{1, 0, 0}, Orient: mathutil.QuatIdentity()},
		},
		Frames: []md5.Frame{{Index: 0}},
	}
	pose, err := ResolveFrame(a, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []mathutil.Vec3{{0, 0, 5}, {0, 1, 5}, {-1, 1, 5}}
	for i, w := range want {
		if !near(pose[i].Position, w) {
			t.Errorf("joint %d position = %v, want %v", i, pose[i].Position, w)
		}
	}
}

func TestResolveFrameRange(t *testing.T) {
	a := twoJointAnim()
	for _, f := range []int{-1, 2} {
		if _, err := ResolveFrame(a, f); !errors.Is(err, ErrFrameRange) {
			t.Errorf("frame %d: err = %v", f, err)
		}
	}
}

func TestResolveAll(t *testing.T) {
	a := twoJointAnim()
	poses, err := ResolveAll(a, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(poses) != 2 {
		t.Fatalf("len = %d", len(poses))
	}
	for i := range poses {
		want, _ := ResolveFrame(a, i)
		for j := range want {
			if poses[i][j] != want[j] {
				t.Errorf("frame %d joint %d differs", i, j)
			}
		}
	}
}

func TestBindPoseAndBones(t *testing.T) {
	joints := []md5.Joint{
		{Name: "root", Parent: -1, Orient: mathutil.QuatIdentity()},
		{Name: "a", Parent: 0, Position: mathutil.Vec3{0, 1, 0}, Orient: mathutil.QuatIdentity()},
		{Name: "b", Parent: 1, Position: mathutil.Vec3{0, 2, 0}, Orient: mathutil.QuatIdentity()},
	}
	pose := BindPose(joints)
	bones := Bones(pose, []int{-1, 0, 1})
	if len(bones) != 2 {
		t.Fatalf("bones = %d", len(bones))
	}
	if b := bones[1]; b.Joint != 2 || !near(b.From, mathutil.Vec3{0, 1, 0}) || !near(b.To, mathutil.Vec3{0, 2, 0}) {
		t.Errorf("bone = %+v", b)
	}
}

func TestFrameAt(t *testing.T) {
	a := twoJointAnim() // 2 frames at 10 fps
	tests := []struct {
		sec  float64
		loop bool
		want int
	}{
		{0, false, 0},
		{0.15, false, 1},
		{5, false, 1},
		{-1, false, 0},
		{0.25, true, 0},
		{0.15, true, 1},
	}
	for _, tt := range tests {
		if got := FrameAt(a, tt.sec, tt.loop); got != tt.want {
			t.Errorf("FrameAt(%v, %v) = %d, want %d", tt.sec, tt.loop, got, tt.want)
		}
	}
}
