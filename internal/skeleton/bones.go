package skeleton

import "md5-renderer/internal/mathutil"

// Bone is the segment between a joint and its parent.
type Bone struct {
	Joint, Parent int
	From, To      mathutil.Vec3
}

// Bones returns one segment per non-root joint, in joint order.
func Bones(pose Pose, parents []int) []Bone {
	var bones []Bone
	for i, p := range parents {
		if p < 0 || p >= len(pose) || i >= len(pose) {
			continue
		}
		bones = append(bones, Bone{
			Joint:  i,
			Parent: p,
			From:   pose[p].Position,
			To:     pose[i].Position,
		})
	}
	return bones
}
