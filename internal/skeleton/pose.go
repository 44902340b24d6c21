package skeleton

import (
	"errors"
	"fmt"
	"sync"

	"md5-renderer/internal/md5"
	"md5-renderer/internal/mathutil"
)

// ErrFrameRange is returned for a frame index outside the animation.
var ErrFrameRange = errors.New("skeleton: frame out of range")

// Transform is a joint's absolute (model-space) placement.
type Transform struct {
	Position mathutil.Vec3
	Orient   mathutil.Quat
}

// Pose holds one Transform per joint, indexed like the hierarchy.
type Pose []Transform

// BindPose copies the absolute joint transforms stored in a mesh document.
func BindPose(joints []md5.Joint) Pose {
	pose := make(Pose, len(joints))
	for i, j := range joints {
		pose[i] = Transform{Position: j.Position, Orient: j.Orient}
	}
	return pose
}

// ResolveFrame computes the absolute pose of one animation frame.
//
// Each joint starts from its baseframe entry; the channels selected by its
// flags are overwritten from the frame in tx, ty, tz, qx, qy, qz order, and W
// is rebuilt when any orientation channel changed. Joints are then composed
// with their (already resolved) parent in ascending index order.
func ResolveFrame(anim *md5.Anim, frame int) (Pose, error) {
	if frame < 0 || frame >= len(anim.Frames) {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrFrameRange, frame, len(anim.Frames))
	}
	comps := anim.Frames[frame].Components
	pose := make(Pose, len(anim.Hierarchy))

	for i, h := range anim.Hierarchy {
		base := anim.BaseFrame[i]
		pos := base.Position
		q := base.Orient
		k := h.StartIndex

		for c, flag := range []md5.ChannelFlags{md5.FlagTX, md5.FlagTY, md5.FlagTZ} {
			if h.Flags&flag != 0 {
				pos[c] = comps[k]
				k++
			}
		}
		if h.Flags&(md5.FlagQX|md5.FlagQY|md5.FlagQZ) != 0 {
			for c, flag := range []md5.ChannelFlags{md5.FlagQX, md5.FlagQY, md5.FlagQZ} {
				if h.Flags&flag != 0 {
					q[c] = comps[k]
					k++
				}
			}
			q = mathutil.QuatFromXYZ(q[0], q[1], q[2])
		}

		if h.Parent < 0 {
			pose[i] = Transform{Position: pos, Orient: q}
			continue
		}
		parent := pose[h.Parent]
		pose[i] = Transform{
			Position: parent.Position.Add(parent.Orient.Rotate(pos)),
			Orient:   parent.Orient.Mul(q),
		}
	}
	return pose, nil
}

// ResolveAll resolves every frame of anim using a pool of workers.
// Frames are independent, so the result is identical for any worker count.
func ResolveAll(anim *md5.Anim, workers int) ([]Pose, error) {
	if workers < 1 {
		workers = 1
	}
	poses := make([]Pose, len(anim.Frames))
	errs := make([]error, len(anim.Frames))

	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				poses[idx], errs[idx] = ResolveFrame(anim, idx)
			}
		}()
	}
	for i := range anim.Frames {
		frameChan <- i
	}
	close(frameChan)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return poses, nil
}

// FrameAt maps a playback time to a frame index. Looping clips wrap; others
// clamp to the first and last frame.
func FrameAt(anim *md5.Anim, seconds float64, loop bool) int {
	n := len(anim.Frames)
	if n == 0 || anim.FrameRate <= 0 {
		return 0
	}
	f := int(seconds * float64(anim.FrameRate))
	if loop {
		f %= n
		if f < 0 {
			f += n
		}
		return f
	}
	if f < 0 {
		return 0
	}
	if f >= n {
		return n - 1
	}
	return f
}
