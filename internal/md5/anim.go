package md5

import (
	"io"
	"sort"
	"strings"

	"md5-renderer/internal/mathutil"
)

// ParseAnim reads an .md5anim document.
func ParseAnim(r io.Reader) (*Anim, error) {
	data, err := readSource(r)
	if err != nil {
		return nil, err
	}
	p := &parser{lex: newLexer(data)}
	return p.parseAnim()
}

// ParseAnimString is ParseAnim over in-memory text.
func ParseAnimString(s string) (*Anim, error) {
	return ParseAnim(strings.NewReader(s))
}

func (p *parser) parseAnim() (*Anim, error) {
	a := &Anim{}
	numFrames, numJoints := -1, -1
	seenFrames := map[int]bool{}

	for p.err == nil {
		t := p.lex.next()
		if t.kind == tokEOF {
			break
		}
		if t.kind != tokWord {
			p.fail(t.line, "unexpected %s", t)
			break
		}
		if p.parseHeader(t, &a.Version, &a.CommandLine) {
			continue
		}
		switch t.text {
		case "numFrames":
			numFrames = p.readInt()
		case "numJoints":
			numJoints = p.readInt()
		case "frameRate":
			a.FrameRate = p.readInt()
		case "numAnimatedComponents":
			a.NumAnimatedComponents = p.readInt()
		case "hierarchy":
			p.expect("{")
			p.parseHierarchy(a)
		case "bounds":
			p.expect("{")
			for !p.atBlockEnd() {
				lo, hi := p.readVec3(), p.readVec3()
				a.Bounds = append(a.Bounds, Bounds{Min: mathutil.Vec3(lo), Max: mathutil.Vec3(hi)})
			}
		case "baseframe":
			p.expect("{")
			for !p.atBlockEnd() {
				pos, q := p.readVec3(), p.readVec3()
				a.BaseFrame = append(a.BaseFrame, BaseJoint{
					Position: mathutil.Vec3(pos),
					Orient:   mathutil.QuatFromXYZ(q[0], q[1], q[2]),
				})
			}
		case "frame":
			idx := p.readInt()
			p.expect("{")
			var comps []float64
			for !p.atBlockEnd() {
				comps = append(comps, p.readFloat())
			}
			if p.err != nil {
				break
			}
			if seenFrames[idx] {
				p.fail(t.line, "frame %d declared twice", idx)
				break
			}
			seenFrames[idx] = true
			a.Frames = append(a.Frames, Frame{Index: idx, Components: comps})
		default:
			p.fail(t.line, "unknown keyword %q", t.text)
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	if err := validateAnim(a, numFrames, numJoints); err != nil {
		return nil, err
	}
	return a, nil
}

func (p *parser) parseHierarchy(a *Anim) {
	for !p.atBlockEnd() {
		line := p.lex.peek().line
		var j HierarchyJoint
		j.Name = p.readString()
		j.Parent = p.readInt()
		flags := p.readInt()
		j.StartIndex = p.readInt()
		if p.err != nil {
			return
		}
		idx := len(a.Hierarchy)
		if j.Parent < -1 || j.Parent >= idx {
			p.fail(line, "joint %d %q: parent index %d is not an earlier joint", idx, j.Name, j.Parent)
			return
		}
		if flags < 0 || flags > int(flagsAll) {
			p.fail(line, "joint %d %q: invalid channel flags %d", idx, j.Name, flags)
			return
		}
		j.Flags = ChannelFlags(flags)
		a.Hierarchy = append(a.Hierarchy, j)
	}
}

func validateAnim(a *Anim, numFrames, numJoints int) error {
	if a.Version == 0 {
		return formatErr(0, "missing MD5Version")
	}
	if numJoints >= 0 && numJoints != len(a.Hierarchy) {
		return formatErr(0, "numJoints %d but %d hierarchy entries", numJoints, len(a.Hierarchy))
	}
	if len(a.BaseFrame) != len(a.Hierarchy) {
		return formatErr(0, "%d baseframe entries for %d joints", len(a.BaseFrame), len(a.Hierarchy))
	}

	total := 0
	for i, j := range a.Hierarchy {
		n := j.Flags.Count()
		if n > 0 && (j.StartIndex < 0 || j.StartIndex+n > a.NumAnimatedComponents) {
			return formatErr(0, "joint %d %q: channels [%d,+%d) outside %d animated components",
				i, j.Name, j.StartIndex, n, a.NumAnimatedComponents)
		}
		// joints consume the component stream in hierarchy order
		if n > 0 && j.StartIndex != total {
			return formatErr(0, "joint %d %q: channels start at %d, want %d", i, j.Name, j.StartIndex, total)
		}
		total += n
	}
	if total != a.NumAnimatedComponents {
		return formatErr(0, "flags select %d channels but numAnimatedComponents is %d", total, a.NumAnimatedComponents)
	}

	if numFrames >= 0 && numFrames != len(a.Frames) {
		return formatErr(0, "numFrames %d but %d frames declared", numFrames, len(a.Frames))
	}
	sort.Slice(a.Frames, func(i, j int) bool { return a.Frames[i].Index < a.Frames[j].Index })
	for i, f := range a.Frames {
		if f.Index != i {
			return formatErr(0, "frame indices are not 0..%d (found %d)", len(a.Frames)-1, f.Index)
		}
		if len(f.Components) != a.NumAnimatedComponents {
			return formatErr(0, "frame %d: %d components, want %d", f.Index, len(f.Components), a.NumAnimatedComponents)
		}
	}
	if len(a.Bounds) != 0 && len(a.Bounds) != len(a.Frames) {
		return formatErr(0, "%d bounds for %d frames", len(a.Bounds), len(a.Frames))
	}
	return nil
}
