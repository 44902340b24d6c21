package md5

import (
	"io"
	"strings"

	"md5-renderer/internal/mathutil"
)

// ParseMesh reads an .md5mesh document.
func ParseMesh(r io.Reader) (*Model, error) {
	data, err := readSource(r)
	if err != nil {
		return nil, err
	}
	p := &parser{lex: newLexer(data)}
	return p.parseMesh()
}

// ParseMeshString is ParseMesh over in-memory text.
func ParseMeshString(s string) (*Model, error) {
	return ParseMesh(strings.NewReader(s))
}

func (p *parser) parseHeader(t token, version *int, cmdline *string) bool {
	switch t.text {
	case "MD5Version":
		*version = p.readInt()
		if p.err == nil && *version != Version {
			p.fail(t.line, "unsupported MD5Version %d", *version)
		}
		return true
	case "commandline":
		*cmdline = p.readString()
		return true
	}
	return false
}

func (p *parser) parseMesh() (*Model, error) {
	m := &Model{}
	numJoints, numMeshes := -1, -1

	for p.err == nil {
		t := p.lex.next()
		if t.kind == tokEOF {
			break
		}
		if t.kind != tokWord {
			p.fail(t.line, "unexpected %s", t)
			break
		}
		if p.parseHeader(t, &m.Version, &m.CommandLine) {
			continue
		}
		switch t.text {
		case "numJoints":
			numJoints = p.readInt()
		case "numMeshes":
			numMeshes = p.readInt()
		case "joints":
			p.expect("{")
			p.parseJoints(m)
		case "mesh":
			p.expect("{")
			mesh := p.parseMeshBlock(t.line)
			if p.err == nil {
				m.Meshes = append(m.Meshes, mesh)
			}
		default:
			p.fail(t.line, "unknown keyword %q", t.text)
		}
	}
	if p.err != nil {
		return nil, p.err
	}

	if m.Version == 0 {
		return nil, formatErr(0, "missing MD5Version")
	}
	if numJoints >= 0 && numJoints != len(m.Joints) {
		return nil, formatErr(0, "numJoints %d but %d joints declared", numJoints, len(m.Joints))
	}
	if numMeshes >= 0 && numMeshes != len(m.Meshes) {
		return nil, formatErr(0, "numMeshes %d but %d meshes declared", numMeshes, len(m.Meshes))
	}
	for mi := range m.Meshes {
		if err := validateMesh(mi, &m.Meshes[mi], len(m.Joints)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (p *parser) parseJoints(m *Model) {
	for !p.atBlockEnd() {
		line := p.lex.peek().line
		var j Joint
		j.Name = p.readString()
		j.Parent = p.readInt()
		pos := p.readVec3()
		q := p.readVec3()
		if p.err != nil {
			return
		}
		idx := len(m.Joints)
		if j.Parent < -1 || j.Parent >= idx {
			p.fail(line, "joint %d %q: parent index %d is not an earlier joint", idx, j.Name, j.Parent)
			return
		}
		j.Position = mathutil.Vec3(pos)
		j.Orient = mathutil.QuatFromXYZ(q[0], q[1], q[2])
		m.Joints = append(m.Joints, j)
	}
}

func (p *parser) parseMeshBlock(startLine int) Mesh {
	var mesh Mesh
	numVerts, numTris, numWeights := -1, -1, -1
	var seenVerts, seenTris, seenWeights []bool

	for !p.atBlockEnd() {
		t := p.lex.next()
		if t.kind != tokWord {
			p.fail(t.line, "unexpected %s in mesh", t)
			return mesh
		}
		switch t.text {
		case "shader":
			mesh.Shader = p.readString()
		case "numverts":
			numVerts = p.readCount(t.line, numVerts)
			mesh.Vertices = make([]Vertex, numVerts)
			seenVerts = make([]bool, numVerts)
		case "numtris":
			numTris = p.readCount(t.line, numTris)
			mesh.Triangles = make([]Triangle, numTris)
			seenTris = make([]bool, numTris)
		case "numweights":
			numWeights = p.readCount(t.line, numWeights)
			mesh.Weights = make([]Weight, numWeights)
			seenWeights = make([]bool, numWeights)
		case "vert":
			i := p.readIndex(t.line, "vert", seenVerts)
			uv := p.readVec2()
			start := p.readInt()
			count := p.readInt()
			if p.err == nil {
				mesh.Vertices[i] = Vertex{UV: mathutil.Vec2(uv), WeightStart: start, WeightCount: count}
			}
		case "tri":
			i := p.readIndex(t.line, "tri", seenTris)
			a, b, c := p.readInt(), p.readInt(), p.readInt()
			if p.err == nil {
				mesh.Triangles[i] = Triangle{a, b, c}
			}
		case "weight":
			i := p.readIndex(t.line, "weight", seenWeights)
			joint := p.readInt()
			bias := p.readFloat()
			pos := p.readVec3()
			if p.err == nil {
				mesh.Weights[i] = Weight{Joint: joint, Bias: bias, Offset: mathutil.Vec3(pos)}
			}
		default:
			p.fail(t.line, "unknown mesh keyword %q", t.text)
		}
	}
	if p.err != nil {
		return mesh
	}

	for _, c := range []struct {
		name string
		seen []bool
	}{{"vert", seenVerts}, {"tri", seenTris}, {"weight", seenWeights}} {
		for i, ok := range c.seen {
			if !ok {
				p.fail(startLine, "mesh: %s %d never declared", c.name, i)
				return mesh
			}
		}
	}
	return mesh
}

// minEntryBytes is the shortest possible vert, tri or weight line
// ("tri 0 0 0 0" and its separator).
const minEntryBytes = 8

// readCount reads a numverts/numtris/numweights value, which may appear once.
func (p *parser) readCount(line, prev int) int {
	n := p.readInt()
	if p.err != nil {
		return 0
	}
	if prev >= 0 {
		p.fail(line, "count declared twice")
		return 0
	}
	if n < 0 {
		p.fail(line, "negative count %d", n)
		return 0
	}
	// every entry takes at least minEntryBytes of the remaining input
	if rest := len(p.lex.data) - p.lex.off; n > rest/minEntryBytes {
		p.fail(line, "count %d exceeds what the remaining input can hold", n)
		return 0
	}
	return n
}

// readIndex reads an entry index and checks it against the declared count.
func (p *parser) readIndex(line int, what string, seen []bool) int {
	i := p.readInt()
	if p.err != nil {
		return 0
	}
	if i < 0 || i >= len(seen) {
		p.fail(line, "%s index %d out of range (declared %d)", what, i, len(seen))
		return 0
	}
	if seen[i] {
		p.fail(line, "%s %d declared twice", what, i)
		return 0
	}
	seen[i] = true
	return i
}

func validateMesh(mi int, mesh *Mesh, numJoints int) error {
	for vi, v := range mesh.Vertices {
		if v.WeightCount < 1 || v.WeightStart < 0 || v.WeightStart+v.WeightCount > len(mesh.Weights) {
			return formatErr(0, "mesh %d vert %d: weights [%d,+%d) outside %d weights",
				mi, vi, v.WeightStart, v.WeightCount, len(mesh.Weights))
		}
	}
	for wi, w := range mesh.Weights {
		if w.Joint < 0 || w.Joint >= numJoints {
			return formatErr(0, "mesh %d weight %d: joint %d out of range (%d joints)", mi, wi, w.Joint, numJoints)
		}
	}
	for ti, tri := range mesh.Triangles {
		for _, vi := range tri {
			if vi < 0 || vi >= len(mesh.Vertices) {
				return formatErr(0, "mesh %d tri %d: vertex %d out of range (%d verts)", mi, ti, vi, len(mesh.Vertices))
			}
		}
	}
	return nil
}
