package md5

import "fmt"

// CheckCompatible verifies that an animation drives the mesh's skeleton: same
// joint count, and per joint the same name and parent.
func CheckCompatible(m *Model, a *Anim) error {
	if len(m.Joints) != len(a.Hierarchy) {
		return &ConsistencyError{Joint: -1, Msg: fmt.Sprintf("mesh has %d joints, animation %d", len(m.Joints), len(a.Hierarchy))}
	}
	for i, j := range m.Joints {
		h := a.Hierarchy[i]
		if j.Name != h.Name {
			return &ConsistencyError{Joint: i, Msg: fmt.Sprintf("name %q in mesh, %q in animation", j.Name, h.Name)}
		}
		if j.Parent != h.Parent {
			return &ConsistencyError{Joint: i, Msg: fmt.Sprintf("%q has parent %d in mesh, %d in animation", j.Name, j.Parent, h.Parent)}
		}
	}
	return nil
}
