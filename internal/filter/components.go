package filter

import "md5-renderer/internal/md5"

// Components groups the vertices of a mesh into triangle-connected islands,
// largest first. Vertices referenced by no triangle are left out.
func Components(m *md5.Mesh) [][]int {
	if len(m.Vertices) == 0 || len(m.Triangles) == 0 {
		return nil
	}

	adj := make([][]int, len(m.Vertices))
	for _, tri := range m.Triangles {
		for a := 0; a < 3; a++ {
			for b := a + 1; b < 3; b++ {
				va, vb := tri[a], tri[b]
				adj[va] = append(adj[va], vb)
				adj[vb] = append(adj[vb], va)
			}
		}
	}

	visited := make([]bool, len(m.Vertices))
	var components [][]int
	for v := range m.Vertices {
		if visited[v] || len(adj[v]) == 0 {
			continue
		}
		var comp []int
		stack := []int{v}
		for len(stack) > 0 {
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[curr] {
				continue
			}
			visited[curr] = true
			comp = append(comp, curr)
			for _, nb := range adj[curr] {
				if !visited[nb] {
					stack = append(stack, nb)
				}
			}
		}
		components = append(components, comp)
	}

	// stable: equal-sized islands keep discovery order
	for i := 1; i < len(components); i++ {
		for j := i; j > 0 && len(components[j]) > len(components[j-1]); j-- {
			components[j], components[j-1] = components[j-1], components[j]
		}
	}
	return components
}
