package texture

import (
	"path"
	"strings"
)

// Material names the textures a mesh shader expects, following the Doom 3
// suffix convention. Each slot lists candidate names in lookup order.
type Material struct {
	Shader   string
	Diffuse  []string
	Normal   []string
	Specular []string
	Height   []string
}

// MaterialFor derives texture candidates from a shader path such as
// "models/monsters/imp/imp". The full path is tried before the bare stem.
func MaterialFor(shader string) Material {
	base := strings.ReplaceAll(shader, "\\", "/")
	base = strings.TrimSuffix(base, path.Ext(base))
	stem := path.Base(base)

	with := func(suffixes ...string) []string {
		var out []string
		for _, s := range suffixes {
			out = append(out, base+s)
			if stem != base {
				out = append(out, stem+s)
			}
		}
		return out
	}
	return Material{
		Shader:   shader,
		Diffuse:  with("_d", ""),
		Normal:   with("_local", "_n"),
		Specular: with("_s"),
		Height:   with("_h"),
	}
}
