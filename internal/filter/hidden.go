package filter

import (
	"path"
	"regexp"
	"strings"

	"md5-renderer/internal/md5"
)

// helperShaderRE matches engine-only materials: collision hulls, shadow
// casters and invisible helpers that are never drawn.
var helperShaderRE = regexp.MustCompile(`(?i)(?:^|[/_])(?:collision|shadow|invisible|nodraw|caulk|clip)(?:$|[/_\d])`)

// helperPrefixes must match at the start of the shader stem only.
// "tracemodel" is prefix-only to keep names like "arm_tracemodel_paint" visible.
var helperPrefixes = []string{"tracemodel", "bbox"}

// IsHidden reports whether a mesh carries a helper material that preview
// renderers skip. Skinning and export still process it.
func IsHidden(m *md5.Mesh) bool {
	shader := strings.ToLower(strings.ReplaceAll(m.Shader, "\\", "/"))
	if shader == "" {
		return false
	}
	if helperShaderRE.MatchString(shader) {
		return true
	}
	stem := path.Base(shader)
	for _, p := range helperPrefixes {
		if strings.HasPrefix(stem, p) {
			return true
		}
	}
	return false
}
