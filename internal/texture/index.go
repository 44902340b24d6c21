package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// extPriority ranks source formats for the same name; lower wins.
// Doom 3 ships .tga, mods often add .png or keep the .psd originals.
var extPriority = map[string]int{
	".tga":  0,
	".png":  1,
	".jpg":  2,
	".jpeg": 2,
	".bmp":  3,
	".webp": 4,
	".psd":  5,
}

// Index maps lowercase texture names to filesystem paths. Every file is
// reachable by its stem and by its slash-separated path below the root,
// both without extension.
type Index struct {
	entries map[string]string
}

// BuildIndex walks root and indexes every decodable image.
func BuildIndex(root string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if root == "" {
		return idx
	}

	filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		if _, ok := extPriority[ext]; !ok {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			rel = filepath.Base(p)
		}
		rel = strings.ToLower(filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))))
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))

		idx.add(rel, p)
		if stem != rel {
			idx.add(stem, p)
		}
		return nil
	})
	return idx
}

func (idx *Index) add(key, p string) {
	existing, ok := idx.entries[key]
	if !ok || extPriority[strings.ToLower(filepath.Ext(p))] < extPriority[strings.ToLower(filepath.Ext(existing))] {
		idx.entries[key] = p
	}
}

// ResolvePath returns the file for a texture name, or ("", false).
// Names may carry backslashes, a directory prefix and an extension.
func (idx *Index) ResolvePath(texName string) (string, bool) {
	name := strings.ToLower(strings.ReplaceAll(texName, "\\", "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))

	if p, ok := idx.entries[name]; ok {
		return p, true
	}
	p, ok := idx.entries[name[strings.LastIndex(name, "/")+1:]]
	return p, ok
}

// Len returns the number of indexed names.
func (idx *Index) Len() int {
	return len(idx.entries)
}
