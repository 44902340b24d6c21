package md5

import (
	"fmt"
	"os"
)

// LoadMesh reads and parses an .md5mesh file.
func LoadMesh(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("md5: read %s: %w", path, err)
	}
	defer f.Close()

	m, err := ParseMesh(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadAnim reads and parses an .md5anim file.
func LoadAnim(path string) (*Anim, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("md5: read %s: %w", path, err)
	}
	defer f.Close()

	a, err := ParseAnim(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}
