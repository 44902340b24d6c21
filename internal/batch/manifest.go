package batch

import (
	"encoding/json"
	"os"

	"md5-renderer/internal/mathutil"
)

// ManifestEntry represents one rendered frame in the output manifest.
type ManifestEntry struct {
	Frame    int           `json:"frame"`
	Time     float64       `json:"time"`
	File     string        `json:"file"`
	Min      mathutil.Vec3 `json:"min"`
	Max      mathutil.Vec3 `json:"max"`
	Warnings int           `json:"warnings,omitempty"`
}

// Manifest describes a rendered sequence.
type Manifest struct {
	Mesh      string          `json:"mesh"`
	Anim      string          `json:"anim,omitempty"`
	FrameRate int             `json:"frame_rate,omitempty"`
	Frames    []ManifestEntry `json:"frames"`
}

// WriteManifest writes the successful results to path as indented JSON.
func WriteManifest(path string, m Manifest, results []Result) error {
	m.Frames = m.Frames[:0]
	for _, r := range results {
		if !r.Success {
			continue
		}
		m.Frames = append(m.Frames, ManifestEntry{
			Frame:    r.Frame,
			Time:     r.Time,
			File:     r.File,
			Min:      r.Min,
			Max:      r.Max,
			Warnings: r.Warnings,
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
