package diag

import (
	"fmt"
	"sync"

	"github.com/ngaut/log"
)

// Kind classifies a non-fatal data-quality problem.
type Kind int

const (
	// WeightSum: a vertex's weight biases do not sum to 1 within tolerance.
	WeightSum Kind = iota
	// DegenerateUV: a triangle's UV area is ~0, tangent space is undefined.
	DegenerateUV
	// DegenerateFace: a triangle has ~0 area in object space, no normal.
	DegenerateFace
)

func (k Kind) String() string {
	switch k {
	case WeightSum:
		return "weight-sum"
	case DegenerateUV:
		return "degenerate-uv"
	case DegenerateFace:
		return "degenerate-face"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Warning is one geometry warning. Mesh is -1 when not tied to a mesh.
type Warning struct {
	Kind  Kind
	Mesh  int
	Index int // vertex or triangle index, depending on Kind
	Msg   string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s mesh=%d index=%d: %s", w.Kind, w.Mesh, w.Index, w.Msg)
}

// Sink receives warnings. Implementations used from the frame worker pool must be
// safe for concurrent use.
type Sink interface {
	Warn(w Warning)
}

type discard struct{}

func (discard) Warn(Warning) {}

// Discard drops every warning.
var Discard Sink = discard{}

// Collector keeps warnings in arrival order.
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

func (c *Collector) Warn(w Warning) {
	c.mu.Lock()
	c.warnings = append(c.warnings, w)
	c.mu.Unlock()
}

// Warnings returns a copy of everything collected so far.
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Count returns how many warnings of kind k were collected.
func (c *Collector) Count(k Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.warnings {
		if w.Kind == k {
			n++
		}
	}
	return n
}

// LogSink writes warnings through the leveled logger, prefixed with the asset name.
type LogSink struct {
	Asset string
}

func (s LogSink) Warn(w Warning) {
	log.Warnf("%s: %s", s.Asset, w)
}

// SetLogLevel configures the logger used by LogSink ("debug", "info", "warn", "error").
func SetLogLevel(level string) {
	if level == "" {
		return
	}
	log.SetLevelByString(level)
}

// Tee fans a warning out to several sinks.
type Tee []Sink

func (t Tee) Warn(w Warning) {
	for _, s := range t {
		s.Warn(w)
	}
}
