package md5

import "fmt"

// FormatError reports malformed grammar, an out-of-range index or a channel count
// mismatch. Line is 0 for document-level checks.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("md5: line %d: %s", e.Line, e.Msg)
	}
	return "md5: " + e.Msg
}

func formatErr(line int, format string, a ...any) *FormatError {
	return &FormatError{Line: line, Msg: fmt.Sprintf(format, a...)}
}

// ConsistencyError reports a mesh and an animation (or a pose) whose joint
// hierarchies disagree.
type ConsistencyError struct {
	Joint int // first offending joint, -1 for count mismatches
	Msg   string
}

func (e *ConsistencyError) Error() string {
	if e.Joint >= 0 {
		return fmt.Sprintf("md5: joint %d: %s", e.Joint, e.Msg)
	}
	return "md5: " + e.Msg
}
