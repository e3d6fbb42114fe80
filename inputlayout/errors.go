package inputlayout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDevice is returned when a cache has no device to create layouts with.
var ErrNoDevice = errors.New("inputlayout: no device")

// LayoutError reports that no attempted semantic assignment produced a
// layout the device accepted.
type LayoutError struct {
	// Shader is the label of the vertex shader.
	Shader string
	// Attempts holds the "SEMANTICn" list of each attempt, in order.
	Attempts [][]string
	// Err is the device error of the last attempt.
	Err error
}

func (e *LayoutError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "inputlayout: cannot create layout for shader %q: tried", e.Shader)
	for i, a := range e.Attempts {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(a, " "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LayoutError) Unwrap() error { return e.Err }
