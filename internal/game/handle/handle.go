// Package handle hands out generation-checked identifiers for registered
// modifiers and active skill effects.
package handle

import "fmt"

// Handle is an opaque reference to one registration.
// The zero value is the invalid sentinel; a released handle never becomes
// valid again because its slot generation moves on.
type Handle struct {
	index uint32
	gen   uint32
}

// Invalid is returned by operations that failed to register anything.
var Invalid Handle

// IsValid reports whether h was ever issued by a Registry.
// It does not say whether h is still alive; use Registry.Alive for that.
func (h Handle) IsValid() bool {
	return h.gen != 0
}

func (h Handle) String() string {
	if !h.IsValid() {
		return "handle(invalid)"
	}
	return fmt.Sprintf("handle(%d:%d)", h.index, h.gen)
}
