// Package osutils provides platform probes for the host keyboard state and
// process privileges.
package osutils

import (
	"errors"

	"dosinput/internal/input"
)

// ErrUnsupported is returned by probes that have no implementation on this platform
var ErrUnsupported = errors.New("not supported on this platform")

// ModifierSource adapts CurrentModifiers to an input.ModifierSource
func ModifierSource() input.ModifierSource {
	return CurrentModifiers
}

// InputMethodSource returns an input.InputMethodSource that reports override when it
// is set and queries the platform otherwise.
func InputMethodSource(override string) input.InputMethodSource {
	if override != "" {
		return func() (string, error) { return override, nil }
	}
	return CurrentInputMethod
}
