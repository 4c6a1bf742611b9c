//go:build darwin

package osutils

import (
	"fmt"
	"os/exec"
	"strings"
)

// CurrentInputMethod returns the TIS identifier of the active keyboard layout,
// e.g. "com.apple.keylayout.US"
func CurrentInputMethod() (string, error) {
	out, err := exec.Command("defaults", "read", "com.apple.HIToolbox", "AppleCurrentKeyboardLayoutInputSourceID").Output()
	if err != nil {
		return "", fmt.Errorf("read HIToolbox preferences: %w", err)
	}
	id := strings.TrimSpace(string(out))
	if id == "" {
		return "", fmt.Errorf("no current keyboard layout recorded")
	}
	return id, nil
}
