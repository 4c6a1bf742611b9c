//go:build !windows

package osutils

import (
	"go.uber.org/zap"

	"dosinput/internal/input"
)

// CurrentModifiers reports no held modifiers; there is no cgo-free way to poll
// modifier state here, so frontends should pass explicit modifiers instead.
func CurrentModifiers() input.HostModifierMask {
	return 0
}

// IsAdmin is a stub for non-Windows platforms
func IsAdmin() bool {
	return false
}

// EnsureFirewallRule is a stub for non-Windows platforms
func EnsureFirewallRule(port int, logger *zap.Logger) error {
	logger.Named("firewall").Debug("automatic rule management is only supported on Windows", zap.Int("port", port))
	return nil
}
