//go:build !darwin && !windows

package osutils

// CurrentInputMethod is not available on this platform
func CurrentInputMethod() (string, error) {
	return "", ErrUnsupported
}
