//go:build !darwin

package permissions

// EnsureAccessibility is a no-op on non-macOS platforms.
func EnsureAccessibility() error {
	return nil
}
