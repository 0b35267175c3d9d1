//go:build !darwin && !linux && !windows

package clip

// New returns a no-op backend suitable for headless platforms.
func New() Backend {
	return headlessBackend{}
}
