//go:build !windows && !(darwin && cgo)

package power

// NativePlatform returns the power API of the running operating system.
func NativePlatform() (Platform, error) {
	return nil, ErrUnsupportedPlatform
}
