//go:build windows

package store

// Open returns the platform store: the Windows registry.
func Open() (Store, error) {
	return NewRegistryStore(), nil
}
