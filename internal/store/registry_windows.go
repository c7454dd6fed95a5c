//go:build windows

package store

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// RegistryStore persists values in the Windows registry under HKEY_CURRENT_USER.
type RegistryStore struct {
	root registry.Key
}

// NewRegistryStore creates a registry-backed store.
func NewRegistryStore() *RegistryStore {
	return &RegistryStore{root: registry.CURRENT_USER}
}

// Get returns the string value stored under path/key.
func (s *RegistryStore) Get(path, key string) (string, error) {
	k, err := registry.OpenKey(s.root, path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", fmt.Errorf("%w: %s\\%s", ErrNotExist, path, key)
		}
		return "", fmt.Errorf("open registry key %s: %w", path, err)
	}
	defer k.Close()

	v, _, err := k.GetStringValue(key)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", fmt.Errorf("%w: %s\\%s", ErrNotExist, path, key)
		}
		return "", fmt.Errorf("read registry value %s: %w", key, err)
	}
	return v, nil
}

// Set stores a string value, creating the key if needed.
func (s *RegistryStore) Set(path, key, value string) error {
	k, _, err := registry.CreateKey(s.root, path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("create registry key %s: %w", path, err)
	}
	defer k.Close()

	if err := k.SetStringValue(key, value); err != nil {
		return fmt.Errorf("set registry value %s: %w", key, err)
	}
	return nil
}

// Delete removes a single value. Absent values are not an error.
func (s *RegistryStore) Delete(path, key string) error {
	k, err := registry.OpenKey(s.root, path, registry.SET_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open registry key %s: %w", path, err)
	}
	defer k.Close()

	if err := k.DeleteValue(key); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("delete registry value %s: %w", key, err)
	}
	return nil
}

// DeleteTree removes a key and all of its subkeys.
func (s *RegistryStore) DeleteTree(path string) error {
	return deleteKeyRecursive(s.root, path)
}

func deleteKeyRecursive(root registry.Key, path string) error {
	k, err := registry.OpenKey(root, path, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open registry key %s: %w", path, err)
	}

	names, err := k.ReadSubKeyNames(-1)
	k.Close()
	if err != nil {
		return fmt.Errorf("enumerate registry key %s: %w", path, err)
	}
	for _, name := range names {
		if err := deleteKeyRecursive(root, path+`\`+name); err != nil {
			return err
		}
	}

	if err := registry.DeleteKey(root, path); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("delete registry key %s: %w", path, err)
	}
	return nil
}
