// Package storage is the byte-level collaborator behind save slots. Keys are
// slash-separated relative names such as "slot_3.json".
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by ReadAll when the key does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store reads and writes whole objects.
type Store interface {
	// ReadAll returns the object's bytes, or ErrNotFound.
	ReadAll(ctx context.Context, key string) ([]byte, error)
	// WriteAll replaces the object atomically.
	WriteAll(ctx context.Context, key string, data []byte) error
	// Exists reports whether the object is present.
	Exists(ctx context.Context, key string) bool
	// Delete removes the object. Deleting a missing key returns ErrNotFound.
	Delete(ctx context.Context, key string) error
}

// Driver names a Store implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverMemory     Driver = "memory"
	DriverS3         Driver = "s3"
	DriverSQLite     Driver = "sqlite"
)

// sanitizeKey rejects keys that are empty, absolute or escape the root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q contains '..'", key)
	}
	if strings.HasPrefix(key, "/") || filepath.IsAbs(key) {
		return "", fmt.Errorf("invalid absolute key %q", key)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}
