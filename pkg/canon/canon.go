// Package canon implements canonical filesystem identity for declaration
// files: an opaque, equality-comparable, hashable path produced by
// resolving a path to its unique on-disk form.
package canon

import (
	"fmt"
	"path/filepath"
)

// Path is an opaque identifier for a declaration file. Two Paths are equal
// iff they name the same on-disk file.
type Path struct {
	clean string
}

// New canonicalizes p: symlinks are resolved and the result is absolute
// and cleaned. Fails with an error wrapping the filesystem error if p does
// not exist.
func New(p string) (Path, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return Path{}, fmt.Errorf("canon: %s: %w", p, err)
	}
	real, err := evalSymlinks(abs)
	if err != nil {
		return Path{}, fmt.Errorf("canon: %s: %w", p, err)
	}
	return Path{clean: real}, nil
}

// MustNew is New but panics on error. Intended for tests and constants.
func MustNew(p string) Path {
	path, err := New(p)
	if err != nil {
		panic(err)
	}
	return path
}

// String returns the canonical form, suitable for display and for use as a
// map key's debug representation.
func (p Path) String() string {
	return p.clean
}

// Dir returns the canonical directory containing p.
func (p Path) Dir() string {
	return filepath.Dir(p.clean)
}

// IsZero reports whether p is the zero value (never a valid canonical path).
func (p Path) IsZero() bool {
	return p.clean == ""
}
