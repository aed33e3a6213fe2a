// Package resolve implements the dependency locator (C2): turning the
// textual module specifier written in an import/re-export into the
// canonical path of the declaration file it refers to.
package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tsbindgen/tsbindgen/pkg/canon"
)

// Kind tags why resolution failed.
type Kind int

const (
	// KindNonRelative marks a specifier that is not relative.
	KindNonRelative Kind = iota
	// KindEmptyPath marks a specifier whose final path component is empty.
	KindEmptyPath
	// KindIO marks a filesystem-level failure (propagated from canon.New).
	KindIO
)

// Error reports why a specifier could not be resolved.
type Error struct {
	Specifier string
	Importer  canon.Path
	Kind      Kind
	Cause     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNonRelative:
		return fmt.Sprintf("resolve: %q (from %s): non-relative module specifiers are unsupported", e.Specifier, e.Importer)
	case KindEmptyPath:
		return fmt.Sprintf("resolve: %q (from %s): resolves to an empty path", e.Specifier, e.Importer)
	default:
		return fmt.Sprintf("resolve: %q (from %s): %v", e.Specifier, e.Importer, e.Cause)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Dependency resolves specifier, the textual module string as it appears in
// importer's source, to the canonical path of the declaration file it
// names: relative-only resolution with `.d.ts` extension normalization.
func Dependency(importer canon.Path, specifier string) (canon.Path, error) {
	if !isRelative(specifier) {
		return canon.Path{}, &Error{Specifier: specifier, Importer: importer, Kind: KindNonRelative}
	}

	joined := filepath.Join(importer.Dir(), filepath.FromSlash(specifier))
	withExt, err := normalizeExtension(joined)
	if err != nil {
		return canon.Path{}, &Error{Specifier: specifier, Importer: importer, Kind: KindEmptyPath}
	}

	p, err := canon.New(withExt)
	if err != nil {
		return canon.Path{}, &Error{Specifier: specifier, Importer: importer, Kind: KindIO, Cause: err}
	}
	return p, nil
}

func isRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// normalizeExtension mirrors prepare_path: no extension gets ".d.ts"
// appended; a non-".d.ts" extension gets ".d.ts" appended as a second
// extension (foo.js -> foo.js.d.ts); ".d.ts" itself is left alone.
func normalizeExtension(path string) (string, error) {
	if filepath.Base(path) == "" || filepath.Base(path) == "." || filepath.Base(path) == string(filepath.Separator) {
		return "", fmt.Errorf("empty final path component")
	}

	if strings.HasSuffix(path, ".d.ts") {
		return path, nil
	}
	// No extension, or an extension other than ".d.ts": append ".d.ts",
	// mirroring the convention that "foo.js" in source names "foo.js.d.ts"
	// on disk.
	return path + ".d.ts", nil
}
