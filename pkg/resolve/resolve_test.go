package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsbindgen/tsbindgen/pkg/canon"
)

func writeFile(t *testing.T, dir, name string) canon.Path {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(""), 0o644))
	c, err := canon.New(p)
	require.NoError(t, err)
	return c
}

func TestDependencyExtensionNormalization(t *testing.T) {
	dir := t.TempDir()
	importer := writeFile(t, dir, "a.d.ts")
	writeFile(t, dir, "b.d.ts")
	writeFile(t, dir, "c.js.d.ts")

	got, err := Dependency(importer, "./b")
	require.NoError(t, err)
	require.Equal(t, "b.d.ts", filepath.Base(got.String()))

	got, err = Dependency(importer, "./c.js")
	require.NoError(t, err)
	require.Equal(t, "c.js.d.ts", filepath.Base(got.String()))
}

func TestDependencyNonRelativeFails(t *testing.T) {
	dir := t.TempDir()
	importer := writeFile(t, dir, "a.d.ts")

	_, err := Dependency(importer, "some-package")
	require.Error(t, err)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, KindNonRelative, rerr.Kind)
}

func TestDependencyMissingFileIsIOError(t *testing.T) {
	dir := t.TempDir()
	importer := writeFile(t, dir, "a.d.ts")

	_, err := Dependency(importer, "./missing")
	require.Error(t, err)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, KindIO, rerr.Kind)
}
