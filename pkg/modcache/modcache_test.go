package modcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsbindgen/tsbindgen/pkg/bgerr"
	"github.com/tsbindgen/tsbindgen/pkg/tsparse"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestBuildClosure(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.d.ts", `export { x } from "./b";`)
	write(t, dir, "b.d.ts", `export const x: number;`)

	driver := tsparse.NewDriver(nil, nil)
	defer driver.Close()

	cache, err := Build(filepath.Join(dir, "a.d.ts"), driver, nil)
	require.NoError(t, err)
	require.Equal(t, 2, cache.Len())

	for _, p := range cache.Paths() {
		data, ok := cache.Get(p)
		require.True(t, ok)
		for _, dep := range data.Dependencies {
			_, ok := cache.Get(dep)
			require.True(t, ok, "closure violated: dependency %s not in cache", dep)
		}
	}
}

func TestBuildRejectsDefaultExport(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.d.ts", `export default function f(): void {};`)

	driver := tsparse.NewDriver(nil, nil)
	defer driver.Close()

	_, err := Build(filepath.Join(dir, "a.d.ts"), driver, nil)
	require.Error(t, err)

	var berr *bgerr.Error
	require.ErrorAs(t, err, &berr)
	require.Equal(t, bgerr.Unsupported, berr.Kind)
}

func TestBuildRejectsNamespaceImport(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.d.ts", `import * as ns from "./b";`)
	write(t, dir, "b.d.ts", `export const x: number;`)

	driver := tsparse.NewDriver(nil, nil)
	defer driver.Close()

	_, err := Build(filepath.Join(dir, "a.d.ts"), driver, nil)
	require.Error(t, err)

	var berr *bgerr.Error
	require.ErrorAs(t, err, &berr)
	require.Equal(t, bgerr.Unsupported, berr.Kind)
}
