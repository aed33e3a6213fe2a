package features

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsbindgen/tsbindgen/pkg/graph"
	"github.com/tsbindgen/tsbindgen/pkg/modcache"
	"github.com/tsbindgen/tsbindgen/pkg/tsparse"
)

func build(t *testing.T, files map[string]string, root string) *graph.Graph {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	driver := tsparse.NewDriver(nil, nil)
	t.Cleanup(func() { _ = driver.Close() })

	cache, err := modcache.Build(filepath.Join(dir, root), driver, nil)
	require.NoError(t, err)

	g, err := graph.Assemble(cache)
	require.NoError(t, err)

	reduced, err := graph.Reduce(g)
	require.NoError(t, err)
	return reduced
}

func TestDetectPrimitivesAndFunction(t *testing.T) {
	g := build(t, map[string]string{
		"a.d.ts": `export function f(n: number): string;`,
	}, "a.d.ts")

	detected := Detect(g)
	require.True(t, detected.Has(Fn))
	require.True(t, detected.Has(Number))
	require.True(t, detected.Has(String))
	require.False(t, detected.Has(Interface))
}

func TestDetectRecursiveInterface(t *testing.T) {
	g := build(t, map[string]string{
		"a.d.ts": `export interface Node { next: Node; }`,
	}, "a.d.ts")

	detected := Detect(g)
	require.True(t, detected.Has(Interface))
	require.True(t, detected.Has(RecursiveType))
}

// TestProfileGate checks that a string-typed export
// against the ts-num profile is rejected with StringType among the
// violations, and that compatibility succeeds iff detected ⊆ target.
func TestProfileGate(t *testing.T) {
	g := build(t, map[string]string{
		"a.d.ts": `export function f(s: string): string;`,
	}, "a.d.ts")

	detected := Detect(g)
	err := Gate(detected, NumProfile())
	require.Error(t, err)

	var compatErr *CompatibilityError
	require.ErrorAs(t, err, &compatErr)

	var gotString bool
	for _, v := range compatErr.Violations {
		if v.Feature == "StringType" {
			gotString = true
		}
	}
	require.True(t, gotString)
}

func TestProfileGateFullAcceptsEverything(t *testing.T) {
	g := build(t, map[string]string{
		"a.d.ts": `export interface Shape { tag: string; area(): number; }
export class C { constructor(); m(x: boolean): void; }
export type Alias = number;
export enum Color { Red, Green }`,
	}, "a.d.ts")

	detected := Detect(g)
	require.NoError(t, Gate(detected, FullProfile()))
}

func TestCustomProfile(t *testing.T) {
	g := build(t, map[string]string{
		"a.d.ts": `export function f(n: number): number;`,
	}, "a.d.ts")

	detected := Detect(g)
	require.NoError(t, Gate(detected, CustomProfile(Number|Fn)))
	require.Error(t, Gate(detected, CustomProfile(Number)))
}
