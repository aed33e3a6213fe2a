package bgerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsbindgen/tsbindgen/pkg/canon"
)

func TestErrorStringWithSpan(t *testing.T) {
	path, err := canon.New(t.TempDir())
	require.NoError(t, err)

	e := Typingf(path, Span{Start: 4, End: 9}, "unknown symbol %q", "Foo")
	require.Contains(t, e.Error(), "@4-9")
	require.Contains(t, e.Error(), "Typing")
	require.Contains(t, e.Error(), `unknown symbol "Foo"`)
}

func TestErrorStringWithoutSpan(t *testing.T) {
	path, err := canon.New(t.TempDir())
	require.NoError(t, err)

	e := &Error{Kind: Resolution, Module: path}
	require.NotContains(t, e.Error(), "@")
	require.Contains(t, e.Error(), "Resolution")
}

func TestUnsupportedfFeature(t *testing.T) {
	path, err := canon.New(t.TempDir())
	require.NoError(t, err)

	e := Unsupportedf(path, Span{}, "DefaultExport", "")
	require.Equal(t, Unsupported, e.Kind)
	require.Equal(t, "DefaultExport", e.Feature)
	require.Contains(t, e.Error(), "UnsupportedFeature(DefaultExport)")
}

func TestUnwrap(t *testing.T) {
	path, err := canon.New(t.TempDir())
	require.NoError(t, err)

	cause := errors.New("boom")
	e := &Error{Kind: IO, Module: path, Cause: cause}
	require.ErrorIs(t, e, cause)
}
