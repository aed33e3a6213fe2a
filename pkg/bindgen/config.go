// Package bindgen implements the orchestrator (C11): sequencing C4
// through C10 and surfacing fatal errors. It also carries a few
// additions on top of the core pipeline: an optional watch mode, a
// prefetch pre-warm step, and a sibling-file discovery mode for batch
// generation.
package bindgen

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tsbindgen/tsbindgen/pkg/features"
)

// ProfileKind names which of the three target-profile forms a Config
// selects.
type ProfileKind string

const (
	ProfileNum    ProfileKind = "ts-num"
	ProfileFull   ProfileKind = "ts-full"
	ProfileCustom ProfileKind = "ts-custom"
)

// Config assembles every generation input: a plain struct built up by
// the CLI's flag parsing, no third-party flag/config library (see
// DESIGN.md for why).
type Config struct {
	RootPath    string
	OutDir      string
	RequirePath string // empty selects the default, "./<stem>.js"
	Stem        string // empty selects the root file's stem

	ProfileKind    ProfileKind
	CustomFeatures features.Set // used only when ProfileKind == ProfileCustom

	ConstructorWrappers bool
	OpaqueInterfaces    bool
	WrapTopLevelVars    bool

	EmitJSON bool
	EmitJS   bool

	// Watch marks a configuration intended for watch mode. Run does not
	// read it; the CLI's `watch` subcommand starts a Watcher directly.
	Watch bool
	// Prefetch pre-warms the mmap file cache with a worker pool before
	// C4's sequential closure walk begins (--prefetch). Concurrency
	// never reaches the closure walk itself — C4 stays single-threaded
	// and sequential.
	Prefetch bool
	// AlsoScan additionally discovers sibling .d.ts files under the
	// root's directory via glob include/exclude patterns, generating
	// bindings for each in turn (--also-scan).
	AlsoScan    bool
	ScanInclude []string
	ScanExclude []string

	Logger *slog.Logger
}

// DefaultConfig returns a Config with every generation/emission option
// at its default: constructor-wrappers, opaque-interfaces, and
// wrap-top-level-vars all on, both json and js emission on, ts-full
// profile.
func DefaultConfig() Config {
	return Config{
		ProfileKind:         ProfileFull,
		ConstructorWrappers: true,
		OpaqueInterfaces:    true,
		WrapTopLevelVars:    true,
		EmitJSON:            true,
		EmitJS:              true,
	}
}

// Profile resolves cfg's target-profile fields into a features.Profile.
func (cfg Config) Profile() features.Profile {
	switch cfg.ProfileKind {
	case ProfileNum:
		return features.NumProfile()
	case ProfileCustom:
		return features.CustomProfile(cfg.CustomFeatures)
	default:
		return features.FullProfile()
	}
}

// stem returns cfg.Stem if set, else the root path's basename with
// every extension stripped.
func (cfg Config) stem() string {
	if cfg.Stem != "" {
		return cfg.Stem
	}
	base := filepath.Base(cfg.RootPath)
	for {
		ext := filepath.Ext(base)
		if ext == "" {
			break
		}
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// requirePath returns cfg.RequirePath if set, else "./<stem>.js".
func (cfg Config) requirePath() string {
	if cfg.RequirePath != "" {
		return cfg.RequirePath
	}
	return "./" + cfg.stem() + ".js"
}

// ParseCustomFeatures parses a ts-custom bitset given as a decimal or
// "0x"-prefixed hexadecimal string, for the --custom-features flag.
func ParseCustomFeatures(s string) (features.Set, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	bits, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("bindgen: invalid --custom-features value: %w", err)
	}
	return features.Set(bits), nil
}
