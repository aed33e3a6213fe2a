package features

import (
	"fmt"
	"strings"
)

// Profile is a target host's accepted feature set, chosen by the
// caller: ts-num, ts-full, or ts-custom with an explicit bitset.
type Profile struct {
	Name     string
	Features Set
}

// NumProfile accepts only number, function types, and simple records —
// the minimal profile for a numeric-only target host.
func NumProfile() Profile {
	return Profile{Name: "ts-num", Features: Number | Fn | Literal}
}

// FullProfile accepts every feature the detector recognizes.
func FullProfile() Profile {
	return Profile{Name: "ts-full", Features: All()}
}

// CustomProfile accepts exactly the bits in features (ts-custom).
func CustomProfile(features Set) Profile {
	return Profile{Name: "ts-custom", Features: features}
}

// Violation names one detected feature that exceeds the target profile.
type Violation struct {
	Feature string
}

// CompatibilityError accumulates every Violation found in one pass —
// unlike every other phase, which short-circuits on first error — so a
// caller sees every offending feature at once rather than fixing them
// one at a time.
type CompatibilityError struct {
	Target     Profile
	Violations []Violation
}

func (e *CompatibilityError) Error() string {
	names := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		names[i] = v.Feature
	}
	return fmt.Sprintf("compatibility: target profile %q rejects: %s", e.Target.Name, strings.Join(names, ", "))
}

// Gate checks detected ⊆ target.Features. On success returns nil;
// otherwise returns a *CompatibilityError listing every detected feature
// outside the target, in Set's fixed bit order.
func Gate(detected Set, target Profile) error {
	var violations []Violation
	for _, n := range names {
		if detected.Has(n.bit) && !target.Features.Has(n.bit) {
			violations = append(violations, Violation{Feature: n.name})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return &CompatibilityError{Target: target, Violations: violations}
}
