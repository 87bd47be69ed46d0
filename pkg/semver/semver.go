// Package semver decides whether a declared dependency is outdated.
//
// Versions and constraints are parsed with github.com/Masterminds/semver/v3.
// A dependency is outdated when the registry's latest version does not
// satisfy its declared constraint: "^1.0.0" with latest "1.5.0" is current,
// "1.0.0" with latest "2.0.0" is outdated. A declared version that is not a
// constraint (a branch such as "dev-main" or a dist-tag such as "beta") is
// never outdated; see [Comparable]. When only the latest version cannot be
// parsed, the comparison falls back to string inequality after trimming a
// leading "v" or "=".
package semver

import (
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a semantic version.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3.
type Version struct {
	v *mm.Version
}

// Constraint is a semantic version constraint.
//
// Examples:
// - ">=1.2.0 <2.0.0"
// - "^1.0.0"
// - "~1.4"
type Constraint struct {
	c *mm.Constraints
}

func ParseVersion(raw string) (Version, error) {
	v, err := mm.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func ParseConstraint(raw string) (Constraint, error) {
	c, err := mm.NewConstraint(strings.TrimSpace(raw))
	if err != nil {
		return Constraint{}, fmt.Errorf("semver: parse constraint %q: %w", raw, err)
	}
	return Constraint{c: c}, nil
}

func MustParseConstraint(raw string) Constraint {
	c, err := ParseConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func Satisfies(v Version, c Constraint) bool {
	if v.v == nil || c.c == nil {
		return false
	}
	return c.c.Check(v.v)
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// String returns the original version text.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.Original()
}

// Prerelease reports whether v carries a pre-release suffix.
func (v Version) Prerelease() bool {
	return v.v != nil && v.v.Prerelease() != ""
}

// Comparable reports whether constraint is a version constraint a registry
// release can be checked against.
func Comparable(constraint string) bool {
	_, err := ParseConstraint(constraint)
	return err == nil
}

// Outdated reports whether latest falls outside the declared constraint.
// An empty latest or a non-comparable constraint is never outdated.
func Outdated(constraint, latest string) bool {
	latest = strings.TrimSpace(latest)
	if latest == "" {
		return false
	}

	c, err := ParseConstraint(constraint)
	if err != nil {
		return false
	}
	v, err := ParseVersion(latest)
	if err != nil {
		return trimVersion(constraint) != trimVersion(latest)
	}
	return !Satisfies(v, c)
}

func trimVersion(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "=")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")
	return strings.TrimSpace(s)
}
