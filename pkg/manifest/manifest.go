// Package manifest classifies repositories by package manager and parses
// their dependency manifests.
//
// # Kinds
//
// A repository's [Kind] is derived from the files at its root. Kinds are
// checked in [DetectionOrder], so a repository holding both package.json
// and composer.json is treated as npm/yarn.
//
// # Parsing
//
// [Parse] turns raw manifest bytes into a [Manifest]. Each [Dependency]
// keeps the declared version text and a normalized Constraint that
// Masterminds/semver can evaluate. Entries that do not resolve against a
// registry (local paths, git URLs, platform requirements) are dropped.
package manifest

import (
	"slices"
	"strings"

	"github.com/matzehuels/depwatch/pkg/errors"
)

// Kind identifies the package manager of a repository.
type Kind int

const (
	Unsupported Kind = iota
	NpmOrYarn
	Composer
)

// DetectionOrder is the order in which manifest files are looked for.
// The first match wins.
var DetectionOrder = []Kind{NpmOrYarn, Composer}

// Filename returns the manifest file of the kind, or "" for Unsupported.
func (k Kind) Filename() string {
	switch k {
	case NpmOrYarn:
		return "package.json"
	case Composer:
		return "composer.json"
	default:
		return ""
	}
}

// String returns a human-readable name.
func (k Kind) String() string {
	switch k {
	case NpmOrYarn:
		return "npm/yarn"
	case Composer:
		return "composer"
	default:
		return "unsupported"
	}
}

// Ecosystem returns the registry that packages of this kind are published to.
func (k Kind) Ecosystem() string {
	switch k {
	case NpmOrYarn:
		return "npm"
	case Composer:
		return "packagist"
	default:
		return ""
	}
}

// MarshalText encodes the kind by its String form.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Detect returns the first kind in DetectionOrder whose manifest is among
// files, or Unsupported when none is.
func Detect(files []string) Kind {
	for _, k := range DetectionOrder {
		if slices.Contains(files, k.Filename()) {
			return k
		}
	}
	return Unsupported
}

// Dependency is one declared dependency.
type Dependency struct {
	Name       string `json:"name"`
	Version    string `json:"version"`    // as written in the manifest
	Constraint string `json:"constraint"` // normalized for semver evaluation
	Dev        bool   `json:"dev,omitempty"`
}

// Manifest is the parsed content of a dependency manifest.
type Manifest struct {
	Kind         Kind         `json:"kind"`
	Name         string       `json:"name,omitempty"` // root package name, if declared
	Dependencies []Dependency `json:"dependencies"`   // sorted by name
}

// Parser reads one manifest format.
type Parser interface {
	// Kind returns the package manager handled by this parser.
	Kind() Kind
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Parse decodes data and returns the declared dependencies.
	Parse(data []byte) (*Manifest, error)
}

var parsers = map[Kind]Parser{
	NpmOrYarn: &PackageJSON{},
	Composer:  &ComposerJSON{},
}

// ParserFor returns the parser of a kind.
func ParserFor(kind Kind) (Parser, bool) {
	p, ok := parsers[kind]
	return p, ok
}

// Parse decodes a manifest of the given kind.
func Parse(kind Kind, data []byte) (*Manifest, error) {
	p, ok := ParserFor(kind)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "no manifest parser for %s", kind)
	}
	return p.Parse(data)
}

// collect merges runtime and dev sections. A name present in both keeps the
// runtime entry. keep filters names and declared versions; normalize maps a
// declared version to its constraint.
func collect(kind Kind, name string, runtime, dev map[string]string, keep func(name, version string) bool, normalize func(string) string) *Manifest {
	seen := make(map[string]bool, len(runtime)+len(dev))
	deps := make([]Dependency, 0, len(runtime)+len(dev))

	add := func(section map[string]string, isDev bool) {
		for n, v := range section {
			n = strings.TrimSpace(n)
			if n == "" || seen[n] || !keep(n, v) {
				continue
			}
			seen[n] = true
			deps = append(deps, Dependency{
				Name:       n,
				Version:    v,
				Constraint: normalize(v),
				Dev:        isDev,
			})
		}
	}
	add(runtime, false)
	add(dev, true)

	slices.SortFunc(deps, func(a, b Dependency) int { return strings.Compare(a.Name, b.Name) })
	return &Manifest{Kind: kind, Name: name, Dependencies: deps}
}
