package manifest

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/depwatch/pkg/errors"
)

// PackageJSON parses package.json files. It merges dependencies and
// devDependencies; yarn and npm projects share the format.
type PackageJSON struct{}

func (p *PackageJSON) Kind() Kind                { return NpmOrYarn }
func (p *PackageJSON) Supports(name string) bool { return strings.EqualFold(name, "package.json") }

func (p *PackageJSON) Parse(data []byte) (*Manifest, error) {
	var pkg packageFile
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "invalid package.json")
	}
	return collect(NpmOrYarn, pkg.Name, pkg.Dependencies, pkg.DevDependencies, isRegistrySpec, NormalizeNpm), nil
}

var nonRegistryPrefixes = []string{
	"file:", "link:", "portal:", "patch:", "workspace:", "npm:",
	"git:", "git+", "github:", "gitlab:", "bitbucket:", "http:", "https:",
}

// isRegistrySpec reports whether an npm specifier resolves against the
// registry rather than a path, URL, alias or git remote.
func isRegistrySpec(_, spec string) bool {
	s := strings.TrimSpace(spec)
	ls := strings.ToLower(s)
	for _, prefix := range nonRegistryPrefixes {
		if strings.HasPrefix(ls, prefix) {
			return false
		}
	}
	// "user/repo" and "user/repo#ref" are GitHub shorthands
	if strings.Contains(s, "/") && !strings.ContainsAny(s, " <>=^~|") {
		return false
	}
	return true
}

// NormalizeNpm maps an npm version specifier to a semver constraint.
// Empty specifiers and the "latest" tag match any version; other dist-tags
// are returned unchanged and are not comparable.
func NormalizeNpm(spec string) string {
	s := strings.TrimSpace(spec)
	switch strings.ToLower(s) {
	case "", "latest", "*", "x":
		return "*"
	}
	return s
}

type packageFile struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}
