package manifest

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/matzehuels/depwatch/pkg/errors"
)

// ComposerJSON parses composer.json files. It merges require and
// require-dev and drops platform requirements.
type ComposerJSON struct{}

func (c *ComposerJSON) Kind() Kind                { return Composer }
func (c *ComposerJSON) Supports(name string) bool { return strings.EqualFold(name, "composer.json") }

func (c *ComposerJSON) Parse(data []byte) (*Manifest, error) {
	var comp composerFile
	if err := json.Unmarshal(data, &comp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "invalid composer.json")
	}
	keep := func(name, _ string) bool { return !IsPlatformRequirement(name) }
	return collect(Composer, comp.Name, comp.Require, comp.RequireDev, keep, NormalizeComposer), nil
}

// IsPlatformRequirement reports whether a composer requirement names the PHP
// runtime, an extension, a system library or Composer itself rather than a
// Packagist package.
func IsPlatformRequirement(name string) bool {
	ln := strings.ToLower(name)
	switch {
	case ln == "php" || ln == "hhvm" || ln == "composer" ||
		ln == "composer-plugin-api" || ln == "composer-runtime-api":
		return true
	case strings.HasPrefix(ln, "php-") || strings.HasPrefix(ln, "ext-") || strings.HasPrefix(ln, "lib-"):
		return true
	case !strings.Contains(ln, "/"):
		return true
	}
	return false
}

var (
	stabilityFlag = regexp.MustCompile(`@(dev|alpha|beta|rc|stable)\b`)
	shortTilde    = regexp.MustCompile(`~\s*(v?\d+\.\d+)(\s|,|\||$)`)
	singlePipe    = regexp.MustCompile(`\s*\|{1,2}\s*`)
)

// NormalizeComposer maps a composer constraint to Masterminds/semver syntax.
// Differences handled: "|" as OR, "~1.2" meaning ">=1.2 <2.0", and
// "@stability" flags.
func NormalizeComposer(spec string) string {
	s := strings.TrimSpace(spec)
	if s == "" || s == "*" {
		return "*"
	}
	if i := strings.Index(s, " as "); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = stabilityFlag.ReplaceAllString(strings.ToLower(s), "")
	s = singlePipe.ReplaceAllString(s, " || ")
	s = shortTilde.ReplaceAllString(s, "^$1$2")
	return strings.TrimSpace(s)
}

type composerFile struct {
	Name       string            `json:"name"`
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}
