package catalog

import (
	"fmt"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Violation describes one broken catalog invariant.
type Violation struct {
	Extension string
	Message   string
}

func (v Violation) Error() string {
	if v.Extension == "" {
		return v.Message
	}
	return v.Extension + ": " + v.Message
}

// Check verifies the catalog invariants and returns every violation found.
// A catalog produced only through AddRelease always checks clean.
func (c *Catalog) Check() []Violation {
	var out []Violation
	col := collate.New(language.English)

	seen := make(map[string]bool, len(c.Extensions))
	for i, ext := range c.Extensions {
		if seen[ext.Name] {
			out = append(out, Violation{ext.Name, "listed more than once"})
		}
		seen[ext.Name] = true

		if i > 0 && col.CompareString(c.Extensions[i-1].Name, ext.Name) > 0 {
			out = append(out, Violation{ext.Name, fmt.Sprintf("out of order after %s", c.Extensions[i-1].Name)})
		}

		out = append(out, checkVersions(ext)...)
	}
	return out
}

func checkVersions(ext *Extension) []Violation {
	var out []Violation
	if len(ext.Versions) == 0 {
		return append(out, Violation{ext.Name, "has no versions"})
	}

	for i, v := range ext.Versions {
		sv, err := ParseVersion(v.Version)
		if err != nil {
			out = append(out, Violation{ext.Name, fmt.Sprintf("invalid version %q", v.Version)})
			continue
		}
		if i == 0 {
			continue
		}
		prev, err := ParseVersion(ext.Versions[i-1].Version)
		if err != nil {
			continue
		}
		switch cmp := prev.Compare(sv); {
		case cmp == 0:
			out = append(out, Violation{ext.Name, fmt.Sprintf("duplicate version %s", v.Version)})
		case cmp < 0:
			out = append(out, Violation{ext.Name, fmt.Sprintf("version %s listed after lower version %s", v.Version, ext.Versions[i-1].Version)})
		}
	}

	latest := ext.LatestVersion
	first := ext.Versions[0]
	if latest == nil {
		out = append(out, Violation{ext.Name, "has no latestVersion"})
	} else if latest.Version != first.Version || latest.URL != first.URL {
		out = append(out, Violation{ext.Name, fmt.Sprintf("latestVersion is %s, want %s", latest.Version, first.Version)})
	}
	return out
}
