package catalog

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion parses a full semantic version. Surrounding whitespace and a
// leading "v" are tolerated; partial versions such as "1.2" are rejected.
func ParseVersion(version string) (*semver.Version, error) {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	sv, err := semver.StrictNewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	return sv, nil
}

// compareVersions orders two version strings by semver precedence. Strings
// that fail to parse sort below every valid version and among themselves
// lexically, so legacy entries never break sorting.
func compareVersions(a, b string) int {
	av, aerr := ParseVersion(a)
	bv, berr := ParseVersion(b)
	switch {
	case aerr == nil && berr == nil:
		return av.Compare(bv)
	case aerr != nil && berr != nil:
		return strings.Compare(a, b)
	case aerr != nil:
		return -1
	default:
		return 1
	}
}
