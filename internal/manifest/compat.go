package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrIncompatible is returned when the running tool does not satisfy a
// manifest's "requires" constraint.
var ErrIncompatible = errors.New("template requires a different bootstrap version")

// CheckCompatible verifies that version satisfies m.Requires. Development
// builds (any version that is not valid semver, such as "dev") always pass.
func CheckCompatible(m *Manifest, version string) error {
	if m.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(m.Requires)
	if err != nil {
		return fmt.Errorf("parsing constraint %q: %w", m.Requires, err)
	}

	v, err := parseSemver(version)
	if err != nil {
		return nil
	}

	if ok, errs := constraint.Validate(v); !ok {
		reasons := make([]string, 0, len(errs))
		for _, e := range errs {
			reasons = append(reasons, e.Error())
		}
		return fmt.Errorf("%s needs %s, running %s (%s): %w",
			m.Name, m.Requires, v.Original(), strings.Join(reasons, "; "), ErrIncompatible)
	}
	return nil
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
