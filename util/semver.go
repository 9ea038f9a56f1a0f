package util

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Semver struct {
	Major      int
	Minor      int
	Patch      int
	Beta       bool
	Alpha      bool
	Prerelease int
}

func Parse(semver string) (Semver, error) {
	s := Semver{}
	split := strings.SplitN(strings.TrimPrefix(strings.TrimSpace(semver), "v"), ".", 3)
	if len(split) != 3 {
		return Semver{}, errors.Errorf("invalid version %q, want major.minor.patch", semver)
	}

	major, err := strconv.Atoi(split[0])
	if err != nil {
		return Semver{}, errors.Wrapf(err, "major version of %q", semver)
	}
	s.Major = major

	minor, err := strconv.Atoi(split[1])
	if err != nil {
		return Semver{}, errors.Wrapf(err, "minor version of %q", semver)
	}
	s.Minor = minor

	patch := strings.SplitN(split[2], "-", 2)
	patchNum, err := strconv.Atoi(patch[0])
	if err != nil {
		return Semver{}, errors.Wrapf(err, "patch version of %q", semver)
	}
	s.Patch = patchNum

	if len(patch) > 1 {
		kind, num, ok := strings.Cut(patch[1], ".")
		switch {
		case !ok:
			return Semver{}, errors.Errorf("invalid prerelease: %s", patch[1])
		case kind == "beta":
			s.Beta = true
		case kind == "alpha":
			s.Alpha = true
		default:
			return Semver{}, errors.Errorf("invalid prerelease type: %s", patch[1])
		}
		s.Prerelease, err = strconv.Atoi(num)
		if err != nil {
			return Semver{}, errors.Wrapf(err, "prerelease number of %q", semver)
		}
	}

	return s, nil
}

func (s Semver) String() string {
	str := strconv.Itoa(s.Major) + "." + strconv.Itoa(s.Minor) + "." + strconv.Itoa(s.Patch)
	if s.Beta {
		str += "-beta." + strconv.Itoa(s.Prerelease)
	} else if s.Alpha {
		str += "-alpha." + strconv.Itoa(s.Prerelease)
	}
	return str
}

// stage orders prereleases: alpha < beta < release.
func (s Semver) stage() int {
	switch {
	case s.Alpha:
		return 0
	case s.Beta:
		return 1
	}
	return 2
}

// Compare returns -1, 0 or 1 as s is older than, equal to or newer than o.
func (s Semver) Compare(o Semver) int {
	pairs := [][2]int{
		{s.Major, o.Major},
		{s.Minor, o.Minor},
		{s.Patch, o.Patch},
		{s.stage(), o.stage()},
		{s.Prerelease, o.Prerelease},
	}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}

// Satisfies checks s against a single constraint: an exact version, or one
// prefixed with ~ (same minor), ^ (same major), >, >=, < or <=.
func (s Semver) Satisfies(cmp string) (bool, error) {
	cmp = strings.TrimSpace(cmp)
	op := ""
	for _, prefix := range []string{">=", "<=", "~", "^", ">", "<"} {
		if strings.HasPrefix(cmp, prefix) {
			op = prefix
			break
		}
	}

	c, err := Parse(strings.TrimSpace(cmp[len(op):]))
	if err != nil {
		return false, err
	}

	d := s.Compare(c)
	switch op {
	case "~":
		return d >= 0 && s.Major == c.Major && s.Minor == c.Minor, nil
	case "^":
		return d >= 0 && s.Major == c.Major, nil
	case ">":
		return d > 0, nil
	case ">=":
		return d >= 0, nil
	case "<":
		return d < 0, nil
	case "<=":
		return d <= 0, nil
	}
	return d == 0, nil
}
