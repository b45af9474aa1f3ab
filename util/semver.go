package util

import (
	"fmt"
	"strconv"
	"strings"
)

// Semver is a MAJOR.MINOR.PATCH version with an optional alpha.N or beta.N
// prerelease.
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
	version, pre, hasPre := strings.Cut(semver, "-")

	split := strings.Split(version, ".")
	if len(split) != 3 {
		return Semver{}, fmt.Errorf("invalid version %q: expected MAJOR.MINOR.PATCH", semver)
	}
	nums := []*int{&s.Major, &s.Minor, &s.Patch}
	for i, part := range split {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Semver{}, fmt.Errorf("invalid version %q: bad number %q", semver, part)
		}
		*nums[i] = n
	}

	if !hasPre {
		return s, nil
	}
	kind, num, ok := strings.Cut(pre, ".")
	switch {
	case !ok:
		return Semver{}, fmt.Errorf("invalid prerelease: %s", pre)
	case kind == "beta":
		s.Beta = true
	case kind == "alpha":
		s.Alpha = true
	default:
		return Semver{}, fmt.Errorf("invalid prerelease type: %s", kind)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return Semver{}, fmt.Errorf("invalid prerelease: %s", pre)
	}
	s.Prerelease = n
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

// stage orders releases after betas after alphas.
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
	a := []int{s.Major, s.Minor, s.Patch, s.stage(), s.Prerelease}
	b := []int{o.Major, o.Minor, o.Patch, o.stage(), o.Prerelease}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Satisfies checks s against a constraint: an exact version or one prefixed
// with ~ (same minor), ^ (same major, same minor below 1.0.0), >, >=, < or <=.
func (s Semver) Satisfies(cmp string) (bool, error) {
	op := ""
	for _, prefix := range []string{">=", "<=", "~", "^", ">", "<", "="} {
		if strings.HasPrefix(cmp, prefix) {
			op = prefix
			cmp = strings.TrimSpace(cmp[len(prefix):])
			break
		}
	}

	c, err := Parse(cmp)
	if err != nil {
		return false, err
	}

	d := s.Compare(c)
	switch op {
	case "~":
		return s.Major == c.Major && s.Minor == c.Minor && d >= 0, nil
	case "^":
		if c.Major == 0 {
			return s.Major == 0 && s.Minor == c.Minor && d >= 0, nil
		}
		return s.Major == c.Major && d >= 0, nil
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
