package update

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions compares two version strings.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b
//
// When both strings are semantic versions (a leading "v" and missing minor
// or patch numbers are accepted) SemVer 2.0.0 precedence applies: a
// pre-release sorts before its release and build metadata is ignored.
// Anything else is compared as a dotted numeric core padded with zeros,
// followed by a suffix that sorts before the bare core.
func CompareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return compareLoose(a, b)
}

// IsNewer returns true if remote is newer than current
func IsNewer(remote, current string) bool {
	return CompareVersions(remote, current) > 0
}

// compareLoose compares versions that are not valid semantic versions
func compareLoose(a, b string) int {
	coreA, suffixA := splitVersion(a)
	coreB, suffixB := splitVersion(b)

	if cmp := compareIntSlices(coreA, coreB); cmp != 0 {
		return cmp
	}

	// A release outranks any suffixed build of the same core
	switch {
	case suffixA == suffixB:
		return 0
	case suffixA == "":
		return 1
	case suffixB == "":
		return -1
	case suffixA < suffixB:
		return -1
	default:
		return 1
	}
}

// splitVersion breaks "v1.2.3-rc1+meta" into [1 2 3] and "-rc1"
func splitVersion(v string) ([]int, string) {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexByte(v, '+'); i >= 0 {
		v = v[:i]
	}

	core, suffix := v, ""
	if i := strings.IndexFunc(v, func(r rune) bool {
		return r != '.' && (r < '0' || r > '9')
	}); i >= 0 {
		core, suffix = v[:i], v[i:]
	}

	if core == "" {
		return nil, suffix
	}

	parts := strings.Split(core, ".")
	nums := make([]int, len(parts))
	for i, p := range parts {
		// Out of range segments saturate, which keeps the ordering deterministic
		nums[i], _ = strconv.Atoi(p)
	}
	return nums, suffix
}

// compareIntSlices compares two slices of integers, padding the shorter with zeros
func compareIntSlices(a, b []int) int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	for i := 0; i < maxLen; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}

		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}
