package janitor

import (
	"slices"
	"strconv"
	"strings"
)

// DecideDeletions returns the versions that may be deleted under the
// retention policy: all versions minus the aliased ones and minus the
// keepCount most recent ones.
//
// Inputs are treated as sets. The result is ordered oldest first regardless
// of the input order. A negative keepCount is treated as zero.
func DecideDeletions(all, aliased []string, keepCount int) []string {
	if len(all) == 0 {
		return nil
	}

	ordered := slices.Clone(all)
	slices.SortFunc(ordered, func(a, b string) int {
		return CompareVersions(b, a)
	})
	ordered = slices.Compact(ordered)

	recent := min(max(keepCount, 0), len(ordered))
	keep := make(map[string]struct{}, len(aliased)+recent)
	for _, v := range aliased {
		keep[v] = struct{}{}
	}
	for i := 0; i < recent; i++ {
		keep[ordered[i]] = struct{}{}
	}

	var result []string
	for i := len(ordered) - 1; i >= 0; i-- {
		if _, ok := keep[ordered[i]]; !ok {
			result = append(result, ordered[i])
		}
	}
	return result
}

// CompareVersions orders version identifiers by recency, returning a negative
// number when a is older than b.
//
// Published versions are platform-assigned sequence numbers and compare
// numerically. Non-numeric identifiers sort before every numeric one.
func CompareVersions(a, b string) int {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	default:
		return strings.Compare(a, b)
	}
}
