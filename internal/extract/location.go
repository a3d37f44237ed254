package extract

import (
	"fmt"
	"strings"
)

// toSlash normalizes both separators regardless of host OS; CI path
// inputs can carry either.
func toSlash(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// MarkerPath relativizes a path at the first occurrence of the
// workspace marker fragment, keeping the marker. When the marker does
// not occur, the whole path is used. Matching tolerates either path
// separator and only accepts the marker on segment boundaries.
func MarkerPath(path, marker string) string {
	p := toSlash(path)
	m := strings.Trim(toSlash(marker), "/")
	if m == "" {
		return p
	}
	idx := segmentIndex(p, m)
	if idx < 0 {
		return p
	}
	return p[idx:]
}

// RelPath relativizes like MarkerPath and additionally strips the
// marker prefix, yielding the repository-relative path used for
// catalog headers and permalinks.
func RelPath(path, marker string) string {
	p := MarkerPath(path, marker)
	m := strings.Trim(toSlash(marker), "/")
	if m != "" && strings.HasPrefix(p, m) {
		p = strings.TrimPrefix(strings.TrimPrefix(p, m), "/")
	}
	return p
}

// Location renders the stable source-location string: marker-relative
// path plus a 1-based inclusive line span.
func Location(path, marker string, start, end int) string {
	return fmt.Sprintf("%s:%d-%d", MarkerPath(path, marker), start, end)
}

// segmentIndex finds the first occurrence of fragment in path that
// starts and ends on a path-segment boundary.
func segmentIndex(path, fragment string) int {
	from := 0
	for {
		idx := strings.Index(path[from:], fragment)
		if idx < 0 {
			return -1
		}
		idx += from
		end := idx + len(fragment)
		startOK := idx == 0 || path[idx-1] == '/'
		endOK := end == len(path) || path[end] == '/'
		if startOK && endOK {
			return idx
		}
		from = idx + 1
	}
}
