package access

import (
	"path"
	"strings"
)

// MatchAnt reports whether urlPath matches an Ant-style pattern:
// "**" spans zero or more segments, "*" and "{name}" span exactly one,
// and other "*" or "?" wildcards match within a single segment.
func MatchAnt(pattern, urlPath string) bool {
	return matchSegments(splitPath(pattern), splitPath(urlPath))
}

func matchSegments(pattern, segments []string) bool {
	for len(pattern) > 0 {
		head := pattern[0]
		if head == "**" {
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(segments); i++ {
				if matchSegments(rest, segments[i:]) {
					return true
				}
			}
			return false
		}
		if len(segments) == 0 || !matchSegment(head, segments[0]) {
			return false
		}
		pattern, segments = pattern[1:], segments[1:]
	}
	return len(segments) == 0
}

func matchSegment(pattern, segment string) bool {
	if pattern == "*" {
		return segment != ""
	}
	if strings.HasPrefix(pattern, "{") && strings.HasSuffix(pattern, "}") {
		return segment != ""
	}
	if !strings.ContainsAny(pattern, "*?") {
		return pattern == segment
	}
	ok, err := path.Match(pattern, segment)
	return err == nil && ok
}

func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
}
