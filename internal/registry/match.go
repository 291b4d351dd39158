package registry

import "strings"

// normalizeRequestPath strips the query string and a trailing slash from a
// request path, per spec §4.3 rule 1–2.
func normalizeRequestPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// normalizePatternPath trims a trailing slash from a route pattern (rule 2).
// {name} wildcard conversion (rule 3) is applied segment-by-segment during
// matching rather than by rewriting the stored string, so the original
// pattern is preserved for RouteDefinition.Path.
func normalizePatternPath(path string) string {
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	return path
}

func splitSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// matchKind ranks how a route pattern matched a request path — exact beats
// parameterized beats trailing-extension, per spec §4.3 rule 5.
type matchKind int

const (
	noMatch matchKind = iota
	matchTrailingExtension
	matchParameterized
	matchExact
)

// isWildcardSegment reports whether a pattern segment is a `{name}` capture.
func isWildcardSegment(seg string) bool {
	return len(seg) >= 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}

// jaccardScore ranks two same-matchKind candidates by segment similarity —
// a ranking signal only, layered on top of (never replacing) classifyMatch's
// deterministic exact/parameterized/trailing-extension boundary, grounded on
// the teacher's pathMatchScore segment-Jaccard term. A wildcard segment
// counts as matching its corresponding request segment.
func jaccardScore(patternSegs, requestSegs []string) float64 {
	if len(patternSegs) == 0 {
		return 0
	}
	matched := 0
	for i, pseg := range patternSegs {
		if i >= len(requestSegs) {
			break
		}
		if isWildcardSegment(pseg) || pseg == requestSegs[i] {
			matched++
		}
	}
	union := len(patternSegs)
	if len(requestSegs) > union {
		union = len(requestSegs)
	}
	if union == 0 {
		return 0
	}
	return float64(matched) / float64(union)
}

// classifyMatch compares a route pattern's segments against a request's
// segments and returns the match kind (noMatch if they don't match at all).
func classifyMatch(patternSegs, requestSegs []string) matchKind {
	if len(requestSegs) < len(patternSegs) {
		return noMatch
	}

	hasWildcard := false
	for i, pseg := range patternSegs {
		rseg := requestSegs[i]
		if isWildcardSegment(pseg) {
			hasWildcard = true
			continue // wildcard matches any single segment
		}
		if pseg != rseg {
			return noMatch
		}
	}

	switch {
	case len(requestSegs) > len(patternSegs):
		return matchTrailingExtension
	case hasWildcard:
		return matchParameterized
	default:
		return matchExact
	}
}
