// Package registry is the cross-service, durable store of route
// definitions: a per-service replace-all write path and a pattern-matched
// read path, implemented identically (and parity-tested) against an
// in-memory map and a modernc.org/sqlite-backed table.
package registry

import (
	"strings"

	"github.com/tracewire/svcgraph/internal/types"
)

// Registry is the Route Registry capability from spec §4.3.
type Registry interface {
	// AddRoutes replaces the complete route set for service atomically.
	// An empty slice clears the service's entries.
	AddRoutes(service string, routes []types.RouteDefinition) error

	// GetRoutes returns service's routes, or an empty slice for an unknown service.
	GetRoutes(service string) ([]types.RouteDefinition, error)

	// FindRouteByRequest returns the best-matching route for a concrete
	// request, or (zero value, false) if none matches.
	FindRouteByRequest(service, method, requestPath string) (types.RouteDefinition, bool, error)

	// AllServices returns every service with at least one registered route.
	AllServices() ([]string, error)

	// Clear removes one service's routes, or every service's if service == "".
	Clear(service string) error
}

// bestMatch runs the spec §4.3 matching rules over one service's route set
// and returns the highest-priority match, or false if none matches. Shared
// by MemoryRegistry and SQLiteRegistry so the matching semantics can never
// drift between the two backends.
func bestMatch(routes []types.RouteDefinition, method, requestPath string) (types.RouteDefinition, bool) {
	best, found, _ := matchWithMethodInfo(routes, method, requestPath)
	return best, found
}

// MatchCall runs the same matching rules the registry itself uses against
// an already-loaded route set, additionally reporting whether any route at
// all matched on method — the Call Linker (§4.4 step 5) needs that to tell
// method_mismatch apart from path_mismatch.
func MatchCall(routes []types.RouteDefinition, method, requestPath string) (route types.RouteDefinition, matched bool, anyMethodMatch bool) {
	return matchWithMethodInfo(routes, method, requestPath)
}

func matchWithMethodInfo(routes []types.RouteDefinition, method, requestPath string) (types.RouteDefinition, bool, bool) {
	normRequest := normalizeRequestPath(requestPath)
	requestSegs := splitSegments(normRequest)

	// An unknown call method matches any route's method — rule 1 of §4.4
	// step 3 ("or whose method is any, if the call method is unknown").
	methodIsAny := method == "" || strings.EqualFold(method, string(types.MethodUnknown))

	var best types.RouteDefinition
	bestKind := noMatch
	found := false
	anyMethodMatch := false

	bestScore := 0.0

	for _, r := range routes {
		if !methodIsAny && r.Method != "" && !strings.EqualFold(r.Method, method) {
			continue
		}
		anyMethodMatch = true
		patternSegs := splitSegments(normalizePatternPath(r.Path))
		kind := classifyMatch(patternSegs, requestSegs)
		if kind == noMatch {
			continue
		}
		score := jaccardScore(patternSegs, requestSegs)

		if !found || kind > bestKind ||
			(kind == bestKind && (score > bestScore || (score == bestScore && isShorterOrEarlier(r, best)))) {
			best = r
			bestKind = kind
			bestScore = score
			found = true
		}
	}

	return best, found, anyMethodMatch
}

// isShorterOrEarlier breaks a tie between two routes of equal match kind and
// equal jaccard score: shortest pattern first, then lowest line number
// (decision recorded in DESIGN.md under Open Question 3).
func isShorterOrEarlier(candidate, current types.RouteDefinition) bool {
	if len(candidate.Path) != len(current.Path) {
		return len(candidate.Path) < len(current.Path)
	}
	return candidate.LineNumber < current.LineNumber
}
