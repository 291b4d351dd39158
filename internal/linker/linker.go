// Package linker resolves a single ServiceCall against the Route Registry,
// producing either a concrete ServiceRelation or a classified miss.
package linker

import (
	"github.com/tracewire/svcgraph/internal/registry"
	"github.com/tracewire/svcgraph/internal/types"
)

// Linker resolves ServiceCalls against a Registry. It holds no mutable
// state of its own — Link is a pure function of the call and whatever the
// registry currently reports, per spec §4.4's "deterministic; pure with
// respect to the registry snapshot" contract.
type Linker struct {
	registry registry.Registry
}

// New constructs a Linker over reg.
func New(reg registry.Registry) *Linker {
	return &Linker{registry: reg}
}

// Link resolves call to a LinkResult. The five-step algorithm, including
// its tie-break rules, is exact per spec §4.4 — this is the one place in
// the repo where changing behavior requires re-reading that section, not
// guessing at a plausible alternative.
func (l *Linker) Link(call types.ServiceCall) (types.LinkResult, error) {
	routes, err := l.registry.GetRoutes(call.TargetService)
	if err != nil {
		return types.LinkResult{}, err
	}

	if call.Confidence < types.MinForLinking {
		if len(routes) == 0 {
			return types.Unlinked(call, types.ReasonNoRoutes), nil
		}
		return types.Unlinked(call, types.ReasonPathMismatch), nil
	}

	if len(routes) == 0 {
		return types.Unlinked(call, types.ReasonNoRoutes), nil
	}

	method := string(call.Method)
	best, matched, anyMethodMatch := registry.MatchCall(routes, method, call.URLPath)
	if matched {
		return types.Linked(types.ServiceRelation{
			SourceFile:     call.SourceFile,
			SourceLine:     call.LineNumber,
			TargetFile:     best.Service + "/" + best.HandlerFile,
			TargetFunction: best.HandlerFunction,
			TargetLine:     best.LineNumber,
			RelationType:   relationTypeFor(call.CallType),
			RoutePath:      routePathFor(call.CallType, best.Path),
			Confidence:     call.Confidence,
		}), nil
	}

	if !anyMethodMatch {
		return types.Unlinked(call, types.ReasonMethodMismatch), nil
	}
	return types.Unlinked(call, types.ReasonPathMismatch), nil
}

func relationTypeFor(ct types.CallType) types.RelationType {
	switch ct {
	case types.CallGRPC:
		return types.RelationGRPCCall
	case types.CallQueuePublish:
		return types.RelationQueuePublish
	case types.CallQueueSubscribe:
		return types.RelationQueueSubscribe
	default:
		return types.RelationHTTPCall
	}
}

// routePathFor reports the HTTP route path on a relation only for HTTP
// calls — route_path is HTTP-only per spec §3's ServiceRelation invariant.
func routePathFor(ct types.CallType, path string) string {
	if ct != types.CallHTTP {
		return ""
	}
	return path
}
