// Package types holds the data model shared by every pipeline stage: the
// single source of truth for confidence tiers, call/route/relation shapes,
// and the thresholds that gate admission to linking and to the graph.
package types

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// CallType enumerates the kinds of outbound communication a ServiceCall can represent.
type CallType string

const (
	CallHTTP           CallType = "http"
	CallGRPC           CallType = "grpc"
	CallQueuePublish   CallType = "queue_publish"
	CallQueueSubscribe CallType = "queue_subscribe"
)

// HTTPMethod enumerates the recognized HTTP verbs, plus the unknown sentinel.
type HTTPMethod string

const (
	MethodGET     HTTPMethod = "GET"
	MethodPOST    HTTPMethod = "POST"
	MethodPUT     HTTPMethod = "PUT"
	MethodDELETE  HTTPMethod = "DELETE"
	MethodPATCH   HTTPMethod = "PATCH"
	MethodUnknown HTTPMethod = "unknown"
)

// Confidence tiers — fixed constants, single source of truth (spec §3).
const (
	ConfidenceHigh   = 0.9 // literal URL with service name in host
	ConfidenceMedium = 0.7 // templated URL where service-name fragment is derivable
	ConfidenceLow    = 0.5 // call with URL from a variable whose value is known to the module
	ConfidenceGuess  = 0.3 // heuristic only; never used for linking, not admitted to graph
)

// Downstream policy thresholds.
const (
	MinForGraph   = 0.5 // admit to graph when confidence >= this
	MinForLinking = 0.7 // admit to linking when confidence >= this
)

// ServiceCall is a detected outbound communication site.
type ServiceCall struct {
	SourceFile    string
	LineNumber    int
	TargetService string
	CallType      CallType
	Confidence    float64
	Method        HTTPMethod // only meaningful when CallType == CallHTTP
	URLPath       string     // template form; may be empty when unknown
}

// Validate enforces the ServiceCall invariants from spec §3.
func (c ServiceCall) Validate() error {
	if c.Confidence <= 0 {
		return fmt.Errorf("service call: confidence must be > 0, got %v", c.Confidence)
	}
	if c.CallType == CallHTTP && c.Method == "" {
		return fmt.Errorf("service call: http call must carry a method (use MethodUnknown, not empty)")
	}
	return nil
}

// RouteDefinition is a handler exposed by a service.
type RouteDefinition struct {
	Service         string
	Method          string // uppercase HTTP verb, or "" for method-agnostic routes
	Path            string // pattern form, e.g. /api/users/{id}
	HandlerFile     string // service-relative
	HandlerFunction string
	LineNumber      int
}

// Key returns the (service, method, path) uniqueness key required by the registry.
func (r RouteDefinition) Key() string {
	return r.Service + "\x00" + r.Method + "\x00" + r.Path
}

// RelationType enumerates the kinds of linked relations.
type RelationType string

const (
	RelationHTTPCall         RelationType = "HTTP_CALL"
	RelationGRPCCall         RelationType = "GRPC_CALL"
	RelationQueuePublish     RelationType = "QUEUE_PUBLISH"
	RelationQueueSubscribe   RelationType = "QUEUE_SUBSCRIBE"
)

// ServiceRelation is a linked call: a resolved edge from caller to handler.
// Every field is concrete — no sentinel strings ever appear here.
type ServiceRelation struct {
	SourceFile     string
	SourceLine     int
	TargetFile     string // service-qualified
	TargetFunction string
	TargetLine     int
	RelationType   RelationType
	RoutePath      string // HTTP only; empty for non-HTTP relation types
	Confidence     float64
}

// MissReason enumerates why a call failed to link.
type MissReason string

const (
	ReasonNoRoutes       MissReason = "no_routes"
	ReasonMethodMismatch MissReason = "method_mismatch"
	ReasonPathMismatch   MissReason = "path_mismatch"
)

// LinkResult is a tagged union: exactly one of Relation or (Call, Reason) is populated.
type LinkResult struct {
	relation *ServiceRelation
	call     *ServiceCall
	reason   MissReason
}

// Linked constructs a LinkResult in the "linked" arm.
func Linked(rel ServiceRelation) LinkResult {
	return LinkResult{relation: &rel}
}

// Unlinked constructs a LinkResult in the "unlinked" arm.
func Unlinked(call ServiceCall, reason MissReason) LinkResult {
	return LinkResult{call: &call, reason: reason}
}

// IsLinked reports which arm is populated.
func (r LinkResult) IsLinked() bool { return r.relation != nil }

// Relation returns the linked relation and true, or the zero value and false.
func (r LinkResult) Relation() (ServiceRelation, bool) {
	if r.relation == nil {
		return ServiceRelation{}, false
	}
	return *r.relation, true
}

// UnlinkedCall returns the unlinked call + reason and true, or zero values and false.
func (r LinkResult) UnlinkedCall() (ServiceCall, MissReason, bool) {
	if r.call == nil {
		return ServiceCall{}, "", false
	}
	return *r.call, r.reason, true
}

// Record is a sum box produced by a Matcher: exactly one of ServiceCall or
// RouteDefinition is set, matching the tagged-union style used by LinkResult.
type Record struct {
	call  *ServiceCall
	route *RouteDefinition
}

// CallRecord constructs a Record in the "service call" arm.
func CallRecord(c ServiceCall) Record {
	return Record{call: &c}
}

// RouteRecord constructs a Record in the "route definition" arm.
func RouteRecord(r RouteDefinition) Record {
	return Record{route: &r}
}

// AsCall returns the service call and true, or the zero value and false.
func (r Record) AsCall() (ServiceCall, bool) {
	if r.call == nil {
		return ServiceCall{}, false
	}
	return *r.call, true
}

// AsRoute returns the route definition and true, or the zero value and false.
func (r Record) AsRoute() (RouteDefinition, bool) {
	if r.route == nil {
		return RouteDefinition{}, false
	}
	return *r.route, true
}

// ChunkID is a content-addressed identifier derived from (source URI, byte range).
// It is an opaque key used only by external collaborators (chunker, embedder,
// vector store) — the core never interprets its structure.
type ChunkID string

// NewChunkID derives a ChunkID from a source URI and byte range via xxh3,
// the same content-hash idiom the teacher uses for file-change detection.
func NewChunkID(sourceURI string, startByte, endByte int) ChunkID {
	h := xxh3.New()
	fmt.Fprintf(h, "%s:%d:%d", sourceURI, startByte, endByte)
	return ChunkID(fmt.Sprintf("%016x", h.Sum64()))
}

// RawChunk is the chunker collaborator's output unit.
type RawChunk struct {
	ID        ChunkID
	Content   string
	SourceURI string
	Language  string
	StartLine int
	EndLine   int
}

// CleanChunk is the scrubber collaborator's output: a RawChunk with any
// PHI/PII redactions applied, plus a record of what was redacted.
type CleanChunk struct {
	RawChunk
	Redactions []string
}
