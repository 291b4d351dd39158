package types

import "fmt"

// ParseError wraps a malformed-source failure for one file. Local: the
// caller skips the file, logs it, and continues — it never propagates
// past the extractor boundary.
type ParseError struct {
	FilePath string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.FilePath, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractionError records a pattern matcher that raised unexpectedly while
// inspecting one AST node. Local: the extractor skips that matcher for that
// node and continues with the rest.
type ExtractionError struct {
	Matcher  string
	FilePath string
	Line     int
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("matcher %s at %s:%d: %v", e.Matcher, e.FilePath, e.Line, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// RegistryValidationError describes a single RouteDefinition that failed
// validation (bad path, unknown method). Neither registry backend produces
// it: AddRoutes in internal/registry performs no per-route validation and
// writes every route it is given.
type RegistryValidationError struct {
	Route  RouteDefinition
	Reason string
}

func (e *RegistryValidationError) Error() string {
	return fmt.Sprintf("invalid route %s %s: %s", e.Route.Method, e.Route.Path, e.Reason)
}

// RegistryValidationReport aggregates per-route validation failures: the
// count of accepted routes and the rejected ones. No AddRoutes
// implementation returns it.
type RegistryValidationReport struct {
	Accepted int
	Rejected []*RegistryValidationError
}

// StorageError carries the operation, whether it is safe to retry, and a
// retry-after hint (zero if none was given).
type StorageError struct {
	Operation   string
	Retryable   bool
	RetryAfterS int
	Err         error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s (retryable=%v): %v", e.Operation, e.Retryable, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DimensionMismatch is non-retryable: the embedder returned a vector whose
// dimension does not match the configured constant.
type DimensionMismatch struct {
	Expected int
	Got      int
}

func (e *DimensionMismatch) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

// DuplicateChunkConflict is non-retryable: a re-insert of an existing
// ChunkID carried different content than the stored version.
type DuplicateChunkConflict struct {
	ID ChunkID
}

func (e *DuplicateChunkConflict) Error() string {
	return fmt.Sprintf("duplicate chunk conflict: %s content differs from stored version", e.ID)
}

// EntityNotFound is raised by the graph-store collaborator's add-relationship
// operation when an edge endpoint doesn't exist yet.
type EntityNotFound struct {
	Entity string
}

func (e *EntityNotFound) Error() string {
	return fmt.Sprintf("entity not found: %s", e.Entity)
}

// LLMError wraps a graph-store LLM-extraction failure. Transient by
// default; non-retryable only for content-policy rejections.
type LLMError struct {
	ContentPolicy bool
	Err           error
}

func (e *LLMError) Error() string {
	return fmt.Sprintf("llm error (content_policy=%v): %v", e.ContentPolicy, e.Err)
}

func (e *LLMError) Unwrap() error { return e.Err }

func (e *LLMError) Retryable() bool { return !e.ContentPolicy }
