// Package collab declares the external collaborator interfaces the core
// pipeline depends on but does not implement: crawling, chunking,
// scrubbing, embedding, and the vector/graph stores. Production
// implementations live outside this module; the in-memory implementations
// here exist only to exercise the pipeline in tests and a local CLI run —
// they are explicitly not behaviorally equivalent to a production
// embedder or an LLM-based graph store.
package collab

import (
	"context"

	"github.com/tracewire/svcgraph/internal/types"
)

// CrawledFile is one file yielded by a Crawler.
type CrawledFile struct {
	Content   string
	SourceURI string
	Language  string
	Metadata  map[string]string
}

// Crawler discovers the content a source repository exposes for chunking.
// Implementations must respect ignore rules (build/cache directories,
// repository ignore files).
type Crawler interface {
	Crawl(ctx context.Context, source string) ([]CrawledFile, error)
}

// Chunker splits one file's content into RawChunk units.
type Chunker interface {
	Chunk(ctx context.Context, content, sourceURI, language string) ([]types.RawChunk, error)
}

// ScrubResult reports one chunk's scrub outcome within a batch call — the
// batch form never raises per item, only the single-chunk form does.
type ScrubResult struct {
	Chunk types.CleanChunk
	Err   error
}

// Scrubber redacts PHI/PII from chunks before they reach the vector store.
type Scrubber interface {
	Scrub(ctx context.Context, chunk types.RawChunk) (types.CleanChunk, error)
	ScrubBatch(ctx context.Context, chunks []types.RawChunk) []ScrubResult
}

// Embedder turns chunk text into fixed-dimension vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// VectorRecord is one stored (or searched-for) embedding.
type VectorRecord struct {
	ID      types.ChunkID
	Vector  []float32
	Content string
	Source  string
}

// VectorStore persists and retrieves chunk embeddings, keyed by ChunkID.
// Re-inserting the same ID with identical content is a no-op; differing
// content is a DuplicateChunkConflict (see internal/types/errors.go).
type VectorStore interface {
	Insert(ctx context.Context, rec VectorRecord) error
	InsertBatch(ctx context.Context, recs []VectorRecord) error
	Search(ctx context.Context, query []float32, topK int) ([]VectorRecord, error)
	Delete(ctx context.Context, id types.ChunkID) error
}

// GraphEdge is one file-to-file relation written to the knowledge graph.
type GraphEdge struct {
	SourceFile   string
	TargetFile   string
	RelationType types.RelationType
	Properties   map[string]any
}

// GraphStore writes and queries the knowledge graph. Production
// implementations typically use an LLM for episode-based entity
// extraction; a rule-based mock is provided for offline testing and is
// documented as not behaviorally equivalent.
type GraphStore interface {
	AddEntity(ctx context.Context, name, kind string) error
	AddRelationship(ctx context.Context, edge GraphEdge) error
	SearchEntities(ctx context.Context, query string) ([]string, error)
	GetNeighbors(ctx context.Context, entity string) ([]string, error)
	AddEpisode(ctx context.Context, content string) error
}
