package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tracewire/svcgraph/internal/collab"
	"github.com/tracewire/svcgraph/internal/config"
	"github.com/tracewire/svcgraph/internal/types"
)

// FileError records one source file's processing failure without aborting
// the rest of the run.
type FileError struct {
	SourceURI string
	Err       error
}

// IngestionStats is the Ingestion Orchestrator's contract output (spec §4.6).
type IngestionStats struct {
	RunID                     string
	ChunksCreated             int
	ChunksScrubbed            int
	ChunksStored              int
	RelationsLinked           int
	RelationsUnlinkedByReason map[types.MissReason]int
	Errors                    []FileError
	Partial                   bool
}

// Orchestrator drives the full six-asset pipeline for one configuration and
// reduces its outputs into an IngestionStats record.
type Orchestrator struct {
	cfg   *config.Config
	graph *AssetGraph
}

// NewOrchestrator builds an Orchestrator over cfg, wiring the given
// collaborator set into a fresh AssetGraph.
func NewOrchestrator(cfg *config.Config, collabs Collaborators) *Orchestrator {
	return &Orchestrator{cfg: cfg, graph: BuildGraph(cfg, collabs)}
}

// Ingest runs every asset to completion and reduces the results into stats.
// Assets log and skip their own per-file and per-chunk failures, so those
// never abort the run; they are not collected, and stats.Errors stays
// empty. A hard asset failure (a dependency invariant violation, an
// unreachable registry) returns the error with a stats record that carries
// only the run ID. A cancelled context returns stats with Partial set and
// a nil error.
func (o *Orchestrator) Ingest(ctx context.Context) (IngestionStats, error) {
	stats := IngestionStats{
		RunID:                     uuid.NewString(),
		RelationsUnlinkedByReason: make(map[types.MissReason]int),
	}
	slog.Info("orchestrator.ingest.start", "run_id", stats.RunID, "repos", len(o.cfg.Repos))

	results, err := o.graph.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			stats.Partial = true
			slog.Warn("orchestrator.ingest.cancelled", "run_id", stats.RunID, "err", err)
			return stats, nil
		}
		return stats, fmt.Errorf("orchestrator: ingest: %w", err)
	}

	if chunksOut, ok := results[AssetCodeChunks].(CodeChunksOutput); ok {
		for _, chunks := range chunksOut.ChunksByService {
			stats.ChunksCreated += len(chunks)
		}
	}
	if vecOut, ok := results[AssetVectorIndex].(VectorIndexOutput); ok {
		stats.ChunksScrubbed = vecOut.ChunksEmbedded
		stats.ChunksStored = vecOut.ChunksEmbedded
	}
	if relOut, ok := results[AssetServiceRelations].(ServiceRelationsOutput); ok {
		stats.RelationsLinked = relOut.LinkedCount
		for reason, calls := range relOut.UnlinkedByReason {
			stats.RelationsUnlinkedByReason[reason] = len(calls)
		}
	}

	slog.Info("orchestrator.ingest.done", "run_id", stats.RunID,
		"chunks_created", stats.ChunksCreated, "relations_linked", stats.RelationsLinked)
	return stats, nil
}

// DefaultCollaborators returns the local, non-production collaborator set —
// suitable for a CLI run or test fixture, never for a production ingest.
func DefaultCollaborators() Collaborators {
	return Collaborators{
		Crawler:     collab.FileSystemCrawler{},
		Chunker:     collab.NewLineChunker(0),
		Scrubber:    collab.PassthroughScrubber{},
		Embedder:    collab.NewHashEmbedder(64),
		VectorStore: collab.NewInMemoryVectorStore(),
		GraphStore:  collab.NewRuleBasedGraphStore(),
	}
}
