package collab

import (
	"context"
	"testing"

	"github.com/tracewire/svcgraph/internal/types"
)

func TestInMemoryVectorStoreInsertAndSearch(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryVectorStore()

	recs := []VectorRecord{
		{ID: "a", Vector: []float32{1, 0, 0}, Content: "alpha"},
		{ID: "b", Vector: []float32{0, 1, 0}, Content: "beta"},
	}
	if err := store.InsertBatch(ctx, recs); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	results, err := store.Search(ctx, []float32{1, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "a" {
		t.Errorf("Search = %+v, want [a]", results)
	}
}

func TestInMemoryVectorStoreDuplicateConflict(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryVectorStore()
	_ = store.Insert(ctx, VectorRecord{ID: "a", Vector: []float32{1}, Content: "original"})

	err := store.Insert(ctx, VectorRecord{ID: "a", Vector: []float32{1}, Content: "different"})
	if err == nil {
		t.Fatal("expected DuplicateChunkConflict, got nil")
	}
	if _, ok := err.(*types.DuplicateChunkConflict); !ok {
		t.Errorf("expected *types.DuplicateChunkConflict, got %T", err)
	}
}

func TestInMemoryVectorStoreReinsertSameContentIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryVectorStore()
	rec := VectorRecord{ID: "a", Vector: []float32{1}, Content: "same"}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("re-insert with identical content should be a no-op, got %v", err)
	}
}

func TestHashEmbedderDimension(t *testing.T) {
	e := NewHashEmbedder(8)
	vec, err := e.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 8 {
		t.Errorf("len(vec) = %d, want 8", len(vec))
	}
	if e.Dimension() != 8 {
		t.Errorf("Dimension() = %d, want 8", e.Dimension())
	}
}

func TestRuleBasedGraphStoreRequiresEntitiesBeforeEdge(t *testing.T) {
	ctx := context.Background()
	g := NewRuleBasedGraphStore()
	err := g.AddRelationship(ctx, GraphEdge{SourceFile: "a.go", TargetFile: "b.go", RelationType: types.RelationHTTPCall})
	if err == nil {
		t.Fatal("expected EntityNotFound, got nil")
	}

	_ = g.AddEntity(ctx, "a.go", "file")
	_ = g.AddEntity(ctx, "b.go", "file")
	if err := g.AddRelationship(ctx, GraphEdge{SourceFile: "a.go", TargetFile: "b.go", RelationType: types.RelationHTTPCall}); err != nil {
		t.Fatalf("AddRelationship: %v", err)
	}

	neighbors, err := g.GetNeighbors(ctx, "a.go")
	if err != nil {
		t.Fatalf("GetNeighbors: %v", err)
	}
	if len(neighbors) != 1 || neighbors[0] != "b.go" {
		t.Errorf("GetNeighbors = %v, want [b.go]", neighbors)
	}
}

func TestLineChunkerSplitsByLineWindow(t *testing.T) {
	c := NewLineChunker(2)
	content := "line1\nline2\nline3\nline4\nline5"
	chunks, err := c.Chunk(context.Background(), content, "file.py", "python")
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("len(chunks) = %d, want 3", len(chunks))
	}
	if chunks[0].StartLine != 1 || chunks[0].EndLine != 2 {
		t.Errorf("chunk[0] = %+v", chunks[0])
	}
	if chunks[2].StartLine != 5 || chunks[2].EndLine != 5 {
		t.Errorf("chunk[2] = %+v", chunks[2])
	}
}

func TestPassthroughScrubberPreservesContent(t *testing.T) {
	s := PassthroughScrubber{}
	chunk := types.RawChunk{ID: "x", Content: "some text"}
	clean, err := s.Scrub(context.Background(), chunk)
	if err != nil {
		t.Fatalf("Scrub: %v", err)
	}
	if clean.Content != "some text" {
		t.Errorf("Content = %q", clean.Content)
	}
}
