package collab

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tracewire/svcgraph/internal/types"
)

// InMemoryVectorStore is a VectorStore backed by a map and brute-force
// cosine search — adequate for tests and a local CLI run, not for a real
// corpus. Re-insert of an existing ID with identical content is a no-op;
// differing content surfaces DuplicateChunkConflict.
type InMemoryVectorStore struct {
	records map[types.ChunkID]VectorRecord
}

// NewInMemoryVectorStore constructs an empty store.
func NewInMemoryVectorStore() *InMemoryVectorStore {
	return &InMemoryVectorStore{records: make(map[types.ChunkID]VectorRecord)}
}

func (s *InMemoryVectorStore) Insert(ctx context.Context, rec VectorRecord) error {
	if existing, ok := s.records[rec.ID]; ok && existing.Content != rec.Content {
		return &types.DuplicateChunkConflict{ID: rec.ID}
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *InMemoryVectorStore) InsertBatch(ctx context.Context, recs []VectorRecord) error {
	for _, rec := range recs {
		if err := s.Insert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryVectorStore) Search(ctx context.Context, query []float32, topK int) ([]VectorRecord, error) {
	type scored struct {
		rec   VectorRecord
		score float32
	}
	results := make([]scored, 0, len(s.records))
	for _, rec := range s.records {
		results = append(results, scored{rec: rec, score: cosineSimilarity(query, rec.Vector)})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].score > results[j].score })
	if topK > len(results) {
		topK = len(results)
	}
	out := make([]VectorRecord, topK)
	for i := 0; i < topK; i++ {
		out[i] = results[i].rec
	}
	return out, nil
}

func (s *InMemoryVectorStore) Delete(ctx context.Context, id types.ChunkID) error {
	delete(s.records, id)
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (sqrt(normA) * sqrt(normB)))
}

func sqrt(x float64) float64 {
	if x == 0 {
		return 0
	}
	z := x
	for i := 0; i < 20; i++ {
		z -= (z*z - x) / (2 * z)
	}
	return z
}

// HashEmbedder is a deterministic, non-semantic Embedder — a test double
// only. It produces a fixed-dimension vector derived from character
// frequency, never a real embedding model's output.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder constructs a HashEmbedder of the given dimension.
func NewHashEmbedder(dim int) *HashEmbedder {
	return &HashEmbedder{dim: dim}
}

func (e *HashEmbedder) Dimension() int { return e.dim }

func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	for i, r := range text {
		vec[i%e.dim] += float32(r%97) / 97.0
	}
	return vec, nil
}

func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// RuleBasedGraphStore is a GraphStore mock using plain maps instead of an
// LLM-driven episode extractor. It is NOT behaviorally equivalent to a
// production graph store: AddEpisode here does literal keyword
// entity-extraction, not semantic extraction.
type RuleBasedGraphStore struct {
	entities  map[string]string
	edges     []GraphEdge
	neighbors map[string]map[string]bool
}

// NewRuleBasedGraphStore constructs an empty mock graph store.
func NewRuleBasedGraphStore() *RuleBasedGraphStore {
	return &RuleBasedGraphStore{
		entities:  make(map[string]string),
		neighbors: make(map[string]map[string]bool),
	}
}

func (g *RuleBasedGraphStore) AddEntity(ctx context.Context, name, kind string) error {
	g.entities[name] = kind
	return nil
}

func (g *RuleBasedGraphStore) AddRelationship(ctx context.Context, edge GraphEdge) error {
	if _, ok := g.entities[edge.SourceFile]; !ok {
		return &types.EntityNotFound{Entity: edge.SourceFile}
	}
	if _, ok := g.entities[edge.TargetFile]; !ok {
		return &types.EntityNotFound{Entity: edge.TargetFile}
	}
	g.edges = append(g.edges, edge)
	if g.neighbors[edge.SourceFile] == nil {
		g.neighbors[edge.SourceFile] = make(map[string]bool)
	}
	g.neighbors[edge.SourceFile][edge.TargetFile] = true
	return nil
}

func (g *RuleBasedGraphStore) SearchEntities(ctx context.Context, query string) ([]string, error) {
	var matches []string
	for name := range g.entities {
		if strings.Contains(strings.ToLower(name), strings.ToLower(query)) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func (g *RuleBasedGraphStore) GetNeighbors(ctx context.Context, entity string) ([]string, error) {
	neighbors := g.neighbors[entity]
	out := make([]string, 0, len(neighbors))
	for n := range neighbors {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// AddEpisode extracts entity names by a fixed "word looks like a file
// path" heuristic — a rule-based stand-in for the LLM-based episode
// extraction a production graph store performs.
func (g *RuleBasedGraphStore) AddEpisode(ctx context.Context, content string) error {
	for _, word := range strings.Fields(content) {
		if strings.Contains(word, "/") && strings.Contains(word, ".") {
			g.entities[word] = "file"
		}
	}
	return nil
}

func (g *RuleBasedGraphStore) String() string {
	return fmt.Sprintf("RuleBasedGraphStore{entities=%d, edges=%d}", len(g.entities), len(g.edges))
}
