package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tracewire/svcgraph/internal/collab"
	"github.com/tracewire/svcgraph/internal/config"
	"github.com/tracewire/svcgraph/internal/extract"
	"github.com/tracewire/svcgraph/internal/linker"
	"github.com/tracewire/svcgraph/internal/registry"
	"github.com/tracewire/svcgraph/internal/types"
)

// SchemaVersion is the route registry's current schema version. The
// service_relations asset refuses to run against a route_registry output
// reporting a different version — spec §4.5's dependency invariant.
const SchemaVersion = 1

const (
	AssetRawCodeFiles     = "raw_code_files"
	AssetRouteRegistry    = "route_registry"
	AssetCodeChunks       = "code_chunks"
	AssetServiceRelations = "service_relations"
	AssetVectorIndex      = "vector_index"
	AssetKnowledgeGraph   = "knowledge_graph"
)

// RawCodeFilesOutput is the raw_code_files asset's output.
type RawCodeFilesOutput struct {
	FilesByService map[string][]string
	TotalFiles     int
}

// RouteRegistryOutput is the route_registry asset's output.
type RouteRegistryOutput struct {
	DBPath        string
	ServiceCount  int
	RouteCount    int
	SchemaVersion int
}

// CodeChunksOutput is the code_chunks asset's output.
type CodeChunksOutput struct {
	ChunksByService map[string][]types.RawChunk
}

// ServiceRelationsOutput is the service_relations asset's output.
type ServiceRelationsOutput struct {
	Relations        []types.ServiceRelation
	UnlinkedByReason map[types.MissReason][]types.ServiceCall
	LinkedCount      int
	UnlinkedCount    int
}

// VectorIndexOutput is the vector_index asset's output.
type VectorIndexOutput struct {
	ChunksEmbedded int
}

// KnowledgeGraphOutput is the knowledge_graph asset's output.
type KnowledgeGraphOutput struct {
	EdgesWritten int
	Skipped      int
}

// Collaborators bundles the external collaborator implementations the
// code_chunks/vector_index/knowledge_graph assets delegate to.
type Collaborators struct {
	Crawler     collab.Crawler
	Chunker     collab.Chunker
	Scrubber    collab.Scrubber
	Embedder    collab.Embedder
	VectorStore collab.VectorStore
	GraphStore  collab.GraphStore
}

// BuildGraph wires the six spec §4.5 assets into one AssetGraph over cfg
// and the given collaborator set.
func BuildGraph(cfg *config.Config, collabs Collaborators) *AssetGraph {
	return NewAssetGraph(
		rawCodeFilesAsset(cfg),
		routeRegistryAsset(cfg),
		codeChunksAsset(cfg, collabs),
		serviceRelationsAsset(cfg),
		vectorIndexAsset(collabs),
		knowledgeGraphAsset(collabs),
	)
}

func rawCodeFilesAsset(cfg *config.Config) *Asset {
	return &Asset{
		Key: AssetRawCodeFiles,
		Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
			out := RawCodeFilesOutput{FilesByService: make(map[string][]string)}
			for _, repo := range cfg.Repos {
				files, err := collab.FileSystemCrawler{}.Crawl(ctx, repo.Path)
				if err != nil {
					return nil, fmt.Errorf("raw_code_files: crawl %s: %w", repo.Name, err)
				}
				paths := make([]string, len(files))
				for i, f := range files {
					paths[i] = f.SourceURI
				}
				out.FilesByService[repo.Name] = paths
				out.TotalFiles += len(paths)
			}
			slog.Info("asset.raw_code_files.done", "services", len(out.FilesByService), "files", out.TotalFiles)
			return out, nil
		},
	}
}

func routeRegistryAsset(cfg *config.Config) *Asset {
	return &Asset{
		Key: AssetRouteRegistry,
		Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
			reg, err := registry.OpenSQLiteRegistry(cfg.RoutesDBPath)
			if err != nil {
				return nil, fmt.Errorf("route_registry: open: %w", err)
			}
			defer reg.Close()

			routeCount := 0
			for _, repo := range cfg.Repos {
				result, err := extract.Extract(ctx, repo.Name, repo.Path)
				if err != nil {
					return nil, fmt.Errorf("route_registry: extract %s: %w", repo.Name, err)
				}
				if err := reg.AddRoutes(repo.Name, result.Routes); err != nil {
					return nil, fmt.Errorf("route_registry: add_routes %s: %w", repo.Name, err)
				}
				routeCount += len(result.Routes)
			}

			out := RouteRegistryOutput{
				DBPath:        cfg.RoutesDBPath,
				ServiceCount:  len(cfg.Repos),
				RouteCount:    routeCount,
				SchemaVersion: SchemaVersion,
			}
			slog.Info("asset.route_registry.done", "services", out.ServiceCount, "routes", out.RouteCount)
			return out, nil
		},
	}
}

func codeChunksAsset(cfg *config.Config, collabs Collaborators) *Asset {
	return &Asset{
		Key:       AssetCodeChunks,
		DependsOn: []string{AssetRawCodeFiles},
		Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
			if _, err := ag.GetDep(ctx, AssetCodeChunks, AssetRawCodeFiles); err != nil {
				return nil, err
			}

			out := CodeChunksOutput{ChunksByService: make(map[string][]types.RawChunk)}
			for _, repo := range cfg.Repos {
				files, err := collabs.Crawler.Crawl(ctx, repo.Path)
				if err != nil {
					return nil, fmt.Errorf("code_chunks: crawl %s: %w", repo.Name, err)
				}
				var chunks []types.RawChunk
				for _, f := range files {
					fileChunks, err := collabs.Chunker.Chunk(ctx, f.Content, f.SourceURI, f.Language)
					if err != nil {
						slog.Warn("asset.code_chunks.chunk_err", "file", f.SourceURI, "err", err)
						continue
					}
					chunks = append(chunks, fileChunks...)
				}
				out.ChunksByService[repo.Name] = chunks
			}
			slog.Info("asset.code_chunks.done", "services", len(out.ChunksByService))
			return out, nil
		},
	}
}

func serviceRelationsAsset(cfg *config.Config) *Asset {
	return &Asset{
		Key:       AssetServiceRelations,
		DependsOn: []string{AssetRouteRegistry},
		Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
			dep, err := ag.GetDep(ctx, AssetServiceRelations, AssetRouteRegistry)
			if err != nil {
				return nil, err
			}
			registryOut := dep.(RouteRegistryOutput)
			if registryOut.SchemaVersion != SchemaVersion {
				return nil, fmt.Errorf("service_relations: route_registry schema_version %d != expected %d",
					registryOut.SchemaVersion, SchemaVersion)
			}

			reg, err := registry.OpenSQLiteRegistry(registryOut.DBPath)
			if err != nil {
				return nil, fmt.Errorf("service_relations: open registry: %w", err)
			}
			defer reg.Close()
			l := linker.New(reg)

			out := ServiceRelationsOutput{UnlinkedByReason: make(map[types.MissReason][]types.ServiceCall)}
			for _, repo := range cfg.Repos {
				result, err := extract.Extract(ctx, repo.Name, repo.Path)
				if err != nil {
					return nil, fmt.Errorf("service_relations: extract %s: %w", repo.Name, err)
				}
				for _, call := range result.Calls {
					linked, err := l.Link(call)
					if err != nil {
						return nil, fmt.Errorf("service_relations: link: %w", err)
					}
					if rel, ok := linked.Relation(); ok {
						out.Relations = append(out.Relations, rel)
						out.LinkedCount++
						continue
					}
					missedCall, reason, _ := linked.UnlinkedCall()
					out.UnlinkedByReason[reason] = append(out.UnlinkedByReason[reason], missedCall)
					out.UnlinkedCount++
				}
			}
			slog.Info("asset.service_relations.done", "linked", out.LinkedCount, "unlinked", out.UnlinkedCount)
			return out, nil
		},
	}
}

func vectorIndexAsset(collabs Collaborators) *Asset {
	return &Asset{
		Key:       AssetVectorIndex,
		DependsOn: []string{AssetCodeChunks},
		Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
			dep, err := ag.GetDep(ctx, AssetVectorIndex, AssetCodeChunks)
			if err != nil {
				return nil, err
			}
			chunksOut := dep.(CodeChunksOutput)

			embedded := 0
			for _, chunks := range chunksOut.ChunksByService {
				for _, raw := range chunks {
					clean, err := collabs.Scrubber.Scrub(ctx, raw)
					if err != nil {
						slog.Warn("asset.vector_index.scrub_err", "chunk", raw.ID, "err", err)
						continue
					}
					vec, err := collabs.Embedder.Embed(ctx, clean.Content)
					if err != nil {
						slog.Warn("asset.vector_index.embed_err", "chunk", raw.ID, "err", err)
						continue
					}
					if len(vec) != collabs.Embedder.Dimension() {
						slog.Warn("asset.vector_index.dimension_err", "chunk", raw.ID)
						continue
					}
					if err := collabs.VectorStore.Insert(ctx, collab.VectorRecord{
						ID: raw.ID, Vector: vec, Content: clean.Content, Source: raw.SourceURI,
					}); err != nil {
						slog.Warn("asset.vector_index.insert_err", "chunk", raw.ID, "err", err)
						continue
					}
					embedded++
				}
			}
			slog.Info("asset.vector_index.done", "embedded", embedded)
			return VectorIndexOutput{ChunksEmbedded: embedded}, nil
		},
	}
}

func knowledgeGraphAsset(collabs Collaborators) *Asset {
	return &Asset{
		Key:       AssetKnowledgeGraph,
		DependsOn: []string{AssetServiceRelations},
		Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
			dep, err := ag.GetDep(ctx, AssetKnowledgeGraph, AssetServiceRelations)
			if err != nil {
				return nil, err
			}
			relOut := dep.(ServiceRelationsOutput)

			written, skipped := 0, 0
			for _, rel := range relOut.Relations {
				if rel.Confidence < types.MinForGraph {
					skipped++
					continue
				}
				_ = collabs.GraphStore.AddEntity(ctx, rel.SourceFile, "file")
				_ = collabs.GraphStore.AddEntity(ctx, rel.TargetFile, "file")
				err := collabs.GraphStore.AddRelationship(ctx, collab.GraphEdge{
					SourceFile:   rel.SourceFile,
					TargetFile:   rel.TargetFile,
					RelationType: rel.RelationType,
					Properties: map[string]any{
						"call_type":   string(rel.RelationType),
						"route_path":  rel.RoutePath,
						"source_line": rel.SourceLine,
						"confidence":  rel.Confidence,
					},
				})
				if err != nil {
					slog.Warn("asset.knowledge_graph.edge_err", "source", rel.SourceFile, "target", rel.TargetFile, "err", err)
					continue
				}
				written++
			}
			slog.Info("asset.knowledge_graph.done", "written", written, "skipped", skipped)
			return KnowledgeGraphOutput{EdgesWritten: written, Skipped: skipped}, nil
		},
	}
}
