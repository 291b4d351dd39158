package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tracewire/svcgraph/internal/config"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	userDir := t.TempDir()
	orderDir := t.TempDir()

	writeTestFile(t, filepath.Join(userDir, "app.py"), `from fastapi import APIRouter
router = APIRouter()


@router.get("/api/users/{user_id}")
def get_user(user_id):
    return {"id": user_id}
`)
	writeTestFile(t, filepath.Join(orderDir, "app.py"), `import requests


def submit_order(user_id):
    return requests.get("http://user-service/api/users/123")
`)

	return &config.Config{
		Repos: []config.Repo{
			{Name: "user", Path: userDir},
			{Name: "order", Path: orderDir},
		},
		RoutesDBPath: filepath.Join(t.TempDir(), "routes.db"),
		UseMockGraph: true,
	}
}

func TestBuildGraphRouteRegistryMaterializesRoutes(t *testing.T) {
	cfg := testConfig(t)
	ag := BuildGraph(cfg, DefaultCollaborators())

	out, err := ag.Get(context.Background(), AssetRouteRegistry)
	if err != nil {
		t.Fatalf("Get(route_registry): %v", err)
	}
	regOut := out.(RouteRegistryOutput)
	if regOut.RouteCount != 1 {
		t.Errorf("RouteCount = %d, want 1", regOut.RouteCount)
	}
	if regOut.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", regOut.SchemaVersion, SchemaVersion)
	}
}

func TestBuildGraphServiceRelationsLinksAcrossRepos(t *testing.T) {
	cfg := testConfig(t)
	ag := BuildGraph(cfg, DefaultCollaborators())

	out, err := ag.Get(context.Background(), AssetServiceRelations)
	if err != nil {
		t.Fatalf("Get(service_relations): %v", err)
	}
	relOut := out.(ServiceRelationsOutput)
	if relOut.LinkedCount != 1 {
		t.Fatalf("LinkedCount = %d, want 1: %+v", relOut.LinkedCount, relOut)
	}
	rel := relOut.Relations[0]
	if rel.TargetFunction != "get_user" {
		t.Errorf("rel.TargetFunction = %q, want get_user", rel.TargetFunction)
	}
}

func TestBuildGraphKnowledgeGraphSkipsBelowGraphThreshold(t *testing.T) {
	cfg := testConfig(t)
	ag := BuildGraph(cfg, DefaultCollaborators())

	out, err := ag.Get(context.Background(), AssetKnowledgeGraph)
	if err != nil {
		t.Fatalf("Get(knowledge_graph): %v", err)
	}
	kgOut := out.(KnowledgeGraphOutput)
	if kgOut.EdgesWritten != 1 {
		t.Errorf("EdgesWritten = %d, want 1", kgOut.EdgesWritten)
	}
	if kgOut.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", kgOut.Skipped)
	}
}

func TestOrchestratorIngestAggregatesStats(t *testing.T) {
	cfg := testConfig(t)
	o := NewOrchestrator(cfg, DefaultCollaborators())

	stats, err := o.Ingest(context.Background())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if stats.RunID == "" {
		t.Error("expected a non-empty RunID")
	}
	if stats.RelationsLinked != 1 {
		t.Errorf("RelationsLinked = %d, want 1", stats.RelationsLinked)
	}
	if stats.ChunksCreated == 0 {
		t.Error("expected at least one chunk created")
	}
	if stats.Partial {
		t.Error("expected a complete (non-partial) run")
	}
}

func TestServiceRelationsRejectsStaleSchemaVersion(t *testing.T) {
	cfg := testConfig(t)

	stale := &Asset{
		Key: AssetRouteRegistry,
		Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
			return RouteRegistryOutput{DBPath: cfg.RoutesDBPath, SchemaVersion: SchemaVersion + 1}, nil
		},
	}
	ag := NewAssetGraph(stale, serviceRelationsAsset(cfg))

	if _, err := ag.Get(context.Background(), AssetServiceRelations); err == nil {
		t.Fatal("expected an error for a mismatched schema_version")
	}
}
