package pipeline

import (
	"context"
	"errors"
	"testing"
)

func TestAssetGraphMaterializesDependencyBeforeDependent(t *testing.T) {
	var order []string

	base := &Asset{
		Key: "base",
		Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
			order = append(order, "base")
			return 1, nil
		},
	}
	derived := &Asset{
		Key:       "derived",
		DependsOn: []string{"base"},
		Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
			dep, err := ag.GetDep(ctx, "derived", "base")
			if err != nil {
				return nil, err
			}
			order = append(order, "derived")
			return dep.(int) + 1, nil
		},
	}

	ag := NewAssetGraph(base, derived)
	out, err := ag.Get(context.Background(), "derived")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.(int) != 2 {
		t.Errorf("Get(derived) = %v, want 2", out)
	}
	if len(order) != 2 || order[0] != "base" || order[1] != "derived" {
		t.Errorf("materialization order = %v, want [base derived]", order)
	}
}

func TestAssetGraphMemoizesMaterialization(t *testing.T) {
	calls := 0
	base := &Asset{
		Key: "base",
		Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
			calls++
			return calls, nil
		},
	}
	a := &Asset{Key: "a", DependsOn: []string{"base"}, Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
		return ag.GetDep(ctx, "a", "base")
	}}
	b := &Asset{Key: "b", DependsOn: []string{"base"}, Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
		return ag.GetDep(ctx, "b", "base")
	}}

	ag := NewAssetGraph(base, a, b)
	if _, err := ag.Run(context.Background(), "a", "b"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 1 {
		t.Errorf("base materialized %d times, want 1", calls)
	}
}

func TestAssetGraphUnknownKeyErrors(t *testing.T) {
	ag := NewAssetGraph()
	if _, err := ag.Get(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown asset key")
	}
}

func TestAssetGraphRunAggregatesFirstError(t *testing.T) {
	boom := errors.New("boom")
	failing := &Asset{
		Key: "failing",
		Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
			return nil, boom
		},
	}
	ag := NewAssetGraph(failing)
	if _, err := ag.Run(context.Background(), "failing"); err == nil {
		t.Fatal("expected error from Run")
	}
}

func TestAssetGraphRunWithNoSelectorRunsEverything(t *testing.T) {
	var aRan, bRan bool
	a := &Asset{Key: "a", Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
		aRan = true
		return nil, nil
	}}
	b := &Asset{Key: "b", Materialize: func(ctx context.Context, ag *AssetGraph) (any, error) {
		bRan = true
		return nil, nil
	}}
	ag := NewAssetGraph(a, b)
	if _, err := ag.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !aRan || !bRan {
		t.Errorf("aRan=%v bRan=%v, want both true", aRan, bRan)
	}
}
