// Package pipeline expresses the resolver's six outputs as a DAG of
// assets: each has a key, its declared dependencies, and a Materialize
// function. AssetGraph guarantees an asset's dependencies are
// materialized before it runs, and runs independent assets concurrently,
// mirroring the teacher's errgroup-bounded parallel pass execution in
// internal/pipeline/pipeline.go.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Asset is one node of the pipeline DAG.
type Asset struct {
	Key         string
	DependsOn   []string
	Materialize func(ctx context.Context, ag *AssetGraph) (any, error)
}

// AssetGraph holds the full set of assets and memoizes each one's result —
// every asset materializes at most once per graph instance, however many
// dependents request it.
type AssetGraph struct {
	assets map[string]*Asset
	sem    chan struct{}

	mu      sync.Mutex
	results map[string]*assetResult
}

type assetResult struct {
	done   chan struct{}
	output any
	err    error
}

// NewAssetGraph builds a graph from a list of assets. Concurrency across
// independently-materializing assets is capped at runtime.NumCPU(), the
// teacher's own errgroup.SetLimit(runtime.NumCPU()) bound.
func NewAssetGraph(assets ...*Asset) *AssetGraph {
	ag := &AssetGraph{
		assets:  make(map[string]*Asset, len(assets)),
		sem:     make(chan struct{}, runtime.NumCPU()),
		results: make(map[string]*assetResult),
	}
	for _, a := range assets {
		ag.assets[a.Key] = a
	}
	return ag
}

// Get materializes key (and, transitively, everything it depends on) if it
// hasn't run yet, and returns its cached output otherwise. An asset's own
// Materialize function calls Get on each of its DependsOn entries — that
// call graph IS the dependency-ordering enforcement: an asset physically
// cannot observe a dependency's output before that dependency has run.
func (ag *AssetGraph) Get(ctx context.Context, key string) (any, error) {
	ag.mu.Lock()
	r, exists := ag.results[key]
	if !exists {
		asset, ok := ag.assets[key]
		if !ok {
			ag.mu.Unlock()
			return nil, fmt.Errorf("pipeline: unknown asset %q", key)
		}
		r = &assetResult{done: make(chan struct{})}
		ag.results[key] = r
		ag.mu.Unlock()

		go func() {
			defer close(r.done)
			select {
			case ag.sem <- struct{}{}:
				defer func() { <-ag.sem }()
			case <-ctx.Done():
				r.err = ctx.Err()
				return
			}
			if err := ctx.Err(); err != nil {
				r.err = err
				return
			}
			r.output, r.err = asset.Materialize(ctx, ag)
		}()
	} else {
		ag.mu.Unlock()
	}

	select {
	case <-r.done:
		return r.output, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetDep is a typed convenience wrapper: fetch dependency key's output and
// fail with a descriptive error if the asset calling it forgot to declare
// key in its own DependsOn (a key not in DependsOn still works via Get,
// but failing to declare it is a bug this helper surfaces at call time via
// the wrapped error context rather than a silent dependency).
func (ag *AssetGraph) GetDep(ctx context.Context, fromAsset, depKey string) (any, error) {
	out, err := ag.Get(ctx, depKey)
	if err != nil {
		return nil, fmt.Errorf("%s: dependency %s: %w", fromAsset, depKey, err)
	}
	return out, nil
}

// Run materializes every key in selector (and their transitive
// dependencies); an empty selector materializes every asset in the graph.
// Independent selected assets run concurrently via Get's own goroutines;
// Run's errgroup only waits for them and aggregates the first error.
func (ag *AssetGraph) Run(ctx context.Context, selector ...string) (map[string]any, error) {
	keys := selector
	if len(keys) == 0 {
		keys = make([]string, 0, len(ag.assets))
		for k := range ag.assets {
			keys = append(keys, k)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, k := range keys {
		key := k
		g.Go(func() error {
			_, err := ag.Get(gctx, key)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(keys))
	for _, k := range keys {
		v, err := ag.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
