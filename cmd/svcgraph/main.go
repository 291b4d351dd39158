package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/tracewire/svcgraph/internal/config"
	"github.com/tracewire/svcgraph/internal/pipeline"
)

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

func runCLI(args []string) int {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage()
		return 0
	}

	cfg := config.LoadFromDir(".")
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	switch args[0] {
	case "materialize":
		return runMaterialize(cfg, args[1:])
	case "job":
		if len(args) < 2 || args[1] != "run" {
			printUsage()
			return 1
		}
		return runMaterialize(cfg, []string{"--all"})
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", args[0])
		printUsage()
		return 1
	}
}

func runMaterialize(cfg *config.Config, args []string) int {
	all := false
	var keys []string
	for _, a := range args {
		if a == "--all" {
			all = true
			continue
		}
		keys = append(keys, a)
	}
	if !all && len(keys) == 0 {
		fmt.Fprintln(os.Stderr, "error: materialize requires --all or at least one asset key")
		return 1
	}

	graph := pipeline.BuildGraph(cfg, pipeline.DefaultCollaborators())

	ctx := context.Background()
	var selector []string
	if !all {
		selector = keys
	}
	results, err := graph.Run(ctx, selector...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "materialize failed: %v\n", err)
		return 1
	}

	for _, key := range orderedKeys(results, selector) {
		fmt.Printf("%s: %+v\n", key, results[key])
	}
	return 0
}

// orderedKeys returns selector (if non-empty) or the full asset key list
// from results, so a --all run still prints in a stable, readable order.
func orderedKeys(results map[string]any, selector []string) []string {
	if len(selector) > 0 {
		return selector
	}
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: svcgraph <command> [args]

Commands:
  materialize <asset-key>...   materialize named assets and their dependencies
  materialize --all            materialize the full asset graph
  job run                      alias for materialize --all

Asset keys:
  raw_code_files  route_registry  code_chunks  service_relations  vector_index  knowledge_graph
`)
}
