// Package extract runs the matcher list over every discovered source file
// and produces the raw RouteDefinition / ServiceCall records the registry
// and linker consume. It owns file and service identity — something no
// single AST node carries — filling those fields in after a Matcher
// produces a partial Record.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/tracewire/svcgraph/internal/discover"
	"github.com/tracewire/svcgraph/internal/lang"
	"github.com/tracewire/svcgraph/internal/matcher"
	"github.com/tracewire/svcgraph/internal/matchnode"
	"github.com/tracewire/svcgraph/internal/parser"
	"github.com/tracewire/svcgraph/internal/types"
)

// Result is the complete output of one extraction pass over a repository.
type Result struct {
	Routes []types.RouteDefinition
	Calls  []types.ServiceCall
	Errors []types.ParseError
}

// Extract walks every discovered source file in repoPath, parses it, and
// applies the matcher list registered for its language to every call and
// decorator/attribute node. A file that fails to parse contributes a
// ParseError to Result.Errors and is otherwise skipped — one bad file never
// aborts the pass.
func Extract(ctx context.Context, service, repoPath string) (Result, error) {
	files, err := discover.Discover(ctx, repoPath, nil)
	if err != nil {
		return Result{}, fmt.Errorf("discover: %w", err)
	}

	var res Result
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		routes, calls, perr := extractFile(service, f)
		if perr != nil {
			res.Errors = append(res.Errors, *perr)
			slog.Warn("extract.parse_error", "file", f.RelPath, "err", perr.Err)
			continue
		}
		res.Routes = append(res.Routes, routes...)
		res.Calls = append(res.Calls, calls...)
	}

	slog.Info("extract.done", "routes", len(res.Routes), "calls", len(res.Calls), "errors", len(res.Errors))
	return res, nil
}

func extractFile(service string, f discover.FileInfo) ([]types.RouteDefinition, []types.ServiceCall, *types.ParseError) {
	src, err := readFile(f.Path)
	if err != nil {
		return nil, nil, &types.ParseError{FilePath: f.RelPath, Err: err}
	}

	tree, err := parser.Parse(f.Language, src)
	if err != nil {
		return nil, nil, &types.ParseError{FilePath: f.RelPath, Err: err}
	}
	defer tree.Close()

	spec := lang.ForLanguage(f.Language)
	if spec == nil {
		return nil, nil, nil
	}
	matchers := matcher.ForLanguage(f.Language)
	if len(matchers) == 0 {
		return nil, nil, nil
	}

	qualifies := nodeKindSet(spec)

	var routes []types.RouteDefinition
	var calls []types.ServiceCall

	parser.Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		if n == nil || !qualifies[n.Kind()] {
			return true
		}

		wrapped := matchnode.Wrap(n, src, f.Language)
		for _, m := range matchers {
			records := func() (recs []types.Record) {
				// A matcher that panics is skipped for this node only.
				defer func() {
					if r := recover(); r != nil {
						slog.Warn("extract.matcher_error", "err", &types.ExtractionError{
							FilePath: f.RelPath, Line: wrapped.Line(), Err: fmt.Errorf("%v", r),
						})
						recs = nil
					}
				}()
				return m.Match(wrapped, src)
			}()
			for _, rec := range records {
				if route, ok := rec.AsRoute(); ok {
					routes = append(routes, fillRoute(route, service, f, n, src, spec))
					continue
				}
				if call, ok := rec.AsCall(); ok {
					call.SourceFile = f.RelPath
					calls = append(calls, call)
				}
			}
		}
		return true
	})

	return routes, dedupeCalls(calls), nil
}

// dedupeCalls collapses records that the same node produced from more than
// one matcher (or a node matched twice) down to one per
// (source_file, line_number, call_type, target_service, url_path), keeping
// whichever copy carries the highest confidence — per spec §4.2.
func dedupeCalls(calls []types.ServiceCall) []types.ServiceCall {
	type key struct {
		file, service, path string
		line                int
		callType            types.CallType
	}
	best := make(map[key]types.ServiceCall, len(calls))
	order := make([]key, 0, len(calls))
	for _, c := range calls {
		k := key{c.SourceFile, c.TargetService, c.URLPath, c.LineNumber, c.CallType}
		if existing, ok := best[k]; !ok {
			best[k] = c
			order = append(order, k)
		} else if c.Confidence > existing.Confidence {
			best[k] = c
		}
	}
	out := make([]types.ServiceCall, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

// fillRoute completes a partial RouteDefinition (Method/Path/LineNumber only)
// with the service identity and the enclosing function's file and name —
// information the Matcher, handed a single node, cannot see.
func fillRoute(route types.RouteDefinition, service string, f discover.FileInfo, n *tree_sitter.Node, src []byte, spec *lang.LanguageSpec) types.RouteDefinition {
	route.Service = service
	route.HandlerFile = f.RelPath
	route.HandlerFunction = enclosingFunctionName(n, src, spec)
	return route
}

// enclosingFunctionName walks up from a decorator/call node to the nearest
// ancestor whose kind is a FunctionNodeTypes member and returns its name
// child, the way the teacher resolves symbol names via ChildByFieldName. A
// Python decorator is not inside the function it decorates — both are
// children of a decorated_definition — so that node's "definition" field
// is checked instead.
func enclosingFunctionName(n *tree_sitter.Node, src []byte, spec *lang.LanguageSpec) string {
	functionKinds := toSet(spec.FunctionNodeTypes)

	cur := n.Parent()
	for cur != nil {
		fn := cur
		if cur.Kind() == "decorated_definition" {
			fn = cur.ChildByFieldName("definition")
		}
		if fn != nil && functionKinds[fn.Kind()] {
			if nameNode := fn.ChildByFieldName("name"); nameNode != nil {
				return parser.NodeText(nameNode, src)
			}
			return ""
		}
		cur = cur.Parent()
	}
	return ""
}

// nodeKindSet is the union of a language's call and decorator node kinds —
// the only kinds the extractor bothers handing to matchers.
func nodeKindSet(spec *lang.LanguageSpec) map[string]bool {
	return toSet(append(append([]string{}, spec.CallNodeTypes...), spec.DecoratorNodeTypes...))
}

func toSet(items []string) map[string]bool {
	s := make(map[string]bool, len(items))
	for _, it := range items {
		s[it] = true
	}
	return s
}

// readFile reads a source file. Extracted to its own function so a future
// virtual-filesystem source (e.g. a remote crawler) can replace it without
// touching extractFile's control flow.
func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
