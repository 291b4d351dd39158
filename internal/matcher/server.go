package matcher

import (
	"regexp"
	"strings"

	"github.com/tracewire/svcgraph/internal/lang"
	"github.com/tracewire/svcgraph/internal/matchnode"
	"github.com/tracewire/svcgraph/internal/types"
)

// Server-side matchers produce a RouteDefinition with Method/Path/LineNumber
// populated and Service/HandlerFile/HandlerFunction left zero — the route
// extractor fills those in from the enclosing function and source file,
// which the matcher (handed only one node) cannot see.

// pyDecoratorRe matches Flask/FastAPI style: @app.get("/path"), @router.post("/path").
var pyDecoratorRe = regexp.MustCompile(`@\w+\.(get|post|put|delete|patch)\(\s*["']([^"']*)["']`)

// flaskRouteRe matches Flask's explicit-methods form: @app.route("/path", methods=["POST"]).
var flaskRouteRe = regexp.MustCompile(`@\w+\.route\(\s*["']([^"']*)["']`)
var flaskMethodsRe = regexp.MustCompile(`methods\s*=\s*\[([^\]]*)\]`)

func init() {
	Register(MatcherFunc(matchPythonServerRoute), lang.Python)
	Register(MatcherFunc(matchGoServerRoute), lang.Go)
	Register(MatcherFunc(matchExpressServerRoute), lang.TypeScript)
	Register(MatcherFunc(matchASPNetServerRoute), lang.CSharp)
}

// matchPythonServerRoute covers Flask decorators (@app.get/@app.route) and
// FastAPI router/app decorators, which share the same `@receiver.verb(path)`
// shape — FastAPI's `APIRouter` and Flask's `Flask` app both expose
// `.get/.post/.put/.delete/.patch`.
func matchPythonServerRoute(n *matchnode.Node, src []byte) []types.Record {
	if n.Kind() != "decorator" {
		return nil
	}
	text := n.Text()

	if m := pyDecoratorRe.FindStringSubmatch(text); m != nil {
		return []types.Record{types.RouteRecord(types.RouteDefinition{
			Method:     strings.ToUpper(m[1]),
			Path:       NormalizePath(m[2]),
			LineNumber: n.Line(),
		})}
	}

	if m := flaskRouteRe.FindStringSubmatch(text); m != nil {
		method := "GET"
		if mm := flaskMethodsRe.FindStringSubmatch(text); mm != nil {
			verbs := strings.Split(mm[1], ",")
			for i, v := range verbs {
				verbs[i] = strings.ToUpper(strings.Trim(strings.TrimSpace(v), `"'`))
			}
			if len(verbs) > 0 {
				method = verbs[0]
			}
		}
		return []types.Record{types.RouteRecord(types.RouteDefinition{
			Method:     method,
			Path:       NormalizePath(m[1]),
			LineNumber: n.Line(),
		})}
	}

	return nil
}

// goRouteRe matches Gin/Chi routing calls: router.GET("/path", handler),
// r.Post("/path", h.Create).
var goRouteRe = regexp.MustCompile(`\.(GET|POST|PUT|DELETE|PATCH|Get|Post|Put|Delete|Patch)\(\s*["']([^"']*)["']`)

func matchGoServerRoute(n *matchnode.Node, src []byte) []types.Record {
	if n.Kind() != "call_expression" {
		return nil
	}
	text := n.Text()
	m := goRouteRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return []types.Record{types.RouteRecord(types.RouteDefinition{
		Method:     strings.ToUpper(m[1]),
		Path:       NormalizePath(m[2]),
		LineNumber: n.Line(),
	})}
}

// expressRouteRe matches app.METHOD(path, handler) — receiver is checked
// against an allowlist below to avoid req.get()/res.get() false positives.
var expressRouteRe = regexp.MustCompile("(\\w+)\\.(get|post|put|delete|patch)\\(\\s*[\"'`]([^\"'`]+)[\"'`]")

var expressReceiverAllowlist = map[string]bool{
	"app": true, "router": true, "server": true, "api": true, "routes": true,
}

func matchExpressServerRoute(n *matchnode.Node, src []byte) []types.Record {
	if n.Kind() != "call_expression" {
		return nil
	}
	text := n.Text()
	m := expressRouteRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	receiver := strings.ToLower(m[1])
	if !expressReceiverAllowlist[receiver] {
		return nil
	}
	// app.get("setting") with no handler argument is a config getter, not a
	// route — Express overloads .get() this way; the other four verbs don't.
	if strings.EqualFold(m[2], "get") {
		matchEnd := strings.Index(text, m[0]) + len(m[0])
		rest := strings.TrimSpace(text[matchEnd:])
		if !strings.HasPrefix(rest, ",") {
			return nil
		}
	}
	return []types.Record{types.RouteRecord(types.RouteDefinition{
		Method:     strings.ToUpper(m[2]),
		Path:       NormalizePath(m[3]),
		LineNumber: n.Line(),
	})}
}

// aspnetVerbRe matches [HttpGet("/path")]; aspnetRouteRe matches [Route("/path")]
// (method-agnostic — an empty Method means "any method", per spec §3).
var aspnetVerbRe = regexp.MustCompile(`\[Http(Get|Post|Put|Delete|Patch)\(\s*"([^"]*)"`)
var aspnetRouteAttrRe = regexp.MustCompile(`\[Route\(\s*"([^"]*)"`)

func matchASPNetServerRoute(n *matchnode.Node, src []byte) []types.Record {
	if n.Kind() != "attribute" {
		return nil
	}
	text := n.Text()

	if m := aspnetVerbRe.FindStringSubmatch(text); m != nil {
		return []types.Record{types.RouteRecord(types.RouteDefinition{
			Method:     strings.ToUpper(m[1]),
			Path:       NormalizePath(m[2]),
			LineNumber: n.Line(),
		})}
	}
	if m := aspnetRouteAttrRe.FindStringSubmatch(text); m != nil {
		return []types.Record{types.RouteRecord(types.RouteDefinition{
			Method:     "",
			Path:       NormalizePath(m[1]),
			LineNumber: n.Line(),
		})}
	}
	return nil
}
