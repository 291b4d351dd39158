package matcher

import (
	"regexp"
	"strings"

	"github.com/tracewire/svcgraph/internal/types"
)

// literalURLRe captures a full URL literal: scheme, host, path.
var literalURLRe = regexp.MustCompile(`https?://([a-zA-Z0-9_.\-]+)(/[a-zA-Z0-9_/{}:.\-]*)?`)

// pathLiteralRe captures a bare quoted path, e.g. "/api/users/{id}".
var pathLiteralRe = regexp.MustCompile(`["'` + "`" + `](/[a-zA-Z0-9_/{}:.\-]{1,})["'` + "`" + `]`)

// interpolationRe detects string interpolation syntax across the four
// languages this resolver carries: Python f-strings, TS template literals,
// C# $"...", and Go fmt.Sprintf placeholders.
var interpolationRe = regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_.]*\}|%[sdv]`)

// urlClassification is the result of inspecting a call argument's text for a
// URL — the shared path every client matcher funnels through before
// producing a types.ServiceCall.
type urlClassification struct {
	targetService string
	urlPath       string
	confidence    float64
	method        types.HTTPMethod
}

// classifyCallText inspects the text of an HTTP client call expression and
// derives target service, path, and a confidence tier per spec's three URL
// forms: literal, interpolated, variable reference.
func classifyCallText(text string) (urlClassification, bool) {
	if m := literalURLRe.FindStringSubmatch(text); m != nil {
		host := m[1]
		path := m[2]
		if path == "" {
			path = "/"
		}
		service := hostToService(host)
		if interpolationRe.MatchString(m[0]) {
			// The matched path carries an interpolation placeholder
			// (f"http://user-service/api/users/{user_id}"), so this is
			// not a fully-literal URL. A templated host never gets here:
			// literalURLRe's host class excludes braces.
			return urlClassification{
				targetService: service,
				urlPath:       path,
				confidence:    types.ConfidenceMedium,
			}, true
		}
		return urlClassification{
			targetService: service,
			urlPath:       path,
			confidence:    types.ConfidenceHigh,
		}, true
	}

	if m := pathLiteralRe.FindStringSubmatch(text); m != nil {
		return urlClassification{
			urlPath:    m[1],
			confidence: types.ConfidenceLow,
		}, true
	}

	return urlClassification{}, false
}

// hostToService strips a common service-suffix convention (svc-name-service,
// svc_name_service, svc-name.internal) down to a bare service identifier.
func hostToService(host string) string {
	host = strings.TrimSuffix(host, ".internal")
	host = strings.TrimSuffix(host, ".svc.cluster.local")
	host = strings.TrimSuffix(host, "-service")
	host = strings.TrimSuffix(host, "_service")
	return host
}

// detectMethod returns the HTTP method implied by a client call's source
// text, or MethodUnknown if none is recognizable.
func detectMethod(text string) types.HTTPMethod {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, ".POST(") || strings.Contains(upper, `"POST"`):
		return types.MethodPOST
	case strings.Contains(upper, ".PUT(") || strings.Contains(upper, `"PUT"`):
		return types.MethodPUT
	case strings.Contains(upper, ".DELETE(") || strings.Contains(upper, `"DELETE"`):
		return types.MethodDELETE
	case strings.Contains(upper, ".PATCH(") || strings.Contains(upper, `"PATCH"`):
		return types.MethodPATCH
	case strings.Contains(upper, ".GET(") || strings.Contains(upper, `"GET"`):
		return types.MethodGET
	default:
		return types.MethodUnknown
	}
}

// colonParamRe finds :name path parameters (Express/Gin style); braceParamRe
// matches the {name} form they are rewritten to.
var (
	colonParamRe = regexp.MustCompile(`:([a-zA-Z_][a-zA-Z0-9_]*)`)
	braceParamRe = regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_]*\}`)
)

// NormalizePath rewrites :name path parameters to {name}, keeps {name}
// parameters as written, and trims a trailing slash — the canonical form
// types.RouteDefinition.Path is stored in. The registry treats every {...}
// segment as a wildcard, so parameter names do not affect matching.
func NormalizePath(path string) string {
	path = colonParamRe.ReplaceAllString(path, "{${1}}")
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	return path
}
