package matcher

import (
	"strings"

	"github.com/tracewire/svcgraph/internal/lang"
	"github.com/tracewire/svcgraph/internal/matchnode"
	"github.com/tracewire/svcgraph/internal/types"
)

// httpClientKeywords gate which call nodes are even considered HTTP client
// calls, one list per language — mirrors the keyword-gating idiom used to
// avoid false positives on functions that merely store a URL in a variable.
var httpClientKeywords = map[lang.Language][]string{
	lang.Python:     {"requests.get", "requests.post", "requests.put", "requests.delete", "requests.patch", "httpx.get", "httpx.post", "httpx.put", "httpx.delete", "httpx.patch", "httpx.request"},
	lang.Go:         {"http.Get", "http.Post", "http.NewRequest", "client.Do("},
	lang.TypeScript: {"fetch(", "axios.get", "axios.post", "axios.put", "axios.delete", "axios.patch", "axios.request"},
	lang.CSharp:     {"HttpClient", ".GetAsync", ".PostAsync", ".PutAsync", ".DeleteAsync", ".SendAsync"},
}

func init() {
	m := MatcherFunc(matchHTTPClient)
	Register(m, lang.Python, lang.Go, lang.TypeScript, lang.CSharp)
}

// matchHTTPClient recognizes an outbound HTTP client call in any of the
// four carried languages. It is keyword-gated per language before attempting
// URL classification, so e.g. a bare `requests` import or an unrelated
// `.get(` on a map never produces a Record.
func matchHTTPClient(n *matchnode.Node, src []byte) []types.Record {
	wantKind := map[lang.Language]string{
		lang.Python:     "call",
		lang.Go:         "call_expression",
		lang.TypeScript: "call_expression",
		lang.CSharp:     "invocation_expression",
	}
	if n.Kind() != wantKind[n.Language()] {
		return nil
	}

	keywords := httpClientKeywords[n.Language()]
	text := n.Text()
	matched := false
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return nil
	}

	cls, ok := classifyCallText(text)
	if !ok {
		// Keyword matched (this is an HTTP client call) but no URL literal
		// or path literal could be extracted — a guess-tier call with a
		// fully dynamic URL built from an opaque variable.
		cls = urlClassification{confidence: types.ConfidenceGuess}
	}

	call := types.ServiceCall{
		SourceFile:    "", // filled in by the extractor, which owns file identity
		LineNumber:    n.Line(),
		TargetService: cls.targetService,
		CallType:      types.CallHTTP,
		Confidence:    cls.confidence,
		Method:        detectMethod(text),
		URLPath:       NormalizePath(cls.urlPath),
	}
	if call.Method == "" {
		call.Method = types.MethodUnknown
	}

	return []types.Record{types.CallRecord(call)}
}
