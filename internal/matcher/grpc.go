package matcher

import (
	"regexp"
	"strings"

	"github.com/tracewire/svcgraph/internal/lang"
	"github.com/tracewire/svcgraph/internal/matchnode"
	"github.com/tracewire/svcgraph/internal/types"
)

// grpcDialKeywords recognize channel/dial/stub construction — the call that
// names the target service, as opposed to the later per-RPC stub
// invocation which carries no host information.
var grpcDialKeywords = map[lang.Language][]string{
	lang.Python:     {"grpc.insecure_channel", "grpc.secure_channel", "grpc.aio.insecure_channel"},
	lang.Go:         {"grpc.Dial", "grpc.NewClient", "grpc.DialContext"},
	lang.TypeScript: {"new grpc.Client", "credentials.createInsecure"},
	lang.CSharp:     {"new Channel(", "GrpcChannel.ForAddress"},
}

// grpcStubSuffixRe recognizes the later per-RPC stub invocation by the
// generated-code naming convention (...Stub, e.g. OrderServiceStub) — lower
// confidence since the target is only derivable via the stub variable name,
// which this matcher does not attempt to resolve across statements. Plain
// "Client" is deliberately excluded: too many non-gRPC idioms (http.Client,
// test doubles) use that name and would false-positive.
var grpcStubSuffixRe = regexp.MustCompile(`\w*Stub\.\w+\(`)

func init() {
	m := MatcherFunc(matchGRPCClient)
	Register(m, lang.Python, lang.Go, lang.TypeScript, lang.CSharp)
}

func matchGRPCClient(n *matchnode.Node, src []byte) []types.Record {
	wantKind := map[lang.Language]string{
		lang.Python:     "call",
		lang.Go:         "call_expression",
		lang.TypeScript: "call_expression",
		lang.CSharp:     "invocation_expression",
	}
	if n.Kind() != wantKind[n.Language()] {
		return nil
	}
	text := n.Text()

	for _, kw := range grpcDialKeywords[n.Language()] {
		if strings.Contains(text, kw) {
			host := extractDialTarget(text)
			conf := types.ConfidenceLow
			service := ""
			if host != "" {
				conf = types.ConfidenceHigh
				service = hostToService(host)
			}
			return []types.Record{types.CallRecord(types.ServiceCall{
				LineNumber:    n.Line(),
				TargetService: service,
				CallType:      types.CallGRPC,
				Confidence:    conf,
				Method:        types.MethodUnknown,
			})}
		}
	}

	if grpcStubSuffixRe.MatchString(text) {
		return []types.Record{types.CallRecord(types.ServiceCall{
			LineNumber:    n.Line(),
			CallType:      types.CallGRPC,
			Confidence:    types.ConfidenceGuess,
			Method:        types.MethodUnknown,
		})}
	}

	return nil
}

// dialTargetRe pulls a bare host[:port] literal out of a dial/channel call,
// e.g. grpc.Dial("order-service:50051", ...).
var dialTargetRe = regexp.MustCompile(`["']([a-zA-Z0-9_.\-]+):(\d+)["']`)

func extractDialTarget(text string) string {
	m := dialTargetRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
