package matcher

import (
	"regexp"
	"strings"

	"github.com/tracewire/svcgraph/internal/lang"
	"github.com/tracewire/svcgraph/internal/matchnode"
	"github.com/tracewire/svcgraph/internal/types"
)

// queuePublishKeywords recognize a message-queue publish call. queue_declare
// / exchange_declare / topic creation calls are deliberately excluded here —
// they configure infrastructure, they don't send a message (§4.1 negative
// vector: "queue declarations").
var queuePublishKeywords = map[lang.Language][]string{
	lang.Python:     {"basic_publish", "channel.send", "producer.send"},
	lang.Go:         {"Publish(", "producer.Send", "writer.WriteMessages"},
	lang.TypeScript: {".publish(", "producer.send"},
	lang.CSharp:     {".Publish("},
}

var queueSubscribeKeywords = map[lang.Language][]string{
	lang.Python:     {"basic_consume", "channel.consume"},
	lang.Go:         {".Consume(", "reader.ReadMessage"},
	lang.TypeScript: {".subscribe(", "consumer.subscribe"},
	lang.CSharp:     {".Subscribe(", ".Consume("},
}

// queueNameRe extracts a quoted queue/topic name from the call's arguments.
var queueNameRe = regexp.MustCompile(`["']([a-zA-Z0-9_.\-]+)["']`)

func init() {
	Register(MatcherFunc(matchQueuePublish), lang.Python, lang.Go, lang.TypeScript, lang.CSharp)
	Register(MatcherFunc(matchQueueSubscribe), lang.Python, lang.Go, lang.TypeScript, lang.CSharp)
}

func matchQueuePublish(n *matchnode.Node, src []byte) []types.Record {
	return matchQueueCall(n, queuePublishKeywords, types.CallQueuePublish)
}

func matchQueueSubscribe(n *matchnode.Node, src []byte) []types.Record {
	return matchQueueCall(n, queueSubscribeKeywords, types.CallQueueSubscribe)
}

func matchQueueCall(n *matchnode.Node, keywordsByLang map[lang.Language][]string, callType types.CallType) []types.Record {
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

	// declare/create calls configure topology, not message flow.
	if strings.Contains(text, "declare") || strings.Contains(text, "Declare") ||
		strings.Contains(text, "CreateTopic") {
		return nil
	}

	for _, kw := range keywordsByLang[n.Language()] {
		if !strings.Contains(text, kw) {
			continue
		}
		matches := queueNameRe.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			return []types.Record{types.CallRecord(types.ServiceCall{
				LineNumber:    n.Line(),
				CallType:      callType,
				Confidence:    types.ConfidenceLow,
				Method:        types.MethodUnknown,
			})}
		}
		records := make([]types.Record, 0, len(matches))
		for _, m := range matches {
			records = append(records, types.CallRecord(types.ServiceCall{
				LineNumber:    n.Line(),
				TargetService: m[1],
				CallType:      callType,
				Confidence:    types.ConfidenceMedium,
				Method:        types.MethodUnknown,
			}))
		}
		return records
	}
	return nil
}
