package matcher

import (
	"testing"

	"github.com/tracewire/svcgraph/internal/lang"
	"github.com/tracewire/svcgraph/internal/matchnode"
	"github.com/tracewire/svcgraph/internal/types"
)

func TestMatchGRPCDialWithHost(t *testing.T) {
	n := matchnode.NewForTest("call_expression", `conn, _ := grpc.Dial("order-service:50051", grpc.WithInsecure())`, 11, lang.Go)
	records := matchGRPCClient(n, nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	call, _ := records[0].AsCall()
	if call.CallType != types.CallGRPC {
		t.Errorf("CallType = %v, want grpc", call.CallType)
	}
	if call.TargetService != "order" {
		t.Errorf("TargetService = %q, want %q", call.TargetService, "order")
	}
	if call.Confidence != types.ConfidenceHigh {
		t.Errorf("Confidence = %v, want HIGH", call.Confidence)
	}
}

func TestMatchGRPCStubInvocation(t *testing.T) {
	n := matchnode.NewForTest("call_expression", `resp, err := client.GetOrder(ctx, req)`, 1, lang.Go)
	records := matchGRPCClient(n, nil)
	if len(records) != 0 {
		t.Fatalf("expected no match: 'client.GetOrder' doesn't match the Stub suffix pattern, got %d", len(records))
	}
}

func TestMatchQueuePublish(t *testing.T) {
	n := matchnode.NewForTest("call", `channel.basic_publish(exchange="", routing_key="orders.created", body=payload)`, 5, lang.Python)
	records := matchQueuePublish(n, nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	call, _ := records[0].AsCall()
	if call.CallType != types.CallQueuePublish {
		t.Errorf("CallType = %v, want queue_publish", call.CallType)
	}
}

func TestMatchQueuePublishDoesNotClaimCSharpHTTPSendAsync(t *testing.T) {
	// .SendAsync( is an HttpClient method, not a queue publish — a single
	// call must not also surface as a spurious queue_publish record.
	n := matchnode.NewForTest("invocation_expression", `client.SendAsync(request)`, 7, lang.CSharp)
	if records := matchQueuePublish(n, nil); records != nil {
		t.Errorf("expected no queue_publish match for client.SendAsync, got %v", records)
	}
}

func TestMatchQueueDeclareIsNotPublish(t *testing.T) {
	// Negative vector from spec §4.1: queue declarations configure
	// infrastructure, they don't send a message.
	n := matchnode.NewForTest("call", `channel.queue_declare(queue="orders.created")`, 1, lang.Python)
	if records := matchQueuePublish(n, nil); records != nil {
		t.Errorf("expected no match for queue_declare, got %v", records)
	}
}

func TestMatchQueueSubscribe(t *testing.T) {
	n := matchnode.NewForTest("call", `channel.basic_consume(queue="orders.created", on_message_callback=handle)`, 9, lang.Python)
	records := matchQueueSubscribe(n, nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestMatchQueueSubscribeMultiTopic(t *testing.T) {
	n := matchnode.NewForTest("call_expression", `consumer.subscribe(["orders", "shipments"])`, 3, lang.TypeScript)
	records := matchQueueSubscribe(n, nil)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, one per topic, got %d", len(records))
	}
	first, _ := records[0].AsCall()
	second, _ := records[1].AsCall()
	if first.TargetService != "orders" || second.TargetService != "shipments" {
		t.Errorf("TargetService = %q, %q, want orders, shipments", first.TargetService, second.TargetService)
	}
}
