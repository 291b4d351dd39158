package matcher

import (
	"testing"

	"github.com/tracewire/svcgraph/internal/lang"
	"github.com/tracewire/svcgraph/internal/matchnode"
)

func TestMatchPythonFlaskDecorator(t *testing.T) {
	n := matchnode.NewForTest("decorator", `@app.post("/api/orders")`, 20, lang.Python)
	records := matchPythonServerRoute(n, nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	route, ok := records[0].AsRoute()
	if !ok {
		t.Fatal("expected a RouteDefinition record")
	}
	if route.Method != "POST" || route.Path != "/api/orders" {
		t.Errorf("got (%s, %s)", route.Method, route.Path)
	}
}

func TestMatchPythonFlaskRouteWithMethods(t *testing.T) {
	n := matchnode.NewForTest("decorator", `@app.route("/api/orders", methods=["PUT", "PATCH"])`, 1, lang.Python)
	records := matchPythonServerRoute(n, nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	route, _ := records[0].AsRoute()
	if route.Method != "PUT" {
		t.Errorf("Method = %s, want PUT (first listed verb)", route.Method)
	}
}

func TestMatchPythonFastAPIRouter(t *testing.T) {
	n := matchnode.NewForTest("decorator", `@router.get("/items/{item_id}")`, 8, lang.Python)
	records := matchPythonServerRoute(n, nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	route, _ := records[0].AsRoute()
	if route.Path != "/items/{item_id}" {
		t.Errorf("Path = %s, want /items/{item_id} (parameter name kept)", route.Path)
	}
}

func TestMatchGoGinRoute(t *testing.T) {
	n := matchnode.NewForTest("call_expression", `router.POST("/api/orders", h.CreateOrder)`, 15, lang.Go)
	records := matchGoServerRoute(n, nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	route, _ := records[0].AsRoute()
	if route.Method != "POST" || route.Path != "/api/orders" {
		t.Errorf("got (%s, %s)", route.Method, route.Path)
	}
}

func TestMatchExpressRoute(t *testing.T) {
	n := matchnode.NewForTest("call_expression", `app.get("/api/users", handler)`, 9, lang.TypeScript)
	records := matchExpressServerRoute(n, nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestMatchExpressGetConfigGetterIsNotARoute(t *testing.T) {
	// app.get("trust proxy") with a single argument configures the app,
	// it does not register a route.
	n := matchnode.NewForTest("call_expression", `app.get("trust proxy")`, 2, lang.TypeScript)
	if records := matchExpressServerRoute(n, nil); records != nil {
		t.Errorf("expected no match for single-arg app.get(), got %v", records)
	}
}

func TestMatchExpressRejectsNonAllowlistedReceiver(t *testing.T) {
	// req.get()/res.get() are not route registrations.
	n := matchnode.NewForTest("call_expression", `req.get("Content-Type")`, 4, lang.TypeScript)
	if records := matchExpressServerRoute(n, nil); records != nil {
		t.Errorf("expected no match for req.get(), got %v", records)
	}
}

func TestMatchASPNetHttpGetAttribute(t *testing.T) {
	n := matchnode.NewForTest("attribute", `[HttpGet("/api/orders/{id}")]`, 30, lang.CSharp)
	records := matchASPNetServerRoute(n, nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	route, _ := records[0].AsRoute()
	if route.Method != "GET" || route.Path != "/api/orders/{id}" {
		t.Errorf("got (%s, %s)", route.Method, route.Path)
	}
}

func TestMatchASPNetRouteAttributeIsMethodAgnostic(t *testing.T) {
	n := matchnode.NewForTest("attribute", `[Route("/api/orders")]`, 1, lang.CSharp)
	records := matchASPNetServerRoute(n, nil)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	route, _ := records[0].AsRoute()
	if route.Method != "" {
		t.Errorf("Method = %q, want empty (method-agnostic)", route.Method)
	}
}
