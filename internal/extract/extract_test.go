package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractPythonFastAPIRoutesAndCalls(t *testing.T) {
	dir := t.TempDir()
	src := `import requests
from fastapi import APIRouter

router = APIRouter()


@router.get("/api/users/{user_id}")
def get_user(user_id):
    return requests.get("http://user-service/api/users/" + user_id)
`
	if err := os.WriteFile(filepath.Join(dir, "app.py"), []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := Extract(context.Background(), "orders", dir)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %v", res.Errors)
	}
	if len(res.Routes) != 1 {
		t.Fatalf("expected 1 route, got %d: %+v", len(res.Routes), res.Routes)
	}
	route := res.Routes[0]
	if route.Method != "GET" || route.Path != "/api/users/{user_id}" {
		t.Errorf("route = %+v", route)
	}
	if route.Service != "orders" {
		t.Errorf("route.Service = %q, want orders", route.Service)
	}
	if route.HandlerFunction != "get_user" {
		t.Errorf("route.HandlerFunction = %q, want get_user", route.HandlerFunction)
	}

	if len(res.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d: %+v", len(res.Calls), res.Calls)
	}
	if res.Calls[0].TargetService != "user" {
		t.Errorf("call.TargetService = %q, want user", res.Calls[0].TargetService)
	}
}

func TestExtractSkipsUnparsableFile(t *testing.T) {
	dir := t.TempDir()
	// A .go file with invalid syntax must not abort the whole pass.
	if err := os.WriteFile(filepath.Join(dir, "broken.go"), []byte("package main\nfunc ( {{{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ok.go"), []byte(`package main

func CallOrders() {
	http.Get("http://order-service/api/orders")
}
`), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := Extract(context.Background(), "gateway", dir)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// tree-sitter is error-tolerant: a syntactically broken file still
	// produces a tree (with ERROR nodes), so this only verifies Extract
	// runs end to end across both files without aborting.
	if len(res.Calls) == 0 {
		t.Error("expected at least the call from ok.go")
	}
}
