package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lemonberrylabs/arith-lexer/pkg/store"
)

func setupTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	s := store.New()
	return New(s), s
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("invalid JSON response %q: %v", raw, err)
	}
	return resp.StatusCode, out
}

func symbols(t *testing.T, tokens interface{}) string {
	t.Helper()
	list, ok := tokens.([]interface{})
	if !ok {
		t.Fatalf("tokens is %T, want list", tokens)
	}
	var parts []string
	for _, item := range list {
		m := item.(map[string]interface{})
		if m["type"] == "OPERATOR" {
			parts = append(parts, m["symbol"].(string))
		} else {
			b, _ := json.Marshal(m["value"])
			parts = append(parts, string(b))
		}
	}
	return strings.Join(parts, " ")
}

func TestTokenize(t *testing.T) {
	srv, _ := setupTestServer(t)

	code, body := doJSON(t, srv, "POST", "/v1/tokenize", map[string]string{"input": "9+0+8"})
	if code != 200 {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}
	if got := symbols(t, body["tokens"]); got != "9 + 0 + 8" {
		t.Errorf("tokens = %q", got)
	}
}

func TestTokenizeOverflowingLiteral(t *testing.T) {
	srv, _ := setupTestServer(t)

	input := "1" + strings.Repeat("0", 309) + "+1"
	code, body := doJSON(t, srv, "POST", "/v1/tokenize", map[string]string{"input": input})
	if code != 200 {
		t.Fatalf("expected 200, got %d: %v", code, body)
	}
	if got := symbols(t, body["tokens"]); got != `"Infinity" + 1` {
		t.Errorf("tokens = %q", got)
	}
}

func TestTokenizeErrors(t *testing.T) {
	srv, _ := setupTestServer(t)

	tests := []struct {
		input    string
		reason   string
		position float64
	}{
		{"", "ExpressionError", 0},
		{"01+2", "NumberError", 1},
		{".5", "NumberError", 0},
		{"1++2", "ExpressionError", 2},
		{" 1+2", "ExpressionError", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code, body := doJSON(t, srv, "POST", "/v1/tokenize", map[string]string{"input": tt.input})
			if code != 400 {
				t.Fatalf("expected 400, got %d", code)
			}
			e := body["error"].(map[string]interface{})
			if e["status"] != "INVALID_ARGUMENT" || e["reason"] != tt.reason || e["kind"] != tt.reason {
				t.Errorf("unexpected error body: %v", e)
			}
			if e["code"] != float64(400) || e["position"] != tt.position {
				t.Errorf("unexpected error body: %v", e)
			}
		})
	}
}

func TestTokenizeMissingInput(t *testing.T) {
	srv, _ := setupTestServer(t)

	code, body := doJSON(t, srv, "POST", "/v1/tokenize", map[string]string{})
	if code != 400 {
		t.Fatalf("expected 400, got %d", code)
	}
	e := body["error"].(map[string]interface{})
	if e["message"] != "input is required" {
		t.Errorf("unexpected message: %v", e["message"])
	}
}

func TestScanLifecycle(t *testing.T) {
	srv, _ := setupTestServer(t)

	code, created := doJSON(t, srv, "POST", "/v1/scans", map[string]string{"input": "0.5+3"})
	if code != 200 {
		t.Fatalf("create: expected 200, got %d", code)
	}
	if created["state"] != "SUCCEEDED" {
		t.Fatalf("state = %v", created["state"])
	}
	name := created["name"].(string)
	id := strings.TrimPrefix(name, "scans/")

	code, got := doJSON(t, srv, "GET", "/v1/scans/"+id, nil)
	if code != 200 || got["input"] != "0.5+3" {
		t.Fatalf("get: %d %v", code, got)
	}
	if s := symbols(t, got["tokens"]); s != "0.5 + 3" {
		t.Errorf("tokens = %q", s)
	}

	code, failed := doJSON(t, srv, "POST", "/v1/scans", map[string]string{"input": "1+"})
	if code != 200 || failed["state"] != "FAILED" {
		t.Fatalf("failed scan: %d %v", code, failed)
	}
	if e := failed["error"].(map[string]interface{}); e["kind"] != "ExpressionError" {
		t.Errorf("error kind = %v", e["kind"])
	}

	_, list := doJSON(t, srv, "GET", "/v1/scans", nil)
	if n := len(list["scans"].([]interface{})); n != 2 {
		t.Errorf("expected 2 scans, got %d", n)
	}
	_, list = doJSON(t, srv, "GET", "/v1/scans?state=failed", nil)
	if n := len(list["scans"].([]interface{})); n != 1 {
		t.Errorf("expected 1 failed scan, got %d", n)
	}

	code, _ = doJSON(t, srv, "DELETE", "/v1/scans/"+id, nil)
	if code != 200 {
		t.Fatalf("delete: expected 200, got %d", code)
	}
	code, _ = doJSON(t, srv, "GET", "/v1/scans/"+id, nil)
	if code != 404 {
		t.Errorf("expected 404 after delete, got %d", code)
	}
}

func TestBatchScan(t *testing.T) {
	srv, s := setupTestServer(t)

	code, op := doJSON(t, srv, "POST", "/v1/scans:batch", map[string][]string{
		"inputs": {"1+2", "1..2", "3"},
	})
	if code != 200 {
		t.Fatalf("expected 200, got %d: %v", code, op)
	}
	if op["done"] != true {
		t.Errorf("operation should be done")
	}
	scans := op["response"].(map[string]interface{})["scans"].([]interface{})
	if len(scans) != 3 {
		t.Fatalf("expected 3 results, got %d", len(scans))
	}
	states := []string{"SUCCEEDED", "FAILED", "SUCCEEDED"}
	for i, sc := range scans {
		if st := sc.(map[string]interface{})["state"]; st != states[i] {
			t.Errorf("result %d: state = %v, want %s", i, st, states[i])
		}
	}
	if ok, failed := s.Counts(); ok != 2 || failed != 1 {
		t.Errorf("store counts = %d, %d", ok, failed)
	}

	id := strings.TrimPrefix(op["name"].(string), "operations/")
	code, got := doJSON(t, srv, "GET", "/v1/operations/"+id, nil)
	if code != 200 || got["name"] != op["name"] {
		t.Errorf("get operation: %d %v", code, got)
	}

	code, _ = doJSON(t, srv, "GET", "/v1/operations/nope", nil)
	if code != 404 {
		t.Errorf("expected 404 for missing operation, got %d", code)
	}
}

func TestBatchScanEmpty(t *testing.T) {
	srv, _ := setupTestServer(t)

	code, _ := doJSON(t, srv, "POST", "/v1/scans:batch", map[string][]string{"inputs": {}})
	if code != 400 {
		t.Errorf("expected 400, got %d", code)
	}
}
