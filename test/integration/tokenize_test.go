package integration

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	grpcapi "github.com/lemonberrylabs/arith-lexer/pkg/api/grpc"
)

func TestTokenizeValidExpressions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"9+0+8", "9 + 0 + 8"},
		{"0.5+3", "0.5 + 3"},
		{"9   +   0", "9 + 0"},
		{"100 / 0.25 * 3 - 0", "100 / 0.25 * 3 - 0"},
		{"0", "0"},
		{"1" + strings.Repeat("0", 309) + "+1", "Infinity + 1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, reason := tokenize(t, tt.input)
			if reason != "" {
				t.Fatalf("unexpected %s", reason)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenizeRejectedExpressions(t *testing.T) {
	tests := []struct {
		input  string
		reason string
	}{
		{"", "ExpressionError"},
		{"01+2", "NumberError"},
		{"1..2", "NumberError"},
		{".5", "NumberError"},
		{"1++2", "ExpressionError"},
		{"+1", "ExpressionError"},
		{"1+", "ExpressionError"},
		{"1 + ", "ExpressionError"},
		{" 1+2", "ExpressionError"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, reason := tokenize(t, tt.input)
			if reason != tt.reason {
				t.Errorf("reason = %q (tokens %q), want %s", reason, got, tt.reason)
			}
		})
	}
}

func TestScanRecordsAreListed(t *testing.T) {
	code, created := postJSON(t, "scans", map[string]string{"input": "7*6"})
	if code != http.StatusOK {
		t.Fatalf("create scan: status %d", code)
	}
	name := created["name"].(string)

	code, got := getJSON(t, name)
	if code != http.StatusOK {
		t.Fatalf("get %s: status %d", name, code)
	}
	if got["state"] != "SUCCEEDED" || renderTokens(t, got["tokens"]) != "7 * 6" {
		t.Errorf("unexpected scan: %v", got)
	}

	_, list := getJSON(t, "scans")
	found := false
	for _, item := range list["scans"].([]interface{}) {
		if item.(map[string]interface{})["name"] == name {
			found = true
		}
	}
	if !found {
		t.Errorf("%s missing from list", name)
	}
}

func TestBatchOperation(t *testing.T) {
	code, op := postJSON(t, "scans:batch", map[string][]string{"inputs": {"1+1", "1 2"}})
	if code != http.StatusOK {
		t.Fatalf("batch: status %d: %v", code, op)
	}

	code, got := getJSON(t, op["name"].(string))
	if code != http.StatusOK || got["done"] != true {
		t.Fatalf("get operation: %d %v", code, got)
	}
	scans := got["response"].(map[string]interface{})["scans"].([]interface{})
	if len(scans) != 2 {
		t.Fatalf("expected 2 scans, got %d", len(scans))
	}
	if st := scans[1].(map[string]interface{})["state"]; st != "FAILED" {
		t.Errorf("second scan state = %v, want FAILED", st)
	}
}

func TestGRPCMatchesHTTP(t *testing.T) {
	conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client := grpcapi.NewClient(conn)

	for _, input := range []string{"9+0+8", "01+2", "1++2", "0.5"} {
		_, httpReason := tokenize(t, input)

		_, err := client.Tokenize(ctx, input)
		var grpcReason string
		if err != nil {
			st, _ := status.FromError(err)
			if st.Code() != codes.InvalidArgument {
				t.Fatalf("%q: unexpected status %v", input, err)
			}
			grpcReason = reasonOf(st)
		}
		if grpcReason != httpReason {
			t.Errorf("%q: gRPC reason %q, HTTP reason %q", input, grpcReason, httpReason)
		}
	}
}

func TestWebUI(t *testing.T) {
	resp, err := http.Get(strings.TrimRight(testServer, "/") + "/ui")
	if err != nil {
		t.Fatalf("GET /ui: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Dashboard") {
		t.Errorf("unexpected UI response %d", resp.StatusCode)
	}
}

// reasonOf returns the ErrorInfo reason attached to a gRPC status.
func reasonOf(st *status.Status) string {
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.GetReason()
		}
	}
	return ""
}
