package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"training-assessment-service/internal/catalog"
)

func TestRouterServesPublicQuestionSet(t *testing.T) {
	server := newTestServer(0)
	defer server.Close()

	resp, err := http.Get(server.URL + "/assessments/" + catalog.MicrointeractionsID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.Contains(string(body), "correctOptionId") || strings.Contains(string(body), "explanation") {
		t.Fatalf("public set leaks answer key: %s", body)
	}
}

func TestRouterUnknownSetIs404(t *testing.T) {
	server := newTestServer(0)
	defer server.Close()

	resp, err := http.Get(server.URL + "/assessments/missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRouterHistoryEmpty(t *testing.T) {
	server := newTestServer(0)
	defer server.Close()

	resp, err := http.Get(server.URL + "/users/u1/results")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var results []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestRouterHealthz(t *testing.T) {
	server := newTestServer(0)
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Fatalf("expected ok, got %q", body)
	}
}
