package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedRequest struct {
	Method      string
	Path        string
	Body        string
	ContentType string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.RequestURI(),
			Body:        body.String(),
			ContentType: r.Header.Get("Content-Type"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestAskRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /api/chat": `{"role":"assistant","content":"42"}`,
	})

	resp, err := ts.client().post(ctx, "/api/chat", map[string]string{"message": "meaning?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var turn map[string]string
	if err := decodeJSON(resp, &turn); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if turn["content"] != "42" {
		t.Errorf("content = %q, want 42", turn["content"])
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	r := ts.requests[0]
	if r.Method != "POST" || r.Path != "/api/chat" {
		t.Errorf("request = %s %s", r.Method, r.Path)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["message"] != "meaning?" {
		t.Errorf("body.message = %v", body["message"])
	}
}

func TestUploadRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /api/upload": `{"filename":"doc.pdf","kind":"text","chars":120}`,
	})

	resp, err := ts.client().postFile(ctx, "/api/upload", "/tmp/doc.pdf", []byte("%PDF-fake"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result map[string]any
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result["kind"] != "text" {
		t.Errorf("kind = %v, want text", result["kind"])
	}

	r := ts.requests[0]
	if !strings.HasPrefix(r.ContentType, "multipart/form-data") {
		t.Errorf("content type = %q, want multipart", r.ContentType)
	}
	if !strings.Contains(r.Body, `filename="doc.pdf"`) {
		t.Errorf("body does not carry the base filename: %q", r.Body)
	}
}

func TestResetRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"DELETE /api/transcript": `{"status":"reset"}`,
	})

	resp, err := ts.client().delete(ctx, "/api/transcript")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result map[string]string
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result["status"] != "reset" {
		t.Errorf("status = %q, want reset", result["status"])
	}
}

func TestDecodeJSON_ErrorStatus(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := ts.client().get(ctx, "/api/unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out map[string]any
	err = decodeJSON(resp, &out)
	if err == nil {
		t.Fatal("want an error for a 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v, want it to mention the status", err)
	}
}

func TestPIDFileRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := pidFilePath(dir)

	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	pid, err := readPIDFile(path)
	if err != nil {
		t.Fatalf("readPIDFile: %v", err)
	}
	if pid <= 0 {
		t.Errorf("pid = %d, want a positive value", pid)
	}

	removePIDFile(path)
	if _, err := readPIDFile(path); err == nil {
		t.Error("PID file survived removal")
	}
}
