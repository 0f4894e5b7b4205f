package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/apibridge/apibridge/internal/common"
	"github.com/apibridge/apibridge/internal/openapi"
)

func testCatalog() []openapi.ToolDefinition {
	return []openapi.ToolDefinition{
		{
			Name:   "supplier",
			Method: "GET",
			Path:   "/suppliers/{supplier_id}",
			Parameters: []openapi.ParameterSpec{
				{Name: "supplier_id", In: "path", Required: true},
				{Name: "verbose", In: "query"},
			},
		},
		{
			Name:   "list_orders",
			Method: "GET",
			Path:   "/orders",
			Parameters: []openapi.ParameterSpec{
				{Name: "status", In: "query"},
				{Name: "X-Trace", In: "header"},
			},
		},
		{
			Name:   "create_order",
			Method: "POST",
			Path:   "/orders",
			RequestBody: &openapi.RequestBodySpec{
				Required: true,
				Properties: []openapi.PropertySpec{
					{Name: "supplier_name", Type: "string", Required: true},
					{Name: "note", Type: "string"},
				},
			},
		},
		{
			Name:   "get_health",
			Method: "GET",
			Path:   "/health",
		},
	}
}

func newDispatcher(baseURL string) *Dispatcher {
	return New(testCatalog(), baseURL, 5*time.Second, nil, common.NewSilentLogger())
}

type recordedRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
	header http.Header
}

func recordingServer(t *testing.T, status int, payload string) (*httptest.Server, *recordedRequest, *atomic.Int64) {
	t.Helper()
	var last recordedRequest
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		last.method = r.Method
		last.path = r.URL.EscapedPath()
		last.query = r.URL.RawQuery
		last.header = r.Header.Clone()
		last.body = nil
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&last.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(payload))
	}))
	return srv, &last, &calls
}

func TestCall_PathSubstitution(t *testing.T) {
	srv, last, _ := recordingServer(t, 200, `{"success": true, "data": {"id": "sup-9"}}`)
	defer srv.Close()

	d := newDispatcher(srv.URL)
	value, err := d.Call(context.Background(), "supplier", map[string]any{"supplier_id": "sup-9"})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	if last.path != "/suppliers/sup-9" {
		t.Errorf("expected path substitution, got %q", last.path)
	}

	envelope, ok := value.(map[string]any)
	if !ok || envelope["success"] != true {
		t.Errorf("expected envelope pass-through, got %v", value)
	}
}

func TestCall_PathValueEscaped(t *testing.T) {
	srv, last, _ := recordingServer(t, 200, `{}`)
	defer srv.Close()

	d := newDispatcher(srv.URL)
	if _, err := d.Call(context.Background(), "supplier", map[string]any{"supplier_id": "a/b"}); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if last.path == "/suppliers/a/b" {
		t.Error("path value must be escaped, not spliced raw")
	}
}

func TestCall_QueryPruning(t *testing.T) {
	srv, last, _ := recordingServer(t, 200, `{}`)
	defer srv.Close()

	d := newDispatcher(srv.URL)
	_, err := d.Call(context.Background(), "list_orders", map[string]any{"status": "open"})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if last.query != "status=open" {
		t.Errorf("unexpected query %q", last.query)
	}

	// Null-valued entries are pruned, never sent
	_, err = d.Call(context.Background(), "list_orders", map[string]any{"status": nil})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if last.query != "" {
		t.Errorf("null query value must be pruned, got %q", last.query)
	}
}

func TestCall_HeaderArgumentsIgnored(t *testing.T) {
	srv, last, _ := recordingServer(t, 200, `{}`)
	defer srv.Close()

	d := newDispatcher(srv.URL)
	_, err := d.Call(context.Background(), "list_orders", map[string]any{"X-Trace": "abc"})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if last.header.Get("X-Trace") != "" {
		t.Error("header-located arguments must not be forwarded")
	}
	if last.query != "" {
		t.Errorf("header argument leaked into query: %q", last.query)
	}
}

func TestCall_StaticHeadersPassThrough(t *testing.T) {
	srv, last, _ := recordingServer(t, 200, `{}`)
	defer srv.Close()

	d := New(testCatalog(), srv.URL, 5*time.Second, map[string]string{"Authorization": "Bearer tok"}, common.NewSilentLogger())
	if _, err := d.Call(context.Background(), "get_health", nil); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if last.header.Get("Authorization") != "Bearer tok" {
		t.Error("configured static headers must be injected on every request")
	}
}

func TestCall_BodyAssembly(t *testing.T) {
	srv, last, _ := recordingServer(t, 201, `{"success": true}`)
	defer srv.Close()

	d := newDispatcher(srv.URL)
	_, err := d.Call(context.Background(), "create_order", map[string]any{
		"supplier_name": "Acme",
		"note":          "urgent",
		"unrelated":     "dropped",
	})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	if last.method != http.MethodPost {
		t.Errorf("expected POST, got %s", last.method)
	}
	if last.body["supplier_name"] != "Acme" || last.body["note"] != "urgent" {
		t.Errorf("unexpected body %v", last.body)
	}
	if _, ok := last.body["unrelated"]; ok {
		t.Error("arguments outside the body spec must not be sent")
	}
	if last.header.Get("Content-Type") != "application/json" {
		t.Errorf("expected JSON content type, got %q", last.header.Get("Content-Type"))
	}
}

func TestCall_MissingRequiredBodyProperty(t *testing.T) {
	srv, _, calls := recordingServer(t, 200, `{}`)
	defer srv.Close()

	d := newDispatcher(srv.URL)
	_, err := d.Call(context.Background(), "create_order", map[string]any{"note": "no supplier"})
	if !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected zero HTTP calls, got %d", calls.Load())
	}
}

func TestCall_MissingRequiredPathParameter(t *testing.T) {
	srv, _, calls := recordingServer(t, 200, `{}`)
	defer srv.Close()

	d := newDispatcher(srv.URL)
	_, err := d.Call(context.Background(), "supplier", nil)
	if !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected zero HTTP calls, got %d", calls.Load())
	}
}

func TestCall_UnknownTool(t *testing.T) {
	d := newDispatcher("http://localhost:1")
	_, err := d.Call(context.Background(), "no_such_tool", nil)
	if !errors.Is(err, ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}

func TestCall_NoParamsNoBody(t *testing.T) {
	srv, last, _ := recordingServer(t, 200, `{"success": true, "data": "ok"}`)
	defer srv.Close()

	d := newDispatcher(srv.URL)
	if _, err := d.Call(context.Background(), "get_health", nil); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if last.query != "" {
		t.Errorf("expected no query string, got %q", last.query)
	}
	if len(last.body) != 0 {
		t.Errorf("expected no body, got %v", last.body)
	}
	if last.header.Get("Content-Type") == "application/json" {
		t.Error("no body means no JSON content type")
	}
}

func TestCall_NonJSONResponseWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("plain text payload"))
	}))
	defer srv.Close()

	d := newDispatcher(srv.URL)
	value, err := d.Call(context.Background(), "get_health", nil)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	result, ok := value.(Result)
	if !ok {
		t.Fatalf("expected wrapped Result, got %T", value)
	}
	if !result.Success || result.Data != "plain text payload" {
		t.Errorf("unexpected wrapped result %+v", result)
	}
}

func TestInvoke_UnreachableHost(t *testing.T) {
	// Closed server: the port is no longer listening
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	host := srv.Listener.Addr().String()
	srv.Close()

	d := newDispatcher("http://" + host)
	value := d.Invoke(context.Background(), "get_health", nil)

	result, ok := value.(Result)
	if !ok {
		t.Fatalf("expected Result, got %T", value)
	}
	if result.Success {
		t.Error("expected failure result")
	}
	if result.Error != host+" unreachable" {
		t.Errorf("expected %q, got %q", host+" unreachable", result.Error)
	}
}

func TestInvoke_HTTPStatusClassified(t *testing.T) {
	srv, _, _ := recordingServer(t, 404, `{"detail": "supplier not found"}`)
	defer srv.Close()

	d := newDispatcher(srv.URL)
	value := d.Invoke(context.Background(), "supplier", map[string]any{"supplier_id": "missing"})

	result, ok := value.(Result)
	if !ok {
		t.Fatalf("expected Result, got %T", value)
	}
	if result.Success {
		t.Error("expected failure result")
	}
	if result.StatusCode != 404 {
		t.Errorf("expected status code 404, got %d", result.StatusCode)
	}
	if result.Error != "GET /suppliers/{supplier_id} failed (HTTP 404)" {
		t.Errorf("unexpected error message %q", result.Error)
	}
	detail, ok := result.Detail.(map[string]any)
	if !ok || detail["detail"] != "supplier not found" {
		t.Errorf("expected parsed JSON detail, got %v", result.Detail)
	}
}

func TestInvoke_RecoversSentinelErrors(t *testing.T) {
	d := newDispatcher("http://localhost:1")

	value := d.Invoke(context.Background(), "no_such_tool", nil)
	result, ok := value.(Result)
	if !ok || result.Success || result.Error == "" {
		t.Errorf("expected recovered failure for unknown tool, got %v", value)
	}

	value = d.Invoke(context.Background(), "create_order", map[string]any{})
	result, ok = value.(Result)
	if !ok || result.Success || result.Error == "" {
		t.Errorf("expected recovered failure for missing parameter, got %v", value)
	}
}

func TestInvoke_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	d := New(testCatalog(), srv.URL, 50*time.Millisecond, nil, common.NewSilentLogger())
	value := d.Invoke(context.Background(), "get_health", nil)

	result, ok := value.(Result)
	if !ok {
		t.Fatalf("expected Result, got %T", value)
	}
	if result.Success {
		t.Error("expected timeout to surface as failure")
	}
	if result.StatusCode != 0 {
		t.Errorf("timeout must not carry an HTTP status, got %d", result.StatusCode)
	}
}

func TestList_PreservesCompileOrder(t *testing.T) {
	d := newDispatcher("http://localhost:1")
	catalog := d.List()
	if len(catalog) != 4 {
		t.Fatalf("expected 4 tools, got %d", len(catalog))
	}
	if catalog[0].Name != "supplier" || catalog[3].Name != "get_health" {
		t.Errorf("catalog order not preserved: %v", catalog)
	}
}

func TestCall_ConcurrentInvocations(t *testing.T) {
	srv, _, calls := recordingServer(t, 200, `{"success": true}`)
	defer srv.Close()

	d := newDispatcher(srv.URL)
	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			_, err := d.Call(context.Background(), "get_health", nil)
			done <- err
		}()
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent call failed: %v", err)
		}
	}
	if calls.Load() != 20 {
		t.Errorf("expected 20 calls, got %d", calls.Load())
	}
}
