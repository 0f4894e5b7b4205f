// Package dispatch turns named tool invocations into HTTP calls against the
// bridged backend and classifies their outcomes.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apibridge/apibridge/internal/common"
	"github.com/apibridge/apibridge/internal/openapi"
)

// maxResponseSize caps a dispatched response body to prevent OOM from
// unexpectedly large responses.
const maxResponseSize = 50 << 20 // 50MB

// Sentinel errors for invocation failures detected before any network call.
var (
	ErrToolNotFound     = errors.New("tool not found")
	ErrMissingParameter = errors.New("missing required parameter")
)

// ConnectionError marks a target that could not be reached at all.
type ConnectionError struct {
	Host string
}

func (e *ConnectionError) Error() string {
	return e.Host + " unreachable"
}

// StatusError marks a completed HTTP exchange with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	// Detail holds the parsed response body, or the raw text when the body
	// is not JSON.
	Detail any
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s failed (HTTP %d)", e.Method, e.Path, e.StatusCode)
}

// Result is the normalized invocation envelope. A failed invocation is
// indistinguishable in shape from a successful one except for Success, so
// consumers branch uniformly without special-casing exceptions.
type Result struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Detail     any    `json:"detail,omitempty"`
}

// Dispatcher holds the compiled catalog and read-only call configuration.
// It keeps no per-call mutable state, so invocations are safely concurrent.
type Dispatcher struct {
	tools   map[string]openapi.ToolDefinition
	order   []string
	baseURL string
	client  *http.Client
	headers map[string]string
	logger  *common.Logger
}

// New creates a Dispatcher for a compiled catalog. headers are static
// pass-through headers injected on every outbound request.
func New(catalog []openapi.ToolDefinition, baseURL string, timeout time.Duration, headers map[string]string, logger *common.Logger) *Dispatcher {
	tools := make(map[string]openapi.ToolDefinition, len(catalog))
	order := make([]string, 0, len(catalog))
	for _, tool := range catalog {
		tools[tool.Name] = tool
		order = append(order, tool.Name)
	}
	return &Dispatcher{
		tools:   tools,
		order:   order,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		headers: headers,
		logger:  logger,
	}
}

// List returns the catalog in compile order.
func (d *Dispatcher) List() []openapi.ToolDefinition {
	catalog := make([]openapi.ToolDefinition, 0, len(d.order))
	for _, name := range d.order {
		catalog = append(catalog, d.tools[name])
	}
	return catalog
}

// Lookup returns the definition for a tool name.
func (d *Dispatcher) Lookup(name string) (openapi.ToolDefinition, bool) {
	tool, ok := d.tools[name]
	return tool, ok
}

// Invoke runs one tool call and recovers every failure into a Result
// envelope. Dispatch failures are never raised to the consumer: a single
// failing call must not terminate a long-lived session.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) any {
	value, err := d.Call(ctx, name, args)
	if err == nil {
		return value
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return Result{
			Success:    false,
			Error:      statusErr.Error(),
			StatusCode: statusErr.StatusCode,
			Detail:     statusErr.Detail,
		}
	}
	return Result{Success: false, Error: err.Error()}
}

// Call runs one tool call and returns the backend's JSON value, or a typed
// error: ErrToolNotFound, ErrMissingParameter, *ConnectionError,
// *StatusError, or a generic failure.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	tool, ok := d.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	req, err := d.buildRequest(ctx, tool, args)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := d.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		d.logger.Error().Str("tool", name).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("dispatch failed")
		return nil, classifyTransportError(err, req.URL.Host)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	d.logger.Debug().Str("tool", name).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("dispatch complete")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method:     tool.Method,
			Path:       tool.Path,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(body),
		}
	}

	return normalizeResponse(body), nil
}

// buildRequest partitions args into path, query, and body positions and
// constructs the single outbound request. Required path parameters and
// required body properties are validated before any network activity.
func (d *Dispatcher) buildRequest(ctx context.Context, tool openapi.ToolDefinition, args map[string]any) (*http.Request, error) {
	path := tool.Path
	query := url.Values{}

	for _, param := range tool.Parameters {
		value, present := args[param.Name]
		switch param.In {
		case "path":
			if !present || value == nil || fmt.Sprint(value) == "" {
				if param.Required {
					return nil, fmt.Errorf("%w: %s", ErrMissingParameter, param.Name)
				}
				continue
			}
			path = strings.ReplaceAll(path, "{"+param.Name+"}", url.PathEscape(fmt.Sprint(value)))
		case "query":
			// Absent or null query values are pruned, never sent.
			if present && value != nil {
				if s := fmt.Sprint(value); s != "" {
					query.Set(param.Name, s)
				}
			}
		case "header":
			// Recognized in the schema but intentionally not forwarded.
			// Callers supplying header arguments get a debug note, not an error.
			if present {
				d.logger.Debug().Str("tool", tool.Name).Str("param", param.Name).Msg("header parameter ignored")
			}
		}
	}

	body := map[string]any{}
	if tool.RequestBody != nil {
		for _, prop := range tool.RequestBody.Properties {
			value, present := args[prop.Name]
			if !present || value == nil {
				if prop.Required {
					return nil, fmt.Errorf("%w: %s", ErrMissingParameter, prop.Name)
				}
				continue
			}
			body[prop.Name] = value
		}
	}

	target := d.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if len(body) > 0 {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, tool.Method, target, bodyReader)
	if err != nil {
		return nil, err
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range d.headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

// classifyTransportError separates unreachable targets from timeouts and
// other transport failures.
func classifyTransportError(err error, host string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return err
		}
		return &ConnectionError{Host: host}
	}
	return err
}

// normalizeResponse parses the body as JSON; on parse failure the raw text
// is wrapped so callers always see the success/data envelope shape.
func normalizeResponse(body []byte) any {
	var value any
	if err := json.Unmarshal(body, &value); err == nil {
		return value
	}
	return Result{Success: true, Data: string(body)}
}

// parseDetail parses an error body as JSON, falling back to the raw text.
func parseDetail(body []byte) any {
	var value any
	if err := json.Unmarshal(body, &value); err == nil {
		return value
	}
	return string(body)
}
