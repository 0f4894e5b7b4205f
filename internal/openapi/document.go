// Package openapi parses OpenAPI/Swagger description documents and compiles
// their operations into an immutable tool catalog.
package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnresolvedReference is returned by a strict Resolver when an internal
// pointer does not designate a schema in the document.
var ErrUnresolvedReference = errors.New("unresolved reference")

// Schema is a raw JSON schema fragment. Values are kept untyped because
// documents in the wild nest and extend schemas freely; accessors below
// cover the fields the compiler actually reads.
type Schema map[string]any

// Ref returns the internal pointer ("#/components/schemas/X") or empty.
func (s Schema) Ref() string {
	ref, _ := s["$ref"].(string)
	return ref
}

// Type returns the declared type, defaulting to "string".
func (s Schema) Type() string {
	if t, ok := s["type"].(string); ok && t != "" {
		return t
	}
	return "string"
}

// Description returns the schema description or empty.
func (s Schema) Description() string {
	d, _ := s["description"].(string)
	return d
}

// Default returns the declared default value, nil when absent.
func (s Schema) Default() any {
	return s["default"]
}

// Enum returns the declared enum values, nil when absent.
func (s Schema) Enum() []any {
	e, _ := s["enum"].([]any)
	return e
}

// Properties returns the first-level object properties.
func (s Schema) Properties() map[string]Schema {
	raw, ok := s["properties"].(map[string]any)
	if !ok {
		return nil
	}
	props := make(map[string]Schema, len(raw))
	for name, v := range raw {
		if m, ok := v.(map[string]any); ok {
			props[name] = Schema(m)
		} else {
			props[name] = Schema{}
		}
	}
	return props
}

// RequiredProperties returns the names listed in the schema's required array.
func (s Schema) RequiredProperties() []string {
	raw, ok := s["required"].([]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		if name, ok := v.(string); ok {
			names = append(names, name)
		}
	}
	return names
}

// Info holds the document's descriptive metadata.
type Info struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
}

// Server is one entry of the document's servers list.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Parameter is a declared operation parameter.
type Parameter struct {
	Name        string `json:"name"`
	In          string `json:"in"` // path, query, header
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
	Schema      Schema `json:"schema,omitempty"`
}

// MediaType carries the schema for one content type.
type MediaType struct {
	Schema Schema `json:"schema,omitempty"`
}

// RequestBody is a declared operation request body.
type RequestBody struct {
	Required    bool                 `json:"required,omitempty"`
	Description string               `json:"description,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// Response is one declared response by status code.
type Response struct {
	Description string               `json:"description,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// Operation is one path+method entry.
type Operation struct {
	OperationID string              `json:"operationId,omitempty"`
	Summary     string              `json:"summary,omitempty"`
	Description string              `json:"description,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Parameters  []Parameter         `json:"parameters,omitempty"`
	RequestBody *RequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses,omitempty"`
}

// PathItem groups the operations declared under one path.
type PathItem struct {
	Get    *Operation `json:"get,omitempty"`
	Post   *Operation `json:"post,omitempty"`
	Put    *Operation `json:"put,omitempty"`
	Patch  *Operation `json:"patch,omitempty"`
	Delete *Operation `json:"delete,omitempty"`
}

// Operation returns the operation for an upper-case HTTP method, nil when absent.
func (p PathItem) Operation(method string) *Operation {
	switch method {
	case "GET":
		return p.Get
	case "POST":
		return p.Post
	case "PUT":
		return p.Put
	case "PATCH":
		return p.Patch
	case "DELETE":
		return p.Delete
	}
	return nil
}

// Components holds the document's reusable definitions.
type Components struct {
	Schemas map[string]Schema `json:"schemas,omitempty"`
}

// Document is a parsed API description. Immutable after load; the original
// tree is retained for reference resolution.
type Document struct {
	OpenAPI    string              `json:"openapi,omitempty"`
	Swagger    string              `json:"swagger,omitempty"`
	Info       Info                `json:"info"`
	Servers    []Server            `json:"servers,omitempty"`
	Paths      map[string]PathItem `json:"paths"`
	Components *Components         `json:"components,omitempty"`

	raw map[string]any
}

// BaseURL returns the first servers entry URL or empty.
func (d *Document) BaseURL() string {
	if len(d.Servers) > 0 {
		return d.Servers[0].URL
	}
	return ""
}

// IsAPIDocument reports whether the tree carries an openapi or swagger marker.
func (d *Document) IsAPIDocument() bool {
	return d.OpenAPI != "" || d.Swagger != ""
}

// ParseDocument decodes a JSON or YAML description document.
// YAML input is normalized to string-keyed maps before decoding so that
// integer-keyed response codes behave the same in both formats.
func ParseDocument(data []byte) (*Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		var node any
		if yerr := yaml.Unmarshal(data, &node); yerr != nil {
			return nil, fmt.Errorf("document is neither valid JSON nor YAML: %w", yerr)
		}
		normalized, ok := normalizeYAML(node).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("document root is not an object")
		}
		raw = normalized
	}

	// Round-trip through JSON so the typed view and the raw tree agree.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	doc.raw = raw
	return &doc, nil
}

// normalizeYAML converts YAML map types to string-keyed maps recursively.
func normalizeYAML(node any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[fmt.Sprint(key)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = normalizeYAML(val)
		}
		return out
	default:
		return v
	}
}

// Resolver dereferences internal pointers within one document.
type Resolver struct {
	doc    *Document
	strict bool
}

// NewResolver creates a resolver for doc. In strict mode a pointer whose
// target is absent fails with ErrUnresolvedReference; the lenient default
// resolves it to an empty schema.
func NewResolver(doc *Document, strict bool) *Resolver {
	return &Resolver{doc: doc, strict: strict}
}

// Resolve walks the document through each segment of an internal pointer
// such as "#/components/schemas/Supplier" and returns the designated subtree.
func (r *Resolver) Resolve(ref string) (Schema, error) {
	parts := strings.Split(ref, "/")
	var current any = r.doc.raw
	for _, part := range parts[1:] { // skip the leading # marker
		m, ok := current.(map[string]any)
		if !ok {
			current = nil
			break
		}
		current = m[part]
	}

	if target, ok := current.(map[string]any); ok {
		return Schema(target), nil
	}
	if r.strict {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, ref)
	}
	return Schema{}, nil
}

// ResolveSchema returns the schema itself, or its pointer target when the
// schema is a $ref wrapper.
func (r *Resolver) ResolveSchema(s Schema) (Schema, error) {
	if ref := s.Ref(); ref != "" {
		return r.Resolve(ref)
	}
	return s, nil
}
