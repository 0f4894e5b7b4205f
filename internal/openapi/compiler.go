package openapi

import (
	"fmt"
	"sort"
	"strings"
)

// catalogMethods is the fixed method iteration order for catalog compilation.
var catalogMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

// CompileOptions control which operations become tools and how they are named.
type CompileOptions struct {
	// IncludeAll exposes every operation. When false, only operations whose
	// operationId or path appears in Include are compiled.
	IncludeAll bool
	Include    []string
	// Exclude always wins over inclusion.
	Exclude []string

	SnakeCaseNames  bool
	SimplifiedNames bool
	Prefix          string

	// StrictRefs makes an unresolvable $ref a fatal compile error instead of
	// the lenient empty-schema fallback.
	StrictRefs bool
}

// ParameterSpec describes one declared parameter of a tool.
type ParameterSpec struct {
	Name        string `json:"name"`
	In          string `json:"in"` // path, query, header
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
	Schema      Schema `json:"schema,omitempty"`
}

// PropertySpec describes one first-level request body property.
type PropertySpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
}

// RequestBodySpec describes a tool's JSON request body, flattened one level
// deep. Nested object properties are not expanded.
type RequestBodySpec struct {
	Required    bool           `json:"required"`
	Description string         `json:"description,omitempty"`
	Schema      Schema         `json:"schema,omitempty"`
	Properties  []PropertySpec `json:"properties"`
}

// ToolDefinition is one named, typed, invocable operation compiled from an
// API endpoint. Immutable once compiled.
type ToolDefinition struct {
	Name           string           `json:"name"`
	Method         string           `json:"method"`
	Path           string           `json:"path"`
	Parameters     []ParameterSpec  `json:"parameters"`
	RequestBody    *RequestBodySpec `json:"request_body,omitempty"`
	ResponseSchema Schema           `json:"response_schema,omitempty"`
	Tags           []string         `json:"tags,omitempty"`
	Description    string           `json:"description,omitempty"`
}

// Compile walks every retained path+method pair of doc and produces one
// ToolDefinition per operation. Compilation errors are fatal: an incomplete
// catalog is unsafe to serve.
func Compile(doc *Document, opts CompileOptions) ([]ToolDefinition, error) {
	resolver := NewResolver(doc, opts.StrictRefs)

	paths := make([]string, 0, len(doc.Paths))
	for path := range doc.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var tools []ToolDefinition
	used := make(map[string]bool)

	for _, path := range paths {
		item := doc.Paths[path]
		for _, method := range catalogMethods {
			op := item.Operation(method)
			if op == nil {
				continue
			}
			if !included(op.OperationID, path, opts) {
				continue
			}

			tool, err := compileOperation(resolver, path, method, op, opts)
			if err != nil {
				return nil, fmt.Errorf("compile %s %s: %w", method, path, err)
			}
			tool.Name = disambiguate(tool.Name, used)
			used[tool.Name] = true
			tools = append(tools, tool)
		}
	}

	return tools, nil
}

// included applies the inclusion policy: allow-list matches by operationId or
// raw path, deny-list always overrides.
func included(operationID, path string, opts CompileOptions) bool {
	if !opts.IncludeAll {
		if !matchesAny(operationID, path, opts.Include) {
			return false
		}
	}
	return !matchesAny(operationID, path, opts.Exclude)
}

func matchesAny(operationID, path string, entries []string) bool {
	for _, entry := range entries {
		if entry != "" && (entry == operationID || entry == path) {
			return true
		}
	}
	return false
}

func compileOperation(resolver *Resolver, path, method string, op *Operation, opts CompileOptions) (ToolDefinition, error) {
	name := rawToolName(path, method, op)
	if opts.SnakeCaseNames {
		name = ToSnakeCase(name)
	}
	if opts.SimplifiedNames {
		name = SimplifyName(name)
	}
	if opts.Prefix != "" {
		name = opts.Prefix + name
	}

	body, err := extractRequestBody(resolver, op)
	if err != nil {
		return ToolDefinition{}, err
	}
	response, err := extractResponseSchema(resolver, op)
	if err != nil {
		return ToolDefinition{}, err
	}

	return ToolDefinition{
		Name:           name,
		Method:         method,
		Path:           path,
		Parameters:     extractParameters(op),
		RequestBody:    body,
		ResponseSchema: response,
		Tags:           op.Tags,
		Description:    describeOperation(op),
	}, nil
}

// rawToolName uses the declared operation identifier when present, otherwise
// synthesizes method_path with slashes and dashes folded to underscores.
func rawToolName(path, method string, op *Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	folded := strings.ReplaceAll(path, "/", "_")
	folded = strings.ReplaceAll(folded, "-", "_")
	folded = strings.Trim(folded, "_")
	return strings.ToLower(method) + "_" + folded
}

// disambiguate appends a deterministic numeric suffix when a compiled name
// collides with an earlier one, so no definition silently overwrites another.
func disambiguate(name string, used map[string]bool) string {
	if !used[name] {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", name, n)
		if !used[candidate] {
			return candidate
		}
	}
}

// extractParameters copies declared parameters with their location, required
// flag, and raw schema. No resolution happens at this stage.
func extractParameters(op *Operation) []ParameterSpec {
	specs := make([]ParameterSpec, 0, len(op.Parameters))
	for _, p := range op.Parameters {
		specs = append(specs, ParameterSpec{
			Name:        p.Name,
			In:          p.In,
			Required:    p.Required,
			Description: p.Description,
			Schema:      p.Schema,
		})
	}
	return specs
}

// extractRequestBody takes the JSON-flavored body schema, resolves a
// top-level pointer, and flattens first-level properties.
func extractRequestBody(resolver *Resolver, op *Operation) (*RequestBodySpec, error) {
	if op.RequestBody == nil {
		return nil, nil
	}

	schema := op.RequestBody.Content["application/json"].Schema
	schema, err := resolver.ResolveSchema(schema)
	if err != nil {
		return nil, err
	}

	props, err := extractProperties(resolver, schema)
	if err != nil {
		return nil, err
	}

	return &RequestBodySpec{
		Required:    op.RequestBody.Required,
		Description: op.RequestBody.Description,
		Schema:      schema,
		Properties:  props,
	}, nil
}

func extractProperties(resolver *Resolver, schema Schema) ([]PropertySpec, error) {
	required := make(map[string]bool)
	for _, name := range schema.RequiredProperties() {
		required[name] = true
	}

	raw := schema.Properties()
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make([]PropertySpec, 0, len(names))
	for _, name := range names {
		prop, err := resolver.ResolveSchema(raw[name])
		if err != nil {
			return nil, err
		}
		props = append(props, PropertySpec{
			Name:        name,
			Type:        prop.Type(),
			Description: prop.Description(),
			Required:    required[name],
			Default:     prop.Default(),
			Enum:        prop.Enum(),
		})
	}
	return props, nil
}

// extractResponseSchema takes the first JSON-flavored schema among success
// status codes in the fixed preference order 200, 201, 204.
func extractResponseSchema(resolver *Resolver, op *Operation) (Schema, error) {
	for _, status := range []string{"200", "201", "204"} {
		response, ok := op.Responses[status]
		if !ok {
			continue
		}
		schema := response.Content["application/json"].Schema
		return resolver.ResolveSchema(schema)
	}
	return nil, nil
}

// describeOperation joins summary and long description with a blank line.
func describeOperation(op *Operation) string {
	if op.Description == "" {
		return op.Summary
	}
	return strings.TrimSpace(op.Summary + "\n\n" + op.Description)
}
