package openapi

import (
	"errors"
	"reflect"
	"testing"
)

const procurementJSON = `{
  "openapi": "3.1.0",
  "info": {"title": "Procurement API", "version": "1.0.0"},
  "paths": {
    "/items/{id}": {
      "get": {
        "operationId": "getItemById",
        "summary": "Get one item",
        "tags": ["items"],
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/orders": {
      "post": {
        "operationId": "createOrder",
        "summary": "Create a purchase order",
        "description": "Creates an order and returns its identifier.",
        "tags": ["orders"],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/OrderCreate"}}}
        },
        "responses": {
          "201": {
            "description": "Created",
            "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Order"}}}
          }
        }
      },
      "get": {
        "operationId": "listOrders",
        "summary": "List purchase orders",
        "tags": ["orders"],
        "parameters": [
          {"name": "status", "in": "query", "required": false, "schema": {"type": "string"}},
          {"name": "X-Trace", "in": "header", "required": false, "schema": {"type": "string"}}
        ],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/health": {
      "get": {
        "summary": "Health probe",
        "responses": {"200": {"description": "OK"}}
      }
    }
  },
  "components": {
    "schemas": {
      "OrderCreate": {
        "type": "object",
        "required": ["supplier_name"],
        "properties": {
          "supplier_name": {"type": "string", "description": "Supplier to order from"},
          "quantity": {"type": "integer", "default": 1},
          "priority": {"type": "string", "enum": ["low", "high"]}
        }
      },
      "Order": {
        "type": "object",
        "properties": {"id": {"type": "string"}}
      }
    }
  }
}`

func defaultOptions() CompileOptions {
	return CompileOptions{
		IncludeAll:      true,
		SnakeCaseNames:  true,
		SimplifiedNames: true,
	}
}

func mustCompile(t *testing.T, raw string, opts CompileOptions) []ToolDefinition {
	t.Helper()
	doc, err := ParseDocument([]byte(raw))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	tools, err := Compile(doc, opts)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return tools
}

func findTool(t *testing.T, tools []ToolDefinition, name string) ToolDefinition {
	t.Helper()
	for _, tool := range tools {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %q not found in catalog: %v", name, toolNames(tools))
	return ToolDefinition{}
}

func toolNames(tools []ToolDefinition) []string {
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
	}
	return names
}

func TestCompile_SimplifiedNames(t *testing.T) {
	tools := mustCompile(t, procurementJSON, defaultOptions())

	// getItemById collapses to the bare resource noun
	item := findTool(t, tools, "item")
	if item.Method != "GET" || item.Path != "/items/{id}" {
		t.Errorf("unexpected binding for item: %s %s", item.Method, item.Path)
	}

	findTool(t, tools, "create_order")
	findTool(t, tools, "list_orders")
}

func TestCompile_SynthesizesNameWithoutOperationID(t *testing.T) {
	tools := mustCompile(t, procurementJSON, defaultOptions())

	// /health declares no operationId: name comes from method_path
	health := findTool(t, tools, "get_health")
	if health.Description != "Health probe" {
		t.Errorf("unexpected description %q", health.Description)
	}
}

func TestCompile_RequestBody(t *testing.T) {
	tools := mustCompile(t, procurementJSON, defaultOptions())
	order := findTool(t, tools, "create_order")

	if order.RequestBody == nil {
		t.Fatal("expected request body spec")
	}
	if !order.RequestBody.Required {
		t.Error("expected required request body")
	}

	props := make(map[string]PropertySpec)
	for _, p := range order.RequestBody.Properties {
		props[p.Name] = p
	}
	supplier, ok := props["supplier_name"]
	if !ok || !supplier.Required || supplier.Type != "string" {
		t.Errorf("unexpected supplier_name property %+v", supplier)
	}
	qty, ok := props["quantity"]
	if !ok || qty.Required || qty.Type != "integer" {
		t.Errorf("unexpected quantity property %+v", qty)
	}
	if qty.Default == nil {
		t.Error("expected quantity default to be carried")
	}
	if prio := props["priority"]; len(prio.Enum) != 2 {
		t.Errorf("expected priority enum of 2, got %v", prio.Enum)
	}
}

func TestCompile_ResponseSchemaPreference(t *testing.T) {
	tools := mustCompile(t, procurementJSON, defaultOptions())
	order := findTool(t, tools, "create_order")

	// 201 is the first success status present; its $ref must be resolved
	if order.ResponseSchema == nil {
		t.Fatal("expected response schema from 201")
	}
	if order.ResponseSchema.Type() != "object" {
		t.Errorf("unexpected response schema %v", order.ResponseSchema)
	}
}

func TestCompile_ParameterLocations(t *testing.T) {
	tools := mustCompile(t, procurementJSON, defaultOptions())
	list := findTool(t, tools, "list_orders")

	locations := make(map[string]string)
	for _, p := range list.Parameters {
		locations[p.Name] = p.In
	}
	if locations["status"] != "query" {
		t.Errorf("expected status in query, got %q", locations["status"])
	}
	// header parameters stay declared in the definition even though dispatch ignores them
	if locations["X-Trace"] != "header" {
		t.Errorf("expected X-Trace in header, got %q", locations["X-Trace"])
	}
}

func TestCompile_DescriptionJoin(t *testing.T) {
	tools := mustCompile(t, procurementJSON, defaultOptions())

	order := findTool(t, tools, "create_order")
	want := "Create a purchase order\n\nCreates an order and returns its identifier."
	if order.Description != want {
		t.Errorf("unexpected description %q", order.Description)
	}

	item := findTool(t, tools, "item")
	if item.Description != "Get one item" {
		t.Errorf("expected summary-only description, got %q", item.Description)
	}
}

func TestCompile_NoParamsNoBody(t *testing.T) {
	tools := mustCompile(t, procurementJSON, defaultOptions())
	health := findTool(t, tools, "get_health")

	if len(health.Parameters) != 0 {
		t.Errorf("expected no parameters, got %v", health.Parameters)
	}
	if health.RequestBody != nil {
		t.Errorf("expected no request body, got %+v", health.RequestBody)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	doc, err := ParseDocument([]byte(procurementJSON))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	first, err := Compile(doc, defaultOptions())
	if err != nil {
		t.Fatalf("first Compile failed: %v", err)
	}
	second, err := Compile(doc, defaultOptions())
	if err != nil {
		t.Fatalf("second Compile failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("compiling the same document twice produced different catalogs")
	}
}

func TestCompile_InclusionPolicy(t *testing.T) {
	opts := defaultOptions()
	opts.IncludeAll = false
	opts.Include = []string{"createOrder", "/health"}

	tools := mustCompile(t, procurementJSON, opts)
	if len(tools) != 2 {
		t.Fatalf("expected 2 tools, got %v", toolNames(tools))
	}
	findTool(t, tools, "create_order")
	findTool(t, tools, "get_health")
}

func TestCompile_ExcludeWins(t *testing.T) {
	opts := defaultOptions()
	opts.IncludeAll = false
	opts.Include = []string{"createOrder"}
	opts.Exclude = []string{"createOrder"}

	tools := mustCompile(t, procurementJSON, opts)
	if len(tools) != 0 {
		t.Errorf("deny list must override inclusion, got %v", toolNames(tools))
	}
}

func TestCompile_Prefix(t *testing.T) {
	opts := defaultOptions()
	opts.Prefix = "erp_"

	tools := mustCompile(t, procurementJSON, opts)
	findTool(t, tools, "erp_item")
	findTool(t, tools, "erp_create_order")
}

func TestCompile_CollisionDisambiguation(t *testing.T) {
	const colliding = `{
      "openapi": "3.1.0",
      "info": {"title": "t", "version": "1"},
      "paths": {
        "/a/items/{id}": {
          "get": {"operationId": "getItemById", "responses": {"200": {"description": "OK"}}}
        },
        "/b/items/{id}": {
          "get": {"operationId": "getItemById", "responses": {"200": {"description": "OK"}}}
        },
        "/c/items/{id}": {
          "get": {"operationId": "getItemById", "responses": {"200": {"description": "OK"}}}
        }
      }
    }`

	tools := mustCompile(t, colliding, defaultOptions())
	got := toolNames(tools)
	want := []string{"item", "item_2", "item_3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected deterministic disambiguation %v, got %v", want, got)
	}
}

func TestCompile_UniqueNames(t *testing.T) {
	tools := mustCompile(t, procurementJSON, defaultOptions())

	seen := make(map[string]bool)
	for _, tool := range tools {
		if seen[tool.Name] {
			t.Errorf("duplicate tool name %q", tool.Name)
		}
		seen[tool.Name] = true
	}
}

func TestCompile_StrictRefsFatal(t *testing.T) {
	const broken = `{
      "openapi": "3.1.0",
      "info": {"title": "t", "version": "1"},
      "paths": {
        "/orders": {
          "post": {
            "operationId": "createOrder",
            "requestBody": {
              "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Missing"}}}
            },
            "responses": {"200": {"description": "OK"}}
          }
        }
      }
    }`

	doc, err := ParseDocument([]byte(broken))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	opts := defaultOptions()
	opts.StrictRefs = true
	if _, err := Compile(doc, opts); !errors.Is(err, ErrUnresolvedReference) {
		t.Errorf("expected ErrUnresolvedReference, got %v", err)
	}

	// Lenient mode compiles the same document with an empty body schema
	opts.StrictRefs = false
	tools, err := Compile(doc, opts)
	if err != nil {
		t.Fatalf("lenient Compile failed: %v", err)
	}
	order := findTool(t, tools, "create_order")
	if order.RequestBody == nil || len(order.RequestBody.Properties) != 0 {
		t.Errorf("expected empty body properties, got %+v", order.RequestBody)
	}
}
