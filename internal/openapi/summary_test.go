package openapi

import (
	"strings"
	"testing"
)

func TestSummarize_GroupsByTag(t *testing.T) {
	tools := []ToolDefinition{
		{Name: "list_suppliers", Method: "GET", Tags: []string{"suppliers"}, Description: "List suppliers"},
		{Name: "supplier", Method: "GET", Tags: []string{"suppliers"}, Description: "Get one supplier\n\nFull detail."},
		{Name: "create_order", Method: "POST", Tags: []string{"orders"}, Description: "Create a purchase order"},
	}

	text := Summarize(tools)

	if !strings.Contains(text, "### suppliers") {
		t.Errorf("missing suppliers group:\n%s", text)
	}
	if !strings.Contains(text, "### orders") {
		t.Errorf("missing orders group:\n%s", text)
	}
	if !strings.Contains(text, "- `list_suppliers` (GET): List suppliers") {
		t.Errorf("missing list_suppliers line:\n%s", text)
	}
	if !strings.Contains(text, "- `create_order` (POST): Create a purchase order") {
		t.Errorf("missing create_order line:\n%s", text)
	}

	// Groups appear in first-seen order
	if strings.Index(text, "### suppliers") > strings.Index(text, "### orders") {
		t.Errorf("group order not first-seen:\n%s", text)
	}
}

func TestSummarize_FirstDescriptionLineOnly(t *testing.T) {
	tools := []ToolDefinition{
		{Name: "supplier", Method: "GET", Tags: []string{"suppliers"}, Description: "Get one supplier\n\nFull detail."},
	}

	text := Summarize(tools)

	if !strings.Contains(text, "- `supplier` (GET): Get one supplier") {
		t.Errorf("missing supplier line:\n%s", text)
	}
	if strings.Contains(text, "Full detail.") {
		t.Errorf("long description must not leak into the summary:\n%s", text)
	}
}

func TestSummarize_UntaggedFallsBackToMisc(t *testing.T) {
	tools := []ToolDefinition{
		{Name: "get_health", Method: "GET", Description: "Health probe"},
	}

	text := Summarize(tools)

	if !strings.Contains(text, "### misc") {
		t.Errorf("untagged tool must land in misc:\n%s", text)
	}
	if !strings.Contains(text, "- `get_health` (GET): Health probe") {
		t.Errorf("missing get_health line:\n%s", text)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if text := Summarize(nil); text != "" {
		t.Errorf("expected empty summary for empty catalog, got %q", text)
	}
}
