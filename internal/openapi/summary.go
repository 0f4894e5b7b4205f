package openapi

import (
	"fmt"
	"strings"
)

// fallbackTag groups tools that declare no tags of their own.
const fallbackTag = "misc"

// Summarize renders the catalog as tag-grouped text, one line per tool, for
// briefing a consumer once per session. Pure function of the catalog; groups
// appear in first-seen order.
func Summarize(tools []ToolDefinition) string {
	var order []string
	groups := make(map[string][]ToolDefinition)

	for _, tool := range tools {
		tags := tool.Tags
		if len(tags) == 0 {
			tags = []string{fallbackTag}
		}
		for _, tag := range tags {
			if _, seen := groups[tag]; !seen {
				order = append(order, tag)
			}
			groups[tag] = append(groups[tag], tool)
		}
	}

	var lines []string
	for _, tag := range order {
		lines = append(lines, fmt.Sprintf("\n### %s", tag))
		for _, tool := range groups[tag] {
			desc := tool.Description
			if idx := strings.IndexByte(desc, '\n'); idx >= 0 {
				desc = desc[:idx]
			}
			lines = append(lines, fmt.Sprintf("- `%s` (%s): %s", tool.Name, tool.Method, desc))
		}
	}

	return strings.Join(lines, "\n")
}
