package openapi

import (
	"regexp"
	"strings"
)

// Generator-produced operation identifiers routinely embed the HTTP verb and
// repeat the resource noun (a route segment and its parameter both carrying
// "supplier"). The simplifier collapses those into short, stable names a
// consumer can memorize without re-reading the catalog.

var (
	camelBoundary = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	lowerToUpper  = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	apiToken      = regexp.MustCompile(`_api_`)
	methodSuffix  = regexp.MustCompile(`_(get|post|put|patch|delete)$`)
	byQualifier   = regexp.MustCompile(`^(get|create|update|delete|approve|reject|list|query)_(.+?)_by_[a-z0-9_]+$`)
	multiDelim    = regexp.MustCompile(`_+`)
)

// actionVerbs are the leading verbs stripped when probing for redundancy.
var actionVerbs = []string{"approve", "create", "delete", "get", "list", "query", "reject", "update"}

// ToSnakeCase converts a CamelCase or kebab-case identifier to snake_case.
// Names already in lowercase snake_case pass through unchanged.
func ToSnakeCase(name string) string {
	if strings.Contains(name, "_") && name == strings.ToLower(name) {
		return name
	}
	s := camelBoundary.ReplaceAllString(name, "${1}_${2}")
	s = lowerToUpper.ReplaceAllString(s, "${1}_${2}")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, "__", "_")
}

// SimplifyName collapses a verbose snake_case operation name into a short
// catalog identifier. Applying it to an already-simplified name returns the
// name unchanged.
func SimplifyName(name string) string {
	// Trailing HTTP-method token and interior api segment carry no meaning
	// once the method lives on the tool definition itself.
	name = methodSuffix.ReplaceAllString(name, "")
	name = apiToken.ReplaceAllString(name, "_")

	// verb_noun_by_qualifier reduces to the bare noun: the qualifier is
	// already a declared path parameter and the verb is the HTTP method.
	if m := byQualifier.FindStringSubmatch(name); m != nil {
		name = m[2]
	}

	name = collapseRedundancy(name)

	name = multiDelim.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// collapseRedundancy scans split points of a delimited name for the point
// where the suffix merely restates the prefix's resource noun, and keeps the
// prefix. Handles generated identifiers like
// get_supplier_detail_suppliers__supplier_id -> get_supplier_detail.
func collapseRedundancy(name string) string {
	parts := strings.Split(name, "_")

	for i := 2; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], "_")
		suffix := strings.Join(parts[i:], "_")

		bare := prefix
		for _, verb := range actionVerbs {
			if strings.HasPrefix(prefix, verb+"_") {
				bare = prefix[len(verb)+1:]
				break
			}
		}
		if bare == "" {
			continue
		}

		firstWord := bare
		if idx := strings.Index(bare, "_"); idx >= 0 {
			firstWord = bare[:idx]
		}
		// Suffix restates the resource noun (singular or pluralized)...
		if strings.HasPrefix(suffix, firstWord+"s_") || strings.HasPrefix(suffix, firstWord+"_") {
			return prefix
		}
		// ...or restates the whole bare prefix.
		if strings.HasPrefix(suffix, bare) {
			return prefix
		}
	}

	return name
}
