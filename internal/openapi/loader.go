package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/apibridge/apibridge/internal/cache"
	"github.com/apibridge/apibridge/internal/common"
)

// maxDocumentSize caps a fetched description document (10MB).
const maxDocumentSize = 10 << 20

// ErrDocumentNotFound is returned when docs-page discovery exhausts every
// strategy without locating a description document.
var ErrDocumentNotFound = errors.New("API description document not found")

// specURLPatterns match document URLs embedded in Swagger UI / ReDoc pages.
var specURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)url:\s*["']([^"']+)["']`),
	regexp.MustCompile(`(?i)"url"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`(?i)'url'\s*:\s*'([^']+)'`),
	regexp.MustCompile(`(?i)\{\s*url:\s*["']([^"']+)["']`),
	regexp.MustCompile(`(?i)spec-url\s*=\s*["']([^"']+)["']`),
}

// scriptSrcPattern matches external script references in a docs page.
var scriptSrcPattern = regexp.MustCompile(`(?i)<script[^>]+src\s*=\s*["']([^"']+)["'][^>]*>`)

// skippedScriptLibs are UI library bundles never worth scanning for spec URLs.
var skippedScriptLibs = []string{"swagger-ui-bundle", "swagger-ui-standalone", "jquery", "bootstrap"}

// commonEndpoints are conventional document paths probed as a last resort.
var commonEndpoints = []string{
	"/openapi.json",
	"/swagger.json",
	"/api/openapi.json",
	"/api/swagger.json",
	"/apidoc/v1",
	"/v1/openapi.json",
	"/v2/openapi.json",
	"/v3/openapi.json",
	"/api-docs",
	"/api-docs.json",
	"/docs/openapi.json",
}

var staticAssetExtensions = []string{".css", ".js", ".png", ".jpg", ".ico", ".svg", ".woff", ".ttf"}

var excludedURLPatterns = []string{"fonts.googleapis", "swagger-ui", "favicon"}

var preferredURLKeywords = []string{"openapi", "swagger", "api-docs", "apidoc", "/api/", "/v1/", "/v2/", "/v3/"}

// Loader obtains API description documents from a file, a direct document
// URL, or an HTML documentation page, caching parsed documents per source.
type Loader struct {
	client *http.Client
	cache  *cache.Cache
	logger *common.Logger
}

// NewLoader creates a Loader. timeout bounds every fetch; cacheTTL bounds
// how long a parsed document is reused for the same source.
func NewLoader(timeout, cacheTTL time.Duration, logger *common.Logger) *Loader {
	return &Loader{
		client: &http.Client{
			Timeout: timeout,
			// Discovery follows at most one redirect hop.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 2 {
					return errors.New("stopped after one redirect")
				}
				return nil
			},
		},
		cache:  cache.New(cacheTTL, 16),
		logger: logger,
	}
}

// Load obtains the description document for location: a local file path, a
// direct document URL, or an HTML documentation page URL.
func (l *Loader) Load(ctx context.Context, location string) (*Document, error) {
	if cached, ok := l.cache.Get(location); ok {
		if doc, ok := cached.(*Document); ok {
			l.logger.Debug().Str("source", location).Msg("description document served from cache")
			return doc, nil
		}
	}

	var doc *Document
	var err error
	if isURL(location) {
		doc, err = l.loadFromURL(ctx, location)
	} else {
		doc, err = l.loadFromFile(location)
	}
	if err != nil {
		return nil, err
	}

	l.cache.Set(location, doc)
	return doc, nil
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func (l *Loader) loadFromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("description document file %s: %w", path, err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("description document file %s: %w", path, err)
	}
	l.logger.Info().Str("source", path).Int("paths", len(doc.Paths)).Msg("description document loaded from file")
	return doc, nil
}

// loadFromURL fetches location and dispatches on its content type: JSON is
// parsed directly, HTML triggers docs-page discovery, anything else gets a
// best-effort parse.
func (l *Loader) loadFromURL(ctx context.Context, location string) (*Document, error) {
	body, contentType, err := l.fetch(ctx, location)
	if err != nil {
		return nil, err
	}

	if strings.Contains(contentType, "text/html") {
		return l.discoverFromDocsPage(ctx, location, string(body))
	}

	doc, err := ParseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("description document at %s: %w", location, err)
	}
	l.logger.Info().Str("source", location).Int("paths", len(doc.Paths)).Msg("description document loaded from URL")
	return doc, nil
}

// discoverFromDocsPage locates the actual document URL behind an HTML docs
// page. It tries, at most once each: inline-script patterns, externally
// linked non-library scripts, then the fixed candidate endpoint list.
func (l *Loader) discoverFromDocsPage(ctx context.Context, docsURL, html string) (*Document, error) {
	parsed, err := url.Parse(docsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid docs page URL %s: %w", docsURL, err)
	}
	base := parsed.Scheme + "://" + parsed.Host

	specURL := findSpecURLInContent(html)

	if specURL == "" {
		specURL = l.findSpecURLFromScripts(ctx, base, html)
	}

	if specURL == "" {
		if doc := l.tryCommonEndpoints(ctx, base); doc != nil {
			return doc, nil
		}
		return nil, fmt.Errorf("%w: exhausted inline patterns, linked scripts, and well-known endpoints under %s", ErrDocumentNotFound, base)
	}

	full := resolveAgainst(base, specURL)
	l.logger.Info().Str("docs_page", docsURL).Str("spec_url", full).Msg("description document URL discovered")

	body, _, err := l.fetch(ctx, full)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(body)
	if err != nil {
		return nil, fmt.Errorf("description document at %s: %w", full, err)
	}
	return doc, nil
}

// findSpecURLInContent scans page or script content for an embedded document URL.
func findSpecURLInContent(content string) string {
	for _, pattern := range specURLPatterns {
		for _, match := range pattern.FindAllStringSubmatch(content, -1) {
			if likelySpecURL(match[1]) {
				return match[1]
			}
		}
	}
	return ""
}

// likelySpecURL filters static assets and library URLs out of pattern matches.
func likelySpecURL(u string) bool {
	lower := strings.ToLower(u)

	for _, ext := range staticAssetExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	for _, pattern := range excludedURLPatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	for _, keyword := range preferredURLKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	// A root-relative path that isn't a static asset is worth trying.
	return strings.HasPrefix(u, "/")
}

// findSpecURLFromScripts fetches each non-library external script referenced
// by the page and scans it for an embedded document URL.
func (l *Loader) findSpecURLFromScripts(ctx context.Context, base, html string) string {
	for _, match := range scriptSrcPattern.FindAllStringSubmatch(html, -1) {
		src := match[1]
		if isLibraryScript(src) {
			continue
		}

		body, _, err := l.fetch(ctx, resolveAgainst(base, src))
		if err != nil {
			continue
		}
		if specURL := findSpecURLInContent(string(body)); specURL != "" {
			l.logger.Debug().Str("script", src).Msg("description document URL found in external script")
			return specURL
		}
	}
	return ""
}

func isLibraryScript(src string) bool {
	lower := strings.ToLower(src)
	for _, lib := range skippedScriptLibs {
		if strings.Contains(lower, lib) {
			return true
		}
	}
	return false
}

// tryCommonEndpoints probes the fixed candidate list under base and returns
// the first response that parses as an API description.
func (l *Loader) tryCommonEndpoints(ctx context.Context, base string) *Document {
	for _, endpoint := range commonEndpoints {
		body, _, err := l.fetch(ctx, base+endpoint)
		if err != nil {
			continue
		}
		doc, err := ParseDocument(body)
		if err != nil || !doc.IsAPIDocument() {
			continue
		}
		l.logger.Info().Str("endpoint", base+endpoint).Msg("description document found at well-known endpoint")
		return doc
	}
	return nil
}

// fetch performs one GET and returns body and content type. Connection
// failures and non-2xx statuses are both load errors here: during
// compilation every failure is fatal.
func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("cannot connect to %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response from %s: %w", rawURL, err)
	}

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("%s returned %d", rawURL, resp.StatusCode)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

// resolveAgainst resolves a possibly relative reference against a base URL.
func resolveAgainst(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
