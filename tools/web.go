package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Web tools used by the copilot daemon. Failures surface as result text so
// the conversation loop keeps going; the only hard timeout in the system is
// on these raw content fetches, never on model calls.

const fetchTimeout = 10 * time.Second

var searchResultRe = regexp.MustCompile(`<a[^>]+class="[^"]*result__a[^"]*"[^>]+href="([^"]+)"[^>]*>([^<]+)</a>`)
var ddgRedirectRe = regexp.MustCompile(`uddg=([^&]+)`)

var scriptRe = regexp.MustCompile(`(?s)<script[^>]*>.*?</script>`)
var styleRe = regexp.MustCompile(`(?s)<style[^>]*>.*?</style>`)
var tagRe = regexp.MustCompile(`<[^>]+>`)
var spaceRe = regexp.MustCompile(`\s+`)

// RegisterWeb registers the internet search and URL fetch tools.
func RegisterWeb(r *Registry) {
	r.Register(mcptypes.NewTool("search_web",
		mcptypes.WithDescription("Search the internet using DuckDuckGo for information, tools, or solutions."),
		mcptypes.WithString("query", mcptypes.Required(), mcptypes.Description("Search query")),
		mcptypes.WithNumber("maxResults", mcptypes.Description("Max results (default 5)")),
	), searchWeb)

	r.Register(mcptypes.NewTool("fetch_url_content",
		mcptypes.WithDescription("Fetch and parse content from a webpage URL."),
		mcptypes.WithString("url", mcptypes.Required(), mcptypes.Description("URL to fetch")),
	), fetchURLContent)
}

func searchWeb(ctx context.Context, args map[string]any) (*Result, error) {
	query := stringArg(args, "query")
	maxResults := intArg(args, "maxResults", 5)
	if maxResults <= 0 {
		maxResults = 5
	}

	searchURL := "https://html.duckduckgo.com/html/?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return textResult(fmt.Sprintf("Search failed: %v", err)), nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return textResult(fmt.Sprintf("Search failed: %v", err)), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return textResult(fmt.Sprintf("Search failed: %v", err)), nil
	}

	results := ParseSearchResults(string(body), maxResults)
	if len(results) == 0 {
		return textResult(fmt.Sprintf("No results found for: %s", query)), nil
	}

	output := fmt.Sprintf("Search results for '%s':\n\n%s", query, strings.Join(results, ""))
	return textResult(output), nil
}

// ParseSearchResults extracts numbered "title + URL" entries from a
// DuckDuckGo HTML result page, resolving the redirect wrapper around each
// link.
func ParseSearchResults(html string, maxResults int) []string {
	var results []string
	for _, match := range searchResultRe.FindAllStringSubmatch(html, -1) {
		if len(results) >= maxResults {
			break
		}
		rawURL := match[1]
		title := match[2]

		cleanURL := rawURL
		if m := ddgRedirectRe.FindStringSubmatch(rawURL); m != nil {
			if decoded, err := url.QueryUnescape(m[1]); err == nil {
				cleanURL = decoded
			}
		}

		results = append(results, fmt.Sprintf("%d. %s\n   %s\n", len(results)+1, title, cleanURL))
	}
	return results
}

func fetchURLContent(ctx context.Context, args map[string]any) (*Result, error) {
	target := stringArg(args, "url")

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return textResult(fmt.Sprintf("Failed to fetch URL: %v", err)), nil
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return textResult(fmt.Sprintf("Failed to fetch URL: %v", err)), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return textResult(fmt.Sprintf("Failed to fetch URL: %v", err)), nil
	}

	content := StripHTML(string(body))
	// Cut on a rune boundary so a multi-byte character is never split.
	if runes := []rune(content); len(runes) > 2000 {
		content = string(runes[:2000]) + "..."
	}

	return &Result{
		Display: Display{Text: fmt.Sprintf("Content from %s:\n%s", target, content)},
		RawData: content,
	}, nil
}

// StripHTML reduces a page to plain text: scripts and styles dropped, tags
// removed, whitespace collapsed.
func StripHTML(html string) string {
	content := scriptRe.ReplaceAllString(html, "")
	content = styleRe.ReplaceAllString(content, "")
	content = tagRe.ReplaceAllString(content, " ")
	content = spaceRe.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}

func textResult(text string) *Result {
	return &Result{
		Display: Display{Text: text},
		RawData: text,
	}
}
