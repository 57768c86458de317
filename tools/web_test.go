package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

const ddgFixture = `
<div class="results">
  <div class="result">
    <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Flearn.microsoft.com%2Fpowershell&amp;rut=abc">PowerShell Documentation</a>
  </div>
  <div class="result">
    <a rel="nofollow" class="result__a" href="https://example.com/direct">Direct Link Result</a>
  </div>
  <div class="result">
    <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgithub.com%2Fdataplat%2Fdbatools&amp;rut=def">dbatools on GitHub</a>
  </div>
</div>
`

func TestParseSearchResults(t *testing.T) {
	results := ParseSearchResults(ddgFixture, 5)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %v", len(results), results)
	}

	if results[0] != "1. PowerShell Documentation\n   https://learn.microsoft.com/powershell\n" {
		t.Errorf("redirect-wrapped URL not decoded: %q", results[0])
	}
	if results[1] != "2. Direct Link Result\n   https://example.com/direct\n" {
		t.Errorf("direct URL mishandled: %q", results[1])
	}
	if !strings.Contains(results[2], "https://github.com/dataplat/dbatools") {
		t.Errorf("third result URL wrong: %q", results[2])
	}
}

func TestParseSearchResultsMaxResults(t *testing.T) {
	results := ParseSearchResults(ddgFixture, 2)
	if len(results) != 2 {
		t.Fatalf("expected cap at 2 results, got %d", len(results))
	}
	if !strings.HasPrefix(results[1], "2. ") {
		t.Errorf("results should stay numbered from 1: %q", results[1])
	}
}

func TestParseSearchResultsEmptyPage(t *testing.T) {
	if results := ParseSearchResults("<html><body>no matches here</body></html>", 5); len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}

func TestFetchURLContentTruncatesOnRuneBoundary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("é", 3000)))
	}))
	defer server.Close()

	res, err := fetchURLContent(context.Background(), map[string]any{"url": server.URL})
	if err != nil {
		t.Fatalf("fetchURLContent: %v", err)
	}

	if !utf8.ValidString(res.RawData) {
		t.Error("truncated content must remain valid UTF-8")
	}
	if !strings.HasSuffix(res.RawData, "...") {
		t.Errorf("long content should end with ellipsis: %q", res.RawData[len(res.RawData)-12:])
	}
	if got := utf8.RuneCountInString(res.RawData); got != 2003 {
		t.Errorf("rune count = %d, want 2000 content runes plus ellipsis", got)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "tags become spaces",
			in:   "<p>Hello</p><p>world</p>",
			want: "Hello world",
		},
		{
			name: "scripts dropped",
			in:   "before <script>var x = 1;\nalert(x);</script> after",
			want: "before after",
		},
		{
			name: "styles dropped",
			in:   "<style type=\"text/css\">body { color: red; }</style>visible",
			want: "visible",
		},
		{
			name: "whitespace collapsed",
			in:   "  a \n\n  b\t\tc  ",
			want: "a b c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
