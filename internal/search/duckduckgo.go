package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmalhotra/valet/internal/httpkit"
)

const defaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo implements Provider by scraping the DuckDuckGo HTML
// results page. This is a lightweight fallback, not a search API:
// result extraction depends on the page's CSS class names and caps out
// at a handful of results.
type DuckDuckGo struct {
	baseURL    string
	httpClient *http.Client
}

// NewDuckDuckGo creates a DuckDuckGo provider.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		baseURL: defaultDuckDuckGoURL,
		httpClient: httpkit.NewClient(
			httpkit.WithTimeout(10 * time.Second),
		),
	}
}

// Name implements Provider.
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search implements Provider.
func (d *DuckDuckGo) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	count := opts.Count
	if count <= 0 {
		count = 5
	}

	params := url.Values{"q": {query}}
	reqURL := d.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: build request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := httpkit.ReadErrorBody(resp.Body, 512)
		return nil, fmt.Errorf("duckduckgo: HTTP %d: %s", resp.StatusCode, body)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parse page: %w", err)
	}

	results := extractResults(doc, count)
	return results, nil
}

// extractResults walks the parsed page collecting result links. Each
// organic result renders as <a class="result__a" href="...">title</a>,
// with an optional sibling carrying class "result__snippet".
func extractResults(doc *html.Node, limit int) []Result {
	var results []Result

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(results) >= limit {
			return
		}

		if n.Type == html.ElementNode && n.DataAtom == atom.A && hasClass(n, "result__a") {
			href := attrValue(n, "href")
			title := strings.TrimSpace(textContent(n))
			if href != "" && title != "" {
				results = append(results, Result{
					Title: title,
					URL:   cleanResultURL(href),
				})
			}
			return
		}

		if n.Type == html.ElementNode && hasClass(n, "result__snippet") && len(results) > 0 {
			if snippet := strings.TrimSpace(textContent(n)); snippet != "" && results[len(results)-1].Snippet == "" {
				results[len(results)-1].Snippet = snippet
			}
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return results
}

// cleanResultURL unwraps DuckDuckGo's redirect links, which carry the
// destination in a uddg query parameter.
func cleanResultURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if dest := u.Query().Get("uddg"); dest != "" {
		if unescaped, err := url.QueryUnescape(dest); err == nil {
			return unescaped
		}
		return dest
	}
	return href
}

// hasClass reports whether an element node carries the given CSS class.
func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent returns the concatenated text of all children.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
