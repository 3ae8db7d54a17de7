package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/moamenalmahe/scrapv2-ui/internal/model"
)

// Parser extracts hyperlinks and downloadable assets from HTML content.
//
// Design decision: We use golang.org/x/net/html rather than regex or a
// query library because:
//  1. It tolerates the malformed HTML common on real sites
//  2. A single DOM walk collects links and assets in one pass
//  3. It is a well-maintained standard library extension
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative references.
	baseURL *url.URL
}

// ParseResult is everything the parser pulls out of one HTML document.
type ParseResult struct {
	// Title is the page title from the <title> tag.
	Title string

	// Links are the anchor targets in document order, resolved to
	// absolute form. Duplicates within one page are preserved; the
	// frontier deduplicates later.
	Links []string

	// Assets are images, stylesheets, and scripts referenced by the page.
	Assets []model.Asset
}

// NewParser creates a parser resolving relative references against baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse walks the HTML document and collects links and assets.
// Unparseable input yields an error; callers treat that as an empty
// result, not as a fetch failure.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			p.processElement(n, result)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return result, nil
}

// processElement collects data from a single element node.
func (p *Parser) processElement(n *html.Node, result *ParseResult) {
	switch n.Data {
	case "title":
		if result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			result.Title = strings.TrimSpace(n.FirstChild.Data)
		}

	case "a":
		if href := getAttr(n, "href"); href != "" {
			if resolved := p.resolveURL(href); resolved != "" {
				result.Links = append(result.Links, resolved)
			}
		}

	case "img":
		if src := getAttr(n, "src"); src != "" {
			if resolved := p.resolveURL(src); resolved != "" {
				result.Assets = append(result.Assets, model.Asset{URL: resolved, Kind: model.AssetImage})
			}
		}

	case "script":
		if src := getAttr(n, "src"); src != "" {
			if resolved := p.resolveURL(src); resolved != "" {
				result.Assets = append(result.Assets, model.Asset{URL: resolved, Kind: model.AssetScript})
			}
		}

	case "link":
		href := getAttr(n, "href")
		if href == "" {
			return
		}
		resolved := p.resolveURL(href)
		if resolved == "" {
			return
		}
		switch strings.ToLower(getAttr(n, "rel")) {
		case "stylesheet":
			result.Assets = append(result.Assets, model.Asset{URL: resolved, Kind: model.AssetStylesheet})
		case "icon", "shortcut icon":
			result.Assets = append(result.Assets, model.Asset{URL: resolved, Kind: model.AssetImage})
		}
	}
}

// resolveURL resolves href against the page URL and normalizes it.
// Fragments are dropped because they never change the fetched content.
// Non-fetchable schemes (javascript:, mailto:, tel:, data:) resolve to "".
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(href, prefix) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := p.baseURL.ResolveReference(u)
	resolved.Fragment = ""
	return resolved.String()
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
