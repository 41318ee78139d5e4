package scrape

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page is the structured content of a scraped document.
type Page struct {
	URL       string    `json:"url,omitempty"`
	Title     string    `json:"title"`
	Links     []string  `json:"links"`
	Images    []string  `json:"images"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at,omitzero"`
}

// Extract parses document and returns its title, link targets, image
// sources and visible text. Text comes from <body> when there is one.
func Extract(document string) (*Page, error) {
	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("scrape: parse html: %w", err)
	}

	page := &Page{Links: []string{}, Images: []string{}}
	var body *html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if page.Title == "" && n.FirstChild != nil {
					page.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case atom.A:
				if href := attr(n, "href"); href != "" {
					page.Links = append(page.Links, href)
				}
			case atom.Img:
				if src := attr(n, "src"); src != "" {
					page.Images = append(page.Images, src)
				}
			case atom.Body:
				if body == nil {
					body = n
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	textRoot := root
	if body != nil {
		textRoot = body
	}
	page.Text = visibleText(textRoot)
	return page, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func visibleText(n *html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Head:
				return
			}
		}
		if n.Type == html.TextNode {
			if s := strings.Join(strings.Fields(n.Data), " "); s != "" {
				parts = append(parts, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
