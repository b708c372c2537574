package ingest

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// tags whose whole subtree never carries statutory text
var droppedTags = map[string]bool{
	"script": true,
	"style":  true,
	"header": true,
	"footer": true,
	"nav":    true,
	// revoked text is struck through in the source pages
	"del":    true,
	"strike": true,
	"s":      true,
}

var textBlockTags = map[string]bool{
	"p": true, "div": true,
	"h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true,
}

// ExtractText pulls the visible statutory text out of a law page. Scripts,
// styles, page chrome and struck-through (revoked) passages are removed
// before extraction. The content root is the first <main> element, falling
// back to <body>; without either the page has no content and the result is
// the empty string.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	pruneDropped(doc)

	root := findElement(doc, "main")
	if root == nil {
		root = findElement(doc, "body")
	}
	if root == nil {
		return "", nil
	}

	var parts []string
	collectBlocks(root, &parts)
	text := strings.Join(parts, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), nil
}

// ExtractFile reads and extracts one corpus file. Unreadable or unparsable
// files yield an empty string so a single bad page never aborts a full
// corpus rebuild.
func ExtractFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	text, err := ExtractText(f)
	if err != nil {
		return ""
	}
	return text
}

func pruneDropped(n *html.Node) {
	var next *html.Node
	for child := n.FirstChild; child != nil; child = next {
		next = child.NextSibling
		if child.Type == html.ElementNode && droppedTags[child.Data] {
			n.RemoveChild(child)
			continue
		}
		pruneDropped(child)
	}
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// collectBlocks appends the text of every paragraph/div/heading element
// under root, in document order. Nested blocks contribute their own text
// again, matching the flattening the corpus was originally built with.
func collectBlocks(root *html.Node, parts *[]string) {
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && textBlockTags[child.Data] {
			if text := elementText(child); text != "" {
				*parts = append(*parts, text)
			}
		}
		collectBlocks(child, parts)
	}
}

func elementText(n *html.Node) string {
	var pieces []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if trimmed := strings.TrimSpace(node.Data); trimmed != "" {
				pieces = append(pieces, trimmed)
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(pieces, " ")
}
