package reader

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"

	"github.com/dgallion1/scenecut/internal/book"
)

// EPUBReader handles EPUB containers. Spine items are walked in reading
// order; non-document items (images, stylesheets) are skipped.
type EPUBReader struct{}

func (p *EPUBReader) Read(r io.Reader, filename string) (book.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return book.Document{}, fmt.Errorf("read epub: %w", err)
	}

	rc, err := epub.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return book.Document{}, fmt.Errorf("open epub: %w", err)
	}
	if len(rc.Rootfiles) == 0 {
		return book.Document{}, fmt.Errorf("no rootfiles found in epub")
	}
	rf := rc.Rootfiles[0]

	doc := book.Document{
		SourceFile: filepath.Base(filename),
		Title:      strings.TrimSpace(rf.Title),
	}
	if doc.Title == "" {
		doc.Title = baseTitle(filename)
	}

	for _, ref := range rf.Spine.Itemrefs {
		if ref.Item == nil || !isDocumentItem(ref.Item.MediaType) {
			continue
		}
		ir, err := ref.Item.Open()
		if err != nil {
			// A single unreadable spine item never aborts the run.
			continue
		}
		content, err := io.ReadAll(ir)
		ir.Close()
		if err != nil {
			continue
		}

		elements, err := parseItemElements(content)
		if err != nil || len(elements) == 0 {
			continue
		}

		id := ref.Item.ID
		if id == "" {
			id = ref.Item.HREF
		}
		doc.Items = append(doc.Items, book.Item{ID: id, Elements: elements})
	}

	return doc, nil
}

func isDocumentItem(mediaType string) bool {
	switch mediaType {
	case "application/xhtml+xml", "text/html":
		return true
	}
	return false
}

// parseItemElements flattens an XHTML item into the closed element kinds the
// segmenter dispatches on.
func parseItemElements(content []byte) ([]book.Element, error) {
	node, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse xhtml: %w", err)
	}

	var elements []book.Element
	root := findBody(node)
	if root == nil {
		root = node
	}
	collectElements(root, &elements)
	return elements, nil
}

func collectElements(n *html.Node, out *[]book.Element) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "h1", "h2", "h3":
			*out = append(*out, book.Element{
				Kind:  book.KindHeading,
				Level: int(n.Data[1] - '0'),
				Text:  textContent(n),
			})
			return
		case "p":
			*out = append(*out, book.Element{Kind: book.KindParagraph, Text: textContent(n)})
			return
		case "hr":
			*out = append(*out, book.Element{Kind: book.KindBreak})
			return
		case "div", "section", "blockquote":
			// Only leaf containers act as text blocks; containers with
			// block children are recursed into instead, so nested text
			// is not emitted twice.
			if !hasBlockChild(n) {
				if t := textContent(n); t != "" {
					*out = append(*out, book.Element{Kind: book.KindDivision, Text: t})
				}
				return
			}
		case "script", "style", "head", "nav", "header", "footer":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectElements(c, out)
	}
}

var blockTags = map[string]bool{
	"p": true, "div": true, "section": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "hr": true,
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && blockTags[c.Data] {
			return true
		}
		if hasBlockChild(c) {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
