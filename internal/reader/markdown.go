package reader

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/scenecut/internal/book"
)

// MarkdownReader handles Markdown sources using goldmark. Each level-1
// heading starts a new item (the chapter-file equivalent); thematic breaks
// map to explicit break elements.
type MarkdownReader struct{}

func (p *MarkdownReader) Read(r io.Reader, filename string) (book.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return book.Document{}, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := book.Document{
		SourceFile: filepath.Base(filename),
		Title:      baseTitle(filename),
	}

	var current []book.Element
	flush := func() {
		if len(current) == 0 {
			return
		}
		doc.Items = append(doc.Items, book.Item{
			ID:       fmt.Sprintf("md-%04d", len(doc.Items)+1),
			Elements: current,
		})
		current = nil
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 {
				flush()
			}
			if node.Level <= 3 {
				current = append(current, book.Element{
					Kind:  book.KindHeading,
					Level: node.Level,
					Text:  extractText(n, src),
				})
			}
		case *ast.ThematicBreak:
			current = append(current, book.Element{Kind: book.KindBreak})
		default:
			if t := extractText(n, src); t != "" {
				current = append(current, book.Element{Kind: book.KindParagraph, Text: t})
			}
		}
	}
	flush()

	return doc, nil
}

// extractText gets the text content of a goldmark AST node. Blocks carrying
// source lines use those directly; container blocks recurse into children.
func extractText(n ast.Node, src []byte) string {
	if t, ok := n.(*ast.Text); ok {
		return string(t.Value(src))
	}
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t := extractText(c, src)
		if t == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(t)
	}
	return strings.TrimSpace(buf.String())
}
