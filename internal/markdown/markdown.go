// Package markdown renders article and page bodies to HTML with goldmark.
//
// Raw HTML embedded in markdown is dropped (goldmark's default), so the output can
// be placed into a page without further escaping.
package markdown

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is a section heading found in a document.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Document is a rendered markdown body plus facts derived from its AST.
type Document struct {
	HTML      string
	Headings  []Heading
	WordCount int
}

// Renderer wraps a configured goldmark instance. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a renderer with GitHub-flavored extensions and heading ids.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts src to HTML and collects its headings and word count.
func (r *Renderer) Render(src string) (Document, error) {
	source := []byte(src)
	root := r.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, root); err != nil {
		return Document{}, err
	}

	doc := Document{HTML: buf.String()}
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Heading:
			h := Heading{Level: node.Level, Text: nodeText(node, source)}
			if id, ok := node.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					h.ID = string(b)
				}
			}
			doc.Headings = append(doc.Headings, h)
		case *gmast.Text:
			doc.WordCount += countWords(node.Segment.Value(source))
		}
		return gmast.WalkContinue, nil
	})
	return doc, nil
}

func nodeText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*gmast.Text); ok {
				b.Write(t.Segment.Value(source))
			}
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}

func countWords(b []byte) int {
	n := 0
	inWord := false
	for _, r := range string(b) {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			n++
		}
		inWord = true
	}
	return n
}
