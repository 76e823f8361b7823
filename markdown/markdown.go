// Package markdown renders post bodies to HTML as templ components.
package markdown

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
		extension.Strikethrough,
		extension.Footnote,
		extension.Typographer,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		// Post bodies are author-authored, inline HTML is trusted.
		htmlrenderer.WithUnsafe(),
	),
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return engine.Convert([]byte(md), w)
	})
}

// Render writes the HTML representation of md to buf.
func Render(buf *bytes.Buffer, md string) error {
	return engine.Convert([]byte(md), buf)
}

// Heading is one entry of a document outline.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Headings extracts the document outline (levels 2-3, the ones a table of
// contents shows) with the auto-generated heading anchors.
func Headings(md string) []Heading {
	src := []byte(md)
	reader := text.NewReader(src)
	doc := engine.Parser().Parse(reader)

	var out []Heading
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level < 2 || h.Level > 3 {
			return ast.WalkContinue, nil
		}
		var id string
		if v, found := h.AttributeString("id"); found {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		out = append(out, Heading{
			Level: h.Level,
			Text:  string(headingText(h, src)),
			ID:    id,
		})
		return ast.WalkSkipChildren, nil
	})
	return out
}

func headingText(h *ast.Heading, src []byte) []byte {
	var buf bytes.Buffer
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
		}
	}
	return buf.Bytes()
}
