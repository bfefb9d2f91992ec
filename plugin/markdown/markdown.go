// Package markdown renders journal note markdown down to plain text so the
// analytics layer matches trigger words against what the user actually wrote,
// not against syntax like headings, emphasis markers, or link targets.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Service converts note markdown into derived forms.
type Service interface {
	// PlainText strips markdown syntax and returns the readable text with
	// whitespace collapsed to single spaces.
	PlainText(source string) string
}

type service struct {
	md goldmark.Markdown
}

// NewService creates a markdown service with GFM extensions enabled.
func NewService() Service {
	return &service{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

func (s *service) PlainText(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}

	src := []byte(source)
	doc := s.md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		// Block boundaries become spaces so adjacent blocks never fuse
		// into one token.
		if n.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.AutoLink:
			buf.Write(node.URL(src))
		case *ast.FencedCodeBlock:
			writeLines(&buf, src, node)
		case *ast.CodeBlock:
			writeLines(&buf, src, node)
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(buf.String()), " ")
}

func writeLines(buf *bytes.Buffer, src []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		buf.Write(lines.At(i).Value(src))
		buf.WriteByte(' ')
	}
}
