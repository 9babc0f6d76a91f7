package telegram

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Flatten strips markdown structure from the model's output and returns a
// plain-text rendition suitable for a sendMessage call without a parse mode:
// headings and emphasis lose their markers, list items keep a dash, links
// keep their text.
func Flatten(markdown string) string {
	src := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch v := n.(type) {
		case *ast.Text:
			if entering {
				sb.Write(v.Segment.Value(src))
				if v.SoftLineBreak() || v.HardLineBreak() {
					sb.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				sb.Write(v.Value)
			}
		case *ast.AutoLink:
			if entering {
				sb.Write(v.URL(src))
			}
		case *ast.Paragraph, *ast.Heading:
			if !entering {
				sb.WriteString("\n\n")
			}
		case *ast.ListItem:
			if entering {
				sb.WriteString("- ")
			} else {
				sb.WriteByte('\n')
			}
		case *ast.List:
			if !entering {
				sb.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(sb.String())
}
