package corpus

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FlattenMarkdown strips markdown structure from a guideline body and
// returns plain prose, with block boundaries preserved as newlines. Chunks
// built from a markdown body then read the same as chunks built from a
// plain-text body.
func FlattenMarkdown(content []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(content))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		boundary := func() {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			boundary()
		case *ast.Text:
			b.Write(node.Segment.Value(content))
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeBlock:
			boundary()
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				b.Write(line.Value(content))
			}
		case *ast.FencedCodeBlock:
			boundary()
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				b.Write(line.Value(content))
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}
