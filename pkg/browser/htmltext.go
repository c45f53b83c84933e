package browser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Elements whose subtrees carry no readable content.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"iframe":   true,
	"svg":      true,
	"head":     true,
}

// Elements that introduce a line break around their content.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"header": true, "footer": true, "main": true, "aside": true,
	"ul": true, "ol": true, "li": true, "table": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "form": true, "br": true,
}

// extractText parses rawHTML and returns its readable text, dropping
// scripts, styles and other non-content subtrees. Block elements become
// line breaks so the output keeps a rough document shape. maxLength
// truncates the result when positive, with a note about how much was
// dropped.
func extractText(rawHTML string, maxLength int) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var b strings.Builder
	collectText(doc, &b)
	text := collapseBlankLines(b.String())

	if maxLength > 0 && len(text) > maxLength {
		total := len(text)
		// Back off to a rune boundary so the cut never splits a
		// multibyte character.
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + fmt.Sprintf("\n\n[truncated: %d of %d characters shown]", cut, total)
	}
	return text, nil
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if skippedElements[tag] {
			return
		}
		if blockElements[tag] {
			b.WriteString("\n")
		}
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text != "" {
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString(" ")
			}
			b.WriteString(text)
		}
		return
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, b)
	}
}

// collapseBlankLines trims each line and squeezes runs of blank lines
// down to one.
func collapseBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
