package chat

import (
	"html"
	"strings"
)

// RenderBasicMarkdown converts a message's text to HTML, supporting only
// **bold** spans. Everything else is escaped literally and line breaks are
// preserved as <br>.
func RenderBasicMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = renderBold(line)
	}
	return strings.Join(lines, "<br>")
}

func renderBold(line string) string {
	var b strings.Builder
	for {
		start := strings.Index(line, "**")
		if start < 0 {
			break
		}
		rest := line[start+2:]
		end := strings.Index(rest, "**")
		if end <= 0 {
			break
		}
		b.WriteString(html.EscapeString(line[:start]))
		b.WriteString("<strong>")
		b.WriteString(html.EscapeString(rest[:end]))
		b.WriteString("</strong>")
		line = rest[end+2:]
	}
	b.WriteString(html.EscapeString(line))
	return b.String()
}
