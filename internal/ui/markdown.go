package ui

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in post bodies is dropped and unsafe link schemes are blanked:
// the renderer runs without html.WithUnsafe.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown converts a post body to HTML for the post page.
func renderMarkdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(content) + "</p>")
	}
	return template.HTML(buf.String())
}
