package http

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// markdown renders assistant answers. Raw HTML in the source is dropped,
// since answers come from a remote model.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Table),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// renderMarkdown converts text to HTML. On failure the text is returned
// escaped inside a paragraph.
func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
	}
	return template.HTML(buf.String())
}

// answerHTML renders an assistant answer, reusing earlier conversions.
func (s *Server) answerHTML(text string) template.HTML {
	if h, ok := s.rendered.Get(text); ok {
		return h
	}
	h := renderMarkdown(text)
	s.rendered.Set(text, h)
	return h
}
