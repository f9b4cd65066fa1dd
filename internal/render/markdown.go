// Package render converts stored markdown bodies to HTML for read responses.
package render

import (
	"gitlab.com/golang-commonmark/markdown"
)

var parser = markdown.New(markdown.HTML(true), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

// HTML renders a markdown source string to HTML
func HTML(src string) string {
	return parser.RenderToString([]byte(src))
}
