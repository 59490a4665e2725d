package normalisers

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLNormaliser extracts readable text from HTML and XHTML pages.
// Script, style and head content is dropped; block elements end a line.
type HTMLNormaliser struct{}

func (n *HTMLNormaliser) Normalise(content string, mimeType string) string {
	z := html.NewTokenizer(strings.NewReader(content))

	var (
		b    strings.Builder
		skip int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return tidyText(b.String())
		case html.StartTagToken:
			tag, _ := z.TagName()
			a := atom.Lookup(tag)
			if isSkipped(a) {
				skip++
			} else if isBlock(a) {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			tag, _ := z.TagName()
			a := atom.Lookup(tag)
			if isSkipped(a) && skip > 0 {
				skip--
			} else if isBlock(a) {
				b.WriteByte('\n')
			}
		case html.SelfClosingTagToken:
			tag, _ := z.TagName()
			if isBlock(atom.Lookup(tag)) {
				b.WriteByte('\n')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func (n *HTMLNormaliser) SupportedTypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

func (n *HTMLNormaliser) Priority() int {
	return 50
}

func isSkipped(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Head, atom.Noscript, atom.Template:
		return true
	}
	return false
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Br, atom.Li, atom.Tr, atom.Table, atom.Section, atom.Article,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Hr, atom.Blockquote, atom.Pre:
		return true
	}
	return false
}

// tidyText collapses runs of spaces within lines and drops blank lines
func tidyText(s string) string {
	lines := strings.Split(normaliseLineEndings(s), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
