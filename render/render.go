// Package render converts post bodies to sanitized HTML fragments and
// extracts their table of contents.
package render

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/anaskhan96/soup"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mozillazg/go-unidecode"
	"github.com/yosssi/gohtml"
	"gitlab.com/golang-commonmark/markdown"
	"golang.org/x/net/html"
)

var (
	md        = markdown.New(markdown.XHTMLOutput(true), markdown.HTML(true), markdown.Linkify(false))
	sanitizer = bluemonday.UGCPolicy()
	nonSlug   = regexp.MustCompile(`[^a-z0-9]+`)
)

// Heading is one entry of a post's table of contents.
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Document is a rendered post body.
type Document struct {
	HTML string    `json:"html"`
	TOC  []Heading `json:"toc"`
}

// Markdown renders body as HTML. Raw HTML and MDX component tags are passed
// through to Sanitize, which decides what survives.
func Markdown(body string) string {
	return md.RenderToString([]byte(body))
}

// Sanitize strips anything outside the user-generated-content policy.
func Sanitize(fragment string) string {
	return sanitizer.Sanitize(fragment)
}

// Render runs Markdown, Sanitize and WithAnchors in order.
func Render(body string) Document {
	out, toc := WithAnchors(Sanitize(Markdown(body)))
	return Document{HTML: out, TOC: toc}
}

// Pretty indents an HTML fragment for human-readable build output.
func Pretty(fragment string) string {
	return gohtml.Format(fragment)
}

// WithAnchors gives every h2 and h3 in fragment an id, keeping ids that are
// already present, and returns the rewritten fragment with the headings in
// document order. Generated ids are unique within the fragment.
func WithAnchors(fragment string) (string, []Heading) {
	if strings.TrimSpace(fragment) == "" {
		return fragment, nil
	}
	doc := soup.HTMLParse(fragment)
	if doc.Error != nil {
		return fragment, nil
	}
	body := doc.Find("body")
	if body.Error != nil {
		return fragment, nil
	}

	used := map[string]int{}
	var toc []Heading
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "h2" || c.Data == "h3") {
				toc = append(toc, anchor(c, used))
				continue
			}
			walk(c)
		}
	}
	walk(body.Pointer)

	var buf bytes.Buffer
	for c := body.Pointer.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return fragment, nil
		}
	}
	return buf.String(), toc
}

func anchor(n *html.Node, used map[string]int) Heading {
	text := strings.TrimSpace(soup.Root{Pointer: n, NodeValue: n.Data}.FullText())
	level := 2
	if n.Data == "h3" {
		level = 3
	}
	for _, a := range n.Attr {
		if a.Key == "id" && a.Val != "" {
			used[a.Val]++
			return Heading{Level: level, ID: a.Val, Text: text}
		}
	}
	base := Slugify(text)
	id := base
	for i := 1; used[id] > 0; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	used[id]++
	n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: id})
	return Heading{Level: level, ID: id, Text: text}
}

// Slugify transliterates text to ASCII and reduces it to lower-case words
// joined by hyphens. Text with nothing left yields "section".
func Slugify(text string) string {
	s := strings.ToLower(unidecode.Unidecode(text))
	s = strings.Trim(nonSlug.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return "section"
	}
	return s
}
