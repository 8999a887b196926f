// Package feed synthesizes the site's syndication document from the default
// locale's published posts and serializes it as RSS 2.0, Atom 1.0 or
// JSON Feed 1.
//
// Every Build reads the repository afresh; the output depends only on the
// post files, the site metadata and the clock passed in.
package feed

import (
	"fmt"
	"time"

	"github.com/go-i2p/weblog/config"
	"github.com/go-i2p/weblog/content"
	"github.com/go-i2p/weblog/locale"
	"github.com/go-i2p/weblog/render"
)

// CacheControl is the caching policy HTTP callers attach to feed responses.
const CacheControl = "public, s-maxage=1800, stale-while-revalidate=3600"

// Generator names this program in feed metadata.
const Generator = "weblog"

// Format is a feed serialization.
type Format string

const (
	RSS2  Format = "rss2"
	Atom1 Format = "atom1"
	JSON1 Format = "json1"
)

// Formats lists every supported serialization.
func Formats() []Format { return []Format{RSS2, Atom1, JSON1} }

// Path is the site path a format is published under.
func (f Format) Path() string {
	switch f {
	case RSS2:
		return "/rss.xml"
	case Atom1:
		return "/atom.xml"
	case JSON1:
		return "/rss.json"
	}
	return ""
}

// ContentType is the HTTP media type of a format.
func (f Format) ContentType() string {
	switch f {
	case RSS2:
		return "application/rss+xml; charset=utf-8"
	case Atom1:
		return "application/atom+xml; charset=utf-8"
	case JSON1:
		return "application/feed+json; charset=utf-8"
	}
	return "application/octet-stream"
}

// FormatForPath maps a site path such as "/atom.xml" back to its format.
func FormatForPath(path string) (Format, bool) {
	for _, f := range Formats() {
		if f.Path() == path {
			return f, true
		}
	}
	return "", false
}

// Author identifies a feed or entry author.
type Author struct {
	Name  string
	Email string
	Link  string
}

// Entry is one post in the feed.
type Entry struct {
	Title       string
	ID          string
	Link        string
	Description string
	// Content is the sanitized HTML of the post body.
	Content string
	Author  Author
	// Date is the parsed post date, zero when the post date is invalid.
	Date       time.Time
	Categories []string
}

// Links are the self-referencing URLs of each serialization.
type Links struct {
	RSS2  string
	Atom1 string
	JSON1 string
}

// Document is a format-neutral feed.
type Document struct {
	Title       string
	Description string
	ID          string
	Link        string
	Language    string
	Image       string
	Favicon     string
	Copyright   string
	Updated     time.Time
	FeedLinks   Links
	Author      Author
	Entries     []Entry
}

// Render serializes d in format f.
func (d *Document) Render(f Format) (string, error) {
	switch f {
	case RSS2:
		return d.RSS2()
	case Atom1:
		return d.Atom1()
	case JSON1:
		return d.JSON1()
	}
	return "", fmt.Errorf("Render: unknown feed format %q", f)
}

// PostLister is the part of content.Repository the synthesizer needs.
type PostLister interface {
	ListPosts(loc string) ([]content.Post, error)
}

// Synthesizer builds feed documents for one site.
type Synthesizer struct {
	Site config.Site
	Repo PostLister
	// Locale is the partition the feed is built from.
	Locale string
	// Now is the clock used for the updated timestamp and copyright year.
	Now func() time.Time
	// RenderHTML turns a post body into entry content.
	RenderHTML func(body string) string
}

// New returns a Synthesizer over the default locale of locales.
func New(site config.Site, repo PostLister, locales locale.Set) *Synthesizer {
	return &Synthesizer{
		Site:   site,
		Repo:   repo,
		Locale: locales.DefaultLocale(),
		Now:    time.Now,
		RenderHTML: func(body string) string {
			return render.Render(body).HTML
		},
	}
}

// Build lists the posts and assembles the document. A listing failure is
// returned unchanged in meaning; callers at the HTTP edge turn it into a 500.
func (s *Synthesizer) Build() (*Document, error) {
	posts, err := s.Repo.ListPosts(s.Locale)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	now := s.Now().UTC()
	site := s.Site
	doc := &Document{
		Title:       site.Name,
		Description: site.Description,
		ID:          site.URL,
		Link:        site.URL,
		Language:    s.Locale,
		Image:       site.Image,
		Favicon:     site.Favicon,
		Copyright:   site.Copyright(now.Year()),
		Updated:     now,
		FeedLinks: Links{
			RSS2:  site.Link(RSS2.Path()),
			Atom1: site.Link(Atom1.Path()),
			JSON1: site.Link(JSON1.Path()),
		},
		Author: Author{Name: site.AuthorName, Email: site.AuthorEmail, Link: site.URL},
	}
	for _, p := range posts {
		link := site.Link(p.URL)
		date, _ := p.Time()
		body := p.Content
		if s.RenderHTML != nil {
			body = s.RenderHTML(p.Content)
		}
		doc.Entries = append(doc.Entries, Entry{
			Title:       p.Title,
			ID:          link,
			Link:        link,
			Description: p.Description,
			Content:     body,
			Author:      Author{Name: p.Author, Email: site.AuthorEmail, Link: site.URL},
			Date:        date,
			Categories:  append([]string(nil), p.Tags...),
		})
	}
	return doc, nil
}
