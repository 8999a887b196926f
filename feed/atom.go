package feed

import (
	"encoding/xml"
	"time"
)

type atomXML struct {
	XMLName   xml.Name    `xml:"feed"`
	XMLNS     string      `xml:"xmlns,attr"`
	Lang      string      `xml:"xml:lang,attr,omitempty"`
	ID        string      `xml:"id"`
	Title     string      `xml:"title"`
	Updated   string      `xml:"updated"`
	Generator string      `xml:"generator"`
	Author    *atomPerson `xml:"author,omitempty"`
	Links     []atomLink  `xml:"link"`
	Subtitle  string      `xml:"subtitle,omitempty"`
	Logo      string      `xml:"logo,omitempty"`
	Icon      string      `xml:"icon,omitempty"`
	Rights    string      `xml:"rights,omitempty"`
	Entries   []atomEntry `xml:"entry"`
}

type atomPerson struct {
	Name  string `xml:"name"`
	Email string `xml:"email,omitempty"`
	URI   string `xml:"uri,omitempty"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type atomText struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomEntry struct {
	Title      atomText       `xml:"title"`
	ID         string         `xml:"id"`
	Links      []atomLink     `xml:"link"`
	Updated    string         `xml:"updated"`
	Published  string         `xml:"published,omitempty"`
	Summary    *atomText      `xml:"summary,omitempty"`
	Content    *atomText      `xml:"content,omitempty"`
	Author     *atomPerson    `xml:"author,omitempty"`
	Categories []atomCategory `xml:"category"`
}

func atomPersonOf(a Author) *atomPerson {
	if a.Name == "" {
		return nil
	}
	return &atomPerson{Name: a.Name, Email: a.Email, URI: a.Link}
}

// Atom1 serializes d as an Atom 1.0 document. Entries without a valid date
// carry the feed's updated time, since Atom requires one.
func (d *Document) Atom1() (string, error) {
	updated := d.Updated.Format(time.RFC3339)
	feed := atomXML{
		XMLNS:     "http://www.w3.org/2005/Atom",
		Lang:      d.Language,
		ID:        d.ID,
		Title:     d.Title,
		Updated:   updated,
		Generator: Generator,
		Author:    atomPersonOf(d.Author),
		Links: []atomLink{
			{Href: d.Link, Rel: "alternate"},
			{Href: d.FeedLinks.Atom1, Rel: "self", Type: "application/atom+xml"},
		},
		Subtitle: d.Description,
		Logo:     d.Image,
		Icon:     d.Favicon,
		Rights:   d.Copyright,
	}
	for _, e := range d.Entries {
		entry := atomEntry{
			Title:   atomText{Type: "html", Value: e.Title},
			ID:      e.ID,
			Links:   []atomLink{{Href: e.Link, Rel: "alternate"}},
			Updated: updated,
			Author:  atomPersonOf(e.Author),
		}
		if !e.Date.IsZero() {
			entry.Updated = e.Date.Format(time.RFC3339)
			entry.Published = entry.Updated
		}
		if e.Description != "" {
			entry.Summary = &atomText{Type: "html", Value: e.Description}
		}
		if e.Content != "" {
			entry.Content = &atomText{Type: "html", Value: e.Content}
		}
		for _, c := range e.Categories {
			entry.Categories = append(entry.Categories, atomCategory{Term: c})
		}
		feed.Entries = append(feed.Entries, entry)
	}
	return marshalXML(feed)
}
