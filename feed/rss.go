package feed

import (
	"encoding/xml"
	"fmt"
	"time"
)

type rssXML struct {
	XMLName      xml.Name   `xml:"rss"`
	Version      string     `xml:"version,attr"`
	XMLNSDC      string     `xml:"xmlns:dc,attr"`
	XMLNSContent string     `xml:"xmlns:content,attr"`
	XMLNSAtom    string     `xml:"xmlns:atom,attr"`
	Channel      rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Docs          string    `xml:"docs"`
	Generator     string    `xml:"generator"`
	Language      string    `xml:"language,omitempty"`
	Image         *rssImage `xml:"image,omitempty"`
	Copyright     string    `xml:"copyright,omitempty"`
	AtomLink      rssAtom   `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type rssImage struct {
	Title string `xml:"title"`
	URL   string `xml:"url"`
	Link  string `xml:"link"`
}

type rssAtom struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	PubDate     string   `xml:"pubDate,omitempty"`
	Description string   `xml:"description,omitempty"`
	Content     *cdata   `xml:"content:encoded,omitempty"`
	Author      string   `xml:"author,omitempty"`
	Creator     string   `xml:"dc:creator,omitempty"`
	Categories  []string `xml:"category"`
}

// RSS2 serializes d as an RSS 2.0 document. Entry content goes in
// content:encoded; each tag becomes one category element.
func (d *Document) RSS2() (string, error) {
	ch := rssChannel{
		Title:         d.Title,
		Link:          d.Link,
		Description:   d.Description,
		LastBuildDate: d.Updated.Format(time.RFC1123Z),
		Docs:          "https://validator.w3.org/feed/docs/rss2.html",
		Generator:     Generator,
		Language:      d.Language,
		Copyright:     d.Copyright,
		AtomLink:      rssAtom{Href: d.FeedLinks.RSS2, Rel: "self", Type: "application/rss+xml"},
	}
	if d.Image != "" {
		ch.Image = &rssImage{Title: d.Title, URL: d.Image, Link: d.Link}
	}
	for _, e := range d.Entries {
		item := rssItem{
			Title:       e.Title,
			Link:        e.Link,
			GUID:        rssGUID{IsPermaLink: e.ID == e.Link, Value: e.ID},
			Description: e.Description,
			Creator:     e.Author.Name,
			Categories:  e.Categories,
		}
		if !e.Date.IsZero() {
			item.PubDate = e.Date.Format(time.RFC1123Z)
		}
		if e.Content != "" {
			item.Content = &cdata{Text: e.Content}
		}
		if e.Author.Email != "" {
			item.Author = fmt.Sprintf("%s (%s)", e.Author.Email, e.Author.Name)
		}
		ch.Items = append(ch.Items, item)
	}
	return marshalXML(rssXML{
		Version:      "2.0",
		XMLNSDC:      "http://purl.org/dc/elements/1.1/",
		XMLNSContent: "http://purl.org/rss/1.0/modules/content/",
		XMLNSAtom:    "http://www.w3.org/2005/Atom",
		Channel:      ch,
	})
}

func marshalXML(v any) (string, error) {
	out, err := xml.MarshalIndent(v, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshalXML: %w", err)
	}
	return xml.Header + string(out), nil
}
