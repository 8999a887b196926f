package feed

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

const jsonFeedVersion = "https://jsonfeed.org/version/1"

type jsonFeed struct {
	Version     string      `json:"version"`
	Title       string      `json:"title"`
	HomePageURL string      `json:"home_page_url,omitempty"`
	FeedURL     string      `json:"feed_url,omitempty"`
	Description string      `json:"description,omitempty"`
	Icon        string      `json:"icon,omitempty"`
	Favicon     string      `json:"favicon,omitempty"`
	Author      *jsonAuthor `json:"author,omitempty"`
	Items       []jsonItem  `json:"items"`
}

type jsonAuthor struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

type jsonItem struct {
	ID            string      `json:"id"`
	URL           string      `json:"url,omitempty"`
	Title         string      `json:"title,omitempty"`
	ContentHTML   string      `json:"content_html,omitempty"`
	Summary       string      `json:"summary,omitempty"`
	DatePublished string      `json:"date_published,omitempty"`
	Author        *jsonAuthor `json:"author,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
}

func jsonAuthorOf(a Author) *jsonAuthor {
	if a.Name == "" {
		return nil
	}
	return &jsonAuthor{Name: a.Name, URL: a.Link}
}

// JSON1 serializes d as a JSON Feed version 1 document.
func (d *Document) JSON1() (string, error) {
	feed := jsonFeed{
		Version:     jsonFeedVersion,
		Title:       d.Title,
		HomePageURL: d.Link,
		FeedURL:     d.FeedLinks.JSON1,
		Description: d.Description,
		Icon:        d.Image,
		Favicon:     d.Favicon,
		Author:      jsonAuthorOf(d.Author),
		Items:       []jsonItem{},
	}
	for _, e := range d.Entries {
		item := jsonItem{
			ID:          e.ID,
			URL:         e.Link,
			Title:       e.Title,
			ContentHTML: e.Content,
			Summary:     e.Description,
			Author:      jsonAuthorOf(e.Author),
			Tags:        e.Categories,
		}
		if !e.Date.IsZero() {
			item.DatePublished = e.Date.Format(time.RFC3339)
		}
		feed.Items = append(feed.Items, item)
	}
	out, err := json.MarshalIndent(feed, "", "    ")
	if err != nil {
		return "", fmt.Errorf("JSON1: %w", err)
	}
	return string(out), nil
}
