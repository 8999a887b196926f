// Package content turns locale-partitioned front-matter markdown files into
// Post records.
//
// Each call reads the file system afresh; nothing is cached, and a Post is a
// plain value owned by whoever asked for it.
package content

import (
	"os"
	"strings"
	"time"

	"github.com/go-i2p/weblog/locale"
	"github.com/go-i2p/weblog/readingtime"
)

// DefaultAuthor is used when a post does not name an author.
const DefaultAuthor = "Admin"

// Post is one content file read under one locale.
type Post struct {
	Slug        string           `json:"slug"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	Published   bool             `json:"published"`
	Featured    bool             `json:"featured"`
	Tags        []string         `json:"tags"`
	Author      string           `json:"author"`
	Image       string           `json:"image,omitempty"`
	Content     string           `json:"content"`
	ReadingTime readingtime.Time `json:"readingTime"`
	URL         string           `json:"url"`
	Locale      string           `json:"locale"`
}

// Time parses the post date with ParseDate.
func (p Post) Time() (time.Time, error) {
	return ParseDate(p.Date)
}

// HasTag reports whether tag is among the post's tags.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// BlogPath is the canonical, unprefixed path of a post.
func BlogPath(slug string) string {
	return "/blog/" + slug
}

// ParseOne reads filePath and builds the Post for slug under loc. A missing
// or unreadable file yields a *ReadError; a broken header yields a
// *FrontMatterError.
func ParseOne(filePath, slug, loc string, locales locale.Set) (Post, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return Post{}, &ReadError{Path: filePath, Err: err}
	}
	header, body, err := splitFrontMatter(src)
	if err != nil {
		return Post{}, &FrontMatterError{Path: filePath, Err: err}
	}
	fm, err := decodeFrontMatter(header)
	if err != nil {
		return Post{}, &FrontMatterError{Path: filePath, Err: err}
	}
	return newPost(fm, string(body), slug, loc, locales), nil
}

// newPost maps front matter onto a Post field by field, applying defaults.
func newPost(fm frontMatter, body, slug, loc string, locales locale.Set) Post {
	description := fm.Description
	if description == "" {
		description = fm.Summary
	}
	author := strings.TrimSpace(fm.Author)
	if author == "" {
		author = DefaultAuthor
	}
	tags := make([]string, 0, len(fm.Tags))
	tags = append(tags, fm.Tags...)
	return Post{
		Slug:        slug,
		Title:       fm.Title,
		Description: description,
		Date:        strings.TrimSpace(fm.Date),
		Published:   fm.Published == nil || *fm.Published,
		Featured:    fm.Featured,
		Tags:        tags,
		Author:      author,
		Image:       fm.Image,
		Content:     body,
		ReadingTime: readingtime.Estimate(body),
		URL:         locales.LocalizedPath(BlogPath(slug), loc),
		Locale:      loc,
	}
}
