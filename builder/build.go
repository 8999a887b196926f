// Package sitebuilder writes every artifact a static deployment of the blog
// needs: the three feed serializations, a sitemap, one JSON index per locale
// and a manifest describing the build.
package sitebuilder

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/go-i2p/weblog/config"
	"github.com/go-i2p/weblog/content"
	"github.com/go-i2p/weblog/feed"
	"github.com/go-i2p/weblog/locale"
	"github.com/go-i2p/weblog/logger"
	"github.com/go-i2p/weblog/render"
)

// IndexFile is the per-locale index written under <out>/<locale>/.
const IndexFile = "posts.json"

// ManifestFile and SitemapFile are written at the root of the output.
const (
	ManifestFile = "manifest.json"
	SitemapFile  = "sitemap.xml"
)

type SiteBuilder struct {
	Site    config.Site
	Repo    *content.Repository
	Locales locale.Set
	Feed    *feed.Synthesizer
	Now     func() time.Time
	Logger  logger.Logger
}

// Builder wires a SiteBuilder over repo with a feed synthesizer sharing the
// same site metadata and clock.
func Builder(site config.Site, repo *content.Repository, locales locale.Set) *SiteBuilder {
	sb := &SiteBuilder{
		Site:    site,
		Repo:    repo,
		Locales: locales,
		Feed:    feed.New(site, repo, locales),
		Now:     time.Now,
	}
	sb.Feed.Now = func() time.Time { return sb.Now() }
	return sb
}

// IndexPost is a post as it appears in a locale index.
type IndexPost struct {
	content.Post
	HTML string           `json:"html"`
	TOC  []render.Heading `json:"toc"`
}

// Index is the JSON document written for each locale.
type Index struct {
	Locale    string          `json:"locale"`
	Generated time.Time       `json:"generated"`
	Posts     []IndexPost     `json:"posts"`
	Featured  []string        `json:"featured"`
	Tags      []content.Count `json:"tags"`
	Years     []content.Count `json:"years"`
	Months    []content.Count `json:"months"`
	Hidden    []string        `json:"hidden,omitempty"`
	Skipped   []content.Skip  `json:"skipped,omitempty"`
}

// LocaleReport summarizes one locale of a build.
type LocaleReport struct {
	Posts   int `json:"posts"`
	Hidden  int `json:"hidden"`
	Skipped int `json:"skipped"`
}

// Report is the manifest of a build.
type Report struct {
	BuildID string                  `json:"buildId"`
	Time    time.Time               `json:"time"`
	Site    string                  `json:"site"`
	Files   []string                `json:"files"`
	Locales map[string]LocaleReport `json:"locales"`
}

func (sb *SiteBuilder) log() logger.Logger {
	if sb.Logger != nil {
		return sb.Logger
	}
	return logger.Log
}

// Build writes all artifacts into outDir, creating it if needed. Skipped
// content files are reported, not fatal; a failure to list a locale or to
// write a file aborts the build.
func (sb *SiteBuilder) Build(outDir string) (*Report, error) {
	now := sb.Now().UTC()
	report := &Report{
		BuildID: uuid.NewString(),
		Time:    now,
		Site:    sb.Site.URL,
		Locales: map[string]LocaleReport{},
	}

	doc, err := sb.Feed.Build()
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	for _, f := range feed.Formats() {
		out, err := doc.Render(f)
		if err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
		if err := sb.write(report, outDir, f.Path(), []byte(out)); err != nil {
			return nil, err
		}
	}

	var listings []*content.Listing
	for _, loc := range sb.Locales.Locales() {
		listing, err := sb.Repo.List(loc)
		if err != nil {
			return nil, fmt.Errorf("Build: %w", err)
		}
		listings = append(listings, listing)
		index, err := json.MarshalIndent(sb.index(listing, now), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("Build: index %s: %w", loc, err)
		}
		if err := sb.write(report, outDir, filepath.Join(loc, IndexFile), index); err != nil {
			return nil, err
		}
		report.Locales[loc] = LocaleReport{
			Posts:   len(listing.Posts),
			Hidden:  len(listing.Hidden),
			Skipped: len(listing.Skipped),
		}
	}

	sitemap, err := Sitemap(sb.Site, sb.Locales, listings)
	if err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	if err := sb.write(report, outDir, SitemapFile, []byte(sitemap)); err != nil {
		return nil, err
	}

	report.Files = append(report.Files, ManifestFile)
	manifest, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("Build: manifest: %w", err)
	}
	if err := writeFile(filepath.Join(outDir, ManifestFile), manifest); err != nil {
		return nil, err
	}
	logger.InfoWithFields(sb.log(), "build complete", logger.Fields{
		"build_id": report.BuildID,
		"out":      outDir,
		"files":    len(report.Files),
	})
	return report, nil
}

func (sb *SiteBuilder) index(listing *content.Listing, now time.Time) Index {
	idx := Index{
		Locale:    listing.Locale,
		Generated: now,
		Posts:     make([]IndexPost, 0, len(listing.Posts)),
		Featured:  []string{},
		Tags:      content.TagCounts(listing.Posts),
		Years:     content.YearCounts(listing.Posts),
		Months:    content.MonthCounts(listing.Posts),
		Hidden:    listing.Hidden,
		Skipped:   listing.Skipped,
	}
	for _, p := range listing.Posts {
		doc := render.Render(p.Content)
		idx.Posts = append(idx.Posts, IndexPost{Post: p, HTML: render.Pretty(doc.HTML), TOC: doc.TOC})
	}
	for _, p := range content.Featured(listing.Posts) {
		idx.Featured = append(idx.Featured, p.Slug)
	}
	return idx
}

func (sb *SiteBuilder) write(report *Report, outDir, rel string, data []byte) error {
	rel = filepath.Clean(filepath.FromSlash(rel))
	rel = filepath.Join(".", rel)
	if err := writeFile(filepath.Join(outDir, rel), data); err != nil {
		return err
	}
	report.Files = append(report.Files, filepath.ToSlash(rel))
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writeFile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writeFile: %w", err)
	}
	return nil
}
