package sitebuilder

import (
	"encoding/xml"
	"fmt"

	"github.com/go-i2p/weblog/config"
	"github.com/go-i2p/weblog/content"
	"github.com/go-i2p/weblog/locale"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap renders a urlset with the home and blog index of every locale
// followed by the listed posts. Posts without a valid date carry no lastmod.
func Sitemap(site config.Site, locales locale.Set, listings []*content.Listing) (string, error) {
	set := sitemapURLSet{XMLNS: sitemapNS}
	for _, loc := range locales.Locales() {
		set.URLs = append(set.URLs,
			sitemapURL{Loc: site.Link(locales.LocalizedPath("/", loc))},
			sitemapURL{Loc: site.Link(locales.LocalizedPath("/blog", loc))},
		)
	}
	for _, listing := range listings {
		for _, p := range listing.Posts {
			u := sitemapURL{Loc: site.Link(p.URL)}
			if t, err := p.Time(); err == nil {
				u.LastMod = t.Format("2006-01-02")
			}
			set.URLs = append(set.URLs, u)
		}
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", fmt.Errorf("Sitemap: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}
