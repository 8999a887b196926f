// Package config holds the settings shared by the weblog commands. Values are
// populated by viper from flags, the config file and WEBLOG_* environment
// variables; field names match the lower-cased flag names.
package config

import (
	"fmt"
	"strings"
)

type Conf struct {
	ContentDir    string
	BuildDir      string
	Extensions    []string
	DefaultLocale string
	Locales       []string
	LogLevel      string `mapstructure:"log-level"`

	SiteName        string
	SiteDescription string
	SiteURL         string
	SiteImage       string
	AuthorName      string
	AuthorEmail     string

	Host      string
	Port      string
	I2P       bool
	SamAddr   string
	StatsFile string

	SignerId     string
	SigningKey   string
	KeystorePass string
	KeyPass      string
	VerifyCerts  []string

	// list filters
	Locale string
	Tag    string
}

// Site is the site-wide metadata that ends up in feeds and the sitemap.
type Site struct {
	Name        string
	Description string
	// URL is the absolute base URL without a trailing slash, including any
	// sub-path the site is mounted under.
	URL         string
	Image       string
	Favicon     string
	AuthorName  string
	AuthorEmail string
}

// SetDefaults fills empty fields with the values used by a fresh site.
func (s *Site) SetDefaults() {
	if s.Name == "" {
		s.Name = "Weblog"
	}
	if s.URL == "" {
		s.URL = "http://localhost:3000"
	}
	s.URL = strings.TrimRight(s.URL, "/")
	if s.Image == "" {
		s.Image = s.URL + "/images/og-image.png"
	}
	if s.Favicon == "" {
		s.Favicon = s.URL + "/favicon.ico"
	}
	if s.AuthorName == "" {
		s.AuthorName = "Admin"
	}
}

// Link joins the site URL with an absolute site path such as a post URL.
func (s Site) Link(path string) string {
	if path == "" || path == "/" {
		return s.URL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.URL + path
}

// Copyright returns the feed copyright line for year.
func (s Site) Copyright(year int) string {
	return fmt.Sprintf("© %d %s. All rights reserved.", year, s.AuthorName)
}

// Site extracts the site metadata from c with defaults applied.
func (c *Conf) Site() Site {
	s := Site{
		Name:        c.SiteName,
		Description: c.SiteDescription,
		URL:         c.SiteURL,
		Image:       c.SiteImage,
		AuthorName:  c.AuthorName,
		AuthorEmail: c.AuthorEmail,
	}
	s.SetDefaults()
	return s
}
