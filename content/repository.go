package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-i2p/weblog/locale"
	"github.com/go-i2p/weblog/logger"
)

// DefaultExtension is the content file extension recognized when no other
// extensions are configured.
const DefaultExtension = ".mdx"

// Repository enumerates posts under Root/<locale>. A missing locale directory
// is an empty partition, which lets a site ship partial translations.
type Repository struct {
	Root       string
	Extensions []string
	Locales    locale.Set
	Logger     logger.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithExtensions replaces the recognized content extensions. Each extension
// must include the leading dot. The first one wins when GetPost finds the
// same slug under several extensions.
func WithExtensions(exts ...string) Option {
	return func(r *Repository) {
		r.Extensions = nil
		for _, e := range exts {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			r.Extensions = append(r.Extensions, e)
		}
	}
}

// WithLogger sets the logger used for skipped files and missing directories.
func WithLogger(l logger.Logger) Option {
	return func(r *Repository) { r.Logger = l }
}

// NewRepository returns a Repository rooted at root.
func NewRepository(root string, locales locale.Set, opts ...Option) *Repository {
	r := &Repository{
		Root:       root,
		Extensions: []string{DefaultExtension},
		Locales:    locales,
	}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.Extensions) == 0 {
		r.Extensions = []string{DefaultExtension}
	}
	return r
}

// Skip records a content file that could not be turned into a Post.
type Skip struct {
	File   string `json:"file"`
	Slug   string `json:"slug"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// Listing is the result of reading one locale partition.
type Listing struct {
	Locale string `json:"locale"`
	// Posts holds the published posts, newest first.
	Posts []Post `json:"posts"`
	// Hidden holds the slugs of posts marked published: false.
	Hidden []string `json:"hidden,omitempty"`
	// Skipped holds the files that failed to parse.
	Skipped []Skip `json:"skipped,omitempty"`
}

// Param is one (locale, slug) pair a static build must produce a page for.
type Param struct {
	Locale string `json:"locale"`
	Slug   string `json:"slug"`
}

func (r *Repository) log() logger.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return logger.Log
}

// Dir returns the content directory of loc.
func (r *Repository) Dir(loc string) string {
	return filepath.Join(r.Root, loc)
}

func (r *Repository) recognized(name string) (slug string, ok bool) {
	ext := filepath.Ext(name)
	for _, e := range r.Extensions {
		if ext == e {
			return strings.TrimSuffix(name, ext), true
		}
	}
	return "", false
}

// List reads every content file directly inside the locale directory. Files
// that fail to parse are recorded in Skipped and logged; they never abort the
// listing. Only a directory that exists but cannot be read is an error.
//
// Posts are ordered by date, newest first. Posts whose date does not parse
// come after all dated posts. Ties keep file name order.
func (r *Repository) List(loc string) (*Listing, error) {
	if !r.Locales.Supported(loc) {
		return nil, fmt.Errorf("List: %w: %q", ErrUnsupportedLocale, loc)
	}
	listing := &Listing{Locale: loc, Posts: []Post{}}
	dir := r.Dir(loc)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.WarnWithFields(r.log(), "locale content directory missing", logger.Fields{
				"locale": loc,
				"dir":    dir,
			})
			return listing, nil
		}
		return nil, fmt.Errorf("List: %w", err)
	}

	type dated struct {
		post  Post
		t     time.Time
		valid bool
	}
	var items []dated
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		slug, ok := r.recognized(e.Name())
		if !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		post, err := ParseOne(path, slug, loc, r.Locales)
		if err != nil {
			listing.Skipped = append(listing.Skipped, Skip{File: path, Slug: slug, Reason: err.Error(), Err: err})
			logger.ErrorWithFields(r.log(), "skipping content file", logger.Fields{
				"locale": loc,
				"file":   path,
				"error":  err.Error(),
			})
			continue
		}
		if !post.Published {
			listing.Hidden = append(listing.Hidden, slug)
			continue
		}
		t, err := post.Time()
		items = append(items, dated{post: post, t: t, valid: err == nil})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.valid != b.valid {
			return a.valid
		}
		return a.valid && a.t.After(b.t)
	})
	for _, it := range items {
		listing.Posts = append(listing.Posts, it.post)
	}
	return listing, nil
}

// ListPosts returns the published posts of loc, newest first.
func (r *Repository) ListPosts(loc string) ([]Post, error) {
	listing, err := r.List(loc)
	if err != nil {
		return nil, err
	}
	return listing.Posts, nil
}

// GetPost reads <slug><ext> from the locale directory. It reports false when
// the file is missing or malformed, when slug is not a single path segment,
// or when loc is unsupported.
//
// Unpublished posts are returned so drafts can be previewed by direct link;
// use GetPublishedPost to apply the listing visibility rule.
func (r *Repository) GetPost(slug, loc string) (Post, bool) {
	if !validSlug(slug) || !r.Locales.Supported(loc) {
		return Post{}, false
	}
	for _, ext := range r.Extensions {
		path := filepath.Join(r.Dir(loc), slug+ext)
		post, err := ParseOne(path, slug, loc, r.Locales)
		if err == nil {
			return post, true
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		logger.ErrorWithFields(r.log(), "content file unreadable", logger.Fields{
			"locale": loc,
			"file":   path,
			"error":  err.Error(),
		})
		return Post{}, false
	}
	return Post{}, false
}

// GetPublishedPost is GetPost restricted to published posts.
func (r *Repository) GetPublishedPost(slug, loc string) (Post, bool) {
	post, ok := r.GetPost(slug, loc)
	if !ok || !post.Published {
		return Post{}, false
	}
	return post, true
}

// Params lists every published (locale, slug) pair across the locale set.
func (r *Repository) Params() ([]Param, error) {
	var params []Param
	for _, loc := range r.Locales.Locales() {
		posts, err := r.ListPosts(loc)
		if err != nil {
			return nil, fmt.Errorf("Params: %w", err)
		}
		for _, p := range posts {
			params = append(params, Param{Locale: loc, Slug: p.Slug})
		}
	}
	return params, nil
}

func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	return !strings.ContainsAny(slug, `/\`) && !strings.ContainsRune(slug, 0)
}
