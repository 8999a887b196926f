// Package siteserver serves the blog feeds, a read-only JSON API over the
// content repository and the static build directory.
package siteserver

import (
	"crypto/sha256"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"gitlab.com/golang-commonmark/markdown"

	"github.com/go-i2p/weblog/config"
	"github.com/go-i2p/weblog/content"
	"github.com/go-i2p/weblog/feed"
	"github.com/go-i2p/weblog/locale"
	"github.com/go-i2p/weblog/logger"
	feedstats "github.com/go-i2p/weblog/server/stats"
)

// statsGraphPath is rendered on demand and never exists in the build dir.
const statsGraphPath = "/stats.svg"

var feedErrors = map[feed.Format]string{
	feed.RSS2:  "Error generating RSS feed",
	feed.Atom1: "Error generating Atom feed",
	feed.JSON1: "Error generating JSON feed",
}

// SiteServer is an http.Handler. Feeds and API responses are built from the
// repository on every request; there is no cache.
type SiteServer struct {
	BuildDir string
	Repo     *content.Repository
	Locales  locale.Set
	Feed     *feed.Synthesizer
	Stats    *feedstats.FeedStats
	Logger   logger.Logger

	once   sync.Once
	router chi.Router
}

// Serve constructs a SiteServer and loads any persisted feed statistics
// from statsFile.
func Serve(buildDir, statsFile string, site config.Site, repo *content.Repository, locales locale.Set) *SiteServer {
	s := &SiteServer{
		BuildDir: buildDir,
		Repo:     repo,
		Locales:  locales,
		Feed:     feed.New(site, repo, locales),
		Stats:    feedstats.New(statsFile),
	}
	s.Stats.Load()
	return s
}

func (s *SiteServer) log() logger.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logger.Log
}

// Routes builds the router. ServeHTTP builds it once on first use.
func (s *SiteServer) Routes() chi.Router {
	r := chi.NewRouter()
	for _, f := range feed.Formats() {
		r.Get(f.Path(), s.serveFeed)
	}
	r.Get(statsGraphPath, s.serveGraph)
	r.Route("/api/{locale}", func(r chi.Router) {
		r.Get("/posts", s.listPosts)
		r.Get("/posts/{slug}", s.getPost)
		r.Get("/tags", s.listTags)
	})
	r.Get("/*", s.serveStatic)
	return r
}

// ServeHTTP implements http.Handler.
func (s *SiteServer) ServeHTTP(rw http.ResponseWriter, rq *http.Request) {
	s.once.Do(func() { s.router = s.Routes() })
	s.router.ServeHTTP(rw, rq)
}

func plainError(rw http.ResponseWriter, status int, msg string) {
	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	rw.WriteHeader(status)
	fmt.Fprintln(rw, msg)
}

func (s *SiteServer) serveFeed(rw http.ResponseWriter, rq *http.Request) {
	f, ok := feed.FormatForPath(rq.URL.Path)
	if !ok {
		plainError(rw, http.StatusNotFound, "Not Found")
		return
	}
	doc, err := s.Feed.Build()
	var out string
	if err == nil {
		out, err = doc.Render(f)
	}
	if err != nil {
		logger.ErrorWithFields(s.log(), "feed synthesis failed", logger.Fields{
			"format": string(f),
			"error":  err.Error(),
		})
		plainError(rw, http.StatusInternalServerError, feedErrors[f])
		return
	}
	if s.Stats != nil {
		s.Stats.Increment(string(f))
	}
	rw.Header().Set("Content-Type", f.ContentType())
	rw.Header().Set("Cache-Control", feed.CacheControl)
	io.WriteString(rw, out) //nolint:errcheck
}

// serveGraph buffers the render, so a failure still allows a 500.
func (s *SiteServer) serveGraph(rw http.ResponseWriter, rq *http.Request) {
	var buf strings.Builder
	if err := s.Stats.Graph(&buf); err != nil {
		s.log().Errorf("serveGraph: %v", err)
		plainError(rw, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	rw.Header().Set("Content-Type", "image/svg+xml")
	io.WriteString(rw, buf.String()) //nolint:errcheck
}

// PostsResponse is the body of GET /api/{locale}/posts.
type PostsResponse struct {
	Locale string         `json:"locale"`
	Filter content.Filter `json:"filter"`
	Posts  []content.Post `json:"posts"`
}

// TagsResponse is the body of GET /api/{locale}/tags.
type TagsResponse struct {
	Locale string          `json:"locale"`
	Tags   []content.Count `json:"tags"`
	Years  []content.Count `json:"years"`
	Months []content.Count `json:"months"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

// apiLocale resolves the {locale} parameter, writing a 404 when it is not
// one of the supported locales.
func (s *SiteServer) apiLocale(rw http.ResponseWriter, rq *http.Request) (string, bool) {
	loc, err := s.Locales.Parse(chi.URLParam(rq, "locale"))
	if err != nil {
		writeJSON(rw, http.StatusNotFound, errorResponse{Error: "unsupported locale"})
		return "", false
	}
	return loc, true
}

func (s *SiteServer) listing(rw http.ResponseWriter, loc string) ([]content.Post, bool) {
	posts, err := s.Repo.ListPosts(loc)
	if err != nil {
		s.log().Errorf("listing %s: %v", loc, err)
		writeJSON(rw, http.StatusInternalServerError, errorResponse{Error: "failed to list posts"})
		return nil, false
	}
	return posts, true
}

func (s *SiteServer) listPosts(rw http.ResponseWriter, rq *http.Request) {
	loc, ok := s.apiLocale(rw, rq)
	if !ok {
		return
	}
	q := rq.URL.Query()
	f := content.Filter{Tag: q.Get("tag"), Year: q.Get("year"), Month: q.Get("month")}
	posts, ok := s.listing(rw, loc)
	if !ok {
		return
	}
	posts = f.Apply(posts)
	if posts == nil {
		posts = []content.Post{}
	}
	writeJSON(rw, http.StatusOK, PostsResponse{Locale: loc, Filter: f, Posts: posts})
}

func (s *SiteServer) getPost(rw http.ResponseWriter, rq *http.Request) {
	loc, ok := s.apiLocale(rw, rq)
	if !ok {
		return
	}
	post, ok := s.Repo.GetPublishedPost(chi.URLParam(rq, "slug"), loc)
	if !ok {
		writeJSON(rw, http.StatusNotFound, errorResponse{Error: "post not found"})
		return
	}
	writeJSON(rw, http.StatusOK, post)
}

func (s *SiteServer) listTags(rw http.ResponseWriter, rq *http.Request) {
	loc, ok := s.apiLocale(rw, rq)
	if !ok {
		return
	}
	posts, ok := s.listing(rw, loc)
	if !ok {
		return
	}
	writeJSON(rw, http.StatusOK, TagsResponse{
		Locale: loc,
		Tags:   content.TagCounts(posts),
		Years:  content.YearCounts(posts),
		Months: content.MonthCounts(posts),
	})
}

// containsPath reports whether target is root or lies beneath it. Both must
// be clean absolute or clean relative paths of the same kind.
func containsPath(root, target string) bool {
	if target == root {
		return true
	}
	return strings.HasPrefix(target, root+string(filepath.Separator))
}

func (s *SiteServer) serveStatic(rw http.ResponseWriter, rq *http.Request) {
	root := filepath.Clean(s.BuildDir)
	file := filepath.Join(root, filepath.FromSlash(rq.URL.Path))
	if !containsPath(root, file) {
		s.log().Warnf("serveStatic: path traversal rejected: %q", rq.URL.Path)
		plainError(rw, http.StatusBadRequest, "Bad Request")
		return
	}
	fi, err := os.Stat(file)
	if err != nil {
		plainError(rw, http.StatusNotFound, "Not Found")
		return
	}
	if fi.IsDir() {
		if index := filepath.Join(file, "index.html"); fileExists(index) {
			file = index
		} else {
			s.serveDirectory(rw, file)
			return
		}
	}
	f, err := os.Open(file)
	if err != nil {
		plainError(rw, http.StatusNotFound, "Not Found")
		return
	}
	defer f.Close()
	fi, err = f.Stat()
	if err != nil {
		plainError(rw, http.StatusNotFound, "Not Found")
		return
	}
	rw.Header().Set("Content-Type", fileType(file))
	http.ServeContent(rw, rq, filepath.Base(file), fi.ModTime(), f)
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func fileType(file string) string {
	switch ext := filepath.Ext(file); ext {
	case ".su3":
		return "application/x-i2p-su3-news"
	case ".xml":
		if base := filepath.Base(file); base == "atom.xml" || strings.HasSuffix(base, ".atom.xml") {
			return "application/atom+xml; charset=utf-8"
		}
		if filepath.Base(file) == "sitemap.xml" {
			return "application/xml; charset=utf-8"
		}
		return "application/rss+xml; charset=utf-8"
	case ".json":
		return "application/json; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}

type checksumEntry struct {
	modTime time.Time
	sum     string
}

// checksums caches SHA-256 digests keyed by path and modification time.
var checksums = struct {
	sync.RWMutex
	items map[string]checksumEntry
}{items: map[string]checksumEntry{}}

func fileChecksum(path string, fi os.FileInfo) (string, error) {
	checksums.RLock()
	entry, ok := checksums.items[path]
	checksums.RUnlock()
	if ok && entry.modTime.Equal(fi.ModTime()) {
		return entry.sum, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("fileChecksum: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("fileChecksum: %w", err)
	}
	sum := fmt.Sprintf("%x", h.Sum(nil))
	checksums.Lock()
	checksums.items[path] = checksumEntry{modTime: fi.ModTime(), sum: sum}
	checksums.Unlock()
	return sum, nil
}

// directoryListing renders a markdown index of dir: one line per entry with
// size and, for files, the SHA-256 digest.
func directoryListing(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("directoryListing: %w", err)
	}
	base := filepath.Base(dir)
	var b strings.Builder
	b.WriteString(base + "\n" + strings.Repeat("=", len(base)) + "\n\n")
	b.WriteString("![feed requests](" + statsGraphPath + ")\n\n**Directory Listing:**\n\n")
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		name := entry.Name()
		if entry.IsDir() {
			fmt.Fprintf(&b, " - [%s](%s/) : `%s`\n", name, name, strconv.FormatInt(info.Size(), 10))
			continue
		}
		sum, err := fileChecksum(filepath.Join(dir, name), info)
		if err != nil {
			sum = "(checksum unavailable)"
		}
		fmt.Fprintf(&b, " - [%s](%s) : `%d` - `%s`\n", name, name, info.Size(), sum)
	}
	return b.String(), nil
}

func (s *SiteServer) serveDirectory(rw http.ResponseWriter, dir string) {
	listing, err := directoryListing(dir)
	if err != nil {
		s.log().Errorf("serveDirectory: %v", err)
		plainError(rw, http.StatusNotFound, "Not Found")
		return
	}
	md := markdown.New(markdown.XHTMLOutput(true))
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(rw, md.RenderToString([]byte(listing))) //nolint:errcheck
}
