package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-i2p/weblog/config"
	"github.com/go-i2p/weblog/content"
)

func TestNoListenerConfigured(t *testing.T) {
	tests := []struct {
		host string
		i2p  bool
		want bool
	}{
		{"", false, true},
		{"127.0.0.1", false, false},
		{"", true, false},
		{"127.0.0.1", true, false},
	}
	for _, tt := range tests {
		if got := noListenerConfigured(tt.host, tt.i2p); got != tt.want {
			t.Errorf("noListenerConfigured(%q, %v) = %v; want %v", tt.host, tt.i2p, got, tt.want)
		}
	}
}

// isSamAround depends on the environment; only check it does not panic.
func TestIsSamAround_Callable(t *testing.T) {
	t.Logf("isSamAround() = %v", isSamAround())
}

func TestLocaleSet(t *testing.T) {
	set, err := localeSet(&config.Conf{DefaultLocale: "en", Locales: []string{"en", "zh"}})
	if err != nil {
		t.Fatalf("localeSet: %v", err)
	}
	if got := set.Locales(); len(got) != 2 || got[0] != "en" || got[1] != "zh" {
		t.Errorf("Locales() = %v; want [en zh]", got)
	}
	if _, err := localeSet(&config.Conf{DefaultLocale: "not a tag!"}); err == nil {
		t.Error("localeSet accepted an invalid default locale")
	}
}

func TestPrintListing(t *testing.T) {
	listing := &content.Listing{
		Locale: "en",
		Posts: []content.Post{
			{Slug: "hello", Title: "Hello", Date: "2024-06-01", Tags: []string{"go"}},
			{Slug: "undated", Title: "Undated"},
		},
		Hidden:  []string{"draft"},
		Skipped: []content.Skip{{File: "content/en/broken.mdx", Slug: "broken", Reason: "bad yaml"}},
	}
	var buf bytes.Buffer
	printListing(&buf, listing, content.Filter{})
	out := buf.String()
	for _, want := range []string{"en: 2 posts", "hello", "Undated", "hidden: draft", "skipped: content/en/broken.mdx: bad yaml"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printListing(&buf, listing, content.Filter{Tag: "go"})
	if !strings.Contains(buf.String(), "en: 1 posts") || strings.Contains(buf.String(), "Undated") {
		t.Errorf("tag filter not applied:\n%s", buf.String())
	}
}

// writeSite lays out a minimal content tree and an empty config file so the
// commands never read the user's home directory config.
func writeSite(t *testing.T) (dir, cfg string) {
	t.Helper()
	dir = t.TempDir()
	files := map[string]string{
		"content/en/hello.mdx": "---\ntitle: Hello\ndate: 2024-06-01\n---\nHi.\n",
		"content/zh/hello.mdx": "---\ntitle: 你好\ndate: 2024-06-02\n---\n正文\n",
		"weblog.yaml":          "sitename: Test Blog\n",
	}
	for name, src := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir, filepath.Join(dir, "weblog.yaml")
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("weblog %v: %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

func TestBuildCommand(t *testing.T) {
	dir, cfg := writeSite(t)
	out := filepath.Join(dir, "build")
	stdout := run(t, "build", "--config", cfg, "--log-level", "error",
		"--contentdir", filepath.Join(dir, "content"), "--builddir", out)
	if !strings.Contains(stdout, "en: 1 posts") || !strings.Contains(stdout, "zh: 1 posts") {
		t.Errorf("unexpected build output:\n%s", stdout)
	}
	for _, name := range []string{"rss.xml", "atom.xml", "rss.json", "sitemap.xml", "manifest.json", "zh/posts.json"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	rss, err := os.ReadFile(filepath.Join(out, "rss.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(rss), "Test Blog") {
		t.Error("site name from the config file did not reach the feed")
	}
}

func TestListCommand(t *testing.T) {
	dir, cfg := writeSite(t)
	stdout := run(t, "list", "--config", cfg, "--log-level", "error",
		"--contentdir", filepath.Join(dir, "content"), "--locale", "zh")
	if !strings.Contains(stdout, "zh: 1 posts") || !strings.Contains(stdout, "你好") {
		t.Errorf("unexpected list output:\n%s", stdout)
	}
}
