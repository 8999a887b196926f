package locale

import (
	"errors"
	"testing"
)

func TestPrefix(t *testing.T) {
	s := Default()
	if got := s.Prefix("en"); got != "" {
		t.Errorf("Prefix(en) = %q, want empty", got)
	}
	if got := s.Prefix("zh"); got != "/zh" {
		t.Errorf("Prefix(zh) = %q, want /zh", got)
	}
}

func TestLocalizedPath(t *testing.T) {
	s := Default()
	tests := []struct {
		path string
		loc  string
		want string
	}{
		{"/blog", "en", "/blog"},
		{"/blog", "zh", "/zh/blog"},
		{"blog", "zh", "/zh/blog"},
		{"/", "zh", "/zh"},
		{"", "zh", "/zh"},
		{"/", "en", "/"},
		{"/blog/hello-world", "zh", "/zh/blog/hello-world"},
	}
	for _, tt := range tests {
		if got := s.LocalizedPath(tt.path, tt.loc); got != tt.want {
			t.Errorf("LocalizedPath(%q, %q) = %q, want %q", tt.path, tt.loc, got, tt.want)
		}
	}
}

// TestDetect covers the segment-boundary rule: a path that merely starts
// with the same characters as a locale must not be attributed to it.
func TestDetect(t *testing.T) {
	s := Default()
	tests := []struct {
		path string
		want string
	}{
		{"/zh/blog/post-1", "zh"},
		{"/zh", "zh"},
		{"/zh?tag=go", "zh"},
		{"/blog/post-1", "en"},
		{"/", "en"},
		{"", "en"},
		{"/zh-something/x", "en"},
		{"/zhx", "en"},
		{"/en/blog", "en"},
	}
	for _, tt := range tests {
		if got := s.Detect(tt.path); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsActive(t *testing.T) {
	s := Default()
	if !s.IsActive("/zh/about", "zh") {
		t.Error("IsActive(/zh/about, zh) = false")
	}
	if s.IsActive("/about", "zh") {
		t.Error("IsActive(/about, zh) = true")
	}
}

func TestSwitchPath(t *testing.T) {
	s := Default()
	tests := []struct {
		path   string
		target string
		want   string
	}{
		{"/blog/a", "zh", "/zh/blog/a"},
		{"/zh/blog/a", "en", "/blog/a"},
		{"/zh", "en", "/"},
		{"/", "zh", "/zh"},
		{"/zh/blog", "zh", "/zh/blog"},
		{"/zh-tw/blog", "zh", "/zh/zh-tw/blog"},
	}
	for _, tt := range tests {
		if got := s.SwitchPath(tt.path, tt.target); got != tt.want {
			t.Errorf("SwitchPath(%q, %q) = %q, want %q", tt.path, tt.target, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	s, err := New("zh", "en", "zh", "pt_BR")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.DefaultLocale() != "zh" {
		t.Errorf("DefaultLocale = %q, want zh", s.DefaultLocale())
	}
	got := s.Locales()
	want := []string{"zh", "en", "pt-BR"}
	if len(got) != len(want) {
		t.Fatalf("Locales = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Locales[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if p := s.NonDefaultPrefixes(); len(p) != 2 || p[0] != "/en" || p[1] != "/pt-BR" {
		t.Errorf("NonDefaultPrefixes = %v", p)
	}
}

func TestNew_InvalidTag(t *testing.T) {
	if _, err := New("en", "not a locale!"); err == nil {
		t.Fatal("expected error for invalid tag, got nil")
	}
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty default, got nil")
	}
}

func TestParse(t *testing.T) {
	s := Default()
	if got, err := s.Parse(" zh "); err != nil || got != "zh" {
		t.Errorf("Parse(zh) = %q, %v", got, err)
	}
	_, err := s.Parse("de")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("Parse(de) error = %v, want ErrUnsupported", err)
	}
}

// TestLocalesIsCopy verifies callers cannot mutate the set through Locales.
func TestLocalesIsCopy(t *testing.T) {
	s := Default()
	l := s.Locales()
	l[0] = "xx"
	if s.DefaultLocale() != "en" || s.Locales()[0] != "en" {
		t.Error("mutating Locales() result changed the set")
	}
}
