// Package locale maps between canonical site paths and locale-prefixed paths
// using the "as-needed" policy: the default locale has no URL prefix and every
// other supported locale is prefixed with "/<locale>".
//
// A Set is an immutable value built once from configuration and passed to
// whoever needs it; there is no package-level locale state.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Fallback locale codes used by Default.
const (
	DefaultLocale   = "en"
	AlternateLocale = "zh"
)

// ErrUnsupported is returned when a locale is not part of a Set.
var ErrUnsupported = errors.New("locale: unsupported locale")

// Set is an ordered collection of supported locales with one default.
type Set struct {
	def     string
	locales []string
}

// Default returns the built-in two-locale set: "en" (default) and "zh".
func Default() Set {
	return Set{def: DefaultLocale, locales: []string{DefaultLocale, AlternateLocale}}
}

// New validates every tag with golang.org/x/text/language and returns a Set
// whose default is def. def is added to the set when it is missing from
// locales. Duplicates are dropped, keeping the first occurrence.
func New(def string, locales ...string) (Set, error) {
	d, err := Normalize(def)
	if err != nil {
		return Set{}, fmt.Errorf("New: default locale: %w", err)
	}
	s := Set{def: d, locales: []string{d}}
	for _, raw := range locales {
		l, err := Normalize(raw)
		if err != nil {
			return Set{}, fmt.Errorf("New: %w", err)
		}
		if !s.Supported(l) {
			s.locales = append(s.locales, l)
		}
	}
	return s, nil
}

// Normalize converts a raw locale string into its canonical BCP 47 form.
// Underscore separators ("pt_BR") are accepted and converted to hyphens.
func Normalize(raw string) (string, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), "_", "-")
	if raw == "" {
		return "", fmt.Errorf("Normalize: empty locale")
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("Normalize: %q: %w", raw, err)
	}
	return tag.String(), nil
}

// DefaultLocale returns the locale served without a URL prefix.
func (s Set) DefaultLocale() string { return s.def }

// Locales returns the supported locales, default first.
func (s Set) Locales() []string {
	return append([]string(nil), s.locales...)
}

// Supported reports whether loc is one of the set's locales.
func (s Set) Supported(loc string) bool {
	for _, l := range s.locales {
		if l == loc {
			return true
		}
	}
	return false
}

// Parse normalizes raw and checks it against the set.
func (s Set) Parse(raw string) (string, error) {
	loc, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	if !s.Supported(loc) {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, raw)
	}
	return loc, nil
}

// IsDefault reports whether loc is the default locale.
func (s Set) IsDefault(loc string) bool { return loc == s.def }

// Prefix returns "" for the default locale and "/<loc>" otherwise.
func (s Set) Prefix(loc string) string {
	if s.IsDefault(loc) {
		return ""
	}
	return "/" + loc
}

// LocalizedPath prefixes path for loc. A missing leading slash is added, and
// the root path maps to the bare prefix so "/" under "zh" is "/zh", not "/zh/".
func (s Set) LocalizedPath(path, loc string) string {
	prefix := s.Prefix(loc)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == "/" && prefix != "" {
		return prefix
	}
	return prefix + path
}

// NonDefaultPrefixes returns "/<loc>" for every locale except the default.
func (s Set) NonDefaultPrefixes() []string {
	var out []string
	for _, l := range s.locales {
		if !s.IsDefault(l) {
			out = append(out, "/"+l)
		}
	}
	return out
}

// Detect returns the first non-default locale whose prefix starts pathname
// on a segment boundary, or the default locale. "/zh" and "/zh/blog" are
// "zh"; "/zh-something/x" is not.
func (s Set) Detect(pathname string) string {
	for _, l := range s.locales {
		if s.IsDefault(l) {
			continue
		}
		if hasSegmentPrefix(pathname, "/"+l) {
			return l
		}
	}
	return s.def
}

// IsActive reports whether pathname resolves to loc.
func (s Set) IsActive(pathname, loc string) bool {
	return s.Detect(pathname) == loc
}

// SwitchPath rewrites currentPath for target, dropping any leading
// supported-locale segment first.
func (s Set) SwitchPath(currentPath, target string) string {
	rest := currentPath
	for _, l := range s.locales {
		if hasSegmentPrefix(rest, "/"+l) {
			rest = rest[len(l)+1:]
			break
		}
	}
	if rest == "" {
		rest = "/"
	}
	return s.LocalizedPath(rest, target)
}

func hasSegmentPrefix(pathname, prefix string) bool {
	if !strings.HasPrefix(pathname, prefix) {
		return false
	}
	if len(pathname) == len(prefix) {
		return true
	}
	switch pathname[len(prefix)] {
	case '/', '?', '#':
		return true
	}
	return false
}
