package content

import (
	"sort"
	"strconv"
)

// Count is one bucket of an archive facet.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagCounts counts the posts carrying each tag. A tag repeated within one
// post counts once for that post. The result is ordered by count, highest
// first, then by tag name.
func TagCounts(posts []Post) []Count {
	counts := map[string]int{}
	for _, p := range posts {
		seen := map[string]bool{}
		for _, t := range p.Tags {
			if seen[t] {
				continue
			}
			seen[t] = true
			counts[t]++
		}
	}
	out := toCounts(counts)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// YearCounts counts posts per "YYYY", newest year first. Posts without a
// valid date are not counted.
func YearCounts(posts []Post) []Count {
	return periodCounts(posts, func(p Post) (string, bool) {
		t, err := p.Time()
		if err != nil {
			return "", false
		}
		return strconv.Itoa(t.Year()), true
	})
}

// MonthCounts counts posts per "YYYY-MM", newest month first.
func MonthCounts(posts []Post) []Count {
	return periodCounts(posts, func(p Post) (string, bool) {
		t, err := p.Time()
		if err != nil {
			return "", false
		}
		return t.Format("2006-01"), true
	})
}

func periodCounts(posts []Post, key func(Post) (string, bool)) []Count {
	counts := map[string]int{}
	for _, p := range posts {
		if k, ok := key(p); ok {
			counts[k]++
		}
	}
	out := toCounts(counts)
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out
}

func toCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Name: k, Count: v})
	}
	return out
}

// Filter narrows a listing. Empty fields match everything. Month is
// "YYYY-MM"; when both Year and Month are set, both must match.
type Filter struct {
	Tag   string `json:"tag,omitempty"`
	Year  string `json:"year,omitempty"`
	Month string `json:"month,omitempty"`
}

// Empty reports whether f matches every post.
func (f Filter) Empty() bool {
	return f.Tag == "" && f.Year == "" && f.Month == ""
}

// Match reports whether p passes f.
func (f Filter) Match(p Post) bool {
	if f.Tag != "" && !p.HasTag(f.Tag) {
		return false
	}
	if f.Year == "" && f.Month == "" {
		return true
	}
	t, err := p.Time()
	if err != nil {
		return false
	}
	if f.Year != "" && strconv.Itoa(t.Year()) != f.Year {
		return false
	}
	if f.Month != "" && t.Format("2006-01") != f.Month {
		return false
	}
	return true
}

// Apply returns the posts matching f, keeping their order.
func (f Filter) Apply(posts []Post) []Post {
	if f.Empty() {
		return posts
	}
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns the featured posts, keeping their order.
func Featured(posts []Post) []Post {
	out := make([]Post, 0)
	for _, p := range posts {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}
