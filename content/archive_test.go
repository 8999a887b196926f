package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func archivePosts() []Post {
	return []Post{
		{Slug: "c", Date: "2024-06-10", Tags: []string{"go", "go", "web"}, Featured: true},
		{Slug: "b", Date: "2024-06-01", Tags: []string{"web"}},
		{Slug: "a", Date: "2023-12-24", Tags: []string{"go", "life"}},
		{Slug: "x", Date: "not a date", Tags: []string{"misc"}, Featured: true},
	}
}

func TestTagCounts_DuplicatesCountOncePerPost(t *testing.T) {
	got := TagCounts(archivePosts())
	assert.Equal(t, []Count{
		{Name: "go", Count: 2},
		{Name: "web", Count: 2},
		{Name: "life", Count: 1},
		{Name: "misc", Count: 1},
	}, got)
}

func TestYearAndMonthCounts(t *testing.T) {
	posts := archivePosts()
	assert.Equal(t, []Count{{Name: "2024", Count: 2}, {Name: "2023", Count: 1}}, YearCounts(posts))
	assert.Equal(t, []Count{{Name: "2024-06", Count: 2}, {Name: "2023-12", Count: 1}}, MonthCounts(posts))
}

func TestFilter(t *testing.T) {
	posts := archivePosts()
	slugs := func(ps []Post) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Slug)
		}
		return out
	}
	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"empty", Filter{}, []string{"c", "b", "a", "x"}},
		{"tag", Filter{Tag: "go"}, []string{"c", "a"}},
		{"year", Filter{Year: "2024"}, []string{"c", "b"}},
		{"month", Filter{Month: "2023-12"}, []string{"a"}},
		{"tag and year", Filter{Tag: "web", Year: "2024"}, []string{"c", "b"}},
		{"no match", Filter{Tag: "go", Month: "2024-05"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slugs(tt.f.Apply(posts)))
		})
	}
}

func TestFeatured(t *testing.T) {
	got := Featured(archivePosts())
	if assert.Len(t, got, 2) {
		assert.Equal(t, "c", got[0].Slug)
		assert.Equal(t, "x", got[1].Slug)
	}
}
