package readingtime

import (
	"strings"
	"testing"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		words   int
		minutes int
	}{
		{"empty", "", 1, 1},
		{"whitespace only", " \n\t ", 1, 1},
		{"single word", "hello", 1, 1},
		{"runs of whitespace", "  one\t\ttwo \n\n three  ", 3, 1},
		{"exactly one minute", strings.Repeat("w ", 200), 200, 1},
		{"just over one minute", strings.Repeat("w ", 201), 201, 2},
		{"several minutes", strings.Repeat("word ", 1000), 1000, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.text)
			if got.Words != tt.words {
				t.Errorf("Words = %d, want %d", got.Words, tt.words)
			}
			if got.Minutes != tt.minutes {
				t.Errorf("Minutes = %d, want %d", got.Minutes, tt.minutes)
			}
		})
	}
}

// TestEstimate_MinutesIsCeiling checks minutes == ceil(words/200) over a
// range of word counts.
func TestEstimate_MinutesIsCeiling(t *testing.T) {
	for n := 1; n <= 1201; n += 37 {
		got := Estimate(strings.Repeat("x ", n))
		want := n / WordsPerMinute
		if n%WordsPerMinute != 0 {
			want++
		}
		if got.Minutes != want {
			t.Fatalf("words=%d: Minutes = %d, want %d", n, got.Minutes, want)
		}
		if got.Minutes < 1 {
			t.Fatalf("words=%d: Minutes below one", n)
		}
	}
}

func TestEstimate_Text(t *testing.T) {
	if got := Estimate(strings.Repeat("a ", 450)).Text; got != "3 min read" {
		t.Errorf("Text = %q, want %q", got, "3 min read")
	}
}
