// Package readingtime estimates how long a post body takes to read.
package readingtime

import (
	"strconv"
	"strings"
)

// WordsPerMinute is the fixed reading rate used by Estimate.
const WordsPerMinute = 200

// Time is a reading-time estimate for one body of text.
type Time struct {
	Words   int    `json:"words"`
	Minutes int    `json:"minutes"`
	Text    string `json:"text"`
}

// Estimate counts whitespace-separated words in text and converts the count
// to whole minutes, rounding up. Blank input counts as a single (empty) word,
// so Minutes is never below one.
func Estimate(text string) Time {
	words := 1
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		words = len(strings.Fields(trimmed))
	}
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	return Time{
		Words:   words,
		Minutes: minutes,
		Text:    strconv.Itoa(minutes) + " min read",
	}
}
