// Package feedstats counts feed requests by format and renders the counts as
// an SVG bar chart.
package feedstats

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/go-i2p/weblog/logger"
)

// FeedStats is safe for concurrent use.
type FeedStats struct {
	mu        sync.Mutex
	hits      map[string]int
	StateFile string
}

// New returns an empty FeedStats persisted to stateFile.
func New(stateFile string) *FeedStats {
	return &FeedStats{StateFile: stateFile, hits: map[string]int{}}
}

// Increment records one request for the named feed format.
func (n *FeedStats) Increment(format string) {
	if format == "" {
		format = "unknown"
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.hits == nil {
		n.hits = map[string]int{}
	}
	n.hits[format]++
}

// Snapshot returns a copy of the counters.
func (n *FeedStats) Snapshot() map[string]int {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[string]int, len(n.hits))
	for k, v := range n.hits {
		out[k] = v
	}
	return out
}

// Graph renders a bar per format plus a total. Nothing is written to w when
// rendering fails.
func (n *FeedStats) Graph(w io.Writer) error {
	snap := n.Snapshot()
	names := make([]string, 0, len(snap))
	for k := range snap {
		names = append(names, k)
	}
	sort.Strings(names)

	bars := []chart.Value{{Value: 0, Label: "baseline"}}
	total := 0
	for _, k := range names {
		total += snap[k]
		bars = append(bars, chart.Value{Value: float64(snap[k]), Label: k})
	}
	bars = append(bars, chart.Value{Value: float64(total), Label: "Total Requests"})

	graph := chart.BarChart{
		Title: "Feed requests by format",
		Background: chart.Style{
			Padding: chart.Box{
				Top:   40,
				Left:  10,
				Right: 10,
			},
		},
		Height:   256,
		BarWidth: 20,
		Bars:     bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return fmt.Errorf("Graph: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Save writes the counters to StateFile as JSON.
func (n *FeedStats) Save() error {
	data, err := json.Marshal(n.Snapshot())
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	if err := os.WriteFile(n.StateFile, data, 0o644); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

// Load reads counters from StateFile. A missing or malformed file, or one
// holding JSON null, leaves the counters empty.
func (n *FeedStats) Load() {
	hits := map[string]int{}
	data, err := os.ReadFile(n.StateFile)
	if err == nil {
		if err := json.Unmarshal(data, &hits); err != nil || hits == nil {
			logger.WarnWithFields(logger.Log, "ignoring unreadable stats file", logger.Fields{
				"file": n.StateFile,
			})
			hits = map[string]int{}
		}
	}
	n.mu.Lock()
	n.hits = hits
	n.mu.Unlock()
}
