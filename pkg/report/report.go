// Package report accumulates verification results for a session
// and renders summaries in JSON and Markdown.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Reporting statuses for a single verification call.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusMessage = "message"
)

// Entry is one recorded verification call.
type Entry struct {
	Page         string        `json:"page"`
	Step         string        `json:"step"`
	SubmissionID string        `json:"submission_id"`
	Status       string        `json:"status"`
	Message      string        `json:"message,omitempty"`
	Duration     time.Duration `json:"duration"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Recorder collects entries for one session. Safe for concurrent
// use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one entry.
func (r *Recorder) Record(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// PageSummary aggregates one page's results.
type PageSummary struct {
	Page     string `json:"page"`
	Checks   int    `json:"checks"`
	Passed   int    `json:"passed"`
	Failed   int    `json:"failed"`
	Messages int    `json:"messages"`
}

// Summary aggregates a whole session.
type Summary struct {
	Total    int           `json:"total"`
	Passed   int           `json:"passed"`
	Failed   int           `json:"failed"`
	Messages int           `json:"messages"`
	PassRate float64       `json:"pass_rate"`
	Pages    []PageSummary `json:"pages"`
}

// Summarize computes the session summary, pages sorted by slug.
func (r *Recorder) Summarize() Summary {
	entries := r.Entries()

	s := Summary{Total: len(entries)}
	byPage := make(map[string]*PageSummary)
	for _, e := range entries {
		ps, ok := byPage[e.Page]
		if !ok {
			ps = &PageSummary{Page: e.Page}
			byPage[e.Page] = ps
		}
		ps.Checks++
		switch e.Status {
		case StatusPassed:
			s.Passed++
			ps.Passed++
		case StatusFailed:
			s.Failed++
			ps.Failed++
		case StatusMessage:
			s.Messages++
			ps.Messages++
		}
	}
	if s.Total > 0 {
		s.PassRate = float64(s.Passed) / float64(s.Total)
	}

	pages := make([]PageSummary, 0, len(byPage))
	for _, ps := range byPage {
		pages = append(pages, *ps)
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Page < pages[j].Page
	})
	s.Pages = pages
	return s
}

// WriteJSON writes the entries and summary as indented JSON.
func (r *Recorder) WriteJSON(w io.Writer) error {
	doc := struct {
		Summary Summary `json:"summary"`
		Entries []Entry `json:"entries"`
	}{
		Summary: r.Summarize(),
		Entries: r.Entries(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// SaveJSON writes the JSON report to a file.
func (r *Recorder) SaveJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()
	return r.WriteJSON(f)
}

// Markdown renders a human-readable session summary.
func (r *Recorder) Markdown() string {
	s := r.Summarize()

	var b strings.Builder
	b.WriteString("# Verification Session\n\n")
	fmt.Fprintf(&b,
		"**Checks**: %d  \n**Passed**: %d  \n**Failed**: %d  \n"+
			"**Messages**: %d  \n**Pass rate**: %.0f%%\n\n",
		s.Total, s.Passed, s.Failed, s.Messages, s.PassRate*100,
	)
	if len(s.Pages) > 0 {
		b.WriteString("## Pages\n\n")
		for _, ps := range s.Pages {
			fmt.Fprintf(&b,
				"- %s: %d checks, %d passed, %d failed, %d messages\n",
				ps.Page, ps.Checks, ps.Passed, ps.Failed, ps.Messages,
			)
		}
	}
	return b.String()
}
