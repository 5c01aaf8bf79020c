package monitor

import "sync"

// Dashboard aggregates verification events into the counters
// shown to tutorial authors. Safe for concurrent use.
type Dashboard struct {
	mu       sync.RWMutex
	started  int
	passed   int
	failed   int
	messages int
	perPage  map[string]*PageStats
}

// PageStats holds per-page aggregate counters.
type PageStats struct {
	Checks   int `json:"checks"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Messages int `json:"messages"`
}

// Snapshot is a point-in-time view of the dashboard.
type Snapshot struct {
	Started  int                  `json:"started"`
	Passed   int                  `json:"passed"`
	Failed   int                  `json:"failed"`
	Messages int                  `json:"messages"`
	PerPage  map[string]PageStats `json:"per_page"`
}

// NewDashboard creates an empty Dashboard.
func NewDashboard() *Dashboard {
	return &Dashboard{perPage: make(map[string]*PageStats)}
}

// UpdateFromEvent folds one event into the counters.
func (d *Dashboard) UpdateFromEvent(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats, ok := d.perPage[event.Page]
	if !ok {
		stats = &PageStats{}
		d.perPage[event.Page] = stats
	}

	switch event.Type {
	case EventCheckStarted:
		d.started++
	case EventCheckPassed:
		d.passed++
		stats.Checks++
		stats.Passed++
	case EventCheckFailed:
		d.failed++
		stats.Checks++
		stats.Failed++
	case EventMessageShown:
		d.messages++
		stats.Checks++
		stats.Messages++
	}
}

// Snapshot returns a copy of the current counters.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := Snapshot{
		Started:  d.started,
		Passed:   d.passed,
		Failed:   d.failed,
		Messages: d.messages,
		PerPage:  make(map[string]PageStats, len(d.perPage)),
	}
	for page, stats := range d.perPage {
		out.PerPage[page] = *stats
	}
	return out
}
