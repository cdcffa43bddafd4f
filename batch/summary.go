package batch

import (
	"sync"
)

// Error taxonomy keys for the run summary. Per-methodology data
// failures are non-fatal; trade-level failures exclude the trade from
// canonical output but never abort the run.
const (
	KindMalformedTrade  = "malformed_trade"
	KindDataUnavailable = "data_unavailable"
	KindNoMethodology   = "no_methodology_available"
)

// sampleCap bounds how many example trade IDs are kept per error kind.
const sampleCap = 5

// Summary is the structured result of one batch run.
type Summary struct {
	RunID  string
	DryRun bool

	Total     int // trades selected for (re)processing
	Processed int // canonical outcome produced (or would be, on dry-run)
	Failed    int // excluded from canonical output
	Skipped   int // malformed, skipped before any walk

	ErrorCounts map[string]int      // taxonomy -> occurrences
	Samples     map[string][]string // taxonomy -> sample trade IDs
}

// HasFailures reports whether any trade entered FAILED.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// collector accumulates the summary across workers.
type collector struct {
	mu sync.Mutex
	s  Summary
}

func newCollector(runID string, total int, dryRun bool) *collector {
	return &collector{s: Summary{
		RunID:       runID,
		DryRun:      dryRun,
		Total:       total,
		ErrorCounts: make(map[string]int),
		Samples:     make(map[string][]string),
	}}
}

func (c *collector) record(kind, tradeID string) {
	c.s.ErrorCounts[kind]++
	if len(c.s.Samples[kind]) < sampleCap {
		c.s.Samples[kind] = append(c.s.Samples[kind], tradeID)
	}
}

// note counts a non-fatal error occurrence (e.g. one methodology
// unavailable while others ran fine).
func (c *collector) note(kind, tradeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record(kind, tradeID)
}

// fail marks the trade FAILED and counts the error.
func (c *collector) fail(kind, tradeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Failed++
	c.record(kind, tradeID)
}

// skip marks the trade skipped-before-walk and counts the error.
func (c *collector) skip(kind, tradeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Skipped++
	c.record(kind, tradeID)
}

func (c *collector) processed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Processed++
}

func (c *collector) summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}
