package data

// BlockCounters are keyed by store file path.
type BlockCounters struct {
	Valid   map[string]int `json:"valid,omitempty"`
	Skipped map[string]int `json:"skipped,omitempty"`
}

// Timers are keyed by group, durations are in nanoseconds.
type Timers struct {
	Totals   map[string]int64 `json:"totals,omitempty"`
	Averages map[string]int64 `json:"averages,omitempty"`
	Counts   map[string]int64 `json:"counts,omitempty"`
	Maximums map[string]int64 `json:"maximums,omitempty"`
}
