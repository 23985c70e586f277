package photos

import (
	"sync"
	"time"
)

// DebugEntry is one recorded pipeline step. Development aid only; not part
// of the product domain.
type DebugEntry struct {
	Step      string         `json:"step"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
}

// DebugLog is an append-only in-memory step log with a size cap. A nil
// DebugLog is valid and records nothing, so the pipeline can log
// unconditionally.
type DebugLog struct {
	mu      sync.Mutex
	max     int
	entries []DebugEntry
}

func NewDebugLog(max int) *DebugLog {
	if max <= 0 {
		max = 200
	}
	return &DebugLog{max: max}
}

func (d *DebugLog) Record(step string, success bool, err error, payload map[string]any) {
	if d == nil {
		return
	}

	entry := DebugEntry{
		Step:      step,
		Timestamp: time.Now(),
		Payload:   payload,
		Success:   success,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	d.mu.Lock()
	d.entries = append(d.entries, entry)
	if len(d.entries) > d.max {
		d.entries = d.entries[len(d.entries)-d.max:]
	}
	d.mu.Unlock()
}

// Entries returns a copy of the recorded steps, oldest first.
func (d *DebugLog) Entries() []DebugEntry {
	if d == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]DebugEntry, len(d.entries))
	copy(out, d.entries)
	return out
}
