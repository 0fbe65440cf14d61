package logger

import (
	"fmt"
	"strings"

	log "github.com/charmbracelet/log"
)

// Record is one captured log entry.
type Record struct {
	Level   log.Level
	Message string
	KeyVals []any
}

// String renders the record in logfmt-ish form for inclusion in diagnostics.
func (r Record) String() string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(r.Level.String()))
	b.WriteString(" ")
	b.WriteString(r.Message)
	for i := 0; i+1 < len(r.KeyVals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", r.KeyVals[i], r.KeyVals[i+1])
	}
	return b.String()
}

// Ring is a bounded circular buffer of log records. Capacity is fixed at
// construction; once full, the oldest record is dropped for each append.
// It is owned by the process entry point and passed by reference into the
// diagnostics path, never held in package state.
type Ring struct {
	records []Record
	next    int
	full    bool
}

// NewRing creates a ring buffer holding at most capacity records.
// A capacity below 1 is treated as 1.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{records: make([]Record, capacity)}
}

// Append adds a record, evicting the oldest when full.
func (r *Ring) Append(rec Record) {
	r.records[r.next] = rec
	r.next = (r.next + 1) % len(r.records)
	if r.next == 0 {
		r.full = true
	}
}

// Len returns the number of records currently held.
func (r *Ring) Len() int {
	if r.full {
		return len(r.records)
	}
	return r.next
}

// Records returns the held records, oldest first.
func (r *Ring) Records() []Record {
	if !r.full {
		out := make([]Record, r.next)
		copy(out, r.records[:r.next])
		return out
	}
	out := make([]Record, 0, len(r.records))
	out = append(out, r.records[r.next:]...)
	out = append(out, r.records[:r.next]...)
	return out
}
