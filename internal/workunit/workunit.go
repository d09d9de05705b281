// Package workunit tracks units of work through a fixed lifecycle and
// triggers checkpoint housekeeping at lifecycle transitions.
package workunit

import (
	"fmt"
	"time"
)

// SchemaVersion is the current schema version for work-unit records.
const SchemaVersion = "cairn.workunit/v1"

// Status is a work unit's lifecycle state.
type Status string

// Lifecycle states, in order. done is terminal.
const (
	StatusBacklog      Status = "backlog"
	StatusSpecifying   Status = "specifying"
	StatusTesting      Status = "testing"
	StatusImplementing Status = "implementing"
	StatusReviewing    Status = "reviewing"
	StatusDone         Status = "done"
)

// statusOrder is the fixed lifecycle sequence.
var statusOrder = []Status{
	StatusBacklog,
	StatusSpecifying,
	StatusTesting,
	StatusImplementing,
	StatusReviewing,
	StatusDone,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, st := range statusOrder {
		if st == s {
			return true
		}
	}
	return false
}

// Terminal reports whether s is the terminal state.
func (s Status) Terminal() bool {
	return s == StatusDone
}

// Next returns the status following s in the lifecycle.
// ok is false when s is terminal or unknown.
func Next(s Status) (next Status, ok bool) {
	for i, st := range statusOrder {
		if st == s && i < len(statusOrder)-1 {
			return statusOrder[i+1], true
		}
	}
	return "", false
}

// Record is one tracked unit of work.
type Record struct {
	Schema    string    `json:"schema"`
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRecord creates a work unit in the backlog state.
func NewRecord(id, title string, now time.Time) *Record {
	ts := now.UTC()
	return &Record{
		Schema:    SchemaVersion,
		ID:        id,
		Title:     title,
		Status:    StatusBacklog,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Validate checks required fields.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("work unit has no id")
	}
	if !r.Status.Valid() {
		return fmt.Errorf("work unit %q has invalid status %q", r.ID, r.Status)
	}
	return nil
}
