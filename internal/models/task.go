package models

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// RawStatus is the only status a client may write.
type RawStatus string

const (
	RawStatusActive    RawStatus = "ACTIVE"
	RawStatusCompleted RawStatus = "COMPLETED"
)

// IsValid reports whether s is a writable status.
func (s RawStatus) IsValid() bool {
	return s == RawStatusActive || s == RawStatusCompleted
}

// ParseRawStatus converts a client-supplied label into a RawStatus.
// Matching ignores case.
func ParseRawStatus(label string) (RawStatus, error) {
	s := RawStatus(strings.ToUpper(strings.TrimSpace(label)))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown status %q", label)
	}
	return s, nil
}

// Status is the effective status shown to callers. It is derived on every
// read and never persisted.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusOverdue   Status = "OVERDUE"
	StatusLate      Status = "LATE"
)

// Priority constants
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// IsValid reports whether p is one of the four known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParsePriority converts a label into a Priority, ignoring case.
func ParsePriority(label string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(label)))
	if !p.IsValid() {
		return "", fmt.Errorf("unknown priority %q", label)
	}
	return p, nil
}

// Urgency is the display tier derived from effective status and deadline.
type Urgency string

const (
	UrgencyNone            Urgency = "NONE"
	UrgencyWarning         Urgency = "WARNING"
	UrgencyOverdueCritical Urgency = "OVERDUE_CRITICAL"
)

// Task is the persisted record. A nil Priority or Deadline means unset.
type Task struct {
	ID          string
	Title       string
	Description string
	RawStatus   RawStatus
	Priority    *Priority
	Deadline    *civil.Date
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy so callers cannot alias store-owned pointers.
func (t *Task) Clone() *Task {
	out := *t
	if t.Priority != nil {
		p := *t.Priority
		out.Priority = &p
	}
	if t.Deadline != nil {
		d := *t.Deadline
		out.Deadline = &d
	}
	return &out
}

// TaskView is what callers receive: the record with its effective status
// and urgency computed for the moment of the read.
type TaskView struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      Status      `json:"status"`
	Priority    *Priority   `json:"priority"`
	Deadline    *civil.Date `json:"deadline"`
	Urgency     Urgency     `json:"urgency"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
