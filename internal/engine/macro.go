// Package engine holds the task semantics: title macros, effective status,
// deadline urgency and list ordering. Every function here is pure and safe
// for concurrent use.
package engine

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/gurkanbulca/taskdeck/internal/models"
)

const (
	deadlineMacro  = "!before"
	deadlineLayout = "02-01-2006"
)

var priorityMacros = map[string]models.Priority{
	"!1": models.PriorityCritical,
	"!2": models.PriorityHigh,
	"!3": models.PriorityMedium,
	"!4": models.PriorityLow,
}

// Macros is the result of scanning a title. A nil field means the title
// carried no usable macro for it.
type Macros struct {
	Priority *models.Priority
	Deadline *civil.Date
}

// ParseMacros scans whitespace-delimited tokens of title left to right.
// The first priority token wins. The first "!before" whose following token
// is a valid DD-MM-YYYY calendar date wins; a malformed date is skipped.
func ParseMacros(title string) Macros {
	var m Macros
	tokens := strings.Fields(title)
	for i, tok := range tokens {
		if m.Priority == nil {
			if p, ok := priorityMacros[tok]; ok {
				m.Priority = &p
				continue
			}
		}
		if m.Deadline == nil && tok == deadlineMacro && i+1 < len(tokens) {
			if d, ok := parseMacroDate(tokens[i+1]); ok {
				m.Deadline = &d
			}
		}
	}
	return m
}

func parseMacroDate(s string) (civil.Date, bool) {
	t, err := time.Parse(deadlineLayout, s)
	if err != nil {
		return civil.Date{}, false
	}
	return civil.DateOf(t), true
}

// ApplyMacros fills in priority and deadline from title macros when the
// explicit value is nil. Explicit values always win. The title is not
// modified.
func ApplyMacros(title string, priority *models.Priority, deadline *civil.Date) (*models.Priority, *civil.Date) {
	if priority != nil && deadline != nil {
		return priority, deadline
	}
	m := ParseMacros(title)
	if priority == nil {
		priority = m.Priority
	}
	if deadline == nil {
		deadline = m.Deadline
	}
	return priority, deadline
}
