package engine

import (
	"fmt"
	"slices"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/gurkanbulca/taskdeck/internal/models"
)

// SortKey selects the field a list is ordered by. SortNone keeps store
// (creation) order.
type SortKey string

const (
	SortNone     SortKey = ""
	SortTitle    SortKey = "title"
	SortDeadline SortKey = "deadline"
	SortPriority SortKey = "priority"
)

// ParseSortKey accepts "", "title", "deadline" or "priority" in any case.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNone, SortTitle, SortDeadline, SortPriority:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Direction orders a list ascending or descending.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// ParseDirection accepts "ascending" or "descending" in any case; empty
// means ascending.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return Ascending, nil
	case Ascending, Descending:
		return d, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// Compare orders a and b by key. Priorities compare by their text label
// ("CRITICAL" < "HIGH" < "LOW" < "MEDIUM"), not by severity; clients rely
// on that order. Tasks without a deadline or priority sort after those
// with one in either direction. Equal keys compare as 0 so a stable sort
// keeps creation order.
func Compare(a, b *models.TaskView, key SortKey, dir Direction) int {
	var c int
	switch key {
	case SortTitle:
		c = strings.Compare(a.Title, b.Title)
	case SortDeadline:
		if n, ok := nullsLast(a.Deadline == nil, b.Deadline == nil); ok {
			return n
		}
		c = compareDates(*a.Deadline, *b.Deadline)
	case SortPriority:
		if n, ok := nullsLast(a.Priority == nil, b.Priority == nil); ok {
			return n
		}
		c = strings.Compare(string(*a.Priority), string(*b.Priority))
	default:
		return 0
	}
	if dir == Descending {
		return -c
	}
	return c
}

// nullsLast settles the comparison when at least one side is missing.
func nullsLast(aNil, bNil bool) (int, bool) {
	switch {
	case aNil && bNil:
		return 0, true
	case aNil:
		return 1, true
	case bNil:
		return -1, true
	}
	return 0, false
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// Sort orders views in place with a stable sort.
func Sort(views []models.TaskView, key SortKey, dir Direction) {
	if key == SortNone {
		return
	}
	slices.SortStableFunc(views, func(a, b models.TaskView) int {
		return Compare(&a, &b, key, dir)
	})
}
