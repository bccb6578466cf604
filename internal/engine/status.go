package engine

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/gurkanbulca/taskdeck/internal/models"
)

// EffectiveStatus derives the displayed status from the stored one. A
// deadline is passed only once its day is strictly before the day of now,
// taken in now's location.
func EffectiveStatus(raw models.RawStatus, deadline *civil.Date, now time.Time) models.Status {
	passed := deadline != nil && deadline.Before(civil.DateOf(now))
	if raw == models.RawStatusCompleted {
		if passed {
			return models.StatusLate
		}
		return models.StatusCompleted
	}
	if passed {
		return models.StatusOverdue
	}
	return models.StatusActive
}

// Classify computes the urgency tier. Only COMPLETED short-circuits to
// NONE; LATE is still graded by how far the deadline has slipped.
func Classify(status models.Status, deadline *civil.Date, now time.Time) models.Urgency {
	if deadline == nil || status == models.StatusCompleted {
		return models.UrgencyNone
	}
	daysLeft := deadline.DaysSince(civil.DateOf(now))
	switch {
	case daysLeft < 0:
		return models.UrgencyOverdueCritical
	case daysLeft < 3:
		return models.UrgencyWarning
	default:
		return models.UrgencyNone
	}
}

// View builds the caller-facing projection of t as of now.
func View(t *models.Task, now time.Time) models.TaskView {
	status := EffectiveStatus(t.RawStatus, t.Deadline, now)
	c := t.Clone()
	return models.TaskView{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Status:      status,
		Priority:    c.Priority,
		Deadline:    c.Deadline,
		Urgency:     Classify(status, c.Deadline, now),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
