package service

import (
	"unicode/utf8"

	"github.com/gurkanbulca/taskdeck/internal/models"
)

// MinTitleLength is the shortest title accepted on create and edit.
const MinTitleLength = 4

// ValidationConfig holds the configurable upper limits. Zero disables a limit.
type ValidationConfig struct {
	MaxTitleLength       int
	MaxDescriptionLength int
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxTitleLength:       200,
		MaxDescriptionLength: 5000,
	}
}

func (c ValidationConfig) validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < MinTitleLength {
		return invalid("title", "title must be at least %d characters", MinTitleLength)
	}
	if c.MaxTitleLength > 0 && n > c.MaxTitleLength {
		return invalid("title", "title must be at most %d characters", c.MaxTitleLength)
	}
	return nil
}

func (c ValidationConfig) validateDescription(description string) error {
	if c.MaxDescriptionLength > 0 && utf8.RuneCountInString(description) > c.MaxDescriptionLength {
		return invalid("description", "description must be at most %d characters", c.MaxDescriptionLength)
	}
	return nil
}

func validateStatus(s models.RawStatus) error {
	if !s.IsValid() {
		return invalid("status", "status must be ACTIVE or COMPLETED")
	}
	return nil
}

func validatePriority(p *models.Priority) error {
	if p != nil && !p.IsValid() {
		return invalid("priority", "priority must be one of CRITICAL, HIGH, MEDIUM, LOW")
	}
	return nil
}
