package handler

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/gurkanbulca/taskdeck/internal/models"
	"github.com/gurkanbulca/taskdeck/internal/service"
)

// optionalString decodes a JSON field that may be absent, null or a string.
// The strings "null" and "" are read as null; browser forms send both.
type optionalString struct {
	Set   bool
	Null  bool
	Value string
}

func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Null = true
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	if v := strings.TrimSpace(o.Value); v == "" || v == "null" {
		o.Null = true
		o.Value = ""
	}
	return nil
}

func (o optionalString) present() bool { return o.Set && !o.Null }

type createTaskRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      optionalString `json:"status"`
	Priority    optionalString `json:"priority"`
	Deadline    optionalString `json:"deadline"`
}

func (r createTaskRequest) toInput() (service.CreateTaskInput, error) {
	in := service.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status.present() {
		s, err := parseStatus(r.Status.Value)
		if err != nil {
			return in, err
		}
		in.Status = &s
	}
	if r.Priority.present() {
		p, err := parsePriority(r.Priority.Value)
		if err != nil {
			return in, err
		}
		in.Priority = &p
	}
	if r.Deadline.present() {
		d, err := parseDeadline(r.Deadline.Value)
		if err != nil {
			return in, err
		}
		in.Deadline = &d
	}
	return in, nil
}

type updateTaskRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Status      optionalString `json:"status"`
	Priority    optionalString `json:"priority"`
	Deadline    optionalString `json:"deadline"`
}

func (r updateTaskRequest) toInput() (service.UpdateTaskInput, error) {
	in := service.UpdateTaskInput{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status.present() {
		s, err := parseStatus(r.Status.Value)
		if err != nil {
			return in, err
		}
		in.Status = &s
	}
	switch {
	case r.Priority.Null:
		in.Priority = models.Clear[models.Priority]()
	case r.Priority.Set:
		p, err := parsePriority(r.Priority.Value)
		if err != nil {
			return in, err
		}
		in.Priority = models.SetTo(p)
	}
	switch {
	case r.Deadline.Null:
		in.Deadline = models.Clear[civil.Date]()
	case r.Deadline.Set:
		d, err := parseDeadline(r.Deadline.Value)
		if err != nil {
			return in, err
		}
		in.Deadline = models.SetTo(d)
	}
	return in, nil
}

func parseStatus(s string) (models.RawStatus, error) {
	status, err := models.ParseRawStatus(s)
	if err != nil {
		return "", &service.ValidationError{Field: "status", Message: "status must be ACTIVE or COMPLETED"}
	}
	return status, nil
}

func parsePriority(s string) (models.Priority, error) {
	p, err := models.ParsePriority(s)
	if err != nil {
		return "", &service.ValidationError{Field: "priority", Message: "priority must be one of CRITICAL, HIGH, MEDIUM, LOW"}
	}
	return p, nil
}

// parseDeadline accepts YYYY-MM-DD, or an RFC 3339 timestamp whose date
// part is taken as written.
func parseDeadline(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return civil.DateOf(t), nil
	}
	return civil.Date{}, &service.ValidationError{
		Field:   "deadline",
		Message: "deadline must be a date in YYYY-MM-DD format",
	}
}

type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}
