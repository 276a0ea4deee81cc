// Package patch parses and validates partial-update payloads. Every entity
// has a fixed whitelist of mutable fields; a payload containing any other key
// is rejected before a single mutation happens. For bulk payloads validation
// is array-wide: one bad item rejects the whole batch.
package patch

import (
	"encoding/json"

	"github.com/tenkil247/taskmanager/internal/common"
	"github.com/tenkil247/taskmanager/internal/daterange"
)

var userFields = map[string]struct{}{
	"password": {},
	"name":     {},
	"age":      {},
}

var taskFields = map[string]struct{}{
	"taskName":    {},
	"description": {},
	"completed":   {},
	"date":        {},
	"grade":       {},
	"priority":    {},
}

// User is a validated partial update of a user profile.
// Nil fields were absent from the payload.
type User struct {
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Age      *int    `json:"age"`
}

// Task is a validated partial update of a task. DateSet distinguishes an
// absent "date" key from an explicit null (which clears the span).
type Task struct {
	TaskName    *string         `json:"taskName"`
	Description *string         `json:"description"`
	Completed   *bool           `json:"completed"`
	Date        *daterange.Span `json:"date"`
	DateSet     bool            `json:"-"`
	Grade       *string         `json:"grade"`
	Priority    *string         `json:"priority"`
}

// TaskItem is one element of a bulk task update: the target id plus its patch.
type TaskItem struct {
	ID string
	Task
}

func checkKeys(raw map[string]json.RawMessage, allowed map[string]struct{}, allowID bool) error {
	for key := range raw {
		if allowID && key == "id" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return common.NewValidationError("unknown field %q", key)
		}
	}
	return nil
}

// ParseUser validates and decodes a user patch payload.
func ParseUser(data []byte) (*User, error) {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, common.NewValidationError("invalid JSON body")
	}
	if err := checkKeys(raw, userFields, false); err != nil {
		return nil, err
	}

	p := &User{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, common.NewValidationError("invalid JSON body")
	}
	return p, nil
}

// ParseTask validates and decodes a single task payload (create or update).
func ParseTask(data []byte) (*Task, error) {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, common.NewValidationError("invalid JSON body")
	}
	return parseTaskRaw(data, raw, false)
}

// ParseTaskBatch validates and decodes a bulk task update payload. All items
// must be individually valid for the batch to be accepted.
func ParseTaskBatch(data []byte) ([]TaskItem, error) {
	var rawItems []json.RawMessage
	if err := json.Unmarshal(data, &rawItems); err != nil {
		return nil, common.NewValidationError("invalid JSON body")
	}

	items := make([]TaskItem, 0, len(rawItems))
	for _, rawItem := range rawItems {
		raw := map[string]json.RawMessage{}
		if err := json.Unmarshal(rawItem, &raw); err != nil {
			return nil, common.NewValidationError("invalid JSON body")
		}
		t, err := parseTaskRaw(rawItem, raw, true)
		if err != nil {
			return nil, err
		}

		item := TaskItem{Task: *t}
		if idRaw, ok := raw["id"]; ok {
			if err := json.Unmarshal(idRaw, &item.ID); err != nil {
				return nil, common.NewValidationError("invalid task id")
			}
		}
		if item.ID == "" {
			return nil, common.NewValidationError("missing task id")
		}
		items = append(items, item)
	}
	return items, nil
}

func parseTaskRaw(data []byte, raw map[string]json.RawMessage, allowID bool) (*Task, error) {
	if err := checkKeys(raw, taskFields, allowID); err != nil {
		return nil, err
	}

	p := &Task{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, common.NewValidationError("invalid JSON body")
	}
	_, p.DateSet = raw["date"]
	return p, nil
}
