// codec.go converts between the task collection and the stored JSON blob.
//
// Decoding is forgiving about individual fields: older blobs
// carry numeric ids and empty due dates, and a hand-edited file should lose
// at most the broken field, not the whole list. Only a blob that isn't a JSON
// array at all is rejected.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// createdAtLayout matches JavaScript's Date.toISOString output.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// taskRecord is the on-disk shape of one task.
type taskRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	DueDate   string `json:"dueDate,omitempty"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// encodeTasks serializes tasks in order.
func encodeTasks(tasks []Task) ([]byte, error) {
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		r := taskRecord{
			ID:        t.ID,
			Text:      t.Text,
			Category:  string(t.Category),
			Priority:  string(t.Priority),
			Completed: t.Completed,
		}
		if t.DueDate != nil {
			r.DueDate = t.DueDate.String()
		}
		r.CreatedAt = formatCreatedAt(t.CreatedAt)
		records = append(records, r)
	}
	return json.Marshal(records)
}

// decodeTasks parses a stored blob. It fails only when the blob is not a JSON
// array; malformed elements and fields are repaired or skipped.
func decodeTasks(blob []byte) ([]Task, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}

	tasks := make([]Task, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, elem := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			continue
		}
		t, ok := decodeTask(fields)
		if !ok {
			continue
		}
		if t.ID == "" || seen[t.ID] {
			t.ID = uuid.NewString()
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// decodeTask builds a Task from one element's fields. It reports false when
// the element has no usable text.
func decodeTask(fields map[string]json.RawMessage) (Task, bool) {
	text := strings.TrimSpace(stringField(fields["text"]))
	if text == "" {
		return Task{}, false
	}
	t := Task{
		ID:        idField(fields["id"]),
		Text:      text,
		Category:  CategoryOther,
		Priority:  PriorityMedium,
		Completed: boolField(fields["completed"]),
	}
	if c := Category(stringField(fields["category"])); c.Valid() {
		t.Category = c
	}
	if p := Priority(stringField(fields["priority"])); p.Valid() {
		t.Priority = p
	}
	if d, ok := dueDateField(fields["dueDate"]); ok {
		t.DueDate = &d
	}
	if ts := stringField(fields["createdAt"]); ts != "" {
		if created, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			t.CreatedAt = created.UTC()
		}
	}
	return t, true
}

// formatCreatedAt renders t in toISOString form. Times with sub-millisecond
// digits keep them via RFC3339Nano. The zero time renders as "".
func formatCreatedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	if t.Nanosecond()%int(time.Millisecond) != 0 {
		return t.Format(time.RFC3339Nano)
	}
	return t.Format(createdAtLayout)
}

func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func boolField(raw json.RawMessage) bool {
	var b bool
	if len(raw) == 0 || json.Unmarshal(raw, &b) != nil {
		return false
	}
	return b
}

// idField accepts string ids and the numeric ids older blobs used.
func idField(raw json.RawMessage) string {
	if s := strings.TrimSpace(stringField(raw)); s != "" {
		return s
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if len(raw) == 0 || dec.Decode(&n) != nil {
		return ""
	}
	return n.String()
}

// dueDateField accepts YYYY-MM-DD or a full timestamp, keeping its date part.
func dueDateField(raw json.RawMessage) (Date, bool) {
	s := strings.TrimSpace(stringField(raw))
	if s == "" {
		return Date{}, false
	}
	if d, err := ParseDate(s); err == nil {
		return d, true
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(ts), true
	}
	return Date{}, false
}
