// task.go defines the task model owned by TaskStore: the entity itself, its
// enumerated category/priority values, and the calendar Date used for due dates.
package main

import (
	"fmt"
	"strings"
	"time"
)

// Category groups tasks for display. The set is fixed.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryStudy    Category = "study"
	CategoryOther    Category = "other"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryStudy, CategoryOther:
		return true
	}
	return false
}

// ParseCategory resolves user input to a Category. Empty input yields the
// default (other); anything else unknown is a validation error.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryOther, nil
	}
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
	}
	return c, nil
}

// Priority is presentation-only: the store never sorts by it.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority resolves user input to a Priority, defaulting empty input to medium.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
	}
	return p, nil
}

const dateLayout = "2006-01-02"

// Date is a calendar day with no meaningful time component. The wrapped time
// is always midnight UTC so two Dates for the same day compare equal.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day t falls on in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", ErrValidation, s)
	}
	return Date{t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// Before reports whether d is an earlier calendar day than o.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// Equal reports whether d and o are the same calendar day.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

// Task is a single to-do entry.
//
// ID and CreatedAt are fixed when the store creates the task. Text, Completed
// and position change through TaskStore operations only. Tasks handed out by
// the store are copies, so mutating one has no effect on the store.
type Task struct {
	ID        string
	Text      string
	Category  Category
	Priority  Priority
	DueDate   *Date // nil when the task has no due date
	Completed bool
	CreatedAt time.Time
}

// IsOverdue reports whether the task has a due date strictly before the
// calendar day of now and is still open. It is never stored.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	return t.DueDate.Before(DateOf(now))
}

// clone copies t, including its own copy of DueDate.
func (t Task) clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}
