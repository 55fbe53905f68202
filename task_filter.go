package main

import (
	"fmt"
	"strings"
)

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterActive    StatusFilter = "active"
	FilterCompleted StatusFilter = "completed"
)

// ParseStatusFilter maps user input to a StatusFilter. Empty means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown filter %q, want all, active or completed", ErrValidation, s)
}

func (f StatusFilter) match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	}
	return true
}

// FilterTasks returns the tasks that pass both the status filter and the
// case-insensitive substring search, in their original order. An empty query
// matches every task. The input slice is not modified.
func FilterTasks(tasks []Task, filter StatusFilter, query string) []Task {
	q := strings.ToLower(query)
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !filter.match(t) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Text), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}
