// task_view.go defines the task view returned by every tool, plus the
// get_task tool types.
package main

import (
	"time"
)

// TaskView is the rendered form of a task. Overdue and DueLabel are computed
// at the time the view is built and never stored.
type TaskView struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	DueDate   string `json:"due_date,omitempty"`  // YYYY-MM-DD
	DueLabel  string `json:"due_label,omitempty"` // "Today", "Tomorrow" or e.g. "Mar 4"
	Completed bool   `json:"completed"`
	Overdue   bool   `json:"overdue"`
	CreatedAt string `json:"created_at,omitempty"`
}

// GetTaskArgs is the input for the get_task tool.
type GetTaskArgs struct {
	ID string `json:"id" jsonschema:"ID of the task to fetch"`
}

// TaskOutput wraps a single task. Warning is set when the change was applied
// but could not be saved.
type TaskOutput struct {
	Task    TaskView `json:"task"`
	Warning string   `json:"warning,omitempty"`
}

func newTaskView(t Task, now time.Time) TaskView {
	v := TaskView{
		ID:        t.ID,
		Text:      t.Text,
		Category:  string(t.Category),
		Priority:  string(t.Priority),
		Completed: t.Completed,
		Overdue:   t.IsOverdue(now),
		CreatedAt: formatCreatedAt(t.CreatedAt),
	}
	if t.DueDate != nil {
		v.DueDate = t.DueDate.String()
		v.DueLabel = dueLabel(*t.DueDate, now)
	}
	return v
}

func newTaskViews(tasks []Task, now time.Time) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskView(t, now))
	}
	return views
}

// dueLabel names today and tomorrow and falls back to a short month/day.
func dueLabel(d Date, now time.Time) string {
	today := DateOf(now)
	switch {
	case d.Equal(today):
		return "Today"
	case d.Equal(DateOf(today.AddDate(0, 0, 1))):
		return "Tomorrow"
	}
	return d.Format("Jan 2")
}
