// list_tasks.go defines the read-side tools: list_tasks (filtered, searched
// task views plus stats) and task_stats (stats only).
package main

// ListTasksArgs is the input for the list_tasks tool.
type ListTasksArgs struct {
	Filter string `json:"filter,omitempty" jsonschema:"One of all, active, completed. Defaults to all."`
	Query  string `json:"query,omitempty" jsonschema:"Case-insensitive text search. Empty matches everything."`
}

// ListTasksOutput contains the matching tasks in display order and stats over
// the whole list (not just the matches).
type ListTasksOutput struct {
	Tasks []TaskView      `json:"tasks"`
	Stats TaskStatsOutput `json:"stats"`
}

// TaskStatsArgs is the input for the task_stats tool. No arguments needed.
type TaskStatsArgs struct{}

// TaskStatsOutput provides aggregate counts across all tasks.
type TaskStatsOutput struct {
	Total           int `json:"total"`
	Completed       int `json:"completed"`
	Pending         int `json:"pending"`
	ProgressPercent int `json:"progress_percent"`
	Overdue         int `json:"overdue"`

	// Completed count capped at 99; not a day streak.
	StreakPlaceholder int `json:"streak_placeholder"`
}

func newTaskStatsOutput(st Stats) TaskStatsOutput {
	return TaskStatsOutput{
		Total:             st.Total,
		Completed:         st.Completed,
		Pending:           st.Pending,
		ProgressPercent:   st.ProgressPercent,
		Overdue:           st.Overdue,
		StreakPlaceholder: st.StreakPlaceholder,
	}
}
