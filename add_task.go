// add_task.go defines the tool types for creating and changing single tasks:
// add_task, toggle_task, edit_task and delete_task.
package main

// AddTaskArgs is the input for the add_task tool.
type AddTaskArgs struct {
	Text     string `json:"text" jsonschema:"Task description; surrounding whitespace is trimmed"`
	Category string `json:"category,omitempty" jsonschema:"One of work, personal, study, other. Defaults to other."`
	Priority string `json:"priority,omitempty" jsonschema:"One of low, medium, high. Defaults to medium."`
	DueDate  string `json:"due_date,omitempty" jsonschema:"Optional due date as YYYY-MM-DD"`
}

// ToggleTaskArgs is the input for the toggle_task tool.
type ToggleTaskArgs struct {
	ID string `json:"id" jsonschema:"ID of the task to mark done or not done"`
}

// EditTaskArgs is the input for the edit_task tool.
type EditTaskArgs struct {
	ID   string `json:"id" jsonschema:"ID of the task to edit"`
	Text string `json:"text" jsonschema:"New task description"`
}

// DeleteTaskArgs is the input for the delete_task tool.
type DeleteTaskArgs struct {
	ID string `json:"id" jsonschema:"ID of the task to delete"`
}

// DeleteTaskOutput reports the removed task.
type DeleteTaskOutput struct {
	Deleted TaskView `json:"deleted"`
	Warning string   `json:"warning,omitempty"`
}
