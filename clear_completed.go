// clear_completed.go defines the bulk tools that change the list as a whole:
// clear_completed and reorder_tasks.
package main

// ClearCompletedArgs is the input for the clear_completed tool. No arguments needed.
type ClearCompletedArgs struct{}

// ClearCompletedOutput reports how many completed tasks were removed.
type ClearCompletedOutput struct {
	Removed int    `json:"removed"`
	Warning string `json:"warning,omitempty"`
}

// ReorderTasksArgs is the input for the reorder_tasks tool. The renderer
// translates a drag gesture into the full new id sequence.
type ReorderTasksArgs struct {
	IDs []string `json:"ids" jsonschema:"Every task ID exactly once, in the new display order"`
}

// ReorderTasksOutput echoes the order now in effect.
type ReorderTasksOutput struct {
	Order   []string `json:"order"`
	Warning string   `json:"warning,omitempty"`
}
