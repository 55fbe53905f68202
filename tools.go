// tools.go registers the MCP tools and implements their handlers.
//
// Each tool is one user intent. Handlers translate arguments, call exactly one
// TaskStore or ThemePreference operation, and render the result as views.
// Validation and not-found errors become tool errors. A failed save is not
// an error from the user's point of view: the change is live in memory, so
// the handler returns success with a warning.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type toolHandlers struct {
	store *TaskStore
	theme *ThemePreference
	now   func() time.Time
}

func newToolHandlers(store *TaskStore, theme *ThemePreference) *toolHandlers {
	return &toolHandlers{store: store, theme: theme, now: time.Now}
}

// registerTools adds every task and theme tool to server.
func registerTools(server *mcp.Server, h *toolHandlers) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_task",
		Description: "Create a task at the top of the list.",
	}, h.addTask)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_task",
		Description: "Fetch a single task by ID.",
	}, h.getTask)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_task",
		Description: "Flip a task between done and not done.",
	}, h.toggleTask)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "edit_task",
		Description: "Replace a task's text.",
	}, h.editTask)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task.",
	}, h.deleteTask)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_completed",
		Description: "Delete every completed task and report how many were removed.",
	}, h.clearCompleted)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "reorder_tasks",
		Description: "Set the display order. ids must contain every task ID exactly once.",
	}, h.reorderTasks)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks in display order, filtered by status and text search, with stats for the whole list.",
	}, h.listTasks)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "task_stats",
		Description: "Totals, progress percentage and overdue count for the whole list.",
	}, h.taskStats)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_theme",
		Description: "Return the saved light/dark theme.",
	}, h.getTheme)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_theme",
		Description: "Set the theme to light or dark, or toggle it when no theme is given.",
	}, h.setTheme)
}

func (h *toolHandlers) addTask(ctx context.Context, req *mcp.CallToolRequest, args AddTaskArgs) (*mcp.CallToolResult, TaskOutput, error) {
	category, err := ParseCategory(args.Category)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	priority, err := ParsePriority(args.Priority)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	var due *Date
	if args.DueDate != "" {
		d, err := ParseDate(args.DueDate)
		if err != nil {
			return nil, TaskOutput{}, err
		}
		due = &d
	}

	task, err := h.store.Add(args.Text, category, priority, due)
	warning, err := splitPersistence(err)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	return nil, TaskOutput{Task: newTaskView(task, h.now()), Warning: warning}, nil
}

func (h *toolHandlers) getTask(ctx context.Context, req *mcp.CallToolRequest, args GetTaskArgs) (*mcp.CallToolResult, TaskOutput, error) {
	task, err := h.store.Get(args.ID)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	return nil, TaskOutput{Task: newTaskView(task, h.now())}, nil
}

func (h *toolHandlers) toggleTask(ctx context.Context, req *mcp.CallToolRequest, args ToggleTaskArgs) (*mcp.CallToolResult, TaskOutput, error) {
	task, err := h.store.Toggle(args.ID)
	warning, err := splitPersistence(err)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	return nil, TaskOutput{Task: newTaskView(task, h.now()), Warning: warning}, nil
}

func (h *toolHandlers) editTask(ctx context.Context, req *mcp.CallToolRequest, args EditTaskArgs) (*mcp.CallToolResult, TaskOutput, error) {
	task, err := h.store.Edit(args.ID, args.Text)
	warning, err := splitPersistence(err)
	if err != nil {
		return nil, TaskOutput{}, err
	}
	return nil, TaskOutput{Task: newTaskView(task, h.now()), Warning: warning}, nil
}

func (h *toolHandlers) deleteTask(ctx context.Context, req *mcp.CallToolRequest, args DeleteTaskArgs) (*mcp.CallToolResult, DeleteTaskOutput, error) {
	task, err := h.store.Delete(args.ID)
	warning, err := splitPersistence(err)
	if err != nil {
		return nil, DeleteTaskOutput{}, err
	}
	return nil, DeleteTaskOutput{Deleted: newTaskView(task, h.now()), Warning: warning}, nil
}

func (h *toolHandlers) clearCompleted(ctx context.Context, req *mcp.CallToolRequest, args ClearCompletedArgs) (*mcp.CallToolResult, ClearCompletedOutput, error) {
	removed, err := h.store.ClearCompleted()
	warning, err := splitPersistence(err)
	if err != nil {
		return nil, ClearCompletedOutput{}, err
	}
	return nil, ClearCompletedOutput{Removed: removed, Warning: warning}, nil
}

func (h *toolHandlers) reorderTasks(ctx context.Context, req *mcp.CallToolRequest, args ReorderTasksArgs) (*mcp.CallToolResult, ReorderTasksOutput, error) {
	warning, err := splitPersistence(h.store.Reorder(args.IDs))
	if err != nil {
		return nil, ReorderTasksOutput{}, err
	}
	return nil, ReorderTasksOutput{Order: h.store.Order(), Warning: warning}, nil
}

func (h *toolHandlers) listTasks(ctx context.Context, req *mcp.CallToolRequest, args ListTasksArgs) (*mcp.CallToolResult, ListTasksOutput, error) {
	filter, err := ParseStatusFilter(args.Filter)
	if err != nil {
		return nil, ListTasksOutput{}, err
	}
	now := h.now()
	// one snapshot for both views so tasks and stats agree
	all := h.store.Tasks()
	return nil, ListTasksOutput{
		Tasks: newTaskViews(FilterTasks(all, filter, args.Query), now),
		Stats: newTaskStatsOutput(ComputeStats(all, now)),
	}, nil
}

func (h *toolHandlers) taskStats(ctx context.Context, req *mcp.CallToolRequest, args TaskStatsArgs) (*mcp.CallToolResult, TaskStatsOutput, error) {
	return nil, newTaskStatsOutput(h.store.Stats(h.now())), nil
}

func (h *toolHandlers) getTheme(ctx context.Context, req *mcp.CallToolRequest, args GetThemeArgs) (*mcp.CallToolResult, ThemeOutput, error) {
	return nil, ThemeOutput{Theme: string(h.theme.Get())}, nil
}

func (h *toolHandlers) setTheme(ctx context.Context, req *mcp.CallToolRequest, args SetThemeArgs) (*mcp.CallToolResult, ThemeOutput, error) {
	var (
		th  Theme
		err error
	)
	if args.Theme == "" {
		th, err = h.theme.Toggle()
	} else {
		th, err = ParseTheme(args.Theme)
		if err != nil {
			return nil, ThemeOutput{}, err
		}
		th, err = h.theme.Set(th)
	}
	warning, err := splitPersistence(err)
	if err != nil {
		return nil, ThemeOutput{}, err
	}
	return nil, ThemeOutput{Theme: string(th), Warning: warning}, nil
}

// splitPersistence separates "applied but not saved" from real failures.
// A persistence error comes back as a warning string and a nil error.
func splitPersistence(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if errors.Is(err, ErrPersistence) {
		return "change applied but not saved: " + err.Error(), nil
	}
	return "", err
}
