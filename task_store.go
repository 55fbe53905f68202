// task_store.go implements the thread-safe task store that owns the task list.
//
// Every MCP tool handler goes through this store. The MCP server may dispatch
// tool calls concurrently, so a mutex serializes all operations. After each
// successful mutation the store saves a snapshot through its TaskPersister
// while still holding the lock, which keeps saves in mutation order.
package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskPersister is the durable storage collaborator. Repository implements it
// on top of a KeyValueStore.
type TaskPersister interface {
	LoadTasks() ([]Task, error)
	SaveTasks(tasks []Task) error
}

// TaskStore holds the task collection. Tasks are stored in a map for O(1)
// lookup and a separate slice that carries display order (newest first unless
// reordered).
type TaskStore struct {
	mu        sync.Mutex
	tasks     map[string]*Task
	order     []string // display order; always a permutation of the map keys
	persister TaskPersister

	now   func() time.Time
	newID func() string
}

// NewTaskStore creates an empty store. A nil persister keeps the store
// in memory only.
func NewTaskStore(p TaskPersister) *TaskStore {
	return &TaskStore{
		tasks:     make(map[string]*Task),
		persister: p,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// OpenTaskStore creates a store seeded from p. A load failure is logged and
// the store starts empty: corrupt storage must never block the user. It is up
// to p to keep the unloaded data from being overwritten by the next save.
func OpenTaskStore(p TaskPersister) *TaskStore {
	s := NewTaskStore(p)
	if p == nil {
		return s
	}
	loaded, err := p.LoadTasks()
	if err != nil {
		log.Printf("load tasks: %v (starting with an empty list)", err)
		return s
	}
	for _, t := range loaded {
		if _, dup := s.tasks[t.ID]; dup || t.ID == "" {
			continue
		}
		tc := t.clone()
		s.tasks[tc.ID] = &tc
		s.order = append(s.order, tc.ID)
	}
	return s
}

// Add creates a task at the front of the list.
func (s *TaskStore) Add(text string, category Category, priority Priority, due *Date) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, fmt.Errorf("%w: task text is empty", ErrValidation)
	}
	if !category.Valid() {
		return Task{}, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: unknown priority %q", ErrValidation, priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:        s.uniqueID(),
		Text:      text,
		Category:  category,
		Priority:  priority,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if due != nil {
		d := *due
		t.DueDate = &d
	}
	s.tasks[t.ID] = &t
	s.order = append([]string{t.ID}, s.order...)
	return t.clone(), s.saveLocked()
}

// uniqueID draws ids until one is unused. With uuids the loop runs once; it
// guards injected generators in tests.
func (s *TaskStore) uniqueID() string {
	for {
		id := s.newID()
		if _, taken := s.tasks[id]; !taken && id != "" {
			return id
		}
	}
}

// Get returns a copy of the task with the given id.
func (s *TaskStore) Get(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, notFound(id)
	}
	return t.clone(), nil
}

// Toggle flips the completed flag.
func (s *TaskStore) Toggle(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, notFound(id)
	}
	t.Completed = !t.Completed
	return t.clone(), s.saveLocked()
}

// Edit replaces the task's text. Validation happens before lookup so a
// rejected edit never touches the collection.
func (s *TaskStore) Edit(id, newText string) (Task, error) {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return Task{}, fmt.Errorf("%w: task text is empty", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, notFound(id)
	}
	t.Text = newText
	return t.clone(), s.saveLocked()
}

// Delete removes the task and returns what was removed.
func (s *TaskStore) Delete(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, notFound(id)
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return t.clone(), s.saveLocked()
}

// ClearCompleted removes every completed task and returns how many were
// removed. Nothing is saved when nothing changed.
func (s *TaskStore) ClearCompleted() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]string, 0, len(s.order))
	removed := 0
	for _, id := range s.order {
		if s.tasks[id].Completed {
			delete(s.tasks, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	if removed == 0 {
		return 0, nil
	}
	s.order = kept
	return removed, s.saveLocked()
}

// Reorder replaces the display order. ids must name every task exactly once;
// anything else is rejected so a stale or partial order can never drop tasks.
func (s *TaskStore) Reorder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) != len(s.order) {
		return fmt.Errorf("%w: reorder lists %d ids, store holds %d", ErrValidation, len(ids), len(s.order))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := s.tasks[id]; !ok {
			return fmt.Errorf("%w: reorder names unknown id %q", ErrValidation, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: reorder lists id %q twice", ErrValidation, id)
		}
		seen[id] = true
	}

	s.order = append([]string(nil), ids...)
	return s.saveLocked()
}

// Tasks returns a snapshot of the collection in display order.
func (s *TaskStore) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Order returns the current id sequence.
func (s *TaskStore) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// View returns the filtered, searched projection of the current collection.
func (s *TaskStore) View(filter StatusFilter, query string) []Task {
	return FilterTasks(s.Tasks(), filter, query)
}

// Stats computes statistics over the current collection.
func (s *TaskStore) Stats(now time.Time) Stats {
	return ComputeStats(s.Tasks(), now)
}

func (s *TaskStore) snapshotLocked() []Task {
	out := make([]Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id].clone())
	}
	return out
}

// saveLocked persists the current snapshot. A failure leaves the in-memory
// state as it is and is reported wrapped in ErrPersistence.
func (s *TaskStore) saveLocked() error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveTasks(s.snapshotLocked()); err != nil {
		log.Printf("save tasks: %v", err)
		if errors.Is(err, ErrPersistence) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}
