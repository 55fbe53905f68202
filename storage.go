// storage.go implements the persistence adapter: a Repository that keeps the
// task blob and the theme preference in a KeyValueStore, mirroring the two
// keys the browser version kept in localStorage.
package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

const (
	defaultTasksKey = "galacticTodos"
	defaultThemeKey = "theme"

	// suffixes of the keys that hold a task blob we could not use
	corruptSuffix = ".corrupt"
	unreadSuffix  = ".unread"
)

// ErrKeyNotFound is returned by KeyValueStore.Get for a key that was never set.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is durable blob storage addressed by string keys.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// Repository is the TaskPersister backed by a KeyValueStore.
//
// When the task blob could not be read, Repository refuses to overwrite it
// until a later read succeeds, so a transient storage error never replaces a
// list the store has not seen.
type Repository struct {
	kv       KeyValueStore
	tasksKey string
	themeKey string

	mu         sync.Mutex
	loadFailed bool
}

// NewRepository wraps kv. Empty keys fall back to the defaults.
func NewRepository(kv KeyValueStore, tasksKey, themeKey string) *Repository {
	if tasksKey == "" {
		tasksKey = defaultTasksKey
	}
	if themeKey == "" {
		themeKey = defaultThemeKey
	}
	return &Repository{kv: kv, tasksKey: tasksKey, themeKey: themeKey}
}

// LoadTasks returns the stored collection. Missing state is an empty list.
//
// A blob that does not parse is copied to <key>.corrupt and loads as an empty
// list, together with an error wrapping ErrPersistence. A failed read also
// returns an empty list and ErrPersistence, and blocks SaveTasks until the
// key can be read again.
func (r *Repository) LoadTasks() ([]Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blob, err := r.kv.Get(r.tasksKey)
	if errors.Is(err, ErrKeyNotFound) {
		r.loadFailed = false
		return []Task{}, nil
	}
	if err != nil {
		r.loadFailed = true
		return []Task{}, fmt.Errorf("%w: read %s: %v", ErrPersistence, r.tasksKey, err)
	}
	r.loadFailed = false

	tasks, err := decodeTasks(blob)
	if err != nil {
		if serr := r.kv.Set(r.tasksKey+corruptSuffix, blob); serr != nil {
			// without a copy the blob must not be overwritten either
			r.loadFailed = true
			return []Task{}, fmt.Errorf("%w: %s: %v (backup failed: %v)", ErrPersistence, r.tasksKey, err, serr)
		}
		return []Task{}, fmt.Errorf("%w: %s: %v (copied to %s)", ErrPersistence, r.tasksKey, err, r.tasksKey+corruptSuffix)
	}
	return tasks, nil
}

// SaveTasks replaces the stored collection.
func (r *Repository) SaveTasks(tasks []Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadFailed {
		if err := r.setAsideUnread(); err != nil {
			return err
		}
	}
	blob, err := encodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("%w: encode tasks: %v", ErrPersistence, err)
	}
	if err := r.kv.Set(r.tasksKey, blob); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, r.tasksKey, err)
	}
	return nil
}

// setAsideUnread retries the read that failed at load time. If the key now
// reads, its blob is copied to <key>.unread before the caller overwrites it.
func (r *Repository) setAsideUnread() error {
	blob, err := r.kv.Get(r.tasksKey)
	switch {
	case errors.Is(err, ErrKeyNotFound):
	case err != nil:
		return fmt.Errorf("%w: %s is still unreadable, not overwriting: %v", ErrPersistence, r.tasksKey, err)
	default:
		if err := r.kv.Set(r.tasksKey+unreadSuffix, blob); err != nil {
			return fmt.Errorf("%w: copy %s aside: %v", ErrPersistence, r.tasksKey, err)
		}
		log.Printf("stored tasks that failed to load were copied to %s", r.tasksKey+unreadSuffix)
	}
	r.loadFailed = false
	return nil
}

// LoadTheme returns the saved theme, or light when none is stored or the
// stored value is unreadable.
func (r *Repository) LoadTheme() Theme {
	blob, err := r.kv.Get(r.themeKey)
	if err != nil {
		return ThemeLight
	}
	th := Theme(strings.TrimSpace(string(blob)))
	if !th.Valid() {
		return ThemeLight
	}
	return th
}

// SaveTheme stores th as a plain string.
func (r *Repository) SaveTheme(th Theme) error {
	if !th.Valid() {
		return fmt.Errorf("%w: unknown theme %q", ErrValidation, th)
	}
	if err := r.kv.Set(r.themeKey, []byte(th)); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, r.themeKey, err)
	}
	return nil
}

// Close releases the underlying store.
func (r *Repository) Close() error {
	return r.kv.Close()
}
