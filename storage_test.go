package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// kvBackends opens each KeyValueStore implementation in a fresh temp dir.
func kvBackends(t *testing.T) map[string]KeyValueStore {
	t.Helper()
	dir := t.TempDir()

	files, err := NewFileStore(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("NewFileStore err = %v", err)
	}
	db, err := NewSQLiteStore(filepath.Join(dir, "db", "todo.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore err = %v", err)
	}
	stores := map[string]KeyValueStore{
		"file":   files,
		"sqlite": db,
		"memory": NewMemoryStore(),
	}
	t.Cleanup(func() {
		for _, kv := range stores {
			kv.Close()
		}
	})
	return stores
}

// failingKV errors on every call.
type failingKV struct{}

func (failingKV) Get(string) ([]byte, error) { return nil, errors.New("io error") }
func (failingKV) Set(string, []byte) error   { return errors.New("io error") }
func (failingKV) Close() error               { return nil }

// flakyKV wraps a MemoryStore and fails the next getFailures Get calls.
type flakyKV struct {
	*MemoryStore
	getFailures int
}

func (f *flakyKV) Get(key string) ([]byte, error) {
	if f.getFailures > 0 {
		f.getFailures--
		return nil, errors.New("EIO")
	}
	return f.MemoryStore.Get(key)
}

// ---------------------------------------------------------------------------
// KeyValueStore backends
// ---------------------------------------------------------------------------

func TestKeyValueStores(t *testing.T) {
	for name, kv := range kvBackends(t) {
		if _, err := kv.Get("absent"); !errors.Is(err, ErrKeyNotFound) {
			t.Fatalf("%s: Get(absent) err = %v, want %v", name, err, ErrKeyNotFound)
		}
		if err := kv.Set("k", []byte("v1")); err != nil {
			t.Fatalf("%s: Set err = %v", name, err)
		}
		if err := kv.Set("k", []byte("v2")); err != nil {
			t.Fatalf("%s: overwrite err = %v", name, err)
		}
		got, err := kv.Get("k")
		if err != nil || string(got) != "v2" {
			t.Fatalf("%s: Get(k) = %q, %v; want v2", name, got, err)
		}
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore err = %v", err)
	}
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		if err := fs.Set(key, []byte("x")); err == nil {
			t.Fatalf("Set(%q) err = nil, want error", key)
		}
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewFileStore(dir)
	fs.Set("galacticTodos", []byte("[]"))
	fs.Set("galacticTodos", []byte("[1]"))

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir err = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "galacticTodos" {
		names := []string{}
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only galacticTodos, got %v", names)
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")
	db, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore err = %v", err)
	}
	db.Set("theme", []byte("dark"))
	db.Close()

	db, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen err = %v", err)
	}
	defer db.Close()
	got, err := db.Get("theme")
	if err != nil || string(got) != "dark" {
		t.Fatalf("Get(theme) = %q, %v; want dark", got, err)
	}
}

// ---------------------------------------------------------------------------
// Repository
// ---------------------------------------------------------------------------

func TestRepositoryRoundTripThroughStore(t *testing.T) {
	for name, kv := range kvBackends(t) {
		repo := NewRepository(kv, "", "")
		s := newTestStore(repo)
		due := NewDate(2024, 8, 1)
		a, _ := s.Add("alpha", CategoryWork, PriorityHigh, &due)
		b := mustAdd(t, s, "beta")
		c := mustAdd(t, s, "gamma")
		s.Toggle(b.ID)
		if err := s.Reorder([]string{a.ID, c.ID, b.ID}); err != nil {
			t.Fatalf("%s: Reorder err = %v", name, err)
		}

		reopened := OpenTaskStore(repo)
		want := s.Tasks()
		got := reopened.Tasks()
		if !equalIDs(ids(got), ids(want)) {
			t.Fatalf("%s: order want %v, got %v", name, ids(want), ids(got))
		}
		for i := range want {
			assertSameTask(t, want[i], got[i])
		}
	}
}

func TestRepositoryMissingStateIsEmpty(t *testing.T) {
	repo := NewRepository(NewMemoryStore(), "", "")
	tasks, err := repo.LoadTasks()
	if err != nil || tasks == nil || len(tasks) != 0 {
		t.Fatalf("LoadTasks() = %v, %v; want empty, nil", tasks, err)
	}
}

func TestRepositoryCorruptStateIsEmpty(t *testing.T) {
	kv := NewMemoryStore()
	kv.Set(defaultTasksKey, []byte("{not json"))
	repo := NewRepository(kv, "", "")

	tasks, err := repo.LoadTasks()
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("LoadTasks() err = %v, want %v", err, ErrPersistence)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty list, got %d tasks", len(tasks))
	}

	if kept, err := kv.Get(defaultTasksKey + ".corrupt"); err != nil || string(kept) != "{not json" {
		t.Fatalf("corrupt blob copy = %q, %v; want original bytes", kept, err)
	}

	s := OpenTaskStore(repo)
	if s.Len() != 0 {
		t.Fatalf("store should start empty, got %d", s.Len())
	}
	mustAdd(t, s, "fresh start")
	if again := OpenTaskStore(repo); again.Len() != 1 {
		t.Fatalf("save after corrupt load: want 1 task, got %d", again.Len())
	}
}

func TestRepositoryReadFailure(t *testing.T) {
	repo := NewRepository(failingKV{}, "", "")
	tasks, err := repo.LoadTasks()
	if !errors.Is(err, ErrPersistence) || len(tasks) != 0 {
		t.Fatalf("LoadTasks() = %v, %v; want empty and %v", tasks, err, ErrPersistence)
	}
	if err := repo.SaveTasks(nil); !errors.Is(err, ErrPersistence) {
		t.Fatalf("SaveTasks() err = %v, want %v", err, ErrPersistence)
	}
}

func TestRepositoryReadFailureDoesNotOverwrite(t *testing.T) {
	kv := &flakyKV{MemoryStore: NewMemoryStore()}
	seed := newTestStore(NewRepository(kv, "", ""))
	for _, text := range []string{"a", "b", "c"} {
		mustAdd(t, seed, text)
	}

	// the load and the retry on the first save both fail
	kv.getFailures = 2
	repo := NewRepository(kv, "", "")
	s := OpenTaskStore(repo)
	if s.Len() != 0 {
		t.Fatalf("unreadable storage: want empty store, got %d", s.Len())
	}
	if _, err := s.Add("new", CategoryOther, PriorityMedium, nil); !errors.Is(err, ErrPersistence) {
		t.Fatalf("Add() err = %v, want %v", err, ErrPersistence)
	}
	stored, err := NewRepository(kv, "", "").LoadTasks()
	if err != nil || len(stored) != 3 {
		t.Fatalf("stored list after refused save: got %d tasks, %v; want 3", len(stored), err)
	}

	// storage recovers: the old blob is set aside, then the save goes through
	if _, err := s.Add("newer", CategoryOther, PriorityMedium, nil); err != nil {
		t.Fatalf("Add() after recovery err = %v", err)
	}
	aside, err := decodeTasksFrom(kv, defaultTasksKey+".unread")
	if err != nil || len(aside) != 3 {
		t.Fatalf("set-aside list: got %d tasks, %v; want 3", len(aside), err)
	}
	if again := OpenTaskStore(NewRepository(kv, "", "")); again.Len() != 2 {
		t.Fatalf("saved list: want 2 tasks, got %d", again.Len())
	}
}

func TestRepositoryReadRecoversBeforeSave(t *testing.T) {
	kv := &flakyKV{MemoryStore: NewMemoryStore(), getFailures: 1}
	repo := NewRepository(kv, "", "")
	if _, err := repo.LoadTasks(); !errors.Is(err, ErrPersistence) {
		t.Fatalf("LoadTasks() err = %v, want %v", err, ErrPersistence)
	}
	// nothing was stored, so there is nothing to set aside
	if err := repo.SaveTasks([]Task{{ID: "x", Text: "t", Category: CategoryWork, Priority: PriorityLow}}); err != nil {
		t.Fatalf("SaveTasks() err = %v", err)
	}
	if _, err := kv.Get(defaultTasksKey + ".unread"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("unexpected set-aside copy, err = %v", err)
	}
}

func decodeTasksFrom(kv KeyValueStore, key string) ([]Task, error) {
	blob, err := kv.Get(key)
	if err != nil {
		return nil, err
	}
	return decodeTasks(blob)
}

func TestRepositoryCustomKeys(t *testing.T) {
	kv := NewMemoryStore()
	repo := NewRepository(kv, "work-list", "work-theme")
	repo.SaveTasks([]Task{{ID: "x", Text: "t", Category: CategoryWork, Priority: PriorityLow}})
	repo.SaveTheme(ThemeDark)

	if _, err := kv.Get("work-list"); err != nil {
		t.Fatalf("tasks not stored under custom key: %v", err)
	}
	if v, _ := kv.Get("work-theme"); string(v) != "dark" {
		t.Fatalf("theme under custom key: got %q", v)
	}
	if _, err := kv.Get(defaultTasksKey); !errors.Is(err, ErrKeyNotFound) {
		t.Fatal("default key should be untouched")
	}
}

// ---------------------------------------------------------------------------
// Theme
// ---------------------------------------------------------------------------

func TestRepositoryTheme(t *testing.T) {
	kv := NewMemoryStore()
	repo := NewRepository(kv, "", "")
	if th := repo.LoadTheme(); th != ThemeLight {
		t.Fatalf("default theme: want light, got %s", th)
	}
	if err := repo.SaveTheme(ThemeDark); err != nil {
		t.Fatalf("SaveTheme err = %v", err)
	}
	if th := repo.LoadTheme(); th != ThemeDark {
		t.Fatalf("saved theme: want dark, got %s", th)
	}
	kv.Set(defaultThemeKey, []byte("sepia"))
	if th := repo.LoadTheme(); th != ThemeLight {
		t.Fatalf("unknown stored theme: want light, got %s", th)
	}
	if err := repo.SaveTheme(Theme("sepia")); !errors.Is(err, ErrValidation) {
		t.Fatalf("SaveTheme(sepia) err = %v, want %v", err, ErrValidation)
	}
}

func TestThemePreferenceToggle(t *testing.T) {
	repo := NewRepository(NewMemoryStore(), "", "")
	pref := LoadThemePreference(repo)

	th, err := pref.Toggle()
	if err != nil || th != ThemeDark {
		t.Fatalf("Toggle() = %s, %v; want dark", th, err)
	}
	if LoadThemePreference(repo).Get() != ThemeDark {
		t.Fatal("toggled theme was not saved")
	}
	th, _ = pref.Toggle()
	if th != ThemeLight {
		t.Fatalf("second Toggle() = %s, want light", th)
	}
}

func TestThemePreferenceSaveFailureKeepsValue(t *testing.T) {
	pref := LoadThemePreference(NewRepository(failingKV{}, "", ""))
	if pref.Get() != ThemeLight {
		t.Fatalf("unreadable theme: want light, got %s", pref.Get())
	}
	th, err := pref.Set(ThemeDark)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("Set() err = %v, want %v", err, ErrPersistence)
	}
	if th != ThemeDark || pref.Get() != ThemeDark {
		t.Fatal("in-memory theme should change even when saving fails")
	}
}
