package main

import (
	"fmt"
	"strings"
	"sync"
)

// Theme is the saved light/dark preference. It lives next to the task list in
// storage but is not part of it.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether th is light or dark.
func (th Theme) Valid() bool {
	return th == ThemeLight || th == ThemeDark
}

// Toggled returns the opposite theme.
func (th Theme) Toggled() Theme {
	if th == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme validates user input. Empty input is rejected; callers decide
// what "no theme given" means.
func ParseTheme(s string) (Theme, error) {
	th := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !th.Valid() {
		return "", fmt.Errorf("%w: unknown theme %q, want light or dark", ErrValidation, s)
	}
	return th, nil
}

// ThemeStore persists the theme preference. Repository implements it.
type ThemeStore interface {
	LoadTheme() Theme
	SaveTheme(th Theme) error
}

// ThemePreference holds the theme in effect for the session. Like the task
// list, the in-memory value stays authoritative when saving fails.
type ThemePreference struct {
	mu      sync.Mutex
	current Theme
	store   ThemeStore
}

// LoadThemePreference reads the saved theme from store. A nil store keeps
// the preference in memory only.
func LoadThemePreference(store ThemeStore) *ThemePreference {
	p := &ThemePreference{current: ThemeLight, store: store}
	if store != nil {
		p.current = store.LoadTheme()
	}
	return p
}

// Get returns the theme in effect.
func (p *ThemePreference) Get() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Set switches to th and saves it. The returned error wraps ErrPersistence
// when only the save failed.
func (p *ThemePreference) Set(th Theme) (Theme, error) {
	if !th.Valid() {
		return p.Get(), fmt.Errorf("%w: unknown theme %q", ErrValidation, th)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setLocked(th)
}

// Toggle flips between light and dark.
func (p *ThemePreference) Toggle() (Theme, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setLocked(p.current.Toggled())
}

func (p *ThemePreference) setLocked(th Theme) (Theme, error) {
	p.current = th
	if p.store == nil {
		return th, nil
	}
	return th, p.store.SaveTheme(th)
}
