package main

import "errors"

var (
	// ErrValidation rejects an operation before anything is mutated.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when an operation names an id the store doesn't hold.
	ErrNotFound = errors.New("task not found")
	// ErrPersistence reports a storage read/write failure. When returned from a
	// TaskStore mutation, the mutation has already been applied in memory.
	ErrPersistence = errors.New("persistence failed")
)
