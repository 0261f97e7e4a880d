package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrEmptyMessage is returned when a turn is requested with a blank utterance.
var ErrEmptyMessage = errors.New("message cannot be empty")

// ErrNodeNotFound is returned when a catalog lookup misses.
var ErrNodeNotFound = errors.New("node not found")

// ErrInvalidCatalog is returned when a catalog fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")
