package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and background workers
// return these (optionally wrapped) and services translate them into
// domain errors.
//
//   - ErrNotFound: entity does not exist in the store
//   - ErrConflict: a concurrent mutation won the compare-and-swap
//   - ErrInvalidState: entity is in the wrong state for the operation
//   - ErrUnavailable: a collaborator or queue cannot accept work
//
// For validation failures use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
