package storage

import "errors"

var (
	// ErrNotFound means no row matched; callers distinguish missing
	// data from a store failure through this sentinel.
	ErrNotFound = errors.New("storage: not found")

	// ErrConflict means a guarded write lost to a concurrent one, e.g.
	// a recurring template already materialized for the period.
	ErrConflict = errors.New("storage: conflict")
)
