package pool

import (
	"errors"
	"fmt"
)

// ErrOutOfCapacity is returned when an allocation does not fit in the arena.
var ErrOutOfCapacity = errors.New("pool: out of capacity")

// ErrStaleHandle is the panic value for access through a released handle.
var ErrStaleHandle = errors.New("pool: stale handle")

// CapacityError describes a failed allocation.
type CapacityError struct {
	Requested int // Bytes the allocation needed
	Available int // Bytes left in the arena
}

// Error implements the error interface.
func (e *CapacityError) Error() string {
	return fmt.Sprintf("pool: out of capacity (requested %d bytes, %d available)", e.Requested, e.Available)
}

// Unwrap lets errors.Is match ErrOutOfCapacity.
func (e *CapacityError) Unwrap() error {
	return ErrOutOfCapacity
}

// IsCapacityError reports whether err is an allocation failure.
// Uses errors.Is to handle wrapped errors.
func IsCapacityError(err error) bool {
	return errors.Is(err, ErrOutOfCapacity)
}
