package payout

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned when a batch capacity below 1 is requested.
var ErrInvalidCapacity = errors.New("batch capacity must be at least 1")

// RetriesExhaustedError is the terminal failure recorded for a batch once
// every submission attempt has been spent.
type RetriesExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("all %d submission attempts failed: %v", e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Err
}
