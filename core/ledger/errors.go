package ledger

import (
	"errors"
	"fmt"
)

// ErrExpired signals that a transaction's validity window elapsed before
// the requested commitment was observed locally. It says nothing about
// whether the network accepted the transaction before the deadline.
var ErrExpired = errors.New("transaction expired: last valid block height exceeded")

// SubmitError wraps the raw client-side failure message of a submission
// attempt. The message may embed the signature of a transaction that was
// in fact emitted to the network before the client gave up.
type SubmitError struct {
	Message string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("transaction submission failed: %s", e.Message)
}
