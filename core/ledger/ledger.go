package ledger

import (
	"context"

	"github.com/disperse-labs/disperse/types"
)

// Commitment is the confirmation tier requested from, or reported by, the
// network.
type Commitment string

// Commitment tiers, weakest to strongest.
const (
	CommitmentProcessed Commitment = "processed"
	CommitmentConfirmed Commitment = "confirmed"
	CommitmentFinalized Commitment = "finalized"
)

// Finality classifies the authoritative status of a previously submitted
// transaction.
type Finality uint64

const (
	// FinalityUnknown means the status lookup itself failed. Callers must
	// treat it as not finalized for retry purposes, but it indicates a
	// degraded status-query path rather than a failed transaction.
	FinalityUnknown Finality = iota
	// FinalityNotFinalized means the network reports no status, or a status
	// below the finalized tier.
	FinalityNotFinalized
	// FinalityFinalized means the network guarantees the transaction will
	// not be reverted.
	FinalityFinalized
)

func (f Finality) String() string {
	switch f {
	case FinalityNotFinalized:
		return "not_finalized"
	case FinalityFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Ledger defines a generic interface for interaction with the ledger
// network. Implementations wrap every raw client failure into the closed
// error set of this package at the point of call.
type Ledger interface {
	// LatestBlockhash returns a fresh blockhash together with the last
	// block height at which it is still valid.
	LatestBlockhash(ctx context.Context) (types.Blockhash, uint64, error)

	// BlockHeight returns the network's current block height.
	BlockHeight(ctx context.Context) (uint64, error)

	// SubmitAndConfirm signs and submits a single transaction carrying
	// every transfer in batch, then waits synchronously until it reaches
	// the given commitment. When the blockhash's validity window elapses
	// before the commitment is observed, the captured signature is
	// returned together with ErrExpired. Any other failure is reported as
	// a SubmitError.
	SubmitAndConfirm(ctx context.Context, batch types.Batch, blockhash types.Blockhash, lastValidHeight uint64, commitment Commitment) (types.Signature, error)

	// SignatureStatus looks up the authoritative confirmation status of
	// sig. searchHistory widens the lookup beyond the recent-status cache,
	// which is required for signatures that were submitted moments ago.
	// The boolean reports whether any status exists for the signature.
	SignatureStatus(ctx context.Context, sig types.Signature, searchHistory bool) (Commitment, bool, error)
}
