package types

// Address is a base58-encoded account public key on the ledger.
type Address = string

// Signature is the base58-encoded transaction signature returned by the
// network on acceptance. It is the key used for later status lookups.
type Signature = string

// Blockhash is a recent blockhash attached to a transaction immediately
// before submission. A blockhash is only valid up to its associated
// last-valid-block-height; submissions carrying a stale one are rejected
// as expired.
type Blockhash = string

// Recipient is one entry of the materialized recipient list: the token
// account that qualified it and the wallet that owns it. Payouts are sent
// to the owner.
type Recipient struct {
	Owner   Address `json:"owner"`
	Address Address `json:"address"`
}

// TransferInstruction moves Lamports to a single recipient. Immutable once
// constructed.
type TransferInstruction struct {
	Recipient Address
	Lamports  uint64
}

// Batch is an ordered group of transfers submitted atomically as one
// transaction.
type Batch struct {
	Instructions []TransferInstruction
}

// Outcome is the terminal result recorded for a batch. Exactly one of
// Signature or Err is set: Signature when the batch reached the requested
// commitment, Err with the final cause otherwise.
type Outcome struct {
	Signature Signature
	Err       error
}

// Fulfilled reports whether the batch landed.
func (o Outcome) Fulfilled() bool {
	return o.Err == nil
}
