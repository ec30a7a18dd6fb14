package payout

import (
	"context"
	"regexp"

	"github.com/disperse-labs/disperse/core/ledger"
	"github.com/disperse-labs/disperse/types"
)

// signaturePattern matches a base58 signature-shaped token following a
// "signature" marker in a raw client error message. Some client libraries
// report a successful network-level emission as a local error (for
// example a timeout waiting for acknowledgment) and embed the signature
// of the transaction that was actually sent.
var signaturePattern = regexp.MustCompile(`[Ss]ignature[\s:"']+([1-9A-HJ-NP-Za-km-z]{43,88})`)

// extractSignature pulls a candidate signature out of a raw submission
// error. This is the only place free text from the client is parsed.
func extractSignature(err error) (types.Signature, bool) {
	if err == nil {
		return "", false
	}
	match := signaturePattern.FindStringSubmatch(err.Error())
	if match == nil {
		return "", false
	}
	return types.Signature(match[1]), true
}

// reconcile asks the network for the authoritative status of sig, with
// history search enabled since recent submissions may not yet be indexed
// in the fast path. A failing lookup is classified as FinalityUnknown:
// callers treat it like not-finalized for retry purposes, but it is
// surfaced separately because it indicates a degraded status endpoint, not
// a failed transaction.
func (m *Manager) reconcile(ctx context.Context, sig types.Signature) ledger.Finality {
	commitment, found, err := m.ledger.SignatureStatus(ctx, sig, true)
	if err != nil {
		m.metrics.ReconcileUnknown.Add(1)
		m.logger.Error("signature status lookup failed", "signature", sig, "error", err)
		return ledger.FinalityUnknown
	}
	if found && commitment == ledger.CommitmentFinalized {
		m.metrics.ReconcileFinalized.Add(1)
		return ledger.FinalityFinalized
	}
	m.metrics.ReconcileNotFinalized.Add(1)
	m.logger.Debug("signature not finalized", "signature", sig, "found", found, "commitment", commitment)
	return ledger.FinalityNotFinalized
}
