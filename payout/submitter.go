package payout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disperse-labs/disperse/core/ledger"
	"github.com/disperse-labs/disperse/types"
)

// submitBatch drives one batch to a terminal outcome. Each attempt fetches
// a fresh blockhash, submits at the configured commitment and waits for
// confirmation. When an attempt errors, the reconciliation branches decide
// whether the transaction in fact landed before the attempt counts against
// the retry budget.
func (m *Manager) submitBatch(ctx context.Context, batch types.Batch) types.Outcome {
	maxAttempts := m.config.MaxRetries + 1
	start := time.Now()
	defer func() {
		m.metrics.SubmitSeconds.Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if err := m.sleep(ctx, m.config.RetryDelay.Duration); err != nil {
				lastErr = err
				break
			}
			m.metrics.SubmissionRetries.Add(1)
		}

		sig, err := m.attemptSubmission(ctx, batch)
		if err == nil {
			m.logger.Info("batch confirmed",
				"signature", sig,
				"attempt", attempt,
				"transfers", len(batch.Instructions),
			)
			return types.Outcome{Signature: sig}
		}

		if landed, ok := m.recoverFinalized(ctx, sig, err); ok {
			m.logger.Info("batch landed despite submission error",
				"signature", landed,
				"attempt", attempt,
				"cause", err,
			)
			return types.Outcome{Signature: landed}
		}

		m.logger.Error("batch submission failed",
			"attempt", attempt,
			"maxAttempts", maxAttempts,
			"error", err,
		)
		lastErr = err
	}

	return types.Outcome{Err: &RetriesExhaustedError{Attempts: maxAttempts, Err: lastErr}}
}

// attemptSubmission performs one submission cycle: fetch a fresh blockhash,
// check it has not already expired, submit and await confirmation. The
// returned signature may be non-empty even on error, when the send itself
// went through before confirmation failed.
func (m *Manager) attemptSubmission(ctx context.Context, batch types.Batch) (types.Signature, error) {
	blockhash, lastValid, err := m.ledger.LatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching blockhash: %w", err)
	}
	height, err := m.ledger.BlockHeight(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching block height: %w", err)
	}
	if height > lastValid {
		// The blockhash is already stale; skip the network round-trip and
		// retry with a fresh one.
		return "", ledger.ErrExpired
	}
	return m.ledger.SubmitAndConfirm(ctx, batch, blockhash, lastValid, ledger.Commitment(m.config.Commitment))
}

// recoverFinalized decides whether a failed submission actually reached
// finality. An expiry with a captured signature is the strongest hint and
// is checked first; a signature embedded in a generic error message is
// weaker evidence and is checked as a fallback. Both branches ask the
// network rather than trusting the error's own framing.
func (m *Manager) recoverFinalized(ctx context.Context, sig types.Signature, submitErr error) (types.Signature, bool) {
	if errors.Is(submitErr, ledger.ErrExpired) {
		if sig == "" {
			return "", false
		}
		if m.reconcile(ctx, sig) == ledger.FinalityFinalized {
			return sig, true
		}
		return "", false
	}

	candidate, ok := extractSignature(submitErr)
	if !ok {
		return "", false
	}
	if m.reconcile(ctx, candidate) == ledger.FinalityFinalized {
		return candidate, true
	}
	return "", false
}
