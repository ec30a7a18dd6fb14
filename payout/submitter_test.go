package payout

import (
	"context"
	"testing"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/disperse-labs/disperse/core/ledger"
	"github.com/disperse-labs/disperse/pkg/config"
	"github.com/disperse-labs/disperse/test/mocks"
	"github.com/disperse-labs/disperse/types"
)

// newTestManager creates a Manager with instant sleeps and a quiet logger.
func newTestManager(t *testing.T, led ledger.Ledger) *Manager {
	t.Helper()
	logger := logging.Logger("test")
	_ = logging.SetLogLevel("test", "FATAL")

	cfg := config.PayoutConfig{
		BatchSize:  5,
		MaxRetries: 3,
		RetryDelay: config.DurationWrapper{Duration: time.Millisecond},
		BatchDelay: config.DurationWrapper{Duration: time.Millisecond},
		Commitment: "finalized",
	}
	m := NewManager(led, cfg, logger, NopMetrics())
	m.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return m
}

func testBatch(n int) types.Batch {
	return types.Batch{Instructions: makeInstructions(n)}
}

// mockFreshness stubs the per-attempt blockhash and height fetches with a
// window that has not expired.
func mockFreshness(led *mocks.MockLedger) {
	led.On("LatestBlockhash", mock.Anything).Return("blockhash1", uint64(100), nil)
	led.On("BlockHeight", mock.Anything).Return(uint64(50), nil)
}

func TestSubmitBatchFirstAttemptSuccess(t *testing.T) {
	led := &mocks.MockLedger{}
	mockFreshness(led)
	led.On("SubmitAndConfirm", mock.Anything, mock.Anything, "blockhash1", uint64(100), ledger.CommitmentFinalized).
		Return("sig1", nil)

	m := newTestManager(t, led)
	outcome := m.submitBatch(context.Background(), testBatch(3))

	require.True(t, outcome.Fulfilled())
	assert.Equal(t, "sig1", outcome.Signature)
	led.AssertNumberOfCalls(t, "SubmitAndConfirm", 1)
	led.AssertNotCalled(t, "SignatureStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitBatchExpiredThenFinalized(t *testing.T) {
	led := &mocks.MockLedger{}
	mockFreshness(led)
	led.On("SubmitAndConfirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("sigA", ledger.ErrExpired)
	led.On("SignatureStatus", mock.Anything, "sigA", true).
		Return(ledger.CommitmentFinalized, true, nil)

	m := newTestManager(t, led)
	outcome := m.submitBatch(context.Background(), testBatch(3))

	require.True(t, outcome.Fulfilled())
	assert.Equal(t, "sigA", outcome.Signature)
	// The transaction landed despite the local expiry, so no further
	// submission attempts are made.
	led.AssertNumberOfCalls(t, "SubmitAndConfirm", 1)
}

func TestSubmitBatchExpiredNeverFinalizedExhaustsRetries(t *testing.T) {
	led := &mocks.MockLedger{}
	mockFreshness(led)
	led.On("SubmitAndConfirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("sigB", ledger.ErrExpired)
	led.On("SignatureStatus", mock.Anything, "sigB", true).
		Return(ledger.Commitment(""), false, nil)

	m := newTestManager(t, led)
	outcome := m.submitBatch(context.Background(), testBatch(3))

	require.False(t, outcome.Fulfilled())
	var exhausted *RetriesExhaustedError
	require.ErrorAs(t, outcome.Err, &exhausted)
	assert.Equal(t, 4, exhausted.Attempts)
	assert.ErrorIs(t, outcome.Err, ledger.ErrExpired)
	led.AssertNumberOfCalls(t, "SubmitAndConfirm", 4)
	led.AssertNumberOfCalls(t, "SignatureStatus", 4)
}

func TestSubmitBatchEmbeddedSignatureFinalized(t *testing.T) {
	led := &mocks.MockLedger{}
	mockFreshness(led)
	led.On("SubmitAndConfirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", &ledger.SubmitError{Message: "timed out awaiting confirmation of signature: " + testSignature})
	led.On("SignatureStatus", mock.Anything, testSignature, true).
		Return(ledger.CommitmentFinalized, true, nil)

	m := newTestManager(t, led)
	outcome := m.submitBatch(context.Background(), testBatch(3))

	require.True(t, outcome.Fulfilled())
	assert.Equal(t, testSignature, outcome.Signature)
	led.AssertNumberOfCalls(t, "SubmitAndConfirm", 1)
}

func TestSubmitBatchGenericErrorNoSignatureRetries(t *testing.T) {
	led := &mocks.MockLedger{}
	mockFreshness(led)
	led.On("SubmitAndConfirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", &ledger.SubmitError{Message: "connection reset by peer"})

	m := newTestManager(t, led)
	outcome := m.submitBatch(context.Background(), testBatch(3))

	require.False(t, outcome.Fulfilled())
	led.AssertNumberOfCalls(t, "SubmitAndConfirm", 4)
	led.AssertNotCalled(t, "SignatureStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitBatchStaleBlockhashSkipsSubmission(t *testing.T) {
	led := &mocks.MockLedger{}
	led.On("LatestBlockhash", mock.Anything).Return("blockhash1", uint64(100), nil)
	led.On("BlockHeight", mock.Anything).Return(uint64(200), nil)

	m := newTestManager(t, led)
	outcome := m.submitBatch(context.Background(), testBatch(3))

	require.False(t, outcome.Fulfilled())
	assert.ErrorIs(t, outcome.Err, ledger.ErrExpired)
	// No signature was ever captured, so there is nothing to reconcile and
	// nothing is submitted.
	led.AssertNotCalled(t, "SubmitAndConfirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	led.AssertNotCalled(t, "SignatureStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitBatchReconcileUnknownKeepsRetrying(t *testing.T) {
	led := &mocks.MockLedger{}
	mockFreshness(led)
	led.On("SubmitAndConfirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("sigC", ledger.ErrExpired)
	led.On("SignatureStatus", mock.Anything, "sigC", true).
		Return(ledger.Commitment(""), false, assert.AnError)

	m := newTestManager(t, led)
	outcome := m.submitBatch(context.Background(), testBatch(3))

	// A degraded status endpoint fails closed: retries are spent and the
	// batch is reported rejected.
	require.False(t, outcome.Fulfilled())
	led.AssertNumberOfCalls(t, "SubmitAndConfirm", 4)
}
