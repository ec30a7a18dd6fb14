package payout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/disperse-labs/disperse/core/ledger"
	"github.com/disperse-labs/disperse/test/mocks"
	"github.com/disperse-labs/disperse/types"
)

func TestRunFailedBatchDoesNotAbortRun(t *testing.T) {
	batch1 := types.Batch{Instructions: []types.TransferInstruction{{Recipient: "alice", Lamports: 1}}}
	batch2 := types.Batch{Instructions: []types.TransferInstruction{{Recipient: "bob", Lamports: 1}}}

	matchBatch := func(want types.Batch) interface{} {
		return mock.MatchedBy(func(b types.Batch) bool {
			return b.Instructions[0].Recipient == want.Instructions[0].Recipient
		})
	}

	var order []string
	led := &mocks.MockLedger{}
	mockFreshness(led)
	led.On("SubmitAndConfirm", mock.Anything, matchBatch(batch1), mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { order = append(order, "batch1") }).
		Return("", &ledger.SubmitError{Message: "node unavailable"})
	led.On("SubmitAndConfirm", mock.Anything, matchBatch(batch2), mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { order = append(order, "batch2") }).
		Return("sig2", nil)

	m := newTestManager(t, led)
	outcomes := m.Run(context.Background(), []types.Batch{batch1, batch2})

	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Fulfilled())
	require.True(t, outcomes[1].Fulfilled())
	assert.Equal(t, "sig2", outcomes[1].Signature)

	// The second batch is never submitted before the first reaches a
	// terminal state: all four attempts for batch1 come first.
	require.Len(t, order, 5)
	for _, name := range order[:4] {
		assert.Equal(t, "batch1", name)
	}
	assert.Equal(t, "batch2", order[4])
}

func TestRunTwelveInstructionsAcrossThreeBatches(t *testing.T) {
	led := ledger.NewDummyLedger(150, time.Second)

	m := newTestManager(t, led)
	var interBatchDelays int
	m.sleep = func(ctx context.Context, d time.Duration) error {
		interBatchDelays++
		return nil
	}

	batches, err := SplitBatches(makeInstructions(12), 5)
	require.NoError(t, err)
	require.Len(t, batches, 3)

	outcomes := m.Run(context.Background(), batches)
	require.Len(t, outcomes, 3)

	seen := make(map[string]bool)
	for _, outcome := range outcomes {
		require.True(t, outcome.Fulfilled())
		seen[outcome.Signature] = true
	}
	assert.Len(t, seen, 3, "signatures must be distinct")

	// A delay is inserted between consecutive batches, but not after the
	// last one.
	assert.Equal(t, 2, interBatchDelays)
}

func TestExecutePaysOwners(t *testing.T) {
	led := &mocks.MockLedger{}
	mockFreshness(led)
	led.On("SubmitAndConfirm", mock.Anything, mock.MatchedBy(func(b types.Batch) bool {
		return len(b.Instructions) == 2 &&
			b.Instructions[0].Recipient == "owner1" &&
			b.Instructions[1].Recipient == "owner2" &&
			b.Instructions[0].Lamports == 5000
	}), mock.Anything, mock.Anything, mock.Anything).Return("sig1", nil)

	m := newTestManager(t, led)
	recipients := []types.Recipient{
		{Owner: "owner1", Address: "tokenacct1"},
		{Owner: "owner2", Address: "tokenacct2"},
	}
	outcomes, err := m.Execute(context.Background(), recipients, 5000)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Fulfilled())
}

func TestRunInterruptedContextStillProducesAllOutcomes(t *testing.T) {
	led := &mocks.MockLedger{}
	mockFreshness(led)
	led.On("SubmitAndConfirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("sig1", nil).Once()

	m := newTestManager(t, led)
	m.sleep = func(ctx context.Context, d time.Duration) error { return context.Canceled }

	batches, err := SplitBatches(makeInstructions(10), 5)
	require.NoError(t, err)

	outcomes := m.Run(context.Background(), batches)
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].Fulfilled())
	require.False(t, outcomes[1].Fulfilled())
	assert.ErrorIs(t, outcomes[1].Err, context.Canceled)
}
