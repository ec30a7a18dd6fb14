package payout

import (
	"context"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/disperse-labs/disperse/core/ledger"
	"github.com/disperse-labs/disperse/pkg/config"
	"github.com/disperse-labs/disperse/types"
)

const (
	// defaultRetryDelay is used only if RetryDelay is not configured.
	defaultRetryDelay = 1 * time.Second

	// defaultBatchDelay is used only if BatchDelay is not configured.
	defaultBatchDelay = 1 * time.Second
)

// Manager drives batches of transfers through submission, finality
// reconciliation and bounded retries against the ledger network.
type Manager struct {
	ledger  ledger.Ledger
	config  config.PayoutConfig
	logger  logging.EventLogger
	metrics *Metrics

	// sleep is swapped out in tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewManager creates a Manager submitting through l. Zero values in cfg
// fall back to defaults.
func NewManager(l ledger.Ledger, cfg config.PayoutConfig, logger logging.EventLogger, metrics *Metrics) *Manager {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = config.DefaultBatchSize
		logger.Info("using default batch size", "batchSize", cfg.BatchSize)
	}
	if cfg.RetryDelay.Duration == 0 {
		cfg.RetryDelay.Duration = defaultRetryDelay
		logger.Info("using default retry delay", "retryDelay", cfg.RetryDelay.Duration)
	}
	if cfg.BatchDelay.Duration == 0 {
		cfg.BatchDelay.Duration = defaultBatchDelay
		logger.Info("using default batch delay", "batchDelay", cfg.BatchDelay.Duration)
	}
	if cfg.Commitment == "" {
		cfg.Commitment = string(ledger.CommitmentFinalized)
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &Manager{
		ledger:  l,
		config:  cfg,
		logger:  logger,
		metrics: metrics,
		sleep:   sleepCtx,
	}
}

// Execute distributes lamports to every recipient's owner wallet: it maps
// the recipient list to transfer instructions, splits them into batches and
// runs the batches to completion. The returned outcomes match the batch
// order.
func (m *Manager) Execute(ctx context.Context, recipients []types.Recipient, lamports uint64) ([]types.Outcome, error) {
	instructions := make([]types.TransferInstruction, len(recipients))
	for i, r := range recipients {
		instructions[i] = types.TransferInstruction{Recipient: r.Owner, Lamports: lamports}
	}
	batches, err := SplitBatches(instructions, m.config.BatchSize)
	if err != nil {
		return nil, err
	}
	m.logger.Info("starting payout run",
		"recipients", len(recipients),
		"batches", len(batches),
		"lamportsPerRecipient", lamports,
	)
	return m.Run(ctx, batches), nil
}

// Run submits batches strictly sequentially, waiting the configured delay
// between consecutive batches. It always returns one outcome per batch, in
// input order; a failed batch never aborts the remainder of the run.
func (m *Manager) Run(ctx context.Context, batches []types.Batch) []types.Outcome {
	outcomes := make([]types.Outcome, 0, len(batches))
	for i, batch := range batches {
		if i > 0 {
			if err := m.sleep(ctx, m.config.BatchDelay.Duration); err != nil {
				m.logger.Error("payout run interrupted", "batch", i, "error", err)
				outcomes = append(outcomes, types.Outcome{Err: err})
				m.metrics.BatchesRejected.Add(1)
				continue
			}
		}

		outcome := m.submitBatch(ctx, batch)
		if outcome.Fulfilled() {
			m.metrics.BatchesFulfilled.Add(1)
		} else {
			m.metrics.BatchesRejected.Add(1)
			m.logger.Error("batch permanently failed",
				"batch", i,
				"transfers", len(batch.Instructions),
				"error", outcome.Err,
			)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
