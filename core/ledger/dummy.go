package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/disperse-labs/disperse/types"
)

// DummyLedger is a simple in-memory implementation of the Ledger interface
// for testing and dry runs. Every accepted submission is immediately
// recorded at the requested commitment.
type DummyLedger struct {
	mu       sync.RWMutex
	statuses map[types.Signature]Commitment
	seq      uint64

	// Height simulation.
	currentHeight uint64
	validWindow   uint64
	blockTime     time.Duration
	stopCh        chan struct{}

	// SubmitFailures, when positive, makes that many SubmitAndConfirm
	// calls fail with a SubmitError before the next call succeeds.
	SubmitFailures int
}

// NewDummyLedger creates a new instance of DummyLedger advancing one block
// every blockTime. Blockhashes stay valid for validWindow blocks.
func NewDummyLedger(validWindow uint64, blockTime time.Duration) *DummyLedger {
	return &DummyLedger{
		statuses:    make(map[types.Signature]Commitment),
		validWindow: validWindow,
		blockTime:   blockTime,
		stopCh:      make(chan struct{}),
	}
}

// StartHeightTicker starts a goroutine that increments the current height
// every blockTime.
func (d *DummyLedger) StartHeightTicker() {
	go func() {
		ticker := time.NewTicker(d.blockTime)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d.mu.Lock()
				d.currentHeight++
				d.mu.Unlock()
			case <-d.stopCh:
				return
			}
		}
	}()
}

// StopHeightTicker stops the height ticker goroutine.
func (d *DummyLedger) StopHeightTicker() {
	close(d.stopCh)
}

// LatestBlockhash implements Ledger.
func (d *DummyLedger) LatestBlockhash(_ context.Context) (types.Blockhash, uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	return fmt.Sprintf("dummyhash%d", d.seq), d.currentHeight + d.validWindow, nil
}

// BlockHeight implements Ledger.
func (d *DummyLedger) BlockHeight(_ context.Context) (uint64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.currentHeight, nil
}

// SubmitAndConfirm implements Ledger.
func (d *DummyLedger) SubmitAndConfirm(_ context.Context, _ types.Batch, _ types.Blockhash, _ uint64, commitment Commitment) (types.Signature, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.SubmitFailures > 0 {
		d.SubmitFailures--
		return "", &SubmitError{Message: "dummy ledger rejected submission"}
	}
	d.seq++
	sig := fmt.Sprintf("dummysig%d", d.seq)
	d.statuses[sig] = commitment
	return sig, nil
}

// SignatureStatus implements Ledger.
func (d *DummyLedger) SignatureStatus(_ context.Context, sig types.Signature, _ bool) (Commitment, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	commitment, ok := d.statuses[sig]
	return commitment, ok, nil
}
