package payout

import (
	"fmt"

	"github.com/disperse-labs/disperse/types"
)

// SplitBatches partitions instructions into batches of at most capacity
// transfers each, preserving input order. The last batch may be smaller
// than capacity.
func SplitBatches(instructions []types.TransferInstruction, capacity int) ([]types.Batch, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	batches := make([]types.Batch, 0, (len(instructions)+capacity-1)/capacity)
	for start := 0; start < len(instructions); start += capacity {
		end := min(start+capacity, len(instructions))
		batches = append(batches, types.Batch{Instructions: instructions[start:end]})
	}
	return batches, nil
}
