// Package solana implements the ledger client boundary over the Solana
// JSON-RPC API. Every raw RPC failure is wrapped into the closed error set
// of core/ledger at the point of call, so nothing above this package
// parses free-text errors.
package solana

import (
	"context"
	"fmt"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	logging "github.com/ipfs/go-log/v2"

	"github.com/disperse-labs/disperse/core/ledger"
	"github.com/disperse-labs/disperse/pkg/wallet"
	"github.com/disperse-labs/disperse/types"
)

// defaultPollInterval is the interval between signature status polls while
// awaiting confirmation.
const defaultPollInterval = 2 * time.Second

// Client talks to a Solana RPC node and signs with a single payer wallet.
type Client struct {
	rpc          *rpc.Client
	wallet       *wallet.Wallet
	logger       logging.EventLogger
	pollInterval time.Duration
}

var _ ledger.Ledger = (*Client)(nil)

// NewClient creates a Client against the given RPC endpoint.
func NewClient(endpoint string, w *wallet.Wallet, logger logging.EventLogger) *Client {
	return &Client{
		rpc:          rpc.New(endpoint),
		wallet:       w,
		logger:       logger,
		pollInterval: defaultPollInterval,
	}
}

// LatestBlockhash implements ledger.Ledger.
func (c *Client) LatestBlockhash(ctx context.Context) (types.Blockhash, uint64, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", 0, fmt.Errorf("getLatestBlockhash: %w", err)
	}
	return out.Value.Blockhash.String(), out.Value.LastValidBlockHeight, nil
}

// BlockHeight implements ledger.Ledger.
func (c *Client) BlockHeight(ctx context.Context) (uint64, error) {
	height, err := c.rpc.GetBlockHeight(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("getBlockHeight: %w", err)
	}
	return height, nil
}

// SubmitAndConfirm implements ledger.Ledger. It builds one transaction of
// system-program transfers, signs it with the payer wallet, sends it and
// polls until the requested commitment is reached or the blockhash's
// validity window elapses. On expiry the captured signature is returned
// together with ledger.ErrExpired.
func (c *Client) SubmitAndConfirm(ctx context.Context, batch types.Batch, blockhash types.Blockhash, lastValidHeight uint64, commitment ledger.Commitment) (types.Signature, error) {
	tx, err := c.buildTransaction(batch, blockhash)
	if err != nil {
		return "", &ledger.SubmitError{Message: err.Error()}
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: toRPCCommitment(commitment),
	})
	if err != nil {
		return "", &ledger.SubmitError{Message: err.Error()}
	}
	c.logger.Debug("transaction sent", "signature", sig.String(), "transfers", len(batch.Instructions))

	if err := c.awaitCommitment(ctx, sig, lastValidHeight, commitment); err != nil {
		return sig.String(), err
	}
	return sig.String(), nil
}

// SignatureStatus implements ledger.Ledger. A transaction that executed
// but failed on chain is reported as found with no commitment, so callers
// never mistake it for a successful payout.
func (c *Client) SignatureStatus(ctx context.Context, sig types.Signature, searchHistory bool) (ledger.Commitment, bool, error) {
	parsed, err := solanago.SignatureFromBase58(string(sig))
	if err != nil {
		return "", false, fmt.Errorf("invalid signature %q: %w", sig, err)
	}
	out, err := c.rpc.GetSignatureStatuses(ctx, searchHistory, parsed)
	if err != nil {
		return "", false, fmt.Errorf("getSignatureStatuses: %w", err)
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return "", false, nil
	}
	status := out.Value[0]
	if status.Err != nil {
		return "", true, nil
	}
	return fromConfirmationStatus(status.ConfirmationStatus), true, nil
}

func (c *Client) buildTransaction(batch types.Batch, blockhash types.Blockhash) (*solanago.Transaction, error) {
	hash, err := solanago.HashFromBase58(string(blockhash))
	if err != nil {
		return nil, fmt.Errorf("invalid blockhash %q: %w", blockhash, err)
	}

	instructions := make([]solanago.Instruction, 0, len(batch.Instructions))
	for _, transfer := range batch.Instructions {
		recipient, err := solanago.PublicKeyFromBase58(string(transfer.Recipient))
		if err != nil {
			return nil, fmt.Errorf("invalid recipient %q: %w", transfer.Recipient, err)
		}
		instructions = append(instructions, system.NewTransferInstruction(
			transfer.Lamports,
			c.wallet.PublicKey(),
			recipient,
		).Build())
	}

	tx, err := solanago.NewTransaction(instructions, hash, solanago.TransactionPayer(c.wallet.PublicKey()))
	if err != nil {
		return nil, fmt.Errorf("building transaction: %w", err)
	}
	if err := c.wallet.Sign(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// awaitCommitment polls the signature status until the requested commitment
// is reached. Expiry is decided by block height, not wall clock: once the
// chain passes lastValidHeight without the commitment being observed, the
// transaction can no longer be included under this blockhash.
func (c *Client) awaitCommitment(ctx context.Context, sig solanago.Signature, lastValidHeight uint64, commitment ledger.Commitment) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		out, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
		if err != nil {
			c.logger.Debug("status poll failed", "signature", sig.String(), "error", err)
		} else if out != nil && len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]
			if status.Err != nil {
				return &ledger.SubmitError{Message: fmt.Sprintf("transaction failed on chain: %v", status.Err)}
			}
			if commitmentReached(status.ConfirmationStatus, commitment) {
				return nil
			}
		}

		height, err := c.rpc.GetBlockHeight(ctx, rpc.CommitmentFinalized)
		if err == nil && height > lastValidHeight {
			return ledger.ErrExpired
		}

		select {
		case <-ctx.Done():
			return &ledger.SubmitError{Message: fmt.Sprintf("confirmation interrupted: %v", ctx.Err())}
		case <-ticker.C:
		}
	}
}

func commitmentRank(c ledger.Commitment) int {
	switch c {
	case ledger.CommitmentProcessed:
		return 1
	case ledger.CommitmentConfirmed:
		return 2
	case ledger.CommitmentFinalized:
		return 3
	default:
		return 0
	}
}

func commitmentReached(status rpc.ConfirmationStatusType, want ledger.Commitment) bool {
	return commitmentRank(fromConfirmationStatus(status)) >= commitmentRank(want)
}

func toRPCCommitment(c ledger.Commitment) rpc.CommitmentType {
	switch c {
	case ledger.CommitmentProcessed:
		return rpc.CommitmentProcessed
	case ledger.CommitmentConfirmed:
		return rpc.CommitmentConfirmed
	default:
		return rpc.CommitmentFinalized
	}
}

func fromConfirmationStatus(status rpc.ConfirmationStatusType) ledger.Commitment {
	switch status {
	case rpc.ConfirmationStatusProcessed:
		return ledger.CommitmentProcessed
	case rpc.ConfirmationStatusConfirmed:
		return ledger.CommitmentConfirmed
	case rpc.ConfirmationStatusFinalized:
		return ledger.CommitmentFinalized
	default:
		return ""
	}
}
