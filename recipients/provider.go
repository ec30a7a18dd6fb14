// Package recipients materializes the ordered recipient list from an
// external indexing service, walking its paginated token-account listing.
package recipients

import (
	"context"
	"fmt"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/disperse-labs/disperse/pkg/retry"
	"github.com/disperse-labs/disperse/types"
)

const (
	defaultPageLimit     = 1000
	defaultRetryAttempts = 3
	defaultRetryDelay    = 2 * time.Second
)

// rpcCaller is the slice of the RPC client the pager needs. Satisfied by
// *rpc.Client from the solana-go SDK.
type rpcCaller interface {
	RPCCallForInto(ctx context.Context, out interface{}, method string, params []interface{}) error
}

// Provider retrieves token holders from an indexer RPC endpoint.
type Provider struct {
	client    rpcCaller
	logger    logging.EventLogger
	pageLimit int
	attempts  int
	delay     time.Duration
}

// Option configures a Provider.
type Option func(*Provider)

// WithPageLimit sets the number of token accounts requested per page.
func WithPageLimit(limit int) Option {
	return func(p *Provider) { p.pageLimit = limit }
}

// WithRetry sets the per-page retry budget.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(p *Provider) {
		p.attempts = attempts
		p.delay = delay
	}
}

// NewProvider creates a Provider over client.
func NewProvider(client rpcCaller, logger logging.EventLogger, opts ...Option) *Provider {
	p := &Provider{
		client:    client,
		logger:    logger,
		pageLimit: defaultPageLimit,
		attempts:  defaultRetryAttempts,
		delay:     defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type tokenAccountsPage struct {
	Total         int            `json:"total"`
	Limit         int            `json:"limit"`
	Page          int            `json:"page"`
	TokenAccounts []tokenAccount `json:"token_accounts"`
}

type tokenAccount struct {
	Address string `json:"address"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
	Amount  uint64 `json:"amount"`
}

// TokenHolders retrieves every holder of mint in the indexer's listing
// order. Pages are fetched with a bounded retry per page; an exhausted
// retry budget aborts the whole retrieval, since a partial list would
// silently drop recipients.
func (p *Provider) TokenHolders(ctx context.Context, mint types.Address) ([]types.Recipient, error) {
	var holders []types.Recipient
	for page := 1; ; page++ {
		var out tokenAccountsPage
		err := retry.Do(ctx, p.attempts, p.delay, func(ctx context.Context) error {
			return p.client.RPCCallForInto(ctx, &out, "getTokenAccounts", []interface{}{
				map[string]interface{}{
					"mint":  string(mint),
					"page":  page,
					"limit": p.pageLimit,
				},
			})
		})
		if err != nil {
			return nil, fmt.Errorf("fetching token accounts page %d: %w", page, err)
		}

		for _, account := range out.TokenAccounts {
			holders = append(holders, types.Recipient{Owner: account.Owner, Address: account.Address})
		}
		p.logger.Debug("fetched token accounts page", "page", page, "accounts", len(out.TokenAccounts))

		if len(out.TokenAccounts) < p.pageLimit {
			p.logger.Info("recipient list materialized", "holders", len(holders), "pages", page)
			return holders, nil
		}
	}
}
