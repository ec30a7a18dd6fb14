package recipients

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCaller serves canned token-account pages and can fail a configurable
// number of calls first.
type fakeCaller struct {
	pages     [][]tokenAccount
	failFirst int
	calls     int
}

func (f *fakeCaller) RPCCallForInto(ctx context.Context, out interface{}, method string, params []interface{}) error {
	f.calls++
	if f.failFirst > 0 {
		f.failFirst--
		return errors.New("indexer unavailable")
	}
	if method != "getTokenAccounts" {
		return fmt.Errorf("unexpected method %q", method)
	}
	page := params[0].(map[string]interface{})["page"].(int)
	result := out.(*tokenAccountsPage)
	result.Page = page
	if page <= len(f.pages) {
		result.TokenAccounts = f.pages[page-1]
	} else {
		result.TokenAccounts = nil
	}
	return nil
}

func newTestProvider(t *testing.T, caller rpcCaller, opts ...Option) *Provider {
	t.Helper()
	logger := logging.Logger("test")
	_ = logging.SetLogLevel("test", "FATAL")
	return NewProvider(caller, logger, opts...)
}

func TestTokenHoldersWalksAllPages(t *testing.T) {
	caller := &fakeCaller{
		pages: [][]tokenAccount{
			{
				{Address: "acct1", Owner: "owner1"},
				{Address: "acct2", Owner: "owner2"},
			},
			{
				{Address: "acct3", Owner: "owner3"},
			},
		},
	}
	provider := newTestProvider(t, caller, WithPageLimit(2), WithRetry(1, time.Millisecond))

	holders, err := provider.TokenHolders(context.Background(), "mint1")
	require.NoError(t, err)
	require.Len(t, holders, 3)
	assert.Equal(t, "owner1", holders[0].Owner)
	assert.Equal(t, "acct1", holders[0].Address)
	assert.Equal(t, "owner3", holders[2].Owner)
	assert.Equal(t, 2, caller.calls)
}

func TestTokenHoldersEmptyListing(t *testing.T) {
	provider := newTestProvider(t, &fakeCaller{}, WithPageLimit(10), WithRetry(1, time.Millisecond))

	holders, err := provider.TokenHolders(context.Background(), "mint1")
	require.NoError(t, err)
	assert.Empty(t, holders)
}

func TestTokenHoldersRetriesTransientPageFailure(t *testing.T) {
	caller := &fakeCaller{
		pages: [][]tokenAccount{
			{{Address: "acct1", Owner: "owner1"}},
		},
		failFirst: 2,
	}
	provider := newTestProvider(t, caller, WithPageLimit(5), WithRetry(3, time.Millisecond))

	holders, err := provider.TokenHolders(context.Background(), "mint1")
	require.NoError(t, err)
	require.Len(t, holders, 1)
	assert.Equal(t, 3, caller.calls)
}

func TestTokenHoldersSurfacesExhaustedRetries(t *testing.T) {
	caller := &fakeCaller{failFirst: 10}
	provider := newTestProvider(t, caller, WithPageLimit(5), WithRetry(2, time.Millisecond))

	_, err := provider.TokenHolders(context.Background(), "mint1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 1")
	assert.Equal(t, 2, caller.calls)
}
