package payout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/disperse-labs/disperse/core/ledger"
	"github.com/disperse-labs/disperse/test/mocks"
)

var testSignature = strings.Repeat("4", 64)

func TestExtractSignature(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		want    string
		wantHit bool
	}{
		{
			name:    "marker with colon",
			err:     errors.New("timed out awaiting confirmation of signature: " + testSignature),
			want:    testSignature,
			wantHit: true,
		},
		{
			name:    "capitalized marker",
			err:     errors.New(`Signature "` + testSignature + `" was not confirmed in time`),
			want:    testSignature,
			wantHit: true,
		},
		{
			name: "no marker word",
			err:  errors.New("connection refused: " + testSignature),
		},
		{
			name: "token too short",
			err:  errors.New("signature: abc123"),
		},
		{
			name: "token not base58",
			err:  errors.New("signature: " + strings.Repeat("0", 64)),
		},
		{
			name: "nil error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractSignature(tc.err)
			assert.Equal(t, tc.wantHit, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReconcileClassification(t *testing.T) {
	cases := []struct {
		name       string
		commitment ledger.Commitment
		found      bool
		err        error
		want       ledger.Finality
	}{
		{"finalized", ledger.CommitmentFinalized, true, nil, ledger.FinalityFinalized},
		{"below threshold", ledger.CommitmentConfirmed, true, nil, ledger.FinalityNotFinalized},
		{"status absent", ledger.Commitment(""), false, nil, ledger.FinalityNotFinalized},
		{"lookup failed", ledger.Commitment(""), false, errors.New("rpc unavailable"), ledger.FinalityUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			led := &mocks.MockLedger{}
			led.On("SignatureStatus", mock.Anything, testSignature, true).
				Return(tc.commitment, tc.found, tc.err)

			m := newTestManager(t, led)
			got := m.reconcile(context.Background(), testSignature)
			require.Equal(t, tc.want, got)
			led.AssertExpectations(t)
		})
	}
}
