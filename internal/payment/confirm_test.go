package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-launchpad/internal/solana"
	"solana-launchpad/internal/solana/stub"
)

func TestPollingConfirmer_WaitsForCommitment(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.SetStatus("sig1", &solana.SignatureStatus{Slot: 1, ConfirmationStatus: solana.CommitmentProcessed})

	c := NewPollingConfirmer(rpc, solana.CommitmentConfirmed, 5*time.Millisecond)

	go func() {
		time.Sleep(20 * time.Millisecond)
		rpc.SetStatus("sig1", &solana.SignatureStatus{Slot: 2, ConfirmationStatus: solana.CommitmentFinalized})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Confirm(ctx, "sig1"))
}

func TestPollingConfirmer_Timeout(t *testing.T) {
	rpc := stub.NewRPCClient()
	c := NewPollingConfirmer(rpc, solana.CommitmentConfirmed, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Confirm(ctx, "missing"), ErrConfirmationTimeout)
}

type fakeWS struct {
	ch chan solana.SignatureNotification
}

func (f *fakeWS) SubscribeSignature(_ context.Context, _ string) (<-chan solana.SignatureNotification, error) {
	return f.ch, nil
}

func (f *fakeWS) Close() error { return nil }

func TestWSConfirmer(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		ws := &fakeWS{ch: make(chan solana.SignatureNotification, 1)}
		ws.ch <- solana.SignatureNotification{Signature: "sig", Slot: 10}
		assert.NoError(t, NewWSConfirmer(ws).Confirm(context.Background(), "sig"))
	})

	t.Run("failed on chain", func(t *testing.T) {
		ws := &fakeWS{ch: make(chan solana.SignatureNotification, 1)}
		ws.ch <- solana.SignatureNotification{Signature: "sig", Err: "InsufficientFundsForRent"}
		var failed *TransactionFailedError
		assert.ErrorAs(t, NewWSConfirmer(ws).Confirm(context.Background(), "sig"), &failed)
	})

	t.Run("timeout", func(t *testing.T) {
		ws := &fakeWS{ch: make(chan solana.SignatureNotification)}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, NewWSConfirmer(ws).Confirm(ctx, "sig"), ErrConfirmationTimeout)
	})

	t.Run("closed", func(t *testing.T) {
		ws := &fakeWS{ch: make(chan solana.SignatureNotification)}
		close(ws.ch)
		assert.Error(t, NewWSConfirmer(ws).Confirm(context.Background(), "sig"))
	})
}
