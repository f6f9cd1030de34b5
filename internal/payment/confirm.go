package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solana-launchpad/internal/solana"
)

// Confirmer waits for a submitted transaction to reach a commitment level.
type Confirmer interface {
	// Confirm blocks until the signature is confirmed, fails on chain, or ctx ends.
	// A ctx deadline yields ErrConfirmationTimeout.
	Confirm(ctx context.Context, signature string) error
}

// PollingConfirmer polls getSignatureStatuses.
type PollingConfirmer struct {
	rpc        solana.RPCClient
	commitment string
	interval   time.Duration
}

// NewPollingConfirmer creates a confirmer polling every interval.
func NewPollingConfirmer(rpc solana.RPCClient, commitment string, interval time.Duration) *PollingConfirmer {
	if commitment == "" {
		commitment = solana.CommitmentConfirmed
	}
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &PollingConfirmer{rpc: rpc, commitment: commitment, interval: interval}
}

// Confirm implements Confirmer.
func (c *PollingConfirmer) Confirm(ctx context.Context, signature string) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	var lastErr error
	for {
		statuses, err := c.rpc.GetSignatureStatuses(ctx, []string{signature})
		switch {
		case err != nil:
			lastErr = err
		case len(statuses) > 0 && statuses[0] != nil:
			st := statuses[0]
			if st.Err != nil {
				return &TransactionFailedError{Signature: signature, Reason: st.Err}
			}
			if st.Reached(c.commitment) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("%w: last status error: %v", ErrConfirmationTimeout, lastErr)
			}
			return ErrConfirmationTimeout
		case <-ticker.C:
		}
	}
}

// WSConfirmer waits on a signatureSubscribe notification.
type WSConfirmer struct {
	ws solana.WSClient
}

// NewWSConfirmer creates a confirmer backed by a WebSocket client.
func NewWSConfirmer(ws solana.WSClient) *WSConfirmer {
	return &WSConfirmer{ws: ws}
}

// Confirm implements Confirmer.
func (c *WSConfirmer) Confirm(ctx context.Context, signature string) error {
	ch, err := c.ws.SubscribeSignature(ctx, signature)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrConfirmationTimeout
		}
		return fmt.Errorf("subscribe signature: %w", err)
	}

	select {
	case n, ok := <-ch:
		if !ok {
			return errors.New("signature subscription closed")
		}
		if n.Err != nil {
			return &TransactionFailedError{Signature: signature, Reason: n.Err}
		}
		return nil
	case <-ctx.Done():
		return ErrConfirmationTimeout
	}
}

var (
	_ Confirmer = (*PollingConfirmer)(nil)
	_ Confirmer = (*WSConfirmer)(nil)
)
