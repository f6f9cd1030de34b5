package stub

import (
	"context"
	"crypto/sha256"
	"sync"

	"github.com/mr-tron/base58"

	"solana-launchpad/internal/solana"
)

// RPCClient implements solana.RPCClient for testing.
// Submitted transactions are recorded and their statuses set by SendStatus.
type RPCClient struct {
	mu        sync.Mutex
	Balances  map[string]uint64
	Statuses  map[string]*solana.SignatureStatus
	Sent      []string // encoded transactions in submission order
	SendErr   error    // returned by SendTransaction when set
	BlockHash string

	// SendStatus is assigned to every submitted signature. Nil leaves it unknown.
	SendStatus *solana.SignatureStatus
}

// NewRPCClient creates a new stub RPC client that confirms every submission.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Balances:   make(map[string]uint64),
		Statuses:   make(map[string]*solana.SignatureStatus),
		BlockHash:  "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
		SendStatus: &solana.SignatureStatus{Slot: 1, ConfirmationStatus: solana.CommitmentConfirmed},
	}
}

// GetBalance returns the stored balance, or zero.
func (c *RPCClient) GetBalance(_ context.Context, address string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Balances[address], nil
}

// GetLatestBlockhash returns BlockHash.
func (c *RPCClient) GetLatestBlockhash(_ context.Context) (*solana.Blockhash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &solana.Blockhash{Hash: c.BlockHash, LastValidBlockHeight: 1000}, nil
}

// SendTransaction records the transaction and returns a signature derived from its bytes.
func (c *RPCClient) SendTransaction(_ context.Context, encodedTx string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.SendErr != nil {
		return "", c.SendErr
	}

	sum := sha256.Sum256([]byte(encodedTx))
	sig := base58.Encode(append(sum[:], sum[:]...))
	c.Sent = append(c.Sent, encodedTx)
	if c.SendStatus != nil {
		status := *c.SendStatus
		c.Statuses[sig] = &status
	}
	return sig, nil
}

// GetSignatureStatuses returns stored statuses; unknown signatures are nil.
func (c *RPCClient) GetSignatureStatuses(_ context.Context, signatures []string) ([]*solana.SignatureStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*solana.SignatureStatus, len(signatures))
	for i, sig := range signatures {
		if st, ok := c.Statuses[sig]; ok {
			copy := *st
			out[i] = &copy
		}
	}
	return out, nil
}

// SetStatus overrides the status for a signature.
func (c *RPCClient) SetStatus(signature string, status *solana.SignatureStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Statuses[signature] = status
}

// SentCount returns the number of submitted transactions.
func (c *RPCClient) SentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Sent)
}

var _ solana.RPCClient = (*RPCClient)(nil)
