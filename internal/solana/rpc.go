package solana

import "context"

// RPCClient defines the Solana RPC HTTP calls used to fund and confirm payouts.
type RPCClient interface {
	// GetBalance returns the lamport balance of an address at the given commitment.
	GetBalance(ctx context.Context, address string) (uint64, error)

	// GetLatestBlockhash returns a recent blockhash for transaction construction.
	GetLatestBlockhash(ctx context.Context) (*Blockhash, error)

	// SendTransaction submits a signed, base64-encoded transaction and returns its signature.
	SendTransaction(ctx context.Context, encodedTx string) (string, error)

	// GetSignatureStatuses returns one status per signature; nil entries are unknown to the node.
	GetSignatureStatuses(ctx context.Context, signatures []string) ([]*SignatureStatus, error)
}
