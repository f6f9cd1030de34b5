package settlement

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentExecutor moves SOL from the funding wallet to beneficiaries.
type PaymentExecutor interface {
	// FundingAddress returns the wallet payouts are sent from.
	FundingAddress() string

	// GetBalance returns the current SOL balance of address. Never cached.
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)

	// Transfer sends amount SOL to the address and returns the transaction signature.
	// A *payment.UnconfirmedError means the transfer may have landed.
	Transfer(ctx context.Context, to string, amount decimal.Decimal) (string, error)
}
