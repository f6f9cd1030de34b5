// Package stub provides an in-memory payment executor for tests.
package stub

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"solana-launchpad/internal/payment"
)

// Transfer is one payment made through the stub.
type Transfer struct {
	To        string
	Amount    decimal.Decimal
	Signature string
}

// Executor moves balances between in-memory accounts.
type Executor struct {
	mu        sync.Mutex
	address   string
	balances  map[string]decimal.Decimal
	transfers []Transfer
	seq       int

	// TransferErr is returned by Transfer when set. No funds move.
	TransferErr error
	// Unconfirmed makes Transfer move funds and return *payment.UnconfirmedError.
	Unconfirmed bool
	// Gate, when non-nil, blocks Transfer until it receives or is closed.
	Gate chan struct{}
}

// NewExecutor creates a stub funded with balance SOL.
func NewExecutor(address string, balance decimal.Decimal) *Executor {
	return &Executor{
		address:  address,
		balances: map[string]decimal.Decimal{address: balance},
	}
}

// FundingAddress returns the funding wallet address.
func (e *Executor) FundingAddress() string {
	return e.address
}

// GetBalance returns the stored balance, or zero.
func (e *Executor) GetBalance(_ context.Context, address string) (decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balances[address], nil
}

// SetBalance overrides the balance of address.
func (e *Executor) SetBalance(address string, balance decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.balances[address] = balance
}

// Transfer moves amount from the funding wallet to the recipient.
func (e *Executor) Transfer(ctx context.Context, to string, amount decimal.Decimal) (string, error) {
	if e.Gate != nil {
		select {
		case <-e.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.TransferErr != nil {
		return "", e.TransferErr
	}
	if !amount.IsPositive() {
		return "", fmt.Errorf("transfer amount must be positive, got %s", amount)
	}
	if e.balances[e.address].LessThan(amount) {
		return "", errors.New("insufficient lamports")
	}

	e.seq++
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%d", e.address, to, amount, e.seq)))
	sig := base58.Encode(append(sum[:], sum[:]...))

	e.balances[e.address] = e.balances[e.address].Sub(amount)
	e.balances[to] = e.balances[to].Add(amount)
	e.transfers = append(e.transfers, Transfer{To: to, Amount: amount, Signature: sig})

	if e.Unconfirmed {
		return sig, &payment.UnconfirmedError{Signature: sig, Err: payment.ErrConfirmationTimeout}
	}
	return sig, nil
}

// Transfers returns a copy of all completed transfers.
func (e *Executor) Transfers() []Transfer {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Transfer, len(e.transfers))
	copy(out, e.transfers)
	return out
}

// TotalPaid returns the sum of all transfers to address.
func (e *Executor) TotalPaid(address string) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	total := decimal.Zero
	for _, t := range e.transfers {
		if t.To == address {
			total = total.Add(t.Amount)
		}
	}
	return total
}
