package curve

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"solana-launchpad/internal/domain"
)

// ErrInvalidInput is returned by the validators for amounts or reserves the engine cannot price.
var ErrInvalidInput = errors.New("invalid input")

// ValidateAmount rejects negative amounts and amounts finer than lamport granularity.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	if !amount.Equal(amount.Truncate(domain.AmountScale)) {
		return fmt.Errorf("%w: amount has more than %d decimal places", ErrInvalidInput, domain.AmountScale)
	}
	return nil
}

// ValidateReserves checks that both effective reserves are strictly positive
// and that no component is negative.
func ValidateReserves(r domain.ReserveSnapshot) error {
	if r.VirtualSolReserves.Sign() < 0 || r.VirtualTokenReserves.Sign() < 0 ||
		r.RealSolReserves.Sign() < 0 || r.RealTokenReserves.Sign() < 0 {
		return fmt.Errorf("%w: reserves must not be negative", ErrInvalidInput)
	}
	if r.EffectiveSol().Sign() <= 0 {
		return fmt.Errorf("%w: effective SOL reserves must be positive", ErrInvalidInput)
	}
	if r.EffectiveToken().Sign() <= 0 {
		return fmt.Errorf("%w: effective token reserves must be positive", ErrInvalidInput)
	}
	return nil
}

// ValidateSell additionally rejects sells larger than the tokens the curve has released.
func ValidateSell(tokensIn decimal.Decimal, r domain.ReserveSnapshot) error {
	if err := ValidateAmount(tokensIn); err != nil {
		return err
	}
	if tokensIn.GreaterThan(r.RealTokenReserves) {
		return fmt.Errorf("%w: sell of %s exceeds %s circulating tokens", ErrInvalidInput, tokensIn, r.RealTokenReserves)
	}
	return nil
}
