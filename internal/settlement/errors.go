package settlement

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidBeneficiary is returned for a malformed wallet or handle.
	ErrInvalidBeneficiary = errors.New("invalid beneficiary")

	// ErrInvalidPayoutAddress is returned when no valid wallet can receive the payout.
	ErrInvalidPayoutAddress = errors.New("invalid payout address")

	// ErrInsufficientFunds is returned when the funding wallet cannot cover amount plus reserve.
	ErrInsufficientFunds = errors.New("insufficient funds in funding wallet")

	// ErrDistributionRecording marks a payment that was sent but not recorded.
	ErrDistributionRecording = errors.New("distribution recording failed")

	// ErrPaymentWindowElapsed is returned when the claim lock is too close to expiry
	// to start a transfer. Nothing was sent.
	ErrPaymentWindowElapsed = errors.New("payment window elapsed before transfer")

	// ErrInvalidSurface is returned for an unusable surface configuration.
	ErrInvalidSurface = errors.New("invalid surface config")
)

// RecordingError reports a payment whose distribution rows could not be written.
// The ledger and the chain disagree until an operator reconciles Signature.
type RecordingError struct {
	Surface     string
	Beneficiary string
	Signature   string
	Amount      decimal.Decimal
	Status      string
	Err         error
}

func (e *RecordingError) Error() string {
	return fmt.Sprintf("%s: surface=%s beneficiary=%s signature=%s amount=%s status=%s: %v",
		ErrDistributionRecording, e.Surface, e.Beneficiary, e.Signature, e.Amount, e.Status, e.Err)
}

func (e *RecordingError) Unwrap() []error {
	return []error{ErrDistributionRecording, e.Err}
}
