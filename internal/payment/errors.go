package payment

import (
	"errors"
	"fmt"
)

// ErrConfirmationTimeout is returned when a submitted transaction was not seen
// at the required commitment before the deadline.
var ErrConfirmationTimeout = errors.New("payment confirmation timed out")

// UnconfirmedError reports a transaction that may have landed.
// The signature identifies it for reconciliation; the payer must assume funds moved.
type UnconfirmedError struct {
	Signature string
	Err       error
}

func (e *UnconfirmedError) Error() string {
	return fmt.Sprintf("payment %s unconfirmed: %v", e.Signature, e.Err)
}

func (e *UnconfirmedError) Unwrap() error {
	return e.Err
}

// TransactionFailedError reports a transaction that was executed and rejected on chain.
type TransactionFailedError struct {
	Signature string
	Reason    interface{}
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("payment %s failed on chain: %v", e.Signature, e.Reason)
}

// IsUnconfirmed reports whether err carries an unconfirmed payment and returns its signature.
func IsUnconfirmed(err error) (string, bool) {
	var ue *UnconfirmedError
	if errors.As(err, &ue) {
		return ue.Signature, true
	}
	return "", false
}
