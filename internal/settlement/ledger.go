// Package settlement computes claimable creator fees and pays them out.
//
// A claim runs under a per-beneficiary lock held across payment and recording.
// The claimable balance is computed once before the lock for fast rejection and
// again after it; only the second result is authoritative.
package settlement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solana-launchpad/internal/storage"
)

// Surface is the configuration of one product surface.
type Surface struct {
	Name          string
	CreatorShare  decimal.Decimal // fraction of collected fees owed to the creator, in (0, 1]
	MinClaim      decimal.Decimal // claims below this are rejected
	MaxClaim      decimal.Decimal // single-claim ceiling; zero disables it
	Cooldown      time.Duration   // gap enforced between completed claims
	LockDuration  time.Duration   // lock lifetime
	ReserveBuffer decimal.Decimal // SOL kept back in the funding wallet
}

// Validate checks the surface configuration.
func (s Surface) Validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidSurface)
	case !s.CreatorShare.IsPositive() || s.CreatorShare.GreaterThan(decimal.NewFromInt(1)):
		return fmt.Errorf("%w: %s: creator share must be in (0, 1]", ErrInvalidSurface, s.Name)
	case s.MinClaim.IsNegative():
		return fmt.Errorf("%w: %s: minimum claim must not be negative", ErrInvalidSurface, s.Name)
	case s.MaxClaim.IsNegative():
		return fmt.Errorf("%w: %s: maximum claim must not be negative", ErrInvalidSurface, s.Name)
	case s.MaxClaim.IsPositive() && s.MaxClaim.LessThan(s.MinClaim):
		return fmt.Errorf("%w: %s: maximum claim below minimum", ErrInvalidSurface, s.Name)
	case s.Cooldown < 0:
		return fmt.Errorf("%w: %s: cooldown must not be negative", ErrInvalidSurface, s.Name)
	case s.LockDuration <= 0:
		return fmt.Errorf("%w: %s: lock duration must be positive", ErrInvalidSurface, s.Name)
	case s.ReserveBuffer.IsNegative():
		return fmt.Errorf("%w: %s: reserve buffer must not be negative", ErrInvalidSurface, s.Name)
	}
	return nil
}

// maxRecordingReserve bounds the slice of the lock lifetime kept back for
// writing distribution rows after the payment.
const maxRecordingReserve = 10 * time.Second

// PaymentWindow is how long after taking the claim lock a payment may still be
// started or awaited. The rest of LockDuration is left for recording.
func (s Surface) PaymentWindow() time.Duration {
	return s.LockDuration - min(s.LockDuration/4, maxRecordingReserve)
}

// Stores groups the ledger's storage dependencies.
// FeeClaims, Distributions and Tokens are per surface; Locks may be shared.
type Stores struct {
	FeeClaims     storage.FeeClaimStore
	Distributions storage.DistributionStore
	Tokens        storage.TokenScopeStore
	Locks         storage.LockStore
}

// Ledger settles creator fee claims for one surface.
type Ledger struct {
	surface       Surface
	feeClaims     storage.FeeClaimStore
	distributions storage.DistributionStore
	tokens        storage.TokenScopeStore
	locks         storage.LockStore
	payer         PaymentExecutor

	now      func() time.Time
	newOwner func() string
	logger   *zap.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source used for cooldowns and record timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithLogger sets the ledger logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// New creates a ledger for surface.
func New(surface Surface, stores Stores, payer PaymentExecutor, opts ...Option) (*Ledger, error) {
	if err := surface.Validate(); err != nil {
		return nil, err
	}
	if stores.FeeClaims == nil || stores.Distributions == nil || stores.Tokens == nil || stores.Locks == nil {
		return nil, fmt.Errorf("%w: %s: all stores are required", ErrInvalidSurface, surface.Name)
	}
	if payer == nil {
		return nil, fmt.Errorf("%w: %s: payment executor is required", ErrInvalidSurface, surface.Name)
	}

	l := &Ledger{
		surface:       surface,
		feeClaims:     stores.FeeClaims,
		distributions: stores.Distributions,
		tokens:        stores.Tokens,
		locks:         stores.Locks,
		payer:         payer,
		now:           time.Now,
		newOwner:      uuid.NewString,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.Named("settlement").With(zap.String("surface", surface.Name))
	return l, nil
}

// Surface returns the ledger's surface configuration.
func (l *Ledger) Surface() Surface {
	return l.surface
}

func (l *Ledger) lockKey(beneficiary string) string {
	return l.surface.Name + ":" + beneficiary
}

func (l *Ledger) tokenLockKey(tokenID string) string {
	return l.surface.Name + ":token:" + tokenID
}
