package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/observability"
	"solana-launchpad/internal/payment"
)

// Claim pays out everything the beneficiary may claim on this surface.
//
// Expected rejections are returned as a ClaimResult with a nil error. A non-nil error
// with a nil result is an infrastructure failure before any money moved. The only
// case returning both is OutcomeRecordingFailure, whose error is a *RecordingError.
func (l *Ledger) Claim(ctx context.Context, req ClaimRequest) (res *ClaimResult, err error) {
	start := time.Now()
	defer func() {
		if res != nil {
			observability.RecordClaim(l.surface.Name, string(res.Outcome), time.Since(start).Seconds())
		}
	}()

	res = &ClaimResult{Surface: l.surface.Name}

	who, err := ParseBeneficiary(req.Beneficiary)
	if err != nil {
		return l.reject(res, OutcomeInvalidInput, err.Error()), nil
	}
	res.Beneficiary = who.Key

	payout := req.PayoutAddress
	if payout == "" && who.Kind == KindWallet {
		payout = who.Key
	}
	if !IsWallet(payout) {
		return l.reject(res, OutcomeInvalidInput, fmt.Sprintf("%s: %q", ErrInvalidPayoutAddress, payout)), nil
	}
	res.PayoutAddress = payout

	scope, err := l.ResolveScope(ctx, who.Key)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return l.reject(res, OutcomeInvalidInput, "no tokens found for beneficiary"), nil
	}

	// Fast rejection before touching the lock.
	cd, err := l.CheckCooldown(ctx, who.Key)
	if err != nil {
		return nil, err
	}
	if !cd.CanClaim {
		return l.rateLimited(res, cd), nil
	}

	bal, err := l.ComputeClaimable(ctx, who.Key, scope)
	if err != nil {
		return nil, err
	}
	res.Balance = bal
	if l.belowMinimum(bal.Claimable) {
		return l.reject(res, OutcomeBelowMinimum,
			fmt.Sprintf("claimable %s SOL is below the minimum of %s SOL", bal.Claimable, l.surface.MinClaim)), nil
	}

	acquiredAt := time.Now()
	owner, ok, err := l.AcquireLock(ctx, who.Key, scope)
	if err != nil {
		return nil, err
	}
	if !ok {
		observability.RecordLockContention(l.surface.Name)
		return l.reject(res, OutcomeLocked, "another claim for this beneficiary or its tokens is in progress"), nil
	}
	defer l.ReleaseLock(ctx, who.Key, scope, owner)

	// Authoritative check under the lock.
	bal, err = l.ComputeClaimable(ctx, who.Key, scope)
	if err != nil {
		return nil, err
	}
	res.Balance = bal
	if l.belowMinimum(bal.Claimable) {
		return l.reject(res, OutcomeNothingLeft, "a concurrent claim already paid out the balance"), nil
	}
	cd, err = l.CheckCooldown(ctx, who.Key)
	if err != nil {
		return nil, err
	}
	if !cd.CanClaim {
		return l.rateLimited(res, cd), nil
	}

	amount := bal.Claimable
	res.Amount = amount
	shares := Split(amount, bal.Tokens)

	// Past this point the payment runs to completion regardless of the caller, but
	// must finish inside the lock's payment window.
	ctx = context.WithoutCancel(ctx)
	payCtx, cancel := context.WithDeadline(ctx, acquiredAt.Add(l.surface.PaymentWindow()))
	defer cancel()
	log := l.logger.With(
		zap.String("beneficiary", who.Key),
		zap.String("payout_address", payout),
		zap.String("amount_sol", amount.String()),
	)

	sig, err := l.ExecutePayment(payCtx, payout, amount)
	if err != nil {
		return l.paymentFailed(ctx, log, res, shares, sig, err)
	}
	res.Signature = sig

	records, err := l.RecordDistribution(ctx, who.Key, sig, domain.DistributionStatusCompleted, shares)
	if err != nil {
		return l.recordingFailed(log, res, domain.DistributionStatusCompleted, err)
	}

	res.Outcome = OutcomeCompleted
	res.Distributions = len(records)
	amountF, _ := amount.Float64()
	observability.RecordClaimPaid(l.surface.Name, amountF, l.now().Unix())
	log.Info("claim completed",
		zap.String("signature", sig),
		zap.Int("tokens", len(records)),
		zap.Bool("capped", bal.Capped()),
	)
	return res, nil
}

func (l *Ledger) belowMinimum(claimable decimal.Decimal) bool {
	return !claimable.IsPositive() || claimable.LessThan(l.surface.MinClaim)
}

func (l *Ledger) reject(res *ClaimResult, outcome Outcome, reason string) *ClaimResult {
	res.Outcome = outcome
	res.Reason = reason
	l.logger.Info("claim rejected",
		zap.String("beneficiary", res.Beneficiary),
		zap.String("outcome", string(outcome)),
		zap.String("reason", reason),
	)
	return res
}

func (l *Ledger) rateLimited(res *ClaimResult, cd CooldownStatus) *ClaimResult {
	res.RemainingSeconds = cd.RemainingSeconds
	res.NextClaimAt = cd.NextClaimAt
	return l.reject(res, OutcomeRateLimited,
		fmt.Sprintf("claim cooldown active, next claim at %s", cd.NextClaimAt.UTC().Format(time.RFC3339)))
}

func (l *Ledger) paymentFailed(ctx context.Context, log *zap.Logger, res *ClaimResult, shares []TokenShare, sig string, err error) (*ClaimResult, error) {
	res.Outcome = OutcomeFailed
	res.Reason = err.Error()

	if errors.Is(err, ErrInsufficientFunds) {
		res.Outcome = OutcomeInsufficientFunds
		log.Error("funding wallet cannot cover claim", zap.Error(err))
		return res, nil
	}

	if pending, ok := payment.IsUnconfirmed(err); ok {
		res.Signature = pending
		observability.RecordUnconfirmedPayment(l.surface.Name)
		records, recErr := l.RecordDistribution(ctx, res.Beneficiary, pending, domain.DistributionStatusPending, shares)
		if recErr != nil {
			return l.recordingFailed(log, res, domain.DistributionStatusPending, recErr)
		}
		res.Distributions = len(records)
		res.Reason = "payment submitted but not confirmed; recorded as pending until reconciled"
		log.Error("payment unconfirmed", zap.String("signature", pending), zap.Error(err))
		return res, nil
	}

	var onChain *payment.TransactionFailedError
	if errors.As(err, &onChain) {
		res.Signature = onChain.Signature
		if _, recErr := l.RecordDistribution(ctx, res.Beneficiary, onChain.Signature, domain.DistributionStatusFailed, shares); recErr != nil {
			log.Warn("record failed payment", zap.String("signature", onChain.Signature), zap.Error(recErr))
		}
	} else if sig != "" {
		res.Signature = sig
	}

	log.Error("payment failed", zap.String("signature", res.Signature), zap.Error(err))
	return res, nil
}

func (l *Ledger) recordingFailed(log *zap.Logger, res *ClaimResult, status string, err error) (*ClaimResult, error) {
	res.Outcome = OutcomeRecordingFailure
	recErr := &RecordingError{
		Surface:     l.surface.Name,
		Beneficiary: res.Beneficiary,
		Signature:   res.Signature,
		Amount:      res.Amount,
		Status:      status,
		Err:         err,
	}
	res.Reason = recErr.Error()

	observability.RecordRecordingFailure(l.surface.Name)
	log.Error("payment sent but distribution not recorded",
		zap.String("severity", "critical"),
		zap.Bool("reconciliation_required", true),
		zap.String("signature", res.Signature),
		zap.String("status", status),
		zap.Error(err),
	)
	return res, recErr
}
