// Package market wraps the curve engine with input validation, graduation
// status and a price history.
package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solana-launchpad/internal/curve"
	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/lookup"
	"solana-launchpad/internal/observability"
	"solana-launchpad/internal/storage"
)

// ErrGraduated is returned when quoting a market that has left the curve.
var ErrGraduated = errors.New("market has graduated")

// Config holds market-wide curve parameters.
type Config struct {
	GraduationThresholdSol decimal.Decimal // real SOL at which a market graduates; zero disables
	TotalSupply            decimal.Decimal // token supply used for market cap
}

// QuoteResult is a quote with the market's graduation state around it.
type QuoteResult struct {
	Quote         domain.Quote
	MinimumOutput decimal.Decimal // output floor for the requested slippage
	ReservesAfter domain.ReserveSnapshot
	Before        domain.Graduation
	After         domain.Graduation
	WouldGraduate bool // the trade crosses the graduation threshold
}

// Service quotes trades and records curve observations.
type Service struct {
	cfg    Config
	points storage.CurvePointStore
	logger *zap.Logger
}

// NewService creates a market service. points may be nil when history is not kept.
func NewService(cfg Config, points storage.CurvePointStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, points: points, logger: logger.Named("market")}
}

// Quote validates the request and prices it on the curve.
func (s *Service) Quote(side string, amount decimal.Decimal, r domain.ReserveSnapshot, slippageBps int64) (*QuoteResult, error) {
	if err := curve.ValidateReserves(r); err != nil {
		return nil, err
	}
	if slippageBps < 0 || slippageBps > 10_000 {
		return nil, fmt.Errorf("%w: slippage must be between 0 and 10000 bps", curve.ErrInvalidInput)
	}

	before := curve.Progress(r, s.cfg.GraduationThresholdSol)
	if before.Graduated {
		return nil, ErrGraduated
	}

	var q domain.Quote
	switch side {
	case domain.SideBuy:
		if err := curve.ValidateAmount(amount); err != nil {
			return nil, err
		}
		q = curve.QuoteBuy(amount, r)
	case domain.SideSell:
		if err := curve.ValidateSell(amount, r); err != nil {
			return nil, err
		}
		q = curve.QuoteSell(amount, r)
	default:
		return nil, fmt.Errorf("%w: unknown side %q", curve.ErrInvalidInput, side)
	}
	observability.RecordQuote(side)

	next := curve.Apply(r, q)
	after := curve.Progress(next, s.cfg.GraduationThresholdSol)
	return &QuoteResult{
		Quote:         q,
		MinimumOutput: q.MinimumOutput(slippageBps),
		ReservesAfter: next,
		Before:        before,
		After:         after,
		WouldGraduate: after.Graduated,
	}, nil
}

// QuoteBuy quotes spending solIn SOL.
func (s *Service) QuoteBuy(solIn decimal.Decimal, r domain.ReserveSnapshot, slippageBps int64) (*QuoteResult, error) {
	return s.Quote(domain.SideBuy, solIn, r, slippageBps)
}

// QuoteSell quotes selling tokensIn tokens.
func (s *Service) QuoteSell(tokensIn decimal.Decimal, r domain.ReserveSnapshot, slippageBps int64) (*QuoteResult, error) {
	return s.Quote(domain.SideSell, tokensIn, r, slippageBps)
}

// Observe records the market state of tokenID at the given time.
func (s *Service) Observe(ctx context.Context, tokenID string, r domain.ReserveSnapshot, at time.Time) (*domain.CurvePoint, error) {
	if tokenID == "" {
		return nil, fmt.Errorf("%w: token id is required", curve.ErrInvalidInput)
	}
	if err := curve.ValidateReserves(r); err != nil {
		return nil, err
	}
	if s.points == nil {
		return nil, errors.New("curve history is not configured")
	}

	g := curve.Progress(r, s.cfg.GraduationThresholdSol)
	p := &domain.CurvePoint{
		TokenID:        tokenID,
		TimestampMs:    at.UnixMilli(),
		SpotPrice:      curve.SpotPrice(r),
		EffectiveSol:   r.EffectiveSol(),
		EffectiveToken: r.EffectiveToken(),
		RealSol:        r.RealSolReserves,
		MarketCapSol:   curve.MarketCap(r, s.cfg.TotalSupply),
		ProgressPct:    g.ProgressPct,
	}

	if err := s.points.InsertBulk(ctx, []*domain.CurvePoint{p}); err != nil {
		return nil, fmt.Errorf("store curve point: %w", err)
	}
	observability.RecordCurvePoints(1)

	s.logger.Debug("curve observed",
		zap.String("token_id", tokenID),
		zap.String("spot_price", p.SpotPrice.String()),
		zap.String("progress_pct", p.ProgressPct.String()),
	)
	return p, nil
}

// History returns observations of tokenID within [start, end].
func (s *Service) History(ctx context.Context, tokenID string, start, end time.Time) ([]*domain.CurvePoint, error) {
	if s.points == nil {
		return nil, errors.New("curve history is not configured")
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end before start", curve.ErrInvalidInput)
	}
	return s.points.GetByTimeRange(ctx, tokenID, start.UnixMilli(), end.UnixMilli())
}

// PointAt returns the latest observation of tokenID at or before at.
func (s *Service) PointAt(ctx context.Context, tokenID string, at time.Time) (*domain.CurvePoint, error) {
	if s.points == nil {
		return nil, errors.New("curve history is not configured")
	}
	points, err := s.points.GetByTimeRange(ctx, tokenID, 0, at.UnixMilli())
	if err != nil {
		return nil, err
	}
	return lookup.PointAt(at.UnixMilli(), points)
}
