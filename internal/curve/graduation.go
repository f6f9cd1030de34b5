package curve

import (
	"github.com/shopspring/decimal"

	"solana-launchpad/internal/domain"
)

// Progress reports how close a market is to graduating off the curve.
// A non-positive threshold means graduation is disabled and progress is always zero.
func Progress(r domain.ReserveSnapshot, thresholdSol decimal.Decimal) domain.Graduation {
	g := domain.Graduation{
		ThresholdSol: thresholdSol,
		ProgressPct:  decimal.Zero,
		RemainingSol: decimal.Zero,
	}
	if thresholdSol.Sign() <= 0 {
		return g
	}

	if r.RealSolReserves.GreaterThanOrEqual(thresholdSol) {
		g.ProgressPct = hundred
		g.Graduated = true
		return g
	}

	g.ProgressPct = r.RealSolReserves.Mul(hundred).DivRound(thresholdSol, ImpactScale)
	g.RemainingSol = thresholdSol.Sub(r.RealSolReserves)
	return g
}

// Apply returns the snapshot after the quoted trade is executed.
func Apply(r domain.ReserveSnapshot, q domain.Quote) domain.ReserveSnapshot {
	next := r
	switch q.Side {
	case domain.SideBuy:
		next.RealSolReserves = r.RealSolReserves.Add(q.InputAmount)
		next.RealTokenReserves = r.RealTokenReserves.Add(q.OutputAmount)
	case domain.SideSell:
		next.RealSolReserves = r.RealSolReserves.Sub(q.OutputAmount)
		next.RealTokenReserves = r.RealTokenReserves.Sub(q.InputAmount)
	}
	return next
}
