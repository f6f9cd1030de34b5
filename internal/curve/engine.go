// Package curve prices trades on a constant-product bonding curve with virtual reserves.
//
// All functions are pure. They trust their inputs: callers validate amounts and reserves
// with ValidateAmount and ValidateReserves before quoting.
//
// Amounts are kept at domain.AmountScale (9) decimal places. Division results that feed
// reserves are rounded up so the pool never gives out more than the curve allows: the
// product effectiveSol*effectiveToken after a trade is always >= the product before it,
// and exceeds it by at most one unit of the last decimal place times the other reserve.
package curve

import (
	"github.com/shopspring/decimal"

	"solana-launchpad/internal/domain"
)

// PriceScale is the number of decimal places kept for prices and ratios.
const PriceScale = 18

// ImpactScale is the number of decimal places kept for price impact percentages.
const ImpactScale = 6

var hundred = decimal.NewFromInt(100)

// SpotPrice returns effectiveSol / effectiveToken.
func SpotPrice(r domain.ReserveSnapshot) decimal.Decimal {
	return r.EffectiveSol().DivRound(r.EffectiveToken(), PriceScale)
}

// QuoteBuy quotes spending solIn SOL on the curve.
func QuoteBuy(solIn decimal.Decimal, r domain.ReserveSnapshot) domain.Quote {
	effSol := r.EffectiveSol()
	effToken := r.EffectiveToken()
	spot := effSol.DivRound(effToken, PriceScale)

	q := domain.Quote{
		Side:            domain.SideBuy,
		InputAmount:     solIn,
		OutputAmount:    decimal.Zero,
		SpotPriceBefore: spot,
		ExecutionPrice:  decimal.Zero,
		PriceImpactPct:  decimal.Zero,
		NewSpotPrice:    spot,
	}
	if solIn.Sign() == 0 {
		return q
	}

	k := effSol.Mul(effToken)
	newSol := effSol.Add(solIn)
	newToken := divCeil(k, newSol)
	tokensOut := effToken.Sub(newToken)
	if tokensOut.Sign() < 0 {
		tokensOut = decimal.Zero
	}

	q.OutputAmount = tokensOut
	q.NewSpotPrice = newSol.DivRound(newToken, PriceScale)
	if tokensOut.Sign() > 0 {
		q.ExecutionPrice = solIn.DivRound(tokensOut, PriceScale)
		q.PriceImpactPct = impact(q.ExecutionPrice, spot)
	}
	return q
}

// QuoteSell quotes selling tokensIn tokens back to the curve.
func QuoteSell(tokensIn decimal.Decimal, r domain.ReserveSnapshot) domain.Quote {
	effSol := r.EffectiveSol()
	effToken := r.EffectiveToken()
	spot := effSol.DivRound(effToken, PriceScale)

	q := domain.Quote{
		Side:            domain.SideSell,
		InputAmount:     tokensIn,
		OutputAmount:    decimal.Zero,
		SpotPriceBefore: spot,
		ExecutionPrice:  decimal.Zero,
		PriceImpactPct:  decimal.Zero,
		NewSpotPrice:    spot,
	}
	if tokensIn.Sign() == 0 {
		return q
	}

	k := effSol.Mul(effToken)
	newToken := effToken.Add(tokensIn)
	newSol := divCeil(k, newToken)
	solOut := effSol.Sub(newSol)
	if solOut.Sign() < 0 {
		solOut = decimal.Zero
	}

	q.OutputAmount = solOut
	q.NewSpotPrice = newSol.DivRound(newToken, PriceScale)
	q.ExecutionPrice = solOut.DivRound(tokensIn, PriceScale)
	q.PriceImpactPct = impact(q.ExecutionPrice, spot)
	return q
}

// MarketCap returns spot price * total supply, in SOL.
func MarketCap(r domain.ReserveSnapshot, totalSupply decimal.Decimal) decimal.Decimal {
	return SpotPrice(r).Mul(totalSupply).RoundDown(domain.AmountScale)
}

// impact returns |exec - spot| / spot * 100.
func impact(exec, spot decimal.Decimal) decimal.Decimal {
	if spot.Sign() == 0 {
		return decimal.Zero
	}
	return exec.Sub(spot).Abs().Mul(hundred).DivRound(spot, PriceScale).Round(ImpactScale)
}

// divCeil divides and rounds up to domain.AmountScale places.
func divCeil(num, den decimal.Decimal) decimal.Decimal {
	exact := num.DivRound(den, PriceScale)
	rounded := exact.RoundUp(domain.AmountScale)
	// RoundUp on the truncated quotient can miss a remainder beyond PriceScale.
	if rounded.Mul(den).LessThan(num) {
		rounded = rounded.Add(decimal.New(1, -domain.AmountScale))
	}
	return rounded
}
