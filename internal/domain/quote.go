package domain

import "github.com/shopspring/decimal"

// Quote is the result of a bonding-curve pricing calculation. Ephemeral.
type Quote struct {
	Side            string          // "buy" | "sell"
	InputAmount     decimal.Decimal // SOL in (buy) or tokens in (sell)
	OutputAmount    decimal.Decimal // tokens out (buy) or SOL out (sell)
	SpotPriceBefore decimal.Decimal // SOL per token before the trade
	ExecutionPrice  decimal.Decimal // SOL per token paid/received; zero when output is zero
	PriceImpactPct  decimal.Decimal // |execution - spot| / spot * 100
	NewSpotPrice    decimal.Decimal // SOL per token after the trade
}

// MinimumOutput returns the output floor for the given slippage tolerance in basis points.
func (q Quote) MinimumOutput(slippageBps int64) decimal.Decimal {
	if slippageBps <= 0 {
		return q.OutputAmount
	}
	if slippageBps >= 10_000 {
		return decimal.Zero
	}
	keep := decimal.NewFromInt(10_000 - slippageBps)
	return q.OutputAmount.Mul(keep).Div(decimal.NewFromInt(10_000)).RoundDown(AmountScale)
}

// AmountScale is the number of decimal places kept for SOL and token amounts
// (1 lamport = 1e-9 SOL).
const AmountScale = 9

// Graduation describes how far a market is from migrating off the bonding curve.
type Graduation struct {
	ThresholdSol decimal.Decimal // real SOL required to graduate
	ProgressPct  decimal.Decimal // realSol / threshold * 100, capped at 100
	RemainingSol decimal.Decimal // SOL still needed; zero once graduated
	Graduated    bool
}
