package domain

import "github.com/shopspring/decimal"

// CurvePoint is one observation of a bonding-curve market.
// Corresponds to curve_points table in ClickHouse.
type CurvePoint struct {
	TokenID        string          // token market identifier
	TimestampMs    int64           // observation time (ms)
	SpotPrice      decimal.Decimal // SOL per token
	EffectiveSol   decimal.Decimal // virtual + real SOL
	EffectiveToken decimal.Decimal // virtual - real tokens
	RealSol        decimal.Decimal // real SOL reserves
	MarketCapSol   decimal.Decimal // spot price * total supply
	ProgressPct    decimal.Decimal // graduation progress
}
